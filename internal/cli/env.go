package cli

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/devenv/internal/command"
	"github.com/mmr-tortoise/devenv/internal/config"
	"github.com/mmr-tortoise/devenv/internal/model"
)

// loadEnv reads the configuration of the project rooted at DEVENV_ROOT,
// or the working directory, and wires the handler environment.
func loadEnv(stderr io.Writer) (*command.Env, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg, stderr)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"root": cfg.Root, "config": cfg.File}).Debug("configuration loaded")
	return command.NewEnv(cfg, log), nil
}

func projectRoot() (string, error) {
	if root := strings.TrimSpace(os.Getenv(config.EnvPrefix + "_ROOT")); root != "" {
		return root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", model.WrapCLIError(model.ExitConfigError, "cannot determine working directory", err)
	}
	return wd, nil
}

// newLogger builds the logger every package logs through: text with full
// timestamps on stderr, warnings and above unless verbose or log_level say
// otherwise. An explicit log_level wins over verbose.
func newLogger(cfg *config.Config, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := logrus.WarnLevel
	if cfg.Verbose {
		level = logrus.DebugLevel
	}
	if cfg.LogLevel != "" {
		parsed, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError, "invalid log_level", err)
		}
		level = parsed
	}
	log.SetLevel(level)
	return log, nil
}
