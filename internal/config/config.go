package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/devenv/internal/model"
)

// EnvPrefix is the prefix of environment variables that override config keys.
const EnvPrefix = "DEVENV"

// candidateFiles lists config file names probed in the project root, in
// priority order.
var candidateFiles = []string{"devenv.yml", "devenv.yaml", "devenv.jsonc", "devenv.json"}

// Services names the compose services the dispatcher targets.
type Services struct {
	// API runs the backend and owns the Ruby dependency manager.
	API string `mapstructure:"api" yaml:"api"`

	// Front runs the front-end toolchain (node, npm, npx).
	Front string `mapstructure:"front" yaml:"front"`

	// Helper is the long-lived spring container used for rails, rake,
	// rspec, rubocop and redis-cli.
	Helper string `mapstructure:"helper" yaml:"helper"`
}

// Repository is an external repository cloned into Dir when Dir is absent.
type Repository struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
	URL string `mapstructure:"url" yaml:"url"`
}

// SampleFile is a template copied to Target when Target is absent.
type SampleFile struct {
	Template string `mapstructure:"template" yaml:"template"`
	Target   string `mapstructure:"target" yaml:"target"`
}

// Stale lists leftover runtime state removed before containers restart.
type Stale struct {
	Dirs  []string `mapstructure:"dirs" yaml:"dirs"`
	Files []string `mapstructure:"files" yaml:"files"`
}

// Config is the effective devenv configuration. Relative paths are
// resolved against Root.
type Config struct {
	// Root is the project root directory. It is not read from the file.
	Root string `mapstructure:"-" yaml:"root"`

	// File is the config file that was loaded, empty when defaults are used.
	File string `mapstructure:"-" yaml:"file,omitempty"`

	Project        string       `mapstructure:"project" yaml:"project"`
	ComposeCommand string       `mapstructure:"compose_command" yaml:"compose_command"`
	DockerCommand  string       `mapstructure:"docker_command" yaml:"docker_command"`
	GitCommand     string       `mapstructure:"git_command" yaml:"git_command"`
	LockFile       string       `mapstructure:"lock_file" yaml:"lock_file"`
	Services       Services     `mapstructure:"services" yaml:"services"`
	RedisHost      string       `mapstructure:"redis_host" yaml:"redis_host"`
	DBSetup        []string     `mapstructure:"db_setup" yaml:"db_setup"`
	Repositories   []Repository `mapstructure:"repositories" yaml:"repositories"`
	Samples        []SampleFile `mapstructure:"samples" yaml:"samples"`
	Stale          Stale        `mapstructure:"stale" yaml:"stale"`
	DryRun         bool         `mapstructure:"dry_run" yaml:"dry_run"`
	Verbose        bool         `mapstructure:"verbose" yaml:"verbose"`
	LogLevel       string       `mapstructure:"log_level" yaml:"log_level"`
}

// setDefaults registers every key with viper. Registering a default is
// also what makes AutomaticEnv apply to a key during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("project", "")
	v.SetDefault("compose_command", "docker-compose")
	v.SetDefault("docker_command", "docker")
	v.SetDefault("git_command", "git")
	v.SetDefault("lock_file", "tmp/docker-init.lock")
	v.SetDefault("services.api", "api")
	v.SetDefault("services.front", "front")
	v.SetDefault("services.helper", "spring")
	v.SetDefault("redis_host", "redis")
	v.SetDefault("db_setup", []string{"bundle", "exec", "rails", "db:setup"})
	v.SetDefault("repositories", []map[string]any{
		{"dir": "api", "url": ""},
		{"dir": "front", "url": ""},
	})
	v.SetDefault("samples", []map[string]any{
		{"template": ".env.sample", "target": ".env"},
		{"template": "docker-compose.override.yml.sample", "target": "docker-compose.override.yml"},
	})
	v.SetDefault("stale.dirs", []string{"api/tmp/pids"})
	v.SetDefault("stale.files", []string{"api/tmp/spring.pid"})
	v.SetDefault("dry_run", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "")
}

// Load builds the configuration for the project rooted at root.
//
// The config file is DEVENV_CONFIG when set (relative to root), otherwise
// the first of devenv.yml, devenv.yaml, devenv.jsonc, devenv.json found in
// root. A missing file is not an error. DEVENV_* variables override scalar
// keys from either source.
func Load(root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("cannot resolve project root %q", root), err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := findConfigFile(absRoot)
	if path != "" {
		if err := readFile(v, path); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("failed to read config file %s", path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "unable to decode configuration", err)
	}
	cfg.Root = absRoot
	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "invalid configuration", err)
	}
	return &cfg, nil
}

// findConfigFile returns the config file to load, or "" when none exists.
// An explicit DEVENV_CONFIG is returned even if it does not exist so the
// read error surfaces instead of silently falling back to defaults.
func findConfigFile(root string) string {
	if explicit := strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG")); explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(root, explicit)
		}
		return explicit
	}
	for _, name := range candidateFiles {
		candidate := filepath.Join(root, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// readFile merges a config file into v. JSON and JSONC files go through
// jsonc.ToJSON so comments and trailing commas are accepted.
func readFile(v *viper.Viper, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		v.SetConfigType("json")
		return v.ReadConfig(bytes.NewReader(jsonc.ToJSON(data)))
	default:
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}
}

// Validate checks that the keys every command relies on are present.
func (c *Config) Validate() error {
	if len(strings.Fields(c.ComposeCommand)) == 0 {
		return fmt.Errorf("compose_command must not be empty")
	}
	if len(strings.Fields(c.DockerCommand)) == 0 {
		return fmt.Errorf("docker_command must not be empty")
	}
	if strings.TrimSpace(c.GitCommand) == "" {
		return fmt.Errorf("git_command must not be empty")
	}
	if strings.TrimSpace(c.LockFile) == "" {
		return fmt.Errorf("lock_file must not be empty")
	}
	if c.Services.API == "" || c.Services.Front == "" || c.Services.Helper == "" {
		return fmt.Errorf("services.api, services.front and services.helper must be set")
	}
	for i, r := range c.Repositories {
		if strings.TrimSpace(r.Dir) == "" {
			return fmt.Errorf("repositories[%d]: dir must not be empty", i)
		}
	}
	for i, s := range c.Samples {
		if strings.TrimSpace(s.Template) == "" || strings.TrimSpace(s.Target) == "" {
			return fmt.Errorf("samples[%d]: template and target must both be set", i)
		}
	}
	return nil
}

// ComposeArgv splits compose_command so "docker compose" works as well as
// the standalone "docker-compose" binary.
func (c *Config) ComposeArgv() []string {
	return strings.Fields(c.ComposeCommand)
}

// DockerArgv splits docker_command.
func (c *Config) DockerArgv() []string {
	return strings.Fields(c.DockerCommand)
}

// Path resolves p against the project root unless it is already absolute.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// LockPath returns the absolute path of the init lock file.
func (c *Config) LockPath() string {
	return c.Path(c.LockFile)
}

// projectNameInvalid matches characters docker-compose strips from a
// directory name when deriving the default project name.
var projectNameInvalid = regexp.MustCompile(`[^-_a-z0-9]`)

// ProjectName returns the compose project name used to find the project's
// containers: the project key, then COMPOSE_PROJECT_NAME, then the root's
// base name normalized the way docker-compose does it.
func (c *Config) ProjectName() string {
	if p := strings.TrimSpace(c.Project); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv("COMPOSE_PROJECT_NAME")); p != "" {
		return p
	}
	return projectNameInvalid.ReplaceAllString(strings.ToLower(filepath.Base(c.Root)), "")
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
