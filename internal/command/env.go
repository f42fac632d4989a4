package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/devenv/internal/config"
	"github.com/mmr-tortoise/devenv/internal/docker"
	"github.com/mmr-tortoise/devenv/internal/model"
	"github.com/mmr-tortoise/devenv/internal/repo"
	"github.com/mmr-tortoise/devenv/internal/runner"
	"github.com/mmr-tortoise/devenv/internal/workspace"
)

// Engine is the part of the Docker Engine API the handlers use.
// *docker.Client implements it.
type Engine interface {
	Ping(ctx context.Context) error
	ProjectContainers(ctx context.Context, project string) ([]model.Container, error)
	ServiceContainers(ctx context.Context, project, service string) ([]model.Container, error)
	PruneDanglingImages(ctx context.Context) (uint64, error)
	Close() error
}

// Env carries the configuration and collaborators every handler needs.
type Env struct {
	Config    *config.Config
	Runner    runner.Runner
	Workspace *workspace.Workspace
	Lock      *workspace.InitLock
	Repos     *repo.Manager
	Log       logrus.FieldLogger

	// Out receives command output (doctor, config); Err receives dry-run
	// traces.
	Out io.Writer
	Err io.Writer

	// DryRun prints mutations instead of performing them.
	DryRun bool

	// NewEngine connects to the Docker daemon. It is only called by the
	// commands that need the Engine API.
	NewEngine func() (Engine, error)

	// LookPath resolves executables for doctor.
	LookPath func(file string) (string, error)

	engine Engine
}

// NewEnv wires the default collaborators for cfg. When cfg.DryRun is set
// subprocesses and file mutations are printed to stderr instead.
func NewEnv(cfg *config.Config, log logrus.FieldLogger) *Env {
	var r runner.Runner = runner.NewExec(log)
	ws := workspace.New(cfg.Root, log)
	if cfg.DryRun {
		r = &runner.DryRun{Out: os.Stderr}
		ws.Trace = os.Stderr
	}
	return &Env{
		Config:    cfg,
		Runner:    r,
		Workspace: ws,
		Lock:      workspace.NewInitLock(cfg.LockPath()),
		Repos:     repo.NewManager(cfg.Root, cfg.GitCommand, r, log),
		Log:       log,
		Out:       os.Stdout,
		Err:       os.Stderr,
		DryRun:    cfg.DryRun,
		NewEngine: newDockerEngine,
		LookPath:  exec.LookPath,
	}
}

func newDockerEngine() (Engine, error) {
	c, err := docker.NewClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Engine returns the Docker Engine client, connecting on first use.
func (e *Env) Engine() (Engine, error) {
	if e.engine != nil {
		return e.engine, nil
	}
	eng, err := e.NewEngine()
	if err != nil {
		return nil, err
	}
	e.engine = eng
	return eng, nil
}

// Close releases the Docker client if one was opened.
func (e *Env) Close() error {
	if e.engine == nil {
		return nil
	}
	err := e.engine.Close()
	e.engine = nil
	return err
}

// compose runs the orchestration CLI from the project root.
func (e *Env) compose(ctx context.Context, args ...string) error {
	return e.Runner.Run(ctx, runner.New(e.Config.ComposeArgv(), args...).In(e.Config.Root))
}

// docker runs the container runtime CLI from the project root.
func (e *Env) docker(ctx context.Context, args ...string) error {
	return e.Runner.Run(ctx, runner.New(e.Config.DockerArgv(), args...).In(e.Config.Root))
}

// trace writes a dry-run line for an operation that is not a subprocess.
func (e *Env) trace(format string, args ...any) {
	_, _ = fmt.Fprintf(e.Err, "+ "+format+"\n", args...)
}

// concat joins a fixed argv prefix and forwarded arguments into a new slice
// so the forwarded slice is never aliased.
func concat(prefix []string, args []string) []string {
	out := make([]string, 0, len(prefix)+len(args))
	out = append(out, prefix...)
	return append(out, args...)
}
