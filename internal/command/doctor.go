package command

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mmr-tortoise/devenv/internal/model"
)

// check is one line of the doctor report.
type check struct {
	Name   string
	OK     bool
	Detail string

	// Required marks checks whose failure makes doctor fail. Optional
	// checks describe state that init repairs on its own.
	Required bool
}

// runDoctor reports whether the host is ready to run the stack.
func runDoctor(ctx context.Context, env *Env, _ []string) error {
	checks := collectChecks(ctx, env)
	printChecks(env.Out, checks)

	failed := 0
	for _, c := range checks {
		if c.Required && !c.OK {
			failed++
		}
	}
	if failed > 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("doctor found %d problem(s)", failed))
	}
	return nil
}

func collectChecks(ctx context.Context, env *Env) []check {
	cfg := env.Config
	var checks []check

	missingRepo := false
	for _, r := range cfg.Repositories {
		if !env.Repos.Present(r) {
			missingRepo = true
		}
	}

	checks = append(checks,
		binaryCheck(env, "orchestration cli", cfg.ComposeArgv()[0], true),
		binaryCheck(env, "container cli", cfg.DockerArgv()[0], true),
		binaryCheck(env, "git", cfg.GitCommand, missingRepo),
		daemonCheck(ctx, env),
	)

	for _, r := range cfg.Repositories {
		checks = append(checks, repoCheck(env, r.Dir))
	}

	for _, s := range cfg.Samples {
		c := check{Name: "config " + s.Target, OK: env.Workspace.Exists(s.Target), Detail: "present"}
		if !c.OK {
			c.Detail = "missing, init copies " + s.Template
			// Without the template init cannot create it either.
			c.Required = !env.Workspace.Exists(s.Template)
			if c.Required {
				c.Detail = "missing, and template " + s.Template + " is missing too"
			}
		}
		checks = append(checks, c)
	}

	lock := check{Name: "init lock", OK: env.Lock.Exists(), Detail: "present"}
	if !lock.OK {
		lock.Detail = "absent, next build or up runs init"
	}
	return append(checks, lock)
}

func binaryCheck(env *Env, name, bin string, required bool) check {
	path, err := env.LookPath(bin)
	if err != nil {
		return check{Name: name, Detail: bin + " not found in PATH", Required: required}
	}
	return check{Name: name, OK: true, Detail: path, Required: required}
}

func daemonCheck(ctx context.Context, env *Env) check {
	c := check{Name: "docker daemon", Required: true}
	eng, err := env.Engine()
	if err == nil {
		err = eng.Ping(ctx)
	}
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	c.Detail = "reachable"
	return c
}

func repoCheck(env *Env, dir string) check {
	c := check{Name: "repository " + dir}
	if !env.Workspace.Exists(dir) {
		c.Detail = "missing, init clones it"
		return c
	}
	info, err := env.Repos.Inspect(dir)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	switch {
	case info.Head == "":
		c.Detail = "no commits"
	case info.Branch == "":
		c.Detail = "detached at " + info.Head[:7]
	default:
		c.Detail = info.Branch + " at " + info.Head[:7]
	}
	return c
}

func printChecks(w io.Writer, checks []check) {
	width := 0
	for _, c := range checks {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}
	for _, c := range checks {
		mark := "ok"
		switch {
		case !c.OK && c.Required:
			mark = "FAIL"
		case !c.OK:
			mark = "warn"
		}
		_, _ = fmt.Fprintf(w, "%-4s  %-*s  %s\n", mark, width, c.Name, strings.TrimSpace(c.Detail))
	}
}
