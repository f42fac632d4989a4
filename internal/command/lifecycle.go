package command

import (
	"context"
	"fmt"

	"github.com/mmr-tortoise/devenv/internal/docker"
)

// runBuild makes sure the environment is initialized and builds every
// service image.
func runBuild(ctx context.Context, env *Env, args []string) error {
	if err := ensureInitialized(ctx, env); err != nil {
		return err
	}
	return env.compose(ctx, concat([]string{"build"}, args)...)
}

// runUp initializes if needed, refreshes dependencies and runs the stack
// in the foreground, attached to the terminal.
func runUp(ctx context.Context, env *Env, args []string) error {
	if err := ensureInitialized(ctx, env); err != nil {
		return err
	}
	if err := installDependencies(ctx, env); err != nil {
		return err
	}
	if err := clearStale(env); err != nil {
		return err
	}
	return env.compose(ctx, concat([]string{"up"}, args)...)
}

// runDown removes the containers and clears stale PID state.
func runDown(ctx context.Context, env *Env, args []string) error {
	err := env.compose(ctx, concat([]string{"down"}, args)...)
	return firstErr(err, clearStale(env))
}

// runStop stops the containers without removing them.
func runStop(ctx context.Context, env *Env, args []string) error {
	err := env.compose(ctx, concat([]string{"stop"}, args)...)
	return firstErr(err, clearStale(env))
}

// runClean removes containers and images but keeps volumes, so databases
// survive.
func runClean(ctx context.Context, env *Env, args []string) error {
	err := env.compose(ctx, concat([]string{"down", "--rmi", "all", "--remove-orphans"}, args)...)
	pruneImages(ctx, env)
	return firstErr(err, clearStale(env))
}

// runDestroy removes everything the stack created, volumes included, and
// forgets that the environment was initialized. The lock is removed even
// when the teardown fails, so the next build or up starts from scratch.
func runDestroy(ctx context.Context, env *Env, args []string) error {
	err := env.compose(ctx, concat([]string{"down", "--rmi", "all", "--volumes", "--remove-orphans"}, args)...)
	pruneImages(ctx, env)
	err = firstErr(err, clearLock(env))
	return firstErr(err, clearStale(env))
}

// runInit performs first-time setup: local files, a clean slate,
// dependencies and the database, then records completion in the lock.
func runInit(ctx context.Context, env *Env, args []string) error {
	if err := ensureLocalFiles(ctx, env); err != nil {
		return err
	}
	if err := runDestroy(ctx, env, nil); err != nil {
		return err
	}
	if err := installDependencies(ctx, env); err != nil {
		return err
	}
	if err := setupDatabase(ctx, env, args); err != nil {
		return err
	}
	return setLock(env)
}

// ensureInitialized runs init unless the init lock exists.
func ensureInitialized(ctx context.Context, env *Env) error {
	if env.Lock.Exists() {
		env.Log.WithField("lock", env.Lock.Path()).Debug("environment initialized, skipping init")
		return nil
	}
	env.Log.WithField("lock", env.Lock.Path()).Info("init lock missing, initializing environment")
	return runInit(ctx, env, nil)
}

// ensureLocalFiles clones missing repositories and then copies missing
// sample config files, in that order since templates may live inside a
// repository.
func ensureLocalFiles(ctx context.Context, env *Env) error {
	if _, err := env.Repos.EnsureCloned(ctx, env.Config.Repositories); err != nil {
		return err
	}
	if _, err := env.Workspace.EnsureSamples(env.Config.Samples); err != nil {
		return err
	}
	return nil
}

// installDependencies reinstalls the API's gems and the front-end's
// packages in one-off containers.
func installDependencies(ctx context.Context, env *Env) error {
	svc := env.Config.Services
	if err := env.compose(ctx, "run", "--rm", svc.API, "bundle", "install"); err != nil {
		return err
	}
	return env.compose(ctx, "run", "--rm", svc.Front, "npm", "install")
}

// setupDatabase runs the configured database setup command in a one-off
// API container. Extra init arguments are appended to it.
func setupDatabase(ctx context.Context, env *Env, args []string) error {
	if len(env.Config.DBSetup) == 0 {
		env.Log.Debug("no db_setup configured, skipping database setup")
		return nil
	}
	prefix := concat([]string{"run", "--rm", env.Config.Services.API}, env.Config.DBSetup)
	return env.compose(ctx, concat(prefix, args)...)
}

// pruneImages removes dangling images through the Engine API. It is best
// effort: a failure is logged and the calling command carries on.
func pruneImages(ctx context.Context, env *Env) {
	if env.DryRun {
		env.trace("docker image prune --force")
		return
	}
	eng, err := env.Engine()
	if err != nil {
		env.Log.WithError(err).Warn("skipping image prune")
		return
	}
	reclaimed, err := eng.PruneDanglingImages(ctx)
	if err != nil {
		env.Log.WithError(err).Warn("image prune failed")
		return
	}
	env.Log.WithField("reclaimed", docker.FormatBytes(reclaimed)).Info("pruned dangling images")
}

func clearStale(env *Env) error {
	return env.Workspace.ClearStale(env.Config.Stale)
}

func setLock(env *Env) error {
	if env.DryRun {
		env.trace("touch %s", env.Config.LockFile)
		return nil
	}
	if err := env.Lock.Set(); err != nil {
		return err
	}
	env.Log.WithField("lock", env.Lock.Path()).Info("environment initialized")
	return nil
}

func clearLock(env *Env) error {
	if env.DryRun {
		if env.Lock.Exists() {
			env.trace("rm -f %s", env.Config.LockFile)
		}
		return nil
	}
	if err := env.Lock.Clear(); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
