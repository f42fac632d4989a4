package command

import "context"

// Handlers in this file run a tool inside one of the stack's containers.
// Front-end tools and bundler run in one-off containers; the rails tools
// run in the long-lived helper container so spring stays warm.

func runBundle(ctx context.Context, env *Env, args []string) error {
	return env.compose(ctx, concat([]string{"run", "--rm", env.Config.Services.API, "bundle"}, args)...)
}

// frontTool returns a handler running tool in a one-off front-end container.
func frontTool(tool string) Handler {
	return func(ctx context.Context, env *Env, args []string) error {
		return env.compose(ctx, concat([]string{"run", "--rm", env.Config.Services.Front, tool}, args)...)
	}
}

// helperTool returns a handler running tool in the helper container.
func helperTool(tool string) Handler {
	return func(ctx context.Context, env *Env, args []string) error {
		return env.compose(ctx, concat([]string{"exec", env.Config.Services.Helper, tool}, args)...)
	}
}

// runRedisCLI connects redis-cli to the host given as the first argument,
// or to the configured redis_host when none is given. Remaining arguments
// go to redis-cli.
func runRedisCLI(ctx context.Context, env *Env, args []string) error {
	host := env.Config.RedisHost
	if len(args) > 0 {
		host, args = args[0], args[1:]
	}
	prefix := []string{"exec", env.Config.Services.Helper, "redis-cli", "-h", host}
	return env.compose(ctx, concat(prefix, args)...)
}

// composeSubcommand returns a handler forwarding its arguments to a compose
// subcommand, with extra fixed flags placed before them.
func composeSubcommand(sub ...string) Handler {
	return func(ctx context.Context, env *Env, args []string) error {
		return env.compose(ctx, concat(sub, args)...)
	}
}
