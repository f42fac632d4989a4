package command

// Builtins returns the command table of the devenv CLI.
func Builtins() *Registry {
	r := NewRegistry()

	r.Register(Command{Name: "attach", Usage: "SERVICE [OPTIONS]", Short: "Attach to the running container of a service", Run: runAttach})
	r.Register(Command{Name: "build", Short: "Initialize if needed, then build all service images", Run: runBuild})
	r.Register(Command{Name: "bundle", Usage: "[ARGS...]", Short: "Run bundler in the API container", Run: runBundle})
	r.Register(Command{Name: "clean", Short: "Remove containers and images, keep volumes", Run: runClean})
	r.Register(Command{Name: "config", Short: "Print the effective configuration", Run: runConfig})
	r.Register(Command{Name: "destroy", Short: "Remove containers, images and volumes and forget initialization", Run: runDestroy})
	r.Register(Command{Name: "doctor", Short: "Check that the host is ready to run the stack", Run: runDoctor})
	r.Register(Command{Name: "down", Short: "Remove the containers", Run: runDown})
	r.Register(Command{Name: "exec", Usage: "SERVICE COMMAND [ARGS...]", Short: "Run a command in a running container", Run: composeSubcommand("exec")})
	r.Register(Command{Name: "init", Short: "Set up the environment from scratch", Run: runInit})
	r.Register(Command{Name: "logs", Usage: "[SERVICE...]", Short: "Show container output", Run: composeSubcommand("logs")})
	r.Register(Command{Name: "ps", Short: "List the containers", Run: composeSubcommand("ps")})
	r.Register(Command{Name: "redis-cli", Usage: "[HOST] [ARGS...]", Short: "Connect redis-cli to a cache server from the helper container", Run: runRedisCLI})
	r.Register(Command{Name: "run", Usage: "SERVICE COMMAND [ARGS...]", Short: "Run a command in a one-off container", Run: composeSubcommand("run", "--rm")})
	r.Register(Command{Name: "stats", Usage: "[OPTIONS] [CONTAINER...]", Short: "Stream live resource usage of the containers", Run: runStats})
	r.Register(Command{Name: "stop", Short: "Stop the containers", Run: runStop})
	r.Register(Command{Name: "top", Usage: "[SERVICE...]", Short: "Show the processes running in each container", Run: composeSubcommand("top")})
	r.Register(Command{Name: "up", Short: "Initialize if needed and run the stack in the foreground", Run: runUp})

	for _, tool := range []string{"node", "npm", "npx"} {
		r.Register(Command{Name: tool, Usage: "[ARGS...]", Short: "Run " + tool + " in the front-end container", Run: frontTool(tool)})
	}
	for _, tool := range []string{"rails", "rake", "rspec", "rubocop"} {
		r.Register(Command{Name: tool, Usage: "[ARGS...]", Short: "Run " + tool + " in the helper container", Run: helperTool(tool)})
	}

	return r
}
