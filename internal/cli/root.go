// Package cli implements the cobra front end of devenv.
//
// Every entry of the command table becomes a cobra subcommand with flag
// parsing disabled, so whatever follows the command name reaches the
// handler untouched. devenv itself is configured through devenv.yml and
// DEVENV_* environment variables rather than flags.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/devenv/internal/command"
	"github.com/mmr-tortoise/devenv/internal/model"
	"github.com/mmr-tortoise/devenv/internal/runner"
)

// Build metadata, injected from main.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// usageError marks failures that should print the usage text and exit 1.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

// App binds the command table to the process streams.
type App struct {
	Registry *command.Registry
	Stdout   io.Writer
	Stderr   io.Writer

	// LoadEnv builds the handler environment. It is called only once a
	// known command has been selected, so usage output never depends on a
	// valid configuration.
	LoadEnv func(stderr io.Writer) (*command.Env, error)

	env *command.Env
}

// NewApp returns the App used by the devenv binary.
func NewApp() *App {
	return &App{
		Registry: command.Builtins(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		LoadEnv:  loadEnv,
	}
}

// NewRootCommand creates the root command with one subcommand per table
// entry.
func (a *App) NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devenv <command> [args...]",
		Short: "Run the local development stack through docker-compose",

		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// Anything reaching the root itself is not a known command.
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{msg: fmt.Sprintf("unknown command %q", args[0])}
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return &usageError{msg: "no command given"}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(a.Stdout)
	rootCmd.SetErr(a.Stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})
	rootCmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		printUsage(c.OutOrStdout(), a.Registry)
	})
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		printUsage(c.ErrOrStderr(), a.Registry)
		return nil
	})

	for _, c := range a.Registry.Commands() {
		rootCmd.AddCommand(a.newCommand(c))
	}
	return rootCmd
}

func (a *App) newCommand(c command.Command) *cobra.Command {
	return &cobra.Command{
		Use:                synopsis(c),
		Short:              c.Short,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.loadEnv()
			if err != nil {
				return err
			}
			return c.Run(cmd.Context(), env, args)
		},
	}
}

func (a *App) loadEnv() (*command.Env, error) {
	if a.env != nil {
		return a.env, nil
	}
	env, err := a.LoadEnv(a.Stderr)
	if err != nil {
		return nil, err
	}
	a.env = env
	return env, nil
}

// Run dispatches args and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	rootCmd := a.NewRootCommand()
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)

	if a.env != nil {
		if cerr := a.env.Close(); cerr != nil && a.env.Log != nil {
			a.env.Log.WithError(cerr).Debug("closing docker client")
		}
	}
	return a.exitCode(err)
}

// exitCode reports err on stderr where needed and maps it to an exit
// status. A subprocess failure is the child's own exit status; the child
// already explained itself on the shared terminal.
func (a *App) exitCode(err error) int {
	if err == nil {
		return int(model.ExitSuccess)
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		_, _ = fmt.Fprintf(a.Stderr, "devenv: %s\n\n", usageErr.msg)
		printUsage(a.Stderr, a.Registry)
		return int(model.ExitGeneralError)
	}

	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		var procErr *exec.ExitError
		if exitErr.Err != nil && !errors.As(exitErr.Err, &procErr) {
			printError(a.Stderr, "cannot run "+exitErr.Cmd.Name, exitErr.Err)
		}
		return exitErr.Code
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(a.Stderr, cliErr.Message, cliErr.Err)
		return int(cliErr.Code)
	}

	printError(a.Stderr, err.Error(), nil)
	return int(model.ExitGeneralError)
}

func printError(w io.Writer, message string, underlying error) {
	if underlying != nil {
		_, _ = fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %s\n", message)
}

func printUsage(w io.Writer, reg *command.Registry) {
	commands := reg.Commands()
	width := 0
	for _, c := range commands {
		if n := len(synopsis(c)); n > width {
			width = n
		}
	}

	_, _ = fmt.Fprintln(w, "Usage: devenv <command> [args...]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		_, _ = fmt.Fprintf(w, "  %-*s  %s\n", width, synopsis(c), c.Short)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Arguments after the command name are passed through unchanged.")
	_, _ = fmt.Fprintln(w, "Settings come from devenv.yml and DEVENV_* environment variables.")
}

func synopsis(c command.Command) string {
	if c.Usage == "" {
		return c.Name
	}
	return c.Name + " " + c.Usage
}

// Execute runs devenv with args and returns the exit status for main.
func Execute(args []string) int {
	return NewApp().Run(context.Background(), args)
}
