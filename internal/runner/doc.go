// Package runner executes the external tools devenv delegates to
// (docker-compose, docker, git).
//
// Every invocation is described by a Cmd value and handed to a Runner. The
// production Exec runner inherits the terminal's stdin/stdout/stderr so
// interactive tools (rails console, docker attach, compose up) behave as if
// they were started directly. DryRun prints the command line instead of
// running it and Recorder captures invocations for tests.
package runner
