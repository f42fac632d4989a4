// Package command holds the command table of the devenv CLI and every
// handler in it.
//
// A handler receives the arguments that followed the command name and
// forwards them, unmodified and in order, to one fixed docker-compose,
// docker or git invocation. The only decisions handlers make on their own
// are file-existence checks: whether the init lock exists, whether the
// repositories and sample config files are present, whether stale PID state
// is lying around.
//
// Handlers live in this package and are registered by Builtins, so the cli
// package stays focused on argument parsing and exit codes.
package command
