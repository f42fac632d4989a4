// Package model defines the shared value types for the devenv CLI.
//
// This package contains pure data structures with no external dependencies.
// The only persisted state the tool knows about is the init lock file on
// disk (see internal/workspace); everything else, such as the containers
// belonging to the compose project, is reconstructed from the Docker API
// at runtime.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
