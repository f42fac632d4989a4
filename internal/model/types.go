package model

import (
	"errors"
	"fmt"
	"strings"
)

// ContainerState is the short Docker container state string as reported by
// the Engine API ("running", "exited", "created", ...).
type ContainerState string

const (
	// StateRunning indicates the container's main process is alive.
	StateRunning ContainerState = "running"

	// StateExited indicates the container stopped on its own or was stopped.
	StateExited ContainerState = "exited"

	// StateCreated indicates the container exists but was never started.
	StateCreated ContainerState = "created"
)

// String returns the string representation of ContainerState.
func (s ContainerState) String() string {
	return string(s)
}

// IsRunning reports whether the state is "running".
func (s ContainerState) IsRunning() bool {
	return s == StateRunning
}

// Container holds runtime information about a Docker container that belongs
// to the compose project. This data is fetched from the Docker API, not
// persisted.
type Container struct {
	// ID is the unique Docker container identifier.
	ID string `json:"id" yaml:"id"`

	// Name is the human-readable container name without the leading "/".
	Name string `json:"name" yaml:"name"`

	// Project is the compose project name (com.docker.compose.project).
	Project string `json:"project" yaml:"project"`

	// Service is the compose service name (com.docker.compose.service).
	Service string `json:"service" yaml:"service"`

	// State is the Docker container state.
	State ContainerState `json:"state" yaml:"state"`

	// Labels is the full set of Docker labels on the container.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ShortID returns the 12 character prefix Docker uses in its CLI output.
func (c Container) ShortID() string {
	if len(c.ID) > 12 {
		return c.ID[:12]
	}
	return c.ID
}

// ContainerNames returns the names of the given containers in order.
func ContainerNames(containers []Container) []string {
	names := make([]string, 0, len(containers))
	for _, c := range containers {
		if strings.TrimSpace(c.Name) != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

// ExitCode defines the process exit codes of the devenv CLI.
//
// Subprocess failures are not mapped onto these codes: the exit status of
// the forwarded docker-compose/docker/git process is propagated as-is.
// These codes only describe failures detected by the dispatcher itself.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error, including usage
	// errors (no command, unknown command).
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the configuration file could not be read.
	ExitConfigError ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitMissingFile indicates a required local file (sample template,
	// repository clone URL) is missing.
	ExitMissingFile ExitCode = 4

	// ExitGitError indicates a Git operation failed.
	ExitGitError ExitCode = 5

	// ExitContainerNotFound indicates no running container matched a
	// requested compose service.
	ExitContainerNotFound ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// CodeOf returns the exit code carried by err. A nil error maps to
// ExitSuccess, an error without a CLIError in its chain to ExitGeneralError.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
