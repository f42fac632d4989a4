package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Cmd describes one external process invocation.
type Cmd struct {
	// Name is the executable, resolved through PATH.
	Name string

	// Args are passed to the process verbatim.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// New builds a Cmd from an argv prefix (e.g. ["docker", "compose"]) and the
// remaining arguments. The prefix must not be empty.
func New(prefix []string, args ...string) Cmd {
	all := make([]string, 0, len(prefix)+len(args))
	all = append(all, prefix[1:]...)
	all = append(all, args...)
	return Cmd{Name: prefix[0], Args: all}
}

// In returns a copy of c that runs in dir.
func (c Cmd) In(dir string) Cmd {
	c.Dir = dir
	return c
}

// Argv returns the full command line, executable first.
func (c Cmd) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command line the way a shell trace would.
func (c Cmd) String() string {
	return strings.Join(c.Argv(), " ")
}

// Runner runs a command to completion.
type Runner interface {
	Run(ctx context.Context, c Cmd) error
}

// ExitError reports that a process ran and exited non-zero, or could not be
// started at all (Code 127, like a shell).
type ExitError struct {
	Cmd  Cmd
	Code int
	Err  error
}

// Error satisfies the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Cmd.Name, e.Code)
}

// Unwrap returns the underlying exec error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the subprocess exit code from err, reporting false when
// err does not come from a subprocess.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// Exec runs commands as child processes attached to the given streams.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    logrus.FieldLogger
}

// NewExec returns an Exec attached to the process's own terminal.
func NewExec(log logrus.FieldLogger) *Exec {
	return &Exec{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr, Log: log}
}

// Run starts c and waits for it. While the child runs, SIGINT is absorbed
// here: the terminal delivers it to the child as well, and the child decides
// how to shut down, so its exit status can still be reported.
func (e *Exec) Run(ctx context.Context, c Cmd) error {
	if e.Log != nil {
		e.Log.WithFields(logrus.Fields{"cmd": c.String(), "dir": c.Dir}).Debug("running command")
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code := ee.ExitCode()
		if code < 0 {
			// Killed by a signal; mirror the shell's 128+n convention for SIGINT.
			code = 130
		}
		return &ExitError{Cmd: c, Code: code, Err: err}
	}
	return &ExitError{Cmd: c, Code: 127, Err: err}
}

// DryRun prints each command instead of running it.
type DryRun struct {
	Out io.Writer
}

// Run writes "+ <command line>" to Out.
func (d *DryRun) Run(_ context.Context, c Cmd) error {
	prefix := "+ "
	if c.Dir != "" {
		prefix = "+ (cd " + c.Dir + ") "
	}
	_, err := fmt.Fprintln(d.Out, prefix+c.String())
	return err
}

// Recorder captures commands instead of running them. Fail maps a command
// line (Cmd.String) to the exit code Run should report for it.
type Recorder struct {
	mu       sync.Mutex
	Commands []Cmd
	Fail     map[string]int
	// OnRun, when set, is called for every recorded command. Tests use it
	// to emulate side effects such as a clone creating its directory.
	OnRun func(c Cmd)
}

// Run records c and returns an ExitError when c is listed in Fail.
func (r *Recorder) Run(_ context.Context, c Cmd) error {
	r.mu.Lock()
	r.Commands = append(r.Commands, c)
	code, fail := r.Fail[c.String()]
	hook := r.OnRun
	r.mu.Unlock()

	if hook != nil {
		hook(c)
	}
	if fail {
		return &ExitError{Cmd: c, Code: code}
	}
	return nil
}

// Lines returns the recorded command lines in order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		lines = append(lines, c.String())
	}
	return lines
}

// Reset forgets the recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = nil
}
