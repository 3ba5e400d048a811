//go:build linux

package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Describes a single invocation of an external program
type Command struct {

	// The program to execute (resolved through PATH unless it contains a slash)
	Name string

	// The arguments passed to the program
	Args []string

	// Additional KEY=VALUE environment variables, appended to the environment of the current process
	Env []string

	// The working directory for the program (empty means the current working directory)
	Dir string
}

// Returns the command line in a form suitable for log output
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes external programs. Every component that shells out does so through a Runner,
// so tests can script the host without touching it.
type Runner interface {

	// Resolves a program name to an absolute path, returning an error if it cannot be found
	LookPath(name string) (string, error)

	// Runs the command to completion and returns its standard output
	Output(ctx context.Context, cmd Command) ([]byte, error)

	// Runs the command to completion, streaming its output to the runner's writers
	Run(ctx context.Context, cmd Command) error
}

// Runs commands on the host using os/exec
type ExecRunner struct {

	// Where the output of streamed commands is written
	Stdout io.Writer
	Stderr io.Writer
}

// Creates a runner that streams command output to the supplied writers
func NewExecRunner(stdout io.Writer, stderr io.Writer) *ExecRunner {
	return &ExecRunner{
		Stdout: stdout,
		Stderr: stderr,
	}
}

func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *ExecRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {

	// Capture stderr separately so it can be attached to the error
	var stderr bytes.Buffer
	c := r.command(ctx, cmd)
	c.Stderr = &stderr

	output, err := c.Output()
	if err != nil {
		return output, wrapExitError(err, cmd, stderr.String())
	}

	return output, nil
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := r.command(ctx, cmd)
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if err := c.Run(); err != nil {
		return wrapExitError(err, cmd, "")
	}

	return nil
}

// Builds the underlying exec.Cmd for a command
func (r *ExecRunner) command(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	return c
}

// Wraps a process error with the command line and, if available, the last line of its stderr output
func wrapExitError(err error, cmd Command, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		lines := strings.Split(stderr, "\n")
		return errors.Wrapf(err, "%s (%s)", cmd, strings.TrimSpace(lines[len(lines)-1]))
	}

	return errors.Wrap(err, cmd.String())
}
