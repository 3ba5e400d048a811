//go:build linux

package runner

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// A scripted response for a fake command
type Response struct {
	Output string
	Err    error
}

// FakeRunner is a Runner that never starts a process. Programs are "installed" by registering a
// path for them, and command results are scripted by command line or program name. Unscripted
// commands succeed with no output.
type FakeRunner struct {
	mutex sync.Mutex

	// The programs visible through LookPath, keyed by name
	paths map[string]string

	// Scripted responses keyed by the full command line or by program name
	responses map[string]Response

	// Optional side effect invoked for every command before its response is returned
	hook func(cmd Command) error

	// Every command that has been executed, in order
	Calls []Command
}

// Creates a fake runner with the supplied programs installed
func NewFakeRunner(installed ...string) *FakeRunner {
	f := &FakeRunner{
		paths:     make(map[string]string),
		responses: make(map[string]Response),
	}

	for _, name := range installed {
		f.Install(name)
	}

	return f
}

// Makes a program visible through LookPath
func (f *FakeRunner) Install(name string) *FakeRunner {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.paths[name] = "/usr/bin/" + name
	return f
}

// Scripts the response for a full command line (e.g. "vulkaninfo --summary") or a bare program name
func (f *FakeRunner) Respond(key string, output string, err error) *FakeRunner {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.responses[key] = Response{Output: output, Err: err}
	return f
}

// Registers a side effect for every executed command (e.g. creating the files a real program would create)
func (f *FakeRunner) OnCommand(hook func(cmd Command) error) *FakeRunner {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.hook = hook
	return f
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if path, ok := f.paths[name]; ok {
		return path, nil
	}

	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (f *FakeRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	response, err := f.execute(ctx, cmd)
	return []byte(response.Output), err
}

func (f *FakeRunner) Run(ctx context.Context, cmd Command) error {
	_, err := f.execute(ctx, cmd)
	return err
}

// Returns true if any executed command line contains the supplied text
func (f *FakeRunner) Ran(text string) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	for _, call := range f.Calls {
		if strings.Contains(call.String(), text) {
			return true
		}
	}

	return false
}

// Records a command and resolves its scripted response
func (f *FakeRunner) execute(ctx context.Context, cmd Command) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	f.mutex.Lock()
	f.Calls = append(f.Calls, cmd)
	hook := f.hook
	response, ok := f.responses[cmd.String()]
	if !ok {
		response = f.responses[cmd.Name]
	}
	f.mutex.Unlock()

	if hook != nil {
		if err := hook(cmd); err != nil {
			return Response{}, err
		}
	}

	if response.Err != nil {
		return response, errors.Wrap(response.Err, cmd.String())
	}

	return response, nil
}
