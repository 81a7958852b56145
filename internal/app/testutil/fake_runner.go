package testutil

import (
	"context"
	"os"
	"sync"

	"audio-transcriber/internal/app/util/execx"
)

// RunnerCall records one invocation seen by FakeRunner.
type RunnerCall struct {
	Name string
	Args []string
}

// FakeRunner implements execx.Runner without spawning processes.
// Handler decides the outcome of each call; by default every call succeeds.
type FakeRunner struct {
	mu      sync.Mutex
	Calls   []RunnerCall
	Handler func(name string, args []string) (execx.Result, error)
}

// NewFakeRunner creates a runner whose calls all succeed with empty output.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Run implements execx.Runner.
func (r *FakeRunner) Run(ctx context.Context, name string, args ...string) (execx.Result, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, RunnerCall{Name: name, Args: append([]string(nil), args...)})
	handler := r.Handler
	r.mu.Unlock()

	if handler == nil {
		return execx.Result{Command: name, Args: args}, nil
	}
	res, err := handler(name, args)
	res.Command = name
	res.Args = args
	return res, err
}

// CallCount returns the number of recorded calls.
func (r *FakeRunner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}

// LastCall returns the most recent call.
func (r *FakeRunner) LastCall() RunnerCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Calls) == 0 {
		return RunnerCall{}
	}
	return r.Calls[len(r.Calls)-1]
}

// WriteLastArg is a Handler that writes content to the file named by the
// final argument, the way ffmpeg writes its output path.
func WriteLastArg(content string) func(name string, args []string) (execx.Result, error) {
	return func(name string, args []string) (execx.Result, error) {
		if len(args) == 0 {
			return execx.Result{}, nil
		}
		return execx.Result{}, os.WriteFile(args[len(args)-1], []byte(content), 0o644)
	}
}
