package system

import (
	"context"
	"strings"
	"sync"
)

// Call is a single recorded invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a shell-like line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner records calls and returns canned results.
// Errors are keyed by command name.
type FakeRunner struct {
	mu     sync.Mutex
	calls  []Call
	Errors map[string]error
	Output map[string][]byte
}

// NewFakeRunner creates a FakeRunner with no canned failures.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Errors: map[string]error{}, Output: map[string][]byte{}}
}

// Run records the call.
func (f *FakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	return f.Output[name], f.Errors[name]
}

// Calls returns a copy of all recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns recorded calls for one command name.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
