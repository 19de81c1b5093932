package git

import (
	"context"
	"sync"
)

// MockRunner is a test double for ExecRunner.
// It returns predefined output without starting a process and records the commands it was given.
type MockRunner struct {
	Output []byte
	Error  error

	mu       sync.Mutex
	commands []*Command
}

// NewMockRunner creates a new MockRunner with the given output.
func NewMockRunner(output string, err error) *MockRunner {
	return &MockRunner{
		Output: []byte(output),
		Error:  err,
	}
}

// Run returns the predefined output or error.
func (m *MockRunner) Run(_ context.Context, cmd *Command) ([]byte, error) {
	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	m.mu.Unlock()
	return m.Output, m.Error
}

// Commands returns the commands passed to Run so far.
func (m *MockRunner) Commands() []*Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Command(nil), m.commands...)
}
