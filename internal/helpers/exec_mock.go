package helpers

import (
	"context"
	"os/exec"
)

// MockCommandRunner is a mock implementation of CommandRunner for testing
type MockCommandRunner struct {
	CommandExistsFunc  func(name string) bool
	RequireCommandFunc func(name string) error
	RunCommandFunc     func(ctx context.Context, name string, args ...string) (string, error)
	GetExitCodeFunc    func(err error) int
	PrepareCommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// CommandExists implements CommandRunner.CommandExists
func (m *MockCommandRunner) CommandExists(name string) bool {
	if m.CommandExistsFunc != nil {
		return m.CommandExistsFunc(name)
	}
	return false
}

// RequireCommand implements CommandRunner.RequireCommand
func (m *MockCommandRunner) RequireCommand(name string) error {
	if m.RequireCommandFunc != nil {
		return m.RequireCommandFunc(name)
	}
	return nil
}

// RunCommand implements CommandRunner.RunCommand
func (m *MockCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	if m.RunCommandFunc != nil {
		return m.RunCommandFunc(ctx, name, args...)
	}
	return "", nil
}

// GetExitCode implements CommandRunner.GetExitCode
func (m *MockCommandRunner) GetExitCode(err error) int {
	if m.GetExitCodeFunc != nil {
		return m.GetExitCodeFunc(err)
	}
	return 0
}

// PrepareCommand implements CommandRunner.PrepareCommand
func (m *MockCommandRunner) PrepareCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	if m.PrepareCommandFunc != nil {
		return m.PrepareCommandFunc(ctx, name, args...)
	}
	return nil
}
