package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// CommandRunner defines an interface for executing system commands
// This allows for mocking in tests and dependency injection
type CommandRunner interface {
	// CommandExists checks if a command is available in PATH
	CommandExists(name string) bool

	// RequireCommand ensures a command exists or returns error
	RequireCommand(name string) error

	// RunCommand executes a command and returns stdout
	RunCommand(ctx context.Context, name string, args ...string) (string, error)

	// GetExitCode extracts the exit code from a command error
	GetExitCode(err error) int

	// PrepareCommand prepares a command but does not execute it
	PrepareCommand(ctx context.Context, name string, args ...string) *exec.Cmd
}

// OSCommandRunner is the default implementation using os/exec
type OSCommandRunner struct {
	commandCache sync.Map // map[string]bool
}

// NewOSCommandRunner creates a new OSCommandRunner instance
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// CommandExists checks if a command is available in PATH
func (r *OSCommandRunner) CommandExists(name string) bool {
	if cached, ok := r.commandCache.Load(name); ok {
		if exists, ok := cached.(bool); ok {
			return exists
		}
		r.commandCache.Delete(name)
	}

	_, err := exec.LookPath(name)
	exists := err == nil
	r.commandCache.Store(name, exists)
	return exists
}

// RequireCommand ensures a command exists or returns error
func (r *OSCommandRunner) RequireCommand(name string) error {
	if !r.CommandExists(name) {
		return fmt.Errorf("required command %q not found in PATH", name)
	}
	return nil
}

// RunCommand executes a command and returns stdout
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %q failed: %w\nstderr: %s", name, err, stderr.String())
	}

	return stdout.String(), nil
}

// GetExitCode extracts the exit code from a command error
func (r *OSCommandRunner) GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

// PrepareCommand prepares a command but does not execute it.
// Callers set Dir, Stdout and Stderr before calling Start.
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) PrepareCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
