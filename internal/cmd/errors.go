package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/quantmind-br/gamescan/internal/core"
)

// exitError attaches a process exit code to a command failure
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by a command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return core.ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	switch {
	case errors.Is(err, context.Canceled):
		return core.ExitInterrupted
	case errors.Is(err, fs.ErrPermission):
		return core.ExitPermission
	default:
		return core.ExitGeneral
	}
}
