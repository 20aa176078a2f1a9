package transaction

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// UndoFunc reverses one applied change
type UndoFunc func(ctx context.Context) error

type step struct {
	name string
	undo UndoFunc
}

// Manager records undo steps for a multi-step change
type Manager struct {
	mu     sync.Mutex
	steps  []step
	logger *zerolog.Logger
}

// NewManager creates a new transaction manager
func NewManager(logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{logger: logger}
}

// Add records how to undo a change that was just applied
func (m *Manager) Add(name string, fn UndoFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step{name: name, undo: fn})
}

// Len reports the number of pending undo steps
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}

// Rollback undoes all recorded steps, newest first. Every step runs even
// when an earlier one fails.
func (m *Manager) Rollback(ctx context.Context) error {
	m.mu.Lock()
	steps := m.steps
	m.steps = nil
	m.mu.Unlock()

	if len(steps) == 0 {
		return nil
	}

	m.logger.Info().Int("steps", len(steps)).Msg("rolling back")

	var errs []error
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		m.logger.Debug().Str("operation", s.name).Msg("undo")

		if err := s.undo(ctx); err != nil {
			m.logger.Error().Err(err).Str("operation", s.name).Msg("undo failed")
			errs = append(errs, fmt.Errorf("undo %q: %w", s.name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("rollback completed with errors: %w", errors.Join(errs...))
	}
	return nil
}

// Commit drops the recorded steps, keeping every change
func (m *Manager) Commit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = nil
}

// Run calls fn and rolls back whatever it recorded if it fails
func (m *Manager) Run(ctx context.Context, fn func(*Manager) error) error {
	if err := fn(m); err != nil {
		if rbErr := m.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	m.Commit()
	return nil
}
