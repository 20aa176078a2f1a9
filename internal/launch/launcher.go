// Package launch starts detected games and reports their play sessions.
package launch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/helpers"
	"github.com/rs/zerolog"
)

// ErrEmptyExecutable is returned when a launch is requested without an executable
var ErrEmptyExecutable = errors.New("empty executable path")

// Launcher spawns game processes
type Launcher struct {
	runner helpers.CommandRunner
	clock  clockwork.Clock
	logger *zerolog.Logger
	opts   core.LaunchOptions
}

// NewLauncher creates a launcher. Nil collaborators fall back to the OS
// runner, the real clock and a disabled logger.
func NewLauncher(runner helpers.CommandRunner, clock clockwork.Clock, logger *zerolog.Logger, opts core.LaunchOptions) *Launcher {
	if runner == nil {
		runner = helpers.NewOSCommandRunner()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Launcher{runner: runner, clock: clock, logger: logger, opts: opts}
}

// Launch starts exePath from its own directory. A relative exePath is
// resolved against the working directory first. The returned channel
// yields exactly one session once the process exits, then closes.
func (l *Launcher) Launch(gameID, exePath string) (<-chan core.PlaySession, error) {
	if exePath == "" {
		return nil, ErrEmptyExecutable
	}
	// cmd.Dir is the exe's folder, so a relative exePath would be resolved twice
	abs, err := filepath.Abs(exePath)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", exePath, err)
	}
	exePath = abs

	name, args := l.command(exePath)
	if l.opts.Wrapper != "" {
		if err := l.runner.RequireCommand(l.opts.Wrapper); err != nil {
			return nil, fmt.Errorf("launch wrapper: %w", err)
		}
	}

	cmd := l.runner.PrepareCommand(context.Background(), name, args...)
	if cmd == nil {
		return nil, fmt.Errorf("prepare %q: no command", name)
	}
	cmd.Dir = filepath.Dir(exePath)

	start := l.clock.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %q: %w", exePath, err)
	}

	sessionID := uuid.NewString()
	l.logger.Info().
		Str("game_id", gameID).
		Str("session_id", sessionID).
		Str("exe", exePath).
		Int("pid", cmd.Process.Pid).
		Msg("game started")

	sessions := make(chan core.PlaySession, 1)
	go func() {
		defer close(sessions)

		waitErr := cmd.Wait()
		end := l.clock.Now()

		session := core.PlaySession{
			SessionID: sessionID,
			GameID:    gameID,
			StartTime: start,
			EndTime:   end,
			Duration:  end.Sub(start),
		}
		if waitErr != nil {
			session.ExitErr = waitErr.Error()
			l.logger.Warn().
				Err(waitErr).
				Str("game_id", gameID).
				Int("exit_code", l.runner.GetExitCode(waitErr)).
				Msg("game exited with error")
		} else {
			l.logger.Info().
				Str("game_id", gameID).
				Dur("duration", session.Duration).
				Msg("game exited")
		}

		sessions <- session
	}()

	return sessions, nil
}

func (l *Launcher) command(exePath string) (string, []string) {
	if l.opts.Wrapper == "" {
		return exePath, nil
	}
	args := make([]string, 0, len(l.opts.WrapperArgs)+1)
	args = append(args, l.opts.WrapperArgs...)
	return l.opts.Wrapper, append(args, exePath)
}
