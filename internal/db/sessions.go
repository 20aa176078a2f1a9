package db

import (
	"context"
	"fmt"
	"time"

	"github.com/quantmind-br/gamescan/internal/core"
)

// RecordSession stores a finished play session and adds its duration to
// the game's total playtime
func (db *DB) RecordSession(ctx context.Context, session core.PlaySession) (err error) {
	tx, err := db.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	secs := int64(session.Duration / time.Second)

	result, err := tx.ExecContext(ctx,
		`UPDATE games SET playtime_secs = playtime_secs + ?, last_played = ? WHERE game_id = ?`,
		secs, session.EndTime.UTC(), session.GameID,
	)
	if err != nil {
		return fmt.Errorf("update playtime: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrGameNotFound, session.GameID)
	}

	query := `
INSERT INTO play_sessions (session_id, game_id, start_time, end_time, duration_secs, exit_error)
VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err = tx.ExecContext(ctx, query,
		session.SessionID,
		session.GameID,
		session.StartTime.UTC(),
		session.EndTime.UTC(),
		secs,
		nullString(session.ExitErr),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// ListSessions retrieves the play sessions of a game, newest first
func (db *DB) ListSessions(ctx context.Context, gameID string) ([]core.PlaySession, error) {
	query := `
SELECT session_id, game_id, start_time, end_time, duration_secs, COALESCE(exit_error, '')
FROM play_sessions WHERE game_id = ? ORDER BY start_time DESC
	`

	rows, err := db.read.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []core.PlaySession{}
	for rows.Next() {
		var (
			s    core.PlaySession
			secs int64
		)
		if err := rows.Scan(&s.SessionID, &s.GameID, &s.StartTime, &s.EndTime, &secs, &s.ExitErr); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.Duration = time.Duration(secs) * time.Second
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return sessions, nil
}
