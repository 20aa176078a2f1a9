package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/quantmind-br/gamescan/internal/core"
)

// Game is a library entry backed by a detection
type Game struct {
	GameID      string        `json:"game_id" yaml:"game_id"`
	Title       string        `json:"title" yaml:"title"`
	ExePath     string        `json:"exe_path" yaml:"exe_path"`
	InstallPath string        `json:"install_path" yaml:"install_path"`
	Engine      string        `json:"engine,omitempty" yaml:"engine,omitempty"`
	AddedAt     time.Time     `json:"added_at" yaml:"added_at"`
	Playtime    time.Duration `json:"playtime" yaml:"playtime"`
	LastPlayed  time.Time     `json:"last_played,omitempty" yaml:"last_played,omitempty"` // zero when never played
}

// Detected converts the entry back into a detection result
func (g *Game) Detected() core.DetectedGame {
	return core.DetectedGame{
		Title:       g.Title,
		ExePath:     g.ExePath,
		InstallPath: g.InstallPath,
		Engine:      g.Engine,
	}
}

const gameColumns = `game_id, title, exe_path, install_path, engine, added_at, playtime_secs, last_played`

// UpsertGame stores a detection keyed by its install path. Paths are stored
// absolute and cleaned, so the same folder given relative or with a trailing
// separator maps to one entry. An existing entry keeps its ID, playtime and
// added date; created reports whether a new entry was inserted.
func (db *DB) UpsertGame(ctx context.Context, detected core.DetectedGame) (game *Game, created bool, err error) {
	if detected.InstallPath, err = absPath(detected.InstallPath); err != nil {
		return nil, false, err
	}
	if detected.ExePath, err = absPath(detected.ExePath); err != nil {
		return nil, false, err
	}

	existing, err := db.GetGameByInstallPath(ctx, detected.InstallPath)
	if err != nil && !errors.Is(err, ErrGameNotFound) {
		return nil, false, err
	}

	if existing == nil {
		game = &Game{
			GameID:      uuid.NewString(),
			Title:       detected.Title,
			ExePath:     detected.ExePath,
			InstallPath: detected.InstallPath,
			Engine:      detected.Engine,
			AddedAt:     time.Now().UTC(),
		}

		query := `
INSERT INTO games (game_id, title, exe_path, install_path, engine, added_at)
VALUES (?, ?, ?, ?, ?, ?)
		`
		_, err = db.write.ExecContext(ctx, query,
			game.GameID,
			game.Title,
			game.ExePath,
			game.InstallPath,
			nullString(game.Engine),
			game.AddedAt,
		)
		if err != nil {
			return nil, false, fmt.Errorf("insert game: %w", err)
		}
		return game, true, nil
	}

	query := `UPDATE games SET title = ?, exe_path = ?, engine = ? WHERE game_id = ?`
	_, err = db.write.ExecContext(ctx, query,
		detected.Title,
		detected.ExePath,
		nullString(detected.Engine),
		existing.GameID,
	)
	if err != nil {
		return nil, false, fmt.Errorf("update game: %w", err)
	}

	existing.Title = detected.Title
	existing.ExePath = detected.ExePath
	existing.Engine = detected.Engine
	return existing, false, nil
}

// GetGame retrieves a game by ID
func (db *DB) GetGame(ctx context.Context, gameID string) (*Game, error) {
	row := db.read.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE game_id = ?`, gameID)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("query game: %w", err)
	}
	return game, nil
}

// GetGameByInstallPath retrieves a game by its install folder. Relative
// paths resolve against the working directory.
func (db *DB) GetGameByInstallPath(ctx context.Context, installPath string) (*Game, error) {
	installPath, err := absPath(installPath)
	if err != nil {
		return nil, err
	}
	row := db.read.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE install_path = ?`, installPath)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, installPath)
	}
	if err != nil {
		return nil, fmt.Errorf("query game: %w", err)
	}
	return game, nil
}

// FindGameByTitle retrieves the oldest game whose title matches, ignoring case
func (db *DB) FindGameByTitle(ctx context.Context, title string) (*Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE title = ? COLLATE NOCASE ORDER BY added_at ASC LIMIT 1`
	game, err := scanGame(db.read.QueryRowContext(ctx, query, title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, title)
	}
	if err != nil {
		return nil, fmt.Errorf("query game: %w", err)
	}
	return game, nil
}

// Lookup finds a game by ID first, then by title
func (db *DB) Lookup(ctx context.Context, identifier string) (*Game, error) {
	game, err := db.GetGame(ctx, identifier)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, ErrGameNotFound) {
		return nil, err
	}
	return db.FindGameByTitle(ctx, identifier)
}

// ListGames retrieves all games, most recently added first
func (db *DB) ListGames(ctx context.Context) ([]Game, error) {
	rows, err := db.read.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY added_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return games, nil
}

// DeleteGame removes a game and its play sessions
func (db *DB) DeleteGame(ctx context.Context, gameID string) error {
	result, err := db.write.ExecContext(ctx, "DELETE FROM games WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	return nil
}

// RestoreGame overwrites the mutable fields of an entry with a previous snapshot
func (db *DB) RestoreGame(ctx context.Context, snapshot *Game) error {
	query := `UPDATE games SET title = ?, exe_path = ?, engine = ? WHERE game_id = ?`
	if _, err := db.write.ExecContext(ctx, query,
		snapshot.Title,
		snapshot.ExePath,
		nullString(snapshot.Engine),
		snapshot.GameID,
	); err != nil {
		return fmt.Errorf("restore game: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*Game, error) {
	var (
		game         Game
		engine       sql.NullString
		playtimeSecs int64
		lastPlayed   sql.NullTime
	)

	err := row.Scan(
		&game.GameID,
		&game.Title,
		&game.ExePath,
		&game.InstallPath,
		&engine,
		&game.AddedAt,
		&playtimeSecs,
		&lastPlayed,
	)
	if err != nil {
		return nil, err
	}

	game.Engine = engine.String
	game.Playtime = time.Duration(playtimeSecs) * time.Second
	if lastPlayed.Valid {
		game.LastPlayed = lastPlayed.Time
	}

	return &game, nil
}

// absPath resolves path against the working directory and cleans it
func absPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return abs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
