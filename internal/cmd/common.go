package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/library"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/spf13/afero"
)

// openDB opens the library database, creating its directory first
func openDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if err := fsops.EnsureDir(afero.NewOsFs(), filepath.Dir(cfg.Paths.DBFile), 0o755); err != nil {
		ui.PrintError("failed to create database directory: %v", err)
		return nil, withExitCode(core.ExitDatabase, fmt.Errorf("create database directory: %w", err))
	}

	database, err := db.New(ctx, cfg.Paths.DBFile)
	if err != nil {
		ui.PrintError("failed to open database: %v", err)
		return nil, withExitCode(core.ExitDatabase, fmt.Errorf("open database: %w", err))
	}
	return database, nil
}

// findGame resolves an ID or title, suggesting a close title on a miss
func findGame(ctx context.Context, database *db.DB, identifier string) (*db.Game, error) {
	game, err := database.Lookup(ctx, identifier)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, db.ErrGameNotFound) {
		ui.PrintError("failed to query database: %v", err)
		return nil, withExitCode(core.ExitDatabase, err)
	}

	ui.PrintError("game not found: %s", identifier)
	if games, listErr := database.ListGames(ctx); listErr == nil {
		if suggestion := library.Suggest(identifier, games); suggestion != "" {
			ui.PrintInfo("Did you mean %q?", suggestion)
		}
	}
	ui.PrintInfo("Use 'gamescan list' to see the library")

	return nil, withExitCode(core.ExitInvalidArgs, err)
}

// gameOptions builds picker entries, one per library game
func gameOptions(games []db.Game) []ui.SelectOption {
	options := make([]ui.SelectOption, 0, len(games))
	for _, g := range games {
		engine := g.Engine
		if engine == "" {
			engine = "unknown engine"
		}
		options = append(options, ui.SelectOption{
			Label:  g.Title,
			Detail: fmt.Sprintf("%s, played %s", engine, ui.FormatPlaytime(g.Playtime)),
			Value:  g.GameID,
		})
	}
	return options
}
