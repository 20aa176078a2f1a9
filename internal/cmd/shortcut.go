package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/gamescan/internal/cache"
	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/desktop"
	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/logging"
	"github.com/quantmind-br/gamescan/internal/paths"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewShortcutCmd creates the shortcut command
func NewShortcutCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	return newShortcutCmd(cfg, log, cache.NewCacheManager())
}

func newShortcutCmd(cfg *config.Config, log *zerolog.Logger, refresher cache.Refresher) *cobra.Command {
	var (
		remove  bool
		appsDir string
	)

	cmd := &cobra.Command{
		Use:   "shortcut <game-id or title>",
		Short: "Add a game to the application menu",
		Long: `Write a desktop entry that starts the game through 'gamescan launch', so
play time is recorded when the game is started from the application menu.
The game's cover is used as icon when one is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			game, err := findGame(cmd.Context(), database, args[0])
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()
			resolver := paths.NewResolver(cfg)
			if appsDir == "" {
				appsDir = resolver.ApplicationsDir()
			}
			name := desktop.FileName(mediaBaseName(game))
			logger := logging.Component(log, "desktop")

			if remove {
				path := filepath.Join(appsDir, name)
				if err := fs.Remove(path); err != nil {
					if errors.Is(err, os.ErrNotExist) {
						ui.PrintWarning("No shortcut for %s", game.Title)
						return nil
					}
					return fmt.Errorf("remove desktop file: %w", err)
				}
				_ = refresher.UpdateDesktopDatabase(appsDir, logger)
				ui.PrintSuccess("Removed shortcut %s", path)
				return nil
			}

			path, err := installShortcut(fs, resolver, game, appsDir, name)
			if err != nil {
				ui.PrintError("failed to write shortcut: %v", err)
				return withExitCode(core.ExitPermission, err)
			}
			_ = refresher.UpdateDesktopDatabase(appsDir, logger)

			log.Info().Str("game_id", game.GameID).Str("path", path).Msg("shortcut written")
			ui.PrintSuccess("Created shortcut %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "delete the shortcut instead")
	cmd.Flags().StringVar(&appsDir, "dir", "", "directory for the desktop entry (default ~/.local/share/applications)")

	return cmd
}

func installShortcut(fs afero.Fs, resolver *paths.Resolver, game *db.Game, appsDir, name string) (string, error) {
	binary, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate gamescan binary: %w", err)
	}

	icon := ""
	if covers := coverFiles(fs, resolver, game); len(covers) > 0 {
		icon = covers[0]
	}

	installPath := game.InstallPath
	if !fsops.IsDir(fs, installPath) {
		installPath = ""
	}

	entry := desktop.NewGameEntry(binary, game.GameID, game.Title, installPath, icon)
	return desktop.Install(fs, appsDir, name, entry)
}
