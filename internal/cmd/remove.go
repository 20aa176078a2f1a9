package cmd

import (
	"errors"
	"path/filepath"

	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/desktop"
	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/paths"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewRemoveCmd creates the remove command
func NewRemoveCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:     "remove <game-id or title>",
		Aliases: []string{"rm"},
		Short:   "Remove a game from the library",
		Long: `Remove a game and its play history from the library. The game's files are
left untouched; stored covers and the menu shortcut are deleted.`,
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

			if !skipConfirm {
				confirmed, err := ui.ConfirmDangerousAction("remove from the library", game.Title)
				if errors.Is(err, ui.ErrCancelled) || (err == nil && !confirmed) {
					ui.PrintInfo("Nothing removed")
					return nil
				}
				if err != nil {
					return err
				}
			}

			if err := database.DeleteGame(cmd.Context(), game.GameID); err != nil {
				ui.PrintError("failed to remove %s: %v", game.Title, err)
				return withExitCode(core.ExitDatabase, err)
			}

			fs := afero.NewOsFs()
			resolver := paths.NewResolver(cfg)
			leftovers := coverFiles(fs, resolver, game)
			shortcut := filepath.Join(resolver.ApplicationsDir(), desktop.FileName(mediaBaseName(game)))
			if fsops.Exists(fs, shortcut) {
				leftovers = append(leftovers, shortcut)
			}
			for _, path := range leftovers {
				if err := fs.Remove(path); err != nil {
					log.Warn().Err(err).Str("path", path).Msg("cannot remove game file")
				}
			}

			log.Info().Str("game_id", game.GameID).Str("title", game.Title).Msg("game removed")
			ui.PrintSuccess("Removed %s", game.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
