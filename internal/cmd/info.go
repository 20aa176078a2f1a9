package cmd

import (
	"fmt"

	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/paths"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewInfoCmd creates the info command
func NewInfoCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <game-id or title>",
		Short: "Show game information",
		Long:  `Show details about a library game: paths, play time, disk usage and save folders.`,
		Args:  cobra.ExactArgs(1),
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

			printGameInfo(afero.NewOsFs(), paths.NewResolver(cfg), game)

			log.Info().
				Str("game_id", game.GameID).
				Str("title", game.Title).
				Msg("displayed game info")

			return nil
		},
	}

	return cmd
}

func printGameInfo(fs afero.Fs, resolver *paths.Resolver, game *db.Game) {
	ui.PrintHeader(game.Title)

	ui.PrintKeyValue("Game ID", game.GameID)
	ui.PrintKeyValue("Engine", ui.ColorizeEngine(game.Engine))
	ui.PrintKeyValue("Executable", game.ExePath)
	ui.PrintKeyValue("Install path", game.InstallPath)
	ui.PrintKeyValue("Added", game.AddedAt.Local().Format("2006-01-02 15:04"))
	ui.PrintKeyValue("Playtime", ui.FormatPlaytime(game.Playtime))
	ui.PrintKeyValue("Last played", ui.FormatLastPlayed(game.LastPlayed))

	if !fsops.IsDir(fs, game.InstallPath) {
		ui.PrintWarning("Install folder is missing: %s", game.InstallPath)
		return
	}
	if !fsops.Exists(fs, game.ExePath) {
		ui.PrintWarning("Executable is missing: %s", game.ExePath)
	}

	if size, err := fsops.FolderSize(fs, game.InstallPath); err == nil {
		ui.PrintKeyValue("Size", ui.FormatSize(size))
	} else {
		ui.PrintKeyValue("Size", fmt.Sprintf("unknown (%v)", err))
	}

	if saves := fsops.FindSaveDirectories(fs, game.InstallPath); len(saves) > 0 {
		ui.PrintKeyValue("Save folders", "")
		ui.PrintList(saves)
	}

	if covers := coverFiles(fs, resolver, game); len(covers) > 0 {
		ui.PrintKeyValue("Cover", covers[0])
	}
}
