package cmd

import (
	"errors"
	"fmt"

	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/launch"
	"github.com/quantmind-br/gamescan/internal/logging"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewLaunchCmd creates the launch command
func NewLaunchCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		noWait  bool
		wrapper string
	)

	cmd := &cobra.Command{
		Use:   "launch [game-id or title]",
		Short: "Start a game and record the session",
		Long: `Start a library game from its install folder. gamescan waits for the game
to exit and adds the session to its play time unless --no-wait is given.
Run without arguments for an interactive picker.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			database, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			var game *db.Game
			if len(args) == 0 {
				game, err = pickGame(cmd, database)
				if err != nil || game == nil {
					return err
				}
			} else {
				game, err = findGame(ctx, database, args[0])
				if err != nil {
					return err
				}
			}

			if !fsops.Exists(afero.NewOsFs(), game.ExePath) {
				ui.PrintError("executable is missing: %s", game.ExePath)
				ui.PrintInfo("Run 'gamescan scan --save %s' to refresh it", game.InstallPath)
				return withExitCode(core.ExitLaunchFailed, fmt.Errorf("executable is missing: %s", game.ExePath))
			}

			opts := core.LaunchOptions{
				Wrapper:     cfg.Launch.Wrapper,
				WrapperArgs: cfg.Launch.WrapperArgs,
				NoWait:      noWait,
			}
			if cmd.Flags().Changed("wrapper") {
				opts.Wrapper = wrapper
				opts.WrapperArgs = nil
			}

			launcher := launch.NewLauncher(nil, nil, logging.Component(log, "launch"), opts)
			sessions, err := launcher.Launch(game.GameID, game.ExePath)
			if err != nil {
				ui.PrintError("failed to launch %s: %v", game.Title, err)
				return withExitCode(core.ExitLaunchFailed, err)
			}

			ui.PrintSuccess("Launched %s", game.Title)
			if opts.NoWait {
				return nil
			}

			ui.PrintInfo("Waiting for the game to exit...")
			session := <-sessions
			if session.ExitErr != "" {
				ui.PrintWarning("Game exited with an error: %s", session.ExitErr)
			}

			if err := database.RecordSession(ctx, session); err != nil {
				ui.PrintError("failed to record session: %v", err)
				return withExitCode(core.ExitDatabase, err)
			}

			ui.PrintSuccess("Session recorded: %s (total %s)",
				ui.FormatPlaytime(session.Duration),
				ui.FormatPlaytime(game.Playtime+session.Duration))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noWait, "no-wait", false, "return right after starting the game")
	cmd.Flags().StringVar(&wrapper, "wrapper", "", "run the executable through this command (overrides launch.wrapper)")

	return cmd
}

// pickGame asks the user to choose a library game. A nil game with a nil
// error means the selection was cancelled.
func pickGame(cmd *cobra.Command, database *db.DB) (*db.Game, error) {
	games, err := database.ListGames(cmd.Context())
	if err != nil {
		ui.PrintError("failed to list games: %v", err)
		return nil, withExitCode(core.ExitDatabase, err)
	}
	if len(games) == 0 {
		ui.PrintWarning("The library is empty, add games with 'gamescan scan --save'")
		return nil, nil
	}

	index, _, err := ui.SelectPromptDetailed("Select a game", gameOptions(games))
	if errors.Is(err, ui.ErrCancelled) {
		ui.PrintWarning("Selection cancelled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &games[index], nil
}
