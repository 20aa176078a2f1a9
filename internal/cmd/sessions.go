package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the sessions command
func NewSessionsCmd(cfg *config.Config, _ *zerolog.Logger) *cobra.Command {
	var (
		format     string
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "sessions <game-id or title>",
		Short: "Show the play history of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := resolveFormat(format, jsonOutput)
			if err != nil {
				return err
			}

			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			game, err := findGame(cmd.Context(), database, args[0])
			if err != nil {
				return err
			}

			sessions, err := database.ListSessions(cmd.Context(), game.GameID)
			if err != nil {
				ui.PrintError("failed to list sessions: %v", err)
				return withExitCode(core.ExitDatabase, err)
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[:limit]
			}

			if out != formatTable {
				return writeStructured(cmd.OutOrStdout(), out, sessions, sessionRows(sessions))
			}

			ui.PrintHeader(game.Title)
			if len(sessions) == 0 {
				ui.PrintInfo("Never played")
				return nil
			}
			ui.PrintKeyValue("Playtime", ui.FormatPlaytime(game.Playtime))

			table := tablewriter.NewTable(cmd.OutOrStdout(),
				tablewriter.WithHeader([]string{"Started", "Duration", "Exit"}),
				tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
				tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
			)
			for _, s := range sessions {
				exit := "ok"
				if s.ExitErr != "" {
					exit = s.ExitErr
				}
				table.Append(
					s.StartTime.Local().Format("2006-01-02 15:04"),
					ui.FormatPlaytime(s.Duration),
					exit,
				)
			}
			table.Render()
			return nil
		},
	}

	addOutputFlags(cmd, &format, &jsonOutput)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the most recent sessions (0 = all)")

	return cmd
}
