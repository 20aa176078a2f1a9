package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/library"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		format      string
		jsonOutput  bool
		filterName  string
		sortBy      string
		showDetails bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library games",
		Long:  `List the games in the library with filtering and sorting options.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := resolveFormat(format, jsonOutput)
			if err != nil {
				return err
			}

			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			games, err := database.ListGames(cmd.Context())
			if err != nil {
				ui.PrintError("failed to list games: %v", err)
				return withExitCode(core.ExitDatabase, err)
			}

			filtered := library.FilterGames(games, filterName)
			if err := library.SortGames(filtered, sortBy); err != nil {
				return withExitCode(core.ExitInvalidArgs, err)
			}

			log.Debug().
				Int("total", len(games)).
				Int("shown", len(filtered)).
				Str("sort", sortBy).
				Msg("listing games")

			if out != formatTable {
				return writeStructured(cmd.OutOrStdout(), out, filtered, gameRows(filtered))
			}

			if len(filtered) == 0 {
				if filterName != "" {
					ui.PrintWarning("No games found matching %q", filterName)
				} else {
					ui.PrintInfo("The library is empty, add games with 'gamescan scan --save'")
				}
				return nil
			}

			ui.PrintHeader("Library")
			if len(filtered) != len(games) {
				ui.PrintInfo("Showing %d of %d games", len(filtered), len(games))
			} else {
				ui.PrintInfo("Total: %d games", len(games))
			}

			if showDetails {
				printDetailedGameTable(cmd, filtered)
			} else {
				printCompactGameTable(cmd, filtered)
			}
			return nil
		},
	}

	addOutputFlags(cmd, &format, &jsonOutput)
	cmd.Flags().StringVar(&filterName, "name", "", "filter by title (fuzzy match)")
	cmd.Flags().StringVar(&sortBy, "sort", library.SortByTitle, "sort by: title, playtime, added")
	cmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show detailed information")

	return cmd
}

func printCompactGameTable(cmd *cobra.Command, games []db.Game) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Title", "Engine", "Playtime", "Last Played"}),
		tablewriter.WithAlignment(tw.MakeAlign(4, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, g := range games {
		table.Append(
			g.Title,
			ui.ColorizeEngine(g.Engine),
			ui.FormatPlaytime(g.Playtime),
			ui.FormatLastPlayed(g.LastPlayed),
		)
	}

	table.Render()
}

func printDetailedGameTable(cmd *cobra.Command, games []db.Game) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Title", "Engine", "Playtime", "Added", "Game ID", "Path"}),
		tablewriter.WithAlignment(tw.MakeAlign(6, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, g := range games {
		path := g.InstallPath
		if len(path) > 40 {
			path = "..." + path[len(path)-37:]
		}

		table.Append(
			g.Title,
			ui.ColorizeEngine(g.Engine),
			ui.FormatPlaytime(g.Playtime),
			g.AddedAt.Local().Format("2006-01-02"),
			shortID(g.GameID),
			path,
		)
	}

	table.Render()
}

// shortID trims a UUID to its first block for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
