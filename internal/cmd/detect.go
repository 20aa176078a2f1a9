package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/detect"
	"github.com/quantmind-br/gamescan/internal/heuristics"
	"github.com/quantmind-br/gamescan/internal/logging"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// detectReport is the structured output of the detect command
type detectReport struct {
	Game       core.DetectedGame            `json:"game" yaml:"game"`
	Candidates []heuristics.ExecutableScore `json:"candidates" yaml:"candidates"`
}

// NewDetectCmd creates the detect command
func NewDetectCmd(_ *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		format     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "detect <folder>",
		Short: "Detect the game in one folder",
		Long: `Inspect a single folder and show every executable candidate with its score.
The folder is resolved to an absolute path first, so reported paths are
absolute even when a relative folder is given ('scan' reports them as typed).
Exits with a non-zero status when no game is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := resolveFormat(format, jsonOutput)
			if err != nil {
				return err
			}

			folder, err := filepath.Abs(args[0])
			if err != nil {
				return withExitCode(core.ExitInvalidArgs, fmt.Errorf("resolve folder: %w", err))
			}

			logger := logging.Component(log, "detect")
			fs := afero.NewOsFs()
			scorer := heuristics.NewScorer(fs, logger)
			detector := detect.NewDetector(fs, scorer, logger)

			game, ok := detector.Detect(folder)
			if !ok {
				ui.PrintError("no game detected in %s", folder)
				return withExitCode(core.ExitNotDetected, fmt.Errorf("no game detected in %s", folder))
			}

			executables, _ := detector.Candidates(folder)
			ranked := scorer.Rank(executables, game.Title)

			if out != formatTable {
				report := detectReport{Game: game, Candidates: ranked}
				return writeStructured(cmd.OutOrStdout(), out, report, ranked)
			}

			ui.PrintHeader(game.Title)
			ui.PrintKeyValue("Engine", ui.ColorizeEngine(game.Engine))
			ui.PrintKeyValue("Executable", game.ExePath)
			ui.PrintKeyValue("Install path", game.InstallPath)
			fmt.Fprintln(cmd.OutOrStdout())

			printCandidateTable(cmd, game, ranked)
			return nil
		},
	}

	addOutputFlags(cmd, &format, &jsonOutput)

	return cmd
}

func printCandidateTable(cmd *cobra.Command, game core.DetectedGame, ranked []heuristics.ExecutableScore) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"", "Candidate", "Score"}),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, c := range ranked {
		marker := ""
		if c.Path == game.ExePath {
			marker = ui.CheckMark
		}
		rel := c.Path
		if r, err := filepath.Rel(game.InstallPath, c.Path); err == nil {
			rel = r
		}
		table.Append(marker, rel, strconv.Itoa(c.Score))
	}

	table.Render()
}
