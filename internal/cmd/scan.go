package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/detect"
	"github.com/quantmind-br/gamescan/internal/library"
	"github.com/quantmind-br/gamescan/internal/logging"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command
func NewScanCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		format      string
		jsonOutput  bool
		save        bool
		workers     int
		libraryDirs bool
	)

	cmd := &cobra.Command{
		Use:   "scan [folder...]",
		Short: "Detect games in folders",
		Long: `Inspect each folder and report the game it contains.

Without arguments the folders listed in scan.roots are used. With --library
every argument is treated as a directory of game folders and each of its
subdirectories is scanned instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := resolveFormat(format, jsonOutput)
			if err != nil {
				return err
			}

			folders := args
			if len(folders) == 0 {
				folders = cfg.Scan.Roots
			}
			if len(folders) == 0 {
				ui.PrintError("no folders given and scan.roots is empty")
				return withExitCode(core.ExitInvalidArgs, errors.New("nothing to scan"))
			}

			fs := afero.NewOsFs()
			if libraryDirs {
				folders = libraryFolders(fs, folders, log)
			}

			if !cmd.Flags().Changed("workers") {
				workers = cfg.Scan.Workers
			}

			logger := logging.Component(log, "scan")
			scanner := detect.NewScanner(detect.NewDetector(fs, nil, logger), workers, logger)

			var bar *ui.ProgressBar
			if out == formatTable && len(folders) > 1 {
				bar = ui.NewProgressBar(cmd.ErrOrStderr(), len(folders), "Scanning")
				scanner.OnProgress(func(_, _ int) { _ = bar.Add(1) })
			}

			log.Info().Int("folders", len(folders)).Int("workers", workers).Msg("starting scan")
			detected := scanner.Scan(folders)
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(cmd.ErrOrStderr())
			}

			if save {
				if err := saveDetections(cmd, cfg, detected, out == formatTable, log); err != nil {
					return err
				}
			}

			if out != formatTable {
				return writeStructured(cmd.OutOrStdout(), out, detected, detected)
			}

			if len(detected) == 0 {
				ui.PrintWarning("No games found in %d folder(s)", len(folders))
				return nil
			}

			printDetectionTable(cmd, detected)
			recognized := 0
			for _, game := range detected {
				if game.HasEngine() {
					recognized++
				}
			}
			ui.PrintInfo("Detected %d game(s) in %d folder(s), %d with a known engine", len(detected), len(folders), recognized)
			return nil
		},
	}

	addOutputFlags(cmd, &format, &jsonOutput)
	cmd.Flags().BoolVar(&save, "save", false, "add detected games to the library")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "folders inspected concurrently (default from scan.workers)")
	cmd.Flags().BoolVar(&libraryDirs, "library", false, "scan the subdirectories of each folder")

	return cmd
}

// saveDetections imports detected games into the library. The summary line
// is only printed when stdout is not carrying structured output.
func saveDetections(cmd *cobra.Command, cfg *config.Config, detected []core.DetectedGame, announce bool, log *zerolog.Logger) error {
	if len(detected) == 0 {
		return nil
	}

	database, err := openDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	saved, err := library.SaveAll(cmd.Context(), database, detected, logging.Component(log, "library"))
	if err != nil {
		ui.PrintError("failed to save games: %v", err)
		return withExitCode(core.ExitDatabase, err)
	}

	log.Info().Int("games", len(saved)).Msg("saved detections to the library")
	if announce {
		ui.PrintSuccess("Saved %d game(s) to the library", len(saved))
	}
	return nil
}

// libraryFolders lists the visible subdirectories of each root in name order
func libraryFolders(fs afero.Fs, roots []string, log *zerolog.Logger) []string {
	var folders []string
	for _, root := range roots {
		entries, err := afero.ReadDir(fs, root)
		if err != nil {
			log.Warn().Err(err).Str("folder", root).Msg("cannot read library folder")
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			folders = append(folders, filepath.Join(root, entry.Name()))
		}
	}
	return folders
}

func printDetectionTable(cmd *cobra.Command, detected []core.DetectedGame) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Title", "Engine", "Executable"}),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, game := range detected {
		exe := game.ExePath
		if rel, err := filepath.Rel(game.InstallPath, game.ExePath); err == nil && !strings.HasPrefix(rel, "..") {
			exe = rel
		}
		table.Append(game.Title, ui.ColorizeEngine(game.Engine), exe)
	}

	table.Render()
}
