package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/engines"
	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/helpers"
	"github.com/quantmind-br/gamescan/internal/paths"
	"github.com/quantmind-br/gamescan/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, database and launch setup",
		Long:  `Check that the data directories are writable, the library database is reachable, the launch wrapper exists and library games still point at files on disk.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()
			resolver := paths.NewResolver(cfg)
			runner := helpers.NewOSCommandRunner()

			var issues, warnings []string

			ui.PrintHeader("Directories")
			dirs := []struct {
				path string
				name string
			}{
				{resolver.DataDir(), "Data directory"},
				{filepath.Dir(resolver.DBFile()), "Database directory"},
				{resolver.CoversDir(), "Covers directory"},
				{resolver.ScreenshotsDir(), "Screenshots directory"},
			}
			for _, dir := range dirs {
				if err := checkDirectory(fs, dir.path); err != nil {
					ui.PrintError("%s: %v", dir.name, err)
					issues = append(issues, fmt.Sprintf("%s not writable: %s", dir.name, dir.path))
				} else {
					ui.PrintSuccess("%s: %s", dir.name, dir.path)
				}
			}

			ui.PrintHeader("Database")
			database, err := db.New(cmd.Context(), resolver.DBFile())
			if err != nil {
				ui.PrintError("Database: not accessible (%v)", err)
				issues = append(issues, fmt.Sprintf("cannot open database: %v", err))
			} else {
				defer func() { _ = database.Close() }()
				dbIssues, dbWarnings := checkDatabase(cmd.Context(), fs, database, verbose)
				issues = append(issues, dbIssues...)
				warnings = append(warnings, dbWarnings...)
			}

			ui.PrintHeader("Launching")
			if msg, err := checkWrapper(cmd.Context(), runner, cfg.Launch.Wrapper); err != nil {
				ui.PrintError("%v", err)
				issues = append(issues, err.Error())
			} else {
				ui.PrintSuccess("%s", msg)
			}

			ui.PrintHeader("Environment")
			checkEnvironment()

			if verbose {
				ui.PrintHeader("Engines")
				listEngineMarkers()
			}

			ui.PrintHeader("Summary")
			if len(issues) == 0 {
				ui.PrintSuccess("All critical checks passed!")
			} else {
				ui.PrintError("Found %d issue(s):", len(issues))
				ui.PrintList(issues)
			}
			if len(warnings) > 0 {
				ui.PrintWarning("Found %d warning(s):", len(warnings))
				ui.PrintList(warnings)
			}

			log.Debug().Int("issues", len(issues)).Int("warnings", len(warnings)).Msg("doctor finished")

			if len(issues) > 0 {
				return withExitCode(core.ExitGeneral, fmt.Errorf("system check failed with %d issue(s)", len(issues)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "check library games for missing files and list engine markers")

	return cmd
}

// listEngineMarkers prints the marker files engine detection looks for, in
// match order
func listEngineMarkers() {
	sigs := engines.Signatures()
	ui.PrintInfo("Known engine markers: %d", len(sigs))
	lines := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		lines = append(lines, fmt.Sprintf("%s -> %s", sig.Marker, sig.Engine))
	}
	ui.PrintList(lines)
}

// checkDirectory creates path when missing and checks that it is writable
func checkDirectory(fs afero.Fs, path string) error {
	if fsops.Exists(fs, path) && !fsops.IsDir(fs, path) {
		return fmt.Errorf("not a directory: %s", path)
	}
	if err := fsops.EnsureDir(fs, path, 0o755); err != nil {
		return err
	}
	return fsops.CheckWritable(fs, path)
}

func checkDatabase(ctx context.Context, fs afero.Fs, database *db.DB, verbose bool) (issues, warnings []string) {
	version, err := database.SchemaVersion()
	if err != nil {
		ui.PrintError("Schema: unknown (%v)", err)
		issues = append(issues, fmt.Sprintf("cannot read schema version: %v", err))
	} else {
		ui.PrintSuccess("Database: %s (schema %d)", database.Path(), version)
	}

	games, err := database.ListGames(ctx)
	if err != nil {
		ui.PrintWarning("Cannot list games: %v", err)
		return issues, append(warnings, "cannot list games")
	}
	ui.PrintInfo("Library games: %d", len(games))

	if !verbose {
		return issues, warnings
	}

	broken := brokenGames(fs, games)
	if len(broken) == 0 {
		ui.PrintSuccess("All library games have their files")
		return issues, warnings
	}

	ui.PrintWarning("Found %d game(s) with missing files:", len(broken))
	labels := make([]string, 0, len(broken))
	for _, g := range broken {
		labels = append(labels, fmt.Sprintf("%s (%s)", g.Title, shortID(g.GameID)))
	}
	ui.PrintList(labels)
	return issues, append(warnings, fmt.Sprintf("%d game(s) have missing files", len(broken)))
}

// brokenGames returns games whose install folder or executable is gone
func brokenGames(fs afero.Fs, games []db.Game) []db.Game {
	var broken []db.Game
	for _, g := range games {
		if !fsops.IsDir(fs, g.InstallPath) || !fsops.Exists(fs, g.ExePath) {
			broken = append(broken, g)
		}
	}
	return broken
}

// checkWrapper verifies the configured launch wrapper and reports its version
func checkWrapper(ctx context.Context, runner helpers.CommandRunner, wrapper string) (string, error) {
	if wrapper == "" {
		return "Games run directly (no launch.wrapper set)", nil
	}
	if err := runner.RequireCommand(wrapper); err != nil {
		return "", fmt.Errorf("launch wrapper: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := runner.RunCommand(ctx, wrapper, "--version")
	if err != nil {
		return fmt.Sprintf("Launch wrapper: %s (version unknown)", wrapper), nil
	}
	version, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return fmt.Sprintf("Launch wrapper: %s (%s)", wrapper, version), nil
}

func checkEnvironment() {
	for _, name := range []string{"XDG_DATA_HOME", "XDG_CONFIG_HOME", "WINEPREFIX"} {
		if value := os.Getenv(name); value != "" {
			ui.PrintSuccess("%s: %s", name, value)
		} else {
			ui.PrintInfo("%s: not set (using defaults)", name)
		}
	}
	ui.PrintInfo("Config directory: %s", config.Dir())
}
