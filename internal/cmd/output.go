package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
	formatYAML  = "yaml"
)

var outputFormats = []string{formatTable, formatJSON, formatCSV, formatYAML}

// addOutputFlags registers --output and its --json shorthand
func addOutputFlags(cmd *cobra.Command, format *string, jsonOutput *bool) {
	cmd.Flags().StringVarP(format, "output", "o", formatTable, "output format: "+strings.Join(outputFormats, ", "))
	cmd.Flags().BoolVar(jsonOutput, "json", false, "shorthand for --output json")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func resolveFormat(format string, jsonOutput bool) (string, error) {
	if jsonOutput {
		return formatJSON, nil
	}

	f := strings.ToLower(strings.TrimSpace(format))
	for _, known := range outputFormats {
		if f == known {
			return f, nil
		}
	}

	return "", withExitCode(core.ExitInvalidArgs,
		fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(outputFormats, ", ")))
}

// writeStructured renders value as JSON or YAML, or rows as CSV. rows must
// be a slice of structs carrying csv tags.
func writeStructured(w io.Writer, format string, value, rows interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case formatCSV:
		if err := gocsv.Marshal(rows, w); err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// gameRow is the flat CSV form of a library entry
type gameRow struct {
	GameID       string `csv:"game_id"`
	Title        string `csv:"title"`
	Engine       string `csv:"engine"`
	PlaytimeSecs int64  `csv:"playtime_secs"`
	LastPlayed   string `csv:"last_played"`
	AddedAt      string `csv:"added_at"`
	InstallPath  string `csv:"install_path"`
	ExePath      string `csv:"exe_path"`
}

func gameRows(games []db.Game) []gameRow {
	rows := make([]gameRow, 0, len(games))
	for _, g := range games {
		rows = append(rows, gameRow{
			GameID:       g.GameID,
			Title:        g.Title,
			Engine:       g.Engine,
			PlaytimeSecs: int64(g.Playtime / time.Second),
			LastPlayed:   formatTimestamp(g.LastPlayed),
			AddedAt:      formatTimestamp(g.AddedAt),
			InstallPath:  g.InstallPath,
			ExePath:      g.ExePath,
		})
	}
	return rows
}

// sessionRow is the flat CSV form of a play session
type sessionRow struct {
	SessionID    string `csv:"session_id"`
	StartTime    string `csv:"start_time"`
	EndTime      string `csv:"end_time"`
	DurationSecs int64  `csv:"duration_secs"`
	ExitError    string `csv:"exit_error"`
}

func sessionRows(sessions []core.PlaySession) []sessionRow {
	rows := make([]sessionRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, sessionRow{
			SessionID:    s.SessionID,
			StartTime:    formatTimestamp(s.StartTime),
			EndTime:      formatTimestamp(s.EndTime),
			DurationSecs: int64(s.Duration / time.Second),
			ExitError:    s.ExitErr,
		})
	}
	return rows
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
