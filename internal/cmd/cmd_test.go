package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/gamescan/internal/config"
	"github.com/quantmind-br/gamescan/internal/core"
	"github.com/quantmind-br/gamescan/internal/db"
	"github.com/quantmind-br/gamescan/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dataDir := filepath.Join(t.TempDir(), "data")
	return &config.Config{
		Paths: config.PathsConfig{
			DataDir: dataDir,
			DBFile:  filepath.Join(dataDir, "library.db"),
		},
		Scan:    config.ScanConfig{Workers: 2},
		Media:   config.MediaConfig{TimeoutSecs: 5},
		Logging: config.LoggingConfig{Level: "error", Color: "never"},
	}
}

func testLogger() *zerolog.Logger {
	return logging.NewTestLogger(io.Discard)
}

// execute runs the root command with args and returns stdout and stderr
func execute(t *testing.T, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd(cfg, testLogger(), "test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// makeGame creates a game folder under root with files of the given sizes
func makeGame(t *testing.T, root, name string, files map[string]int) string {
	t.Helper()
	dir := filepath.Join(root, name)
	for rel, size := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0}, size), 0o644))
	}
	return dir
}

// seedGame stores a detection in the library of cfg
func seedGame(t *testing.T, cfg *config.Config, detected core.DetectedGame) *db.Game {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Paths.DBFile), 0o755))

	database, err := db.New(context.Background(), cfg.Paths.DBFile)
	require.NoError(t, err)
	defer database.Close()

	game, _, err := database.UpsertGame(context.Background(), detected)
	require.NoError(t, err)
	return game
}

func openTestDB(t *testing.T, cfg *config.Config) *db.DB {
	t.Helper()
	database, err := db.New(context.Background(), cfg.Paths.DBFile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}
