package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Test loading config (will use defaults if file doesn't exist)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if cfg.Logging.Level == "" {
		t.Error("expected default log level, got empty")
	}

	if cfg.Paths.DataDir == "" {
		t.Error("expected default data_dir, got empty")
	}

	if cfg.Scan.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Scan.Workers)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
db_file = "` + filepath.ToSlash(filepath.Join(dir, "lib.db")) + `"

[scan]
workers = 8
roots = ["/mnt/games/a", "/mnt/games/b"]

[launch]
wrapper = "wine"
wrapper_args = ["--debug"]

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "lib.db")), filepath.ToSlash(cfg.Paths.DBFile))
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, []string{"/mnt/games/a", "/mnt/games/b"}, cfg.Scan.Roots)
	assert.Equal(t, "wine", cfg.Launch.Wrapper)
	assert.Equal(t, []string{"--debug"}, cfg.Launch.WrapperArgs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Media.TimeoutSecs, "unset keys keep defaults")
}

func TestLoadFile_InvalidWorkersClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scan]\nworkers = 0\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Scan.Workers)
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scan\nworkers = "), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown log level", "[logging]\nlevel = \"loud\"\n", "config.logging.level"},
		{"unknown color mode", "[logging]\ncolor = \"sometimes\"\n", "config.logging.color"},
		{"zero media timeout", "[media]\ntimeout_secs = 0\n", "config.media.timeoutsecs"},
		{"too many workers", "[scan]\nworkers = 1000\n", "config.scan.workers"},
		{"empty root", "[scan]\nroots = [\"\"]\n", "config.scan.roots[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDefaultsFollowXDG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(xdg.DataHome, AppName), cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join(xdg.DataHome, AppName, "library.db"), cfg.Paths.DBFile)
	assert.Equal(t, filepath.Join(xdg.ConfigHome, AppName), Dir())
}

func TestTOML(t *testing.T) {
	cfg := &Config{
		Paths:   PathsConfig{DataDir: "/data", DBFile: "/data/library.db"},
		Scan:    ScanConfig{Workers: 8, Roots: []string{"/mnt/games"}},
		Launch:  LaunchConfig{Wrapper: "wine"},
		Media:   MediaConfig{TimeoutSecs: 30},
		Logging: LoggingConfig{Level: "info", Color: "auto"},
	}

	data, err := cfg.TOML()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "[scan]")
	assert.Contains(t, out, "workers = 8")
	assert.Contains(t, out, "wrapper = 'wine'")
	assert.True(t, strings.Contains(out, "roots = ['/mnt/games']"), out)

	// The rendered file loads back to the same values
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Scan, loaded.Scan)
	assert.Equal(t, cfg.Launch.Wrapper, loaded.Launch.Wrapper)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GAMESCAN_LAUNCH_WRAPPER", "proton")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "proton", cfg.Launch.Wrapper)
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty path",
			input: "",
			want:  "",
		},
		{
			name:  "absolute path",
			input: "/usr/local/bin",
			want:  "/usr/local/bin",
		},
		{
			name:  "home expansion",
			input: "~/test",
			want:  filepath.Join(homeDir, "test"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
