package paths

import (
	"os"
	"path/filepath"

	"github.com/quantmind-br/gamescan/internal/config"
)

// Media kinds stored under the data directory
const (
	KindCovers      = "covers"
	KindScreenshots = "screenshots"
)

// Resolver centralizes the default gamescan locations.
// Base directories come from HOME and the configuration.
type Resolver struct {
	homeDir string
	cfg     *config.Config
}

// NewResolver creates a Resolver for the current user's HOME.
func NewResolver(cfg *config.Config) *Resolver {
	homeDir, _ := os.UserHomeDir()
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
	}
}

// NewResolverWithHome creates a Resolver with an explicit homeDir.
func NewResolverWithHome(cfg *config.Config, homeDir string) *Resolver {
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
	}
}

// HomeDir returns the resolved HOME directory.
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// DataDir returns cfg.Paths.DataDir, or ~/.local/share/gamescan when unset.
func (r *Resolver) DataDir() string {
	if r.cfg != nil && r.cfg.Paths.DataDir != "" {
		return r.cfg.Paths.DataDir
	}
	return filepath.Join(r.homeDir, ".local", "share", "gamescan")
}

// DBFile returns cfg.Paths.DBFile, or library.db inside the data directory.
func (r *Resolver) DBFile() string {
	if r.cfg != nil && r.cfg.Paths.DBFile != "" {
		return r.cfg.Paths.DBFile
	}
	return filepath.Join(r.DataDir(), "library.db")
}

// MediaDir returns <data_dir>/<kind>.
func (r *Resolver) MediaDir(kind string) string {
	return filepath.Join(r.DataDir(), kind)
}

// CoversDir returns <data_dir>/covers.
func (r *Resolver) CoversDir() string {
	return r.MediaDir(KindCovers)
}

// ScreenshotsDir returns <data_dir>/screenshots.
func (r *Resolver) ScreenshotsDir() string {
	return r.MediaDir(KindScreenshots)
}

// ApplicationsDir returns ~/.local/share/applications, where launcher
// entries for the current user live.
func (r *Resolver) ApplicationsDir() string {
	return filepath.Join(r.homeDir, ".local", "share", "applications")
}
