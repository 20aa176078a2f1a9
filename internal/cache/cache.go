// Package cache refreshes the desktop database after launcher entries
// change, so menus pick them up without a new login.
package cache

import (
	"context"
	"time"

	"github.com/quantmind-br/gamescan/internal/helpers"
	"github.com/rs/zerolog"
)

const updateDesktopDatabase = "update-desktop-database"

// Refresher updates desktop caches for a directory of launcher entries
type Refresher interface {
	UpdateDesktopDatabase(appsDir string, log *zerolog.Logger) error
}

// CacheManager handles cache updates
type CacheManager struct {
	runner  helpers.CommandRunner
	timeout time.Duration
}

// NewCacheManager creates a new CacheManager with the default command runner
func NewCacheManager() *CacheManager {
	return NewCacheManagerWithRunner(helpers.NewOSCommandRunner())
}

// NewCacheManagerWithRunner creates a new CacheManager with a custom command runner
func NewCacheManagerWithRunner(runner helpers.CommandRunner) *CacheManager {
	return &CacheManager{
		runner:  runner,
		timeout: 30 * time.Second,
	}
}

// UpdateDesktopDatabase runs update-desktop-database on appsDir. A missing
// tool or a failed run is logged and otherwise ignored.
func (c *CacheManager) UpdateDesktopDatabase(appsDir string, log *zerolog.Logger) error {
	if !c.runner.CommandExists(updateDesktopDatabase) {
		log.Warn().Msg("update-desktop-database not found, skipping desktop database update")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if _, err := c.runner.RunCommand(ctx, updateDesktopDatabase, appsDir); err != nil {
		log.Warn().Err(err).Msg("desktop database update failed (non-fatal)")
		return nil
	}

	log.Debug().Str("apps_dir", appsDir).Msg("desktop database updated")
	return nil
}
