package cache

import "github.com/rs/zerolog"

// MockCacheManager is a mock implementation of Refresher for testing
type MockCacheManager struct {
	UpdateDesktopDatabaseFunc func(appsDir string, log *zerolog.Logger) error
}

// UpdateDesktopDatabase implements Refresher.UpdateDesktopDatabase
func (m *MockCacheManager) UpdateDesktopDatabase(appsDir string, log *zerolog.Logger) error {
	if m.UpdateDesktopDatabaseFunc != nil {
		return m.UpdateDesktopDatabaseFunc(appsDir, log)
	}
	return nil
}
