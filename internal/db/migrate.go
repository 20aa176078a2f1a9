package db

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// goose keeps its dialect and filesystem in package globals
var migrationMu sync.Mutex

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debug().Str("component", "migrate").Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Error().Str("component", "migrate").Msgf(format, v...)
}

func migrateUp(conn *sql.DB) error {
	migrationMu.Lock()
	defer migrationMu.Unlock()

	goose.SetLogger(gooseLogger{})
	goose.SetBaseFS(migrationFiles)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// SchemaVersion reports the applied migration version
func (db *DB) SchemaVersion() (int64, error) {
	migrationMu.Lock()
	defer migrationMu.Unlock()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("set migration dialect: %w", err)
	}

	version, err := goose.GetDBVersion(db.read)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
