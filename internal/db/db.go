package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrGameNotFound is returned when no library entry matches a lookup
var ErrGameNotFound = errors.New("game not found")

// DB represents the database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New creates a new database instance with separate read/write pools
func New(ctx context.Context, dbPath string) (*DB, error) {
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(10)
	read.SetMaxIdleConns(5)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.write.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateUp(db.write); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}
