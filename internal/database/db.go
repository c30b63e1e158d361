// Package database opens the triply sqlite file and keeps its schema current.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

//go:generate sh -c "cd ../.. && sqlc generate"

// DB is the shared sqlite handle. Repositories build their queries on SQL.
type DB struct {
	SQL     *sql.DB
	Path    string
	Version uint
}

// NewDB brings the schema at path up to date and opens it.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	version, err := Migrate(path)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}
	return &DB{SQL: conn, Path: path, Version: version}, nil
}

func (d *DB) Close() error {
	return d.SQL.Close()
}

// dsn stores timestamps in sqlite's own text format so date() can group
// them, and waits on a locked file instead of failing.
func dsn(path string) string {
	q := url.Values{}
	q.Set("_time_format", "sqlite")
	q.Set("_pragma", "busy_timeout(5000)")
	return path + "?" + q.Encode()
}

// Migrate applies the embedded migrations to the file at path and returns
// the resulting schema version.
func Migrate(path string) (uint, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
