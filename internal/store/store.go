package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Store struct {
	db      *sqlx.DB
	dialect dialect
}

// dialect holds the DDL fragments that differ between drivers
type dialect struct {
	idColumn string
	ts       string
}

var dialects = map[string]dialect{
	DriverSQLite:   {idColumn: "INTEGER PRIMARY KEY AUTOINCREMENT", ts: "DATETIME"},
	DriverPostgres: {idColumn: "BIGSERIAL PRIMARY KEY", ts: "TIMESTAMPTZ"},
}

// NewStore opens the database for the given driver
func NewStore(driver, databaseURL string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// One connection: the file (or :memory: database) has a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, dialect: d}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the shared tables. Safe to call repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	schema := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS stock_items (
			id %s,
			relation TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			quantity TEXT NOT NULL DEFAULT '',
			expiry_date TEXT NOT NULL DEFAULT '',
			batch_no TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL DEFAULT 0
		)`, s.dialect.idColumn),
		`CREATE INDEX IF NOT EXISTS idx_stock_items_relation_expiry ON stock_items (relation, expiry_date)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS stock_relations (
			relation TEXT PRIMARY KEY,
			tenant TEXT NOT NULL,
			kind TEXT NOT NULL,
			created_at %s DEFAULT CURRENT_TIMESTAMP
		)`, s.dialect.ts),
		`CREATE TABLE IF NOT EXISTS staging_entries (
			entry_key TEXT PRIMARY KEY,
			payload TEXT NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
