package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// timeLayout is fixed width so timestamps stored as text sort chronologically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps the database connection
type DB struct {
	*sql.DB
	driver string
}

// NewDB creates a new database connection
// For postgres, dsn should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=investsim sslmode=disable"
// For sqlite, dsn is a file path or ":memory:"
func NewDB(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer; one connection also keeps ":memory:" databases shared
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, driver: driver}, nil
}

// Driver returns the name of the driver in use
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS simulations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		mode TEXT NOT NULL,
		frequency TEXT NOT NULL DEFAULT '',
		request TEXT NOT NULL,
		results TEXT NOT NULL,
		summary TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		last_run_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_simulations_user ON simulations (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_simulations_tracking ON simulations (mode, frequency)`,
	`CREATE TABLE IF NOT EXISTS daily_updates (
		simulation_id TEXT NOT NULL REFERENCES simulations (id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		date TEXT NOT NULL,
		value TEXT NOT NULL,
		percent_change TEXT NOT NULL,
		cumulative_return TEXT NOT NULL,
		PRIMARY KEY (simulation_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		ticker TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL
	)`,
}

// Migrate creates the tables if they do not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// rebind rewrites "?" placeholders into the driver's native form
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
