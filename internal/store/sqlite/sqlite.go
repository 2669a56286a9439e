// Package sqlite implements the local persistent store on an embedded
// SQLite database. Each collection maps to one table with an
// auto-incrementing integer primary key; AUTOINCREMENT guarantees ids
// are unique and never reused. The schema is gated by PRAGMA
// user_version: bumping the version creates any missing tables without
// touching data already present in existing ones.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/juiceai/juice-server/internal/store"
)

// migrations holds one DDL script per schema version. Index i upgrades
// the database from user_version i to i+1. Scripts must be additive and
// idempotent (CREATE ... IF NOT EXISTS) so a partially applied upgrade
// can be re-run safely.
var migrations = []string{
	// v1: the four base collections
	`
	CREATE TABLE IF NOT EXISTS contacts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		type       TEXT NOT NULL,
		value      TEXT NOT NULL,
		source     TEXT,
		metadata   TEXT,
		tags       TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_contacts_type  ON contacts(type);
	CREATE INDEX IF NOT EXISTS idx_contacts_value ON contacts(value);

	CREATE TABLE IF NOT EXISTS contact_lists (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		contact_ids TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL,
		updated_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_contact_lists_name ON contact_lists(name);

	CREATE TABLE IF NOT EXISTS campaigns (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT NOT NULL,
		subject         TEXT NOT NULL,
		body            TEXT NOT NULL,
		contact_list_id INTEGER NOT NULL DEFAULT 0,
		status          TEXT NOT NULL DEFAULT 'draft',
		scheduled_date  TEXT,
		stats           TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_campaigns_status ON campaigns(status);
	CREATE INDEX IF NOT EXISTS idx_campaigns_name   ON campaigns(name);

	CREATE TABLE IF NOT EXISTS user (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		name       TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		company    TEXT NOT NULL DEFAULT '',
		updated_at TEXT
	);
	`,
}

// Open opens (creating if necessary) the database at path and brings the
// schema up to the current version. Returns store.ErrUnavailable when the
// engine cannot be opened.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	// The modernc driver serializes poorly across pooled connections;
	// a single connection sidesteps SQLITE_BUSY under our load.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if _, err := db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("apply schema v%d: %w", v+1, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			return fmt.Errorf("bump schema version: %w", err)
		}
	}
	return nil
}

// timestamps are stored as RFC3339 text so records stay readable with
// the sqlite3 CLI and survive driver changes.

func fmtTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func marshalJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalJSON(ns sql.NullString, dst any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), dst)
}

// execCtx is the subset of *sql.DB and *sql.Tx used by insert helpers.
type execCtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
