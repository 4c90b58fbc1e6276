// Package store persists a diffed call graph to SQLite so downstream tooling
// can query methods, edges and the ranking without re-running the analysis.
package store

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

// Connection pragmas, passed through the go-sqlite3 DSN. WAL lets readers
// inspect a database while an export transaction is still writing it, and
// the busy timeout covers that same overlap from the writer's side.
const (
	pragmaJournalMode = "WAL"
	pragmaForeignKeys = "ON"
	pragmaBusyTimeout = "30000"
)

// Store wraps the SQLite database that exported diff results land in.
type Store struct {
	db *sql.DB
}

// dsn renders the go-sqlite3 connection string for a database file.
func dsn(dbPath string) string {
	opts := url.Values{}
	opts.Set("_journal_mode", pragmaJournalMode)
	opts.Set("_foreign_keys", pragmaForeignKeys)
	opts.Set("_busy_timeout", pragmaBusyTimeout)
	return dbPath + "?" + opts.Encode()
}

// NewStore opens the database file at dbPath, creating it if absent, and
// verifies the connection before handing the store out.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the raw handle for ad-hoc queries by tests and tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate applies the schema. Safe to run against an already-migrated
// database.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS graphs (
  id                          INTEGER PRIMARY KEY,
  name                        TEXT NOT NULL,
  method_count                INTEGER NOT NULL,
  unreachable_count           INTEGER NOT NULL,
  spuriously_reachable_count  INTEGER NOT NULL,
  truly_reachable_count       INTEGER NOT NULL,
  edge_count                  INTEGER NOT NULL,
  spurious_count              INTEGER NOT NULL,
  nonspurious_count           INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS methods (
  id              INTEGER PRIMARY KEY,
  graph_id        INTEGER NOT NULL REFERENCES graphs(id),
  method_id       INTEGER NOT NULL,
  name            TEXT NOT NULL,
  declared_type   TEXT NOT NULL,
  parameters      TEXT NOT NULL,
  return_type     TEXT NOT NULL,
  display         TEXT,
  flags           TEXT,
  qualified_name  TEXT NOT NULL,
  is_entry_point  BOOLEAN NOT NULL,
  reachability    INTEGER NOT NULL,
  value           REAL NOT NULL,
  present_in_other BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS edges (
  id                INTEGER PRIMARY KEY,
  graph_id          INTEGER NOT NULL REFERENCES graphs(id),
  source_method_id  INTEGER NOT NULL,
  target_method_id  INTEGER NOT NULL,
  is_spurious       BOOLEAN NOT NULL,
  value             REAL NOT NULL,
  rank              INTEGER
);

CREATE INDEX IF NOT EXISTS idx_methods_graph ON methods(graph_id);
CREATE INDEX IF NOT EXISTS idx_methods_qualified ON methods(qualified_name);
CREATE INDEX IF NOT EXISTS idx_edges_graph ON edges(graph_id);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_method_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_method_id);
CREATE INDEX IF NOT EXISTS idx_edges_rank ON edges(rank);
`
