// Package store is the embedded relational engine of §4.4/§6: a
// modernc.org/sqlite-backed database exposing four typed repositories
// (card, relation, classification, code link) plus an FTS5 index kept
// in sync by triggers. Pragma sequencing and schema-on-open follow the
// teacher's internal/ingest/sqlite_writer.go; query shapes follow
// internal/graph/sqlite_graph.go's use of database/sql directly (no
// ORM anywhere in the pack for SQLite access).
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store owns the single *sql.DB shared mutably across all repositories
// within a context, per §5 ("the store handle is shared mutably across
// all repositories within a context").
type Store struct {
	db *sql.DB

	Cards           *CardRepo
	Relations       *RelationRepo
	Classifications *ClassificationRepo
	CodeLinks       *CodeLinkRepo
}

// Open creates the parent directory if needed, opens the database,
// applies the pragmas required by §4.4/§6 (WAL, foreign keys,
// busy_timeout=5000ms), and runs migrations forward-only.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// A single writer connection avoids SQLITE_BUSY storms across
	// goroutines; contention is instead handled by the per-key lock and
	// retry wrapper in internal/concurrency, matching §5's "the engine
	// is not thread-safe across OS threads" assumption.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &Store{db: db}
	s.Cards = &CardRepo{db: db}
	s.Relations = &RelationRepo{db: db}
	s.Classifications = &ClassificationRepo{db: db}
	s.CodeLinks = &CodeLinkRepo{db: db}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the raw handle for the rare caller (migrations, tests)
// that needs it directly. Operations code should go through the typed
// repositories instead.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx runs fn inside a single transaction, committing on success and
// rolling back on any error fn returns — the one place a multi-table
// write (§4.7's dbAction) is assembled.
func (s *Store) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
