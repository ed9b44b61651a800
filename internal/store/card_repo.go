package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cerr"
)

// CardRepo is the typed repository over the card table.
type CardRepo struct {
	db *sql.DB
}

// execer lets repository methods run either against the shared db handle
// or inside a caller-supplied transaction, the shape every repo method
// below follows so dbAction can compose several repos into one tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (r *CardRepo) conn(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.db
}

func scanCard(row interface{ Scan(...any) error }) (api.Card, error) {
	var c api.Card
	var constraints sql.NullString
	var updatedAt string
	err := row.Scan(&c.Key, &c.Summary, &c.Status, &constraints, &c.Body, &c.FilePath, &updatedAt)
	if err != nil {
		return api.Card{}, err
	}
	if constraints.Valid {
		c.Constraints = &constraints.String
	}
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return c, nil
}

// FindByKey returns the card row for key, or a CardNotFoundError.
func (r *CardRepo) FindByKey(tx *sql.Tx, key string) (api.Card, error) {
	row := r.conn(tx).QueryRow(`SELECT key, summary, status, constraintsJson, body, filePath, updatedAt FROM card WHERE key = ?`, key)
	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return api.Card{}, &cerr.CardNotFoundError{Key: key}
	}
	if err != nil {
		return api.Card{}, err
	}
	return c, nil
}

// FindByFilePath returns the card row whose filePath matches path.
func (r *CardRepo) FindByFilePath(tx *sql.Tx, path string) (api.Card, error) {
	row := r.conn(tx).QueryRow(`SELECT key, summary, status, constraintsJson, body, filePath, updatedAt FROM card WHERE filePath = ?`, path)
	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return api.Card{}, &cerr.CardNotFoundError{Key: path}
	}
	if err != nil {
		return api.Card{}, err
	}
	return c, nil
}

// ExistsByKey reports whether a card row exists for key.
func (r *CardRepo) ExistsByKey(tx *sql.Tx, key string) (bool, error) {
	var exists int
	err := r.conn(tx).QueryRow(`SELECT 1 FROM card WHERE key = ?`, key).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert inserts or replaces the card row.
func (r *CardRepo) Upsert(tx *sql.Tx, c api.Card) error {
	updatedAt := c.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := r.conn(tx).Exec(`
		INSERT INTO card (key, summary, status, constraintsJson, body, filePath, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			summary = excluded.summary,
			status = excluded.status,
			constraintsJson = excluded.constraintsJson,
			body = excluded.body,
			filePath = excluded.filePath,
			updatedAt = excluded.updatedAt
	`, c.Key, c.Summary, c.Status, c.Constraints, c.Body, c.FilePath, updatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert card %s: %w", c.Key, err)
	}
	return nil
}

// DeleteByKey removes the card row; FK cascades clear relations,
// classification mappings, and code links.
func (r *CardRepo) DeleteByKey(tx *sql.Tx, key string) error {
	_, err := r.conn(tx).Exec(`DELETE FROM card WHERE key = ?`, key)
	return err
}

// ListFilter narrows List to a status, when non-empty.
type ListFilter struct {
	Status api.CardStatus
}

// List returns card rows, optionally filtered by status.
func (r *CardRepo) List(tx *sql.Tx, filter ListFilter) ([]api.Card, error) {
	var rows *sql.Rows
	var err error
	if filter.Status != "" {
		rows, err = r.conn(tx).Query(`SELECT key, summary, status, constraintsJson, body, filePath, updatedAt FROM card WHERE status = ? ORDER BY key`, filter.Status)
	} else {
		rows, err = r.conn(tx).Query(`SELECT key, summary, status, constraintsJson, body, filePath, updatedAt FROM card ORDER BY key`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Search runs an FTS5 MATCH query and joins back to the card table.
// Returns empty on empty input.
func (r *CardRepo) Search(tx *sql.Tx, query string) ([]api.Card, error) {
	if query == "" {
		return nil, nil
	}
	rows, err := r.conn(tx).Query(`
		SELECT c.key, c.summary, c.status, c.constraintsJson, c.body, c.filePath, c.updatedAt
		FROM card_fts f
		JOIN card c ON c.rowid = f.rowid
		WHERE card_fts MATCH ?
		ORDER BY rank
	`, query)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()

	var out []api.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
