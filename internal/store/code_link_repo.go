package store

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/agentic-research/cardgraph/api"
)

// CodeLinkRepo is the typed repository over code_link.
type CodeLinkRepo struct {
	db *sql.DB
}

func (r *CodeLinkRepo) conn(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.db
}

// ReplaceForCard deletes then reinserts all code links for key. The
// unique constraint on (card_key, kind, file, symbol) rejects duplicates.
func (r *CodeLinkRepo) ReplaceForCard(tx *sql.Tx, key string, links []api.CodeLink) error {
	c := r.conn(tx)
	if _, err := c.Exec(`DELETE FROM code_link WHERE card_key = ?`, key); err != nil {
		return err
	}
	for _, l := range links {
		if _, err := c.Exec(
			`INSERT INTO code_link (id, card_key, kind, file, symbol) VALUES (?, ?, ?, ?, ?)`,
			uuid.NewString(), key, l.Kind, l.File, l.Symbol,
		); err != nil {
			return err
		}
	}
	return nil
}

// FindByCardKey returns all code links belonging to key.
func (r *CodeLinkRepo) FindByCardKey(tx *sql.Tx, key string) ([]api.CodeLink, error) {
	return r.query(tx, `SELECT card_key, kind, file, symbol FROM code_link WHERE card_key = ? ORDER BY rowid`, key)
}

// FindBySymbol returns code links matching symbol name, optionally narrowed to file.
func (r *CodeLinkRepo) FindBySymbol(tx *sql.Tx, name string, file string) ([]api.CodeLink, error) {
	if file != "" {
		return r.query(tx, `SELECT card_key, kind, file, symbol FROM code_link WHERE symbol = ? AND file = ? ORDER BY rowid`, name, file)
	}
	return r.query(tx, `SELECT card_key, kind, file, symbol FROM code_link WHERE symbol = ? ORDER BY rowid`, name)
}

// FindByFile returns code links pointing at path.
func (r *CodeLinkRepo) FindByFile(tx *sql.Tx, path string) ([]api.CodeLink, error) {
	return r.query(tx, `SELECT card_key, kind, file, symbol FROM code_link WHERE file = ? ORDER BY rowid`, path)
}

func (r *CodeLinkRepo) query(tx *sql.Tx, q string, args ...any) ([]api.CodeLink, error) {
	rows, err := r.conn(tx).Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.CodeLink
	for rows.Next() {
		var l api.CodeLink
		if err := rows.Scan(&l.CardKey, &l.Kind, &l.File, &l.Symbol); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteByCardKey removes all code links for key.
func (r *CodeLinkRepo) DeleteByCardKey(tx *sql.Tx, key string) error {
	_, err := r.conn(tx).Exec(`DELETE FROM code_link WHERE card_key = ?`, key)
	return err
}
