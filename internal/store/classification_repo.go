package store

import "database/sql"

// ClassificationRepo manages the two parallel keyword/tag structures:
// an interned name table plus a per-card mapping table (§3).
type ClassificationRepo struct {
	db *sql.DB
}

func (r *ClassificationRepo) conn(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.db
}

// ReplaceKeywords interns any new names, then replaces this card's
// keyword mappings to exactly the given set. An empty list deletes the
// mappings without interning anything new.
func (r *ClassificationRepo) ReplaceKeywords(tx *sql.Tx, key string, names []string) error {
	return r.replace(tx, "keyword", "card_keyword", "keyword_id", key, names)
}

// ReplaceTags is ReplaceKeywords for the tag structure.
func (r *ClassificationRepo) ReplaceTags(tx *sql.Tx, key string, names []string) error {
	return r.replace(tx, "tag", "card_tag", "tag_id", key, names)
}

func (r *ClassificationRepo) replace(tx *sql.Tx, nameTable, mapTable, mapCol, key string, names []string) error {
	c := r.conn(tx)
	if _, err := c.Exec(`DELETE FROM `+mapTable+` WHERE card_key = ?`, key); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := c.Exec(`INSERT OR IGNORE INTO `+nameTable+` (name) VALUES (?)`, name); err != nil {
			return err
		}
		var id int64
		if err := c.QueryRow(`SELECT id FROM `+nameTable+` WHERE name = ?`, name).Scan(&id); err != nil {
			return err
		}
		if _, err := c.Exec(`INSERT OR IGNORE INTO `+mapTable+` (card_key, `+mapCol+`) VALUES (?, ?)`, key, id); err != nil {
			return err
		}
	}
	return nil
}

// FindKeywordsByCard returns the keyword names attached to key.
func (r *ClassificationRepo) FindKeywordsByCard(tx *sql.Tx, key string) ([]string, error) {
	return r.namesForCard(tx, "keyword", "card_keyword", "keyword_id", key)
}

// FindTagsByCard returns the tag names attached to key.
func (r *ClassificationRepo) FindTagsByCard(tx *sql.Tx, key string) ([]string, error) {
	return r.namesForCard(tx, "tag", "card_tag", "tag_id", key)
}

func (r *ClassificationRepo) namesForCard(tx *sql.Tx, nameTable, mapTable, mapCol, key string) ([]string, error) {
	rows, err := r.conn(tx).Query(`
		SELECT n.name FROM `+nameTable+` n
		JOIN `+mapTable+` m ON m.`+mapCol+` = n.id
		WHERE m.card_key = ?
		ORDER BY n.name
	`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// DeleteByCardKey clears both keyword and tag mappings for key.
func (r *ClassificationRepo) DeleteByCardKey(tx *sql.Tx, key string) error {
	c := r.conn(tx)
	if _, err := c.Exec(`DELETE FROM card_keyword WHERE card_key = ?`, key); err != nil {
		return err
	}
	if _, err := c.Exec(`DELETE FROM card_tag WHERE card_key = ?`, key); err != nil {
		return err
	}
	return nil
}

// PruneOrphans removes keyword/tag name rows with no remaining mapping.
func (r *ClassificationRepo) PruneOrphans(tx *sql.Tx) error {
	c := r.conn(tx)
	if _, err := c.Exec(`DELETE FROM keyword WHERE id NOT IN (SELECT keyword_id FROM card_keyword)`); err != nil {
		return err
	}
	if _, err := c.Exec(`DELETE FROM tag WHERE id NOT IN (SELECT tag_id FROM card_tag)`); err != nil {
		return err
	}
	return nil
}
