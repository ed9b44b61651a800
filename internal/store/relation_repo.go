package store

import (
	"database/sql"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/agentic-research/cardgraph/api"
)

// RelationRepo is the typed repository over card_relation, which stores
// every forward edge together with its materialized reverse mirror
// (§3's mirror rule).
type RelationRepo struct {
	db *sql.DB
}

func (r *RelationRepo) conn(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.db
}

// ReplaceForCard deletes only the edges this card owns — its forward
// edges (src = key) and the mirrors of edges it declared (dst = key AND
// is_reverse = true) — then inserts the new forward edges and their
// mirrors. It never touches another card's forward edges that happen to
// point at key.
//
// A relation whose target card is missing triggers a foreign-key
// violation; that single edge is skipped with a logged warning, and the
// rest of the batch proceeds (§4.4).
func (r *RelationRepo) ReplaceForCard(tx *sql.Tx, key string, relations []api.RelationInput) error {
	c := r.conn(tx)

	if _, err := c.Exec(`DELETE FROM card_relation WHERE src_card_key = ?`, key); err != nil {
		return err
	}
	if _, err := c.Exec(`DELETE FROM card_relation WHERE dst_card_key = ? AND is_reverse = 1`, key); err != nil {
		return err
	}

	for _, rel := range relations {
		if err := r.insertEdgeAndMirror(c, rel.Type, key, rel.Target); err != nil {
			return err
		}
	}
	return nil
}

func (r *RelationRepo) insertEdgeAndMirror(c execer, relType, src, dst string) error {
	if _, err := c.Exec(
		`INSERT INTO card_relation (id, type, src_card_key, dst_card_key, is_reverse) VALUES (?, ?, ?, ?, 0)`,
		uuid.NewString(), relType, src, dst,
	); err != nil {
		if !isForeignKeyViolation(err) {
			return err
		}
		log.Printf("store: skipping relation %s %s->%s: %v", relType, src, dst, err)
		return nil
	}
	if _, err := c.Exec(
		`INSERT INTO card_relation (id, type, src_card_key, dst_card_key, is_reverse) VALUES (?, ?, ?, ?, 1)`,
		uuid.NewString(), relType, dst, src,
	); err != nil {
		// Roll the forward half back out so no half-mirrored edge survives,
		// regardless of whether the mirror failure itself is propagated.
		_, _ = c.Exec(`DELETE FROM card_relation WHERE type = ? AND src_card_key = ? AND dst_card_key = ? AND is_reverse = 0`, relType, src, dst)
		if !isForeignKeyViolation(err) {
			return err
		}
		log.Printf("store: skipping mirror for relation %s %s->%s: %v", relType, src, dst, err)
		return nil
	}
	return nil
}

// isForeignKeyViolation reports whether err is the driver's rejection of a
// relation row whose target card doesn't exist. Only this class of error is
// swallowed (§4.4); a unique-mirror collision (the self-reference case) or a
// busy-store error must propagate so the caller's transaction aborts and the
// retry wrapper sees it.
func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// FindByCardKey returns all edges with src = key, both directions.
func (r *RelationRepo) FindByCardKey(tx *sql.Tx, key string) ([]api.Relation, error) {
	rows, err := r.conn(tx).Query(`SELECT type, src_card_key, dst_card_key, is_reverse FROM card_relation WHERE src_card_key = ? ORDER BY rowid`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.Relation
	for rows.Next() {
		var rel api.Relation
		var isReverse int
		if err := rows.Scan(&rel.Type, &rel.SrcCardKey, &rel.DstCardKey, &isReverse); err != nil {
			return nil, err
		}
		rel.IsReverse = isReverse != 0
		out = append(out, rel)
	}
	return out, rows.Err()
}
