package store

import (
	"database/sql"
	"fmt"
)

// migration is one forward-only schema step, applied serially and
// recorded so re-opening an existing database never re-applies it.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial schema",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS card (
				key TEXT PRIMARY KEY,
				summary TEXT NOT NULL,
				status TEXT NOT NULL,
				constraintsJson TEXT,
				body TEXT NOT NULL DEFAULT '',
				filePath TEXT NOT NULL UNIQUE,
				updatedAt TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS card_relation (
				id TEXT PRIMARY KEY,
				type TEXT NOT NULL,
				src_card_key TEXT NOT NULL REFERENCES card(key) ON DELETE CASCADE ON UPDATE CASCADE,
				dst_card_key TEXT NOT NULL REFERENCES card(key) ON DELETE CASCADE ON UPDATE CASCADE,
				is_reverse INTEGER NOT NULL DEFAULT 0,
				UNIQUE (type, src_card_key, dst_card_key)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_card_relation_src ON card_relation(src_card_key)`,
			`CREATE INDEX IF NOT EXISTS idx_card_relation_dst ON card_relation(dst_card_key)`,
			`CREATE TABLE IF NOT EXISTS keyword (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS card_keyword (
				card_key TEXT NOT NULL REFERENCES card(key) ON DELETE CASCADE ON UPDATE CASCADE,
				keyword_id INTEGER NOT NULL REFERENCES keyword(id) ON DELETE CASCADE,
				PRIMARY KEY (card_key, keyword_id)
			)`,
			`CREATE TABLE IF NOT EXISTS tag (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS card_tag (
				card_key TEXT NOT NULL REFERENCES card(key) ON DELETE CASCADE ON UPDATE CASCADE,
				tag_id INTEGER NOT NULL REFERENCES tag(id) ON DELETE CASCADE,
				PRIMARY KEY (card_key, tag_id)
			)`,
			`CREATE TABLE IF NOT EXISTS code_link (
				id TEXT PRIMARY KEY,
				card_key TEXT NOT NULL REFERENCES card(key) ON DELETE CASCADE ON UPDATE CASCADE,
				kind TEXT NOT NULL,
				file TEXT NOT NULL,
				symbol TEXT NOT NULL,
				UNIQUE (card_key, kind, file, symbol)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_code_link_card_key ON code_link(card_key)`,
			`CREATE INDEX IF NOT EXISTS idx_code_link_symbol ON code_link(symbol)`,
			`CREATE INDEX IF NOT EXISTS idx_code_link_file ON code_link(file)`,
		},
	},
	{
		version: 2,
		name:    "full text search",
		stmts: []string{
			`CREATE VIRTUAL TABLE IF NOT EXISTS card_fts USING fts5(key, summary, body)`,
			`CREATE TRIGGER IF NOT EXISTS card_ai AFTER INSERT ON card BEGIN
				INSERT INTO card_fts(rowid, key, summary, body) VALUES (new.rowid, new.key, new.summary, new.body);
			END`,
			`CREATE TRIGGER IF NOT EXISTS card_ad AFTER DELETE ON card BEGIN
				DELETE FROM card_fts WHERE rowid = old.rowid;
			END`,
			`CREATE TRIGGER IF NOT EXISTS card_au AFTER UPDATE ON card BEGIN
				UPDATE card_fts SET key = new.key, summary = new.summary, body = new.body WHERE rowid = new.rowid;
			END`,
		},
	},
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, name TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("query schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return err
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_ = rows.Close()

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
