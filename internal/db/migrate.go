package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS conversations (
		id         TEXT PRIMARY KEY,
		channel    TEXT NOT NULL CHECK(channel IN ('cli','http')),
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_conversations_created ON conversations(created_at)`,

	`CREATE TABLE IF NOT EXISTS turns (
		id              TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		seq             INTEGER NOT NULL CHECK(seq > 0),
		user_text       TEXT NOT NULL,
		bot_text        TEXT NOT NULL,
		outcome         TEXT NOT NULL
		                CHECK(outcome IN ('prompted','no_match','incomplete_parameters','resolved')),
		intent          TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_turns_conversation_seq ON turns(conversation_id, seq)`,
	`CREATE INDEX IF NOT EXISTS idx_turns_intent ON turns(intent)`,

	// Disease or scheme key of entity answers.
	`ALTER TABLE turns ADD COLUMN entity TEXT NOT NULL DEFAULT ''`,
}
