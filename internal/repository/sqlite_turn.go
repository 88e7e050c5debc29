package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/arecabot/internal/db"
	"github.com/alexanderramin/arecabot/internal/domain"
)

type SQLiteTurnRepo struct {
	db db.DBTX
}

func NewSQLiteTurnRepo(conn db.DBTX) *SQLiteTurnRepo {
	return &SQLiteTurnRepo{db: conn}
}

// Append numbers the turn after the highest seq already stored. Callers
// serialize appends per conversation; the unique (conversation_id, seq)
// index rejects a racing duplicate.
func (r *SQLiteTurnRepo) Append(ctx context.Context, t *domain.Turn) error {
	if t.ID == "" || t.ConversationID == "" {
		return fmt.Errorf("turn id and conversation id are required")
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = nowUTC()
	}

	var seq int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE conversation_id = ?`,
		t.ConversationID,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("allocating seq for %s: %w", t.ConversationID, err)
	}

	query := `INSERT INTO turns (id, conversation_id, seq, user_text, bot_text, outcome, intent, entity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.ConversationID,
		seq,
		t.UserText,
		t.BotText,
		t.Outcome,
		t.Intent,
		t.Entity,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("appending turn to %s: %w", t.ConversationID, err)
	}
	t.Seq = seq
	return nil
}

func (r *SQLiteTurnRepo) ListByConversation(ctx context.Context, conversationID string, limit int) ([]*domain.Turn, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, conversation_id, seq, user_text, bot_text, outcome, intent, entity, created_at
		FROM (
			SELECT * FROM turns WHERE conversation_id = ? ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing turns: %w", err)
	}
	defer rows.Close()
	return scanTurns(rows)
}

func scanTurns(rows *sql.Rows) ([]*domain.Turn, error) {
	var turns []*domain.Turn
	for rows.Next() {
		var (
			t         domain.Turn
			createdAt string
		)
		err := rows.Scan(&t.ID, &t.ConversationID, &t.Seq, &t.UserText, &t.BotText,
			&t.Outcome, &t.Intent, &t.Entity, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning turn row: %w", err)
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		turns = append(turns, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}
	return turns, nil
}
