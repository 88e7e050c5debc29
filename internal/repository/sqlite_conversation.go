package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/arecabot/internal/db"
	"github.com/alexanderramin/arecabot/internal/domain"
)

type SQLiteConversationRepo struct {
	db db.DBTX
}

func NewSQLiteConversationRepo(conn db.DBTX) *SQLiteConversationRepo {
	return &SQLiteConversationRepo{db: conn}
}

func (r *SQLiteConversationRepo) Create(ctx context.Context, c *domain.Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = nowUTC()
	}
	query := `INSERT INTO conversations (id, channel, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, c.ID, string(c.Channel), formatTime(c.CreatedAt)); err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}
	return nil
}

func (r *SQLiteConversationRepo) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := `SELECT id, channel, created_at FROM conversations WHERE id = ?`
	var (
		c         domain.Conversation
		channel   string
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &channel, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}
	c.Channel = domain.Channel(channel)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}

func (r *SQLiteConversationRepo) ListRecent(ctx context.Context, limit int) ([]domain.ConversationSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT c.id, c.channel, c.created_at, COUNT(t.id), MAX(t.created_at)
		FROM conversations c
		LEFT JOIN turns t ON t.conversation_id = c.id
		GROUP BY c.id
		ORDER BY COALESCE(MAX(t.created_at), c.created_at) DESC, c.id
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var out []domain.ConversationSummary
	for rows.Next() {
		var (
			s          domain.ConversationSummary
			channel    string
			createdAt  string
			lastActive sql.NullString
		)
		if err := rows.Scan(&s.ID, &channel, &createdAt, &s.Turns, &lastActive); err != nil {
			return nil, fmt.Errorf("scanning conversation row: %w", err)
		}
		s.Channel = domain.Channel(channel)
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		s.LastActive = parseNullableTime(lastActive)
		if s.LastActive.IsZero() {
			s.LastActive = s.CreatedAt
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}
	return out, nil
}

// Delete removes the conversation and, by cascade, its turns.
func (r *SQLiteConversationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	return nil
}
