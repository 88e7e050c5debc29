package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/arecabot/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type ConversationRepo interface {
	Create(ctx context.Context, c *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	// ListRecent returns up to limit conversations, most recently active first.
	ListRecent(ctx context.Context, limit int) ([]domain.ConversationSummary, error)
	Delete(ctx context.Context, id string) error
}

type TurnRepo interface {
	// Append assigns t.Seq as the next number in its conversation and stores it.
	Append(ctx context.Context, t *domain.Turn) error
	// ListByConversation returns the last limit turns in seq order; limit <= 0 returns all.
	ListByConversation(ctx context.Context, conversationID string, limit int) ([]*domain.Turn, error)
}
