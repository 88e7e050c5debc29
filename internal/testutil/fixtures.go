package testutil

import (
	"time"

	"github.com/alexanderramin/arecabot/internal/domain"
	"github.com/google/uuid"
)

type ConversationOption func(*domain.Conversation)

func WithChannel(ch domain.Channel) ConversationOption {
	return func(c *domain.Conversation) {
		c.Channel = ch
	}
}

func WithConversationCreatedAt(t time.Time) ConversationOption {
	return func(c *domain.Conversation) {
		c.CreatedAt = t
	}
}

func NewTestConversation(opts ...ConversationOption) *domain.Conversation {
	c := &domain.Conversation{
		ID:        uuid.New().String(),
		Channel:   domain.ChannelCLI,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type TurnOption func(*domain.Turn)

func WithReply(text, outcome string) TurnOption {
	return func(t *domain.Turn) {
		t.BotText = text
		t.Outcome = outcome
	}
}

func WithIntent(intent, entity string) TurnOption {
	return func(t *domain.Turn) {
		t.Intent = intent
		t.Entity = entity
	}
}

func WithTurnCreatedAt(at time.Time) TurnOption {
	return func(t *domain.Turn) {
		t.CreatedAt = at
	}
}

// NewTestTurn builds an unsaved resolved turn; Seq is assigned on Append.
func NewTestTurn(conversationID, userText string, opts ...TurnOption) *domain.Turn {
	t := &domain.Turn{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		UserText:       userText,
		BotText:        "ok",
		Outcome:        "resolved",
		CreatedAt:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
