package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/dialogue"
	"github.com/alexanderramin/arecabot/internal/domain"
	"github.com/alexanderramin/arecabot/internal/knowledge"
)

// ErrEmptyMessage is returned for a blank chat message; callers reject it
// before it reaches the dialogue engine.
var ErrEmptyMessage = errors.New("empty message")

// TurnResult is the reply to one chat message.
type TurnResult struct {
	ConversationID string
	Seq            int // 0 when the transcript could not be written
	Reply          dialogue.Reply
}

type ChatService interface {
	// StartConversation registers a new conversation and returns its id.
	StartConversation(ctx context.Context, channel domain.Channel) (string, error)
	// Turn answers message within the conversation. An empty id starts a new
	// conversation; an unknown id is adopted as a new one.
	Turn(ctx context.Context, conversationID, message string) (*TurnResult, error)
	// EndConversation drops in-memory dialogue state. The transcript is kept.
	EndConversation(conversationID string)
	History(ctx context.Context, conversationID string, limit int) ([]*domain.Turn, error)
	Conversations(ctx context.Context, limit int) ([]domain.ConversationSummary, error)
	// Sweep evicts sessions idle longer than the TTL and returns how many went.
	Sweep() int
	ActiveSessions() int
}

// Advice is a rendered recommendation together with the structured result.
type Advice[T any] struct {
	Result T
	Text   string
}

// AdviceService answers one-shot requests that bypass the dialogue.
type AdviceService interface {
	Pesticide(ctx context.Context, in advisor.PesticideInput) Advice[advisor.PesticideAdvice]
	Fertilizer(ctx context.Context, in advisor.FertilizerInput) Advice[advisor.FertilizerAdvice]
	Harvest(ctx context.Context, in advisor.HarvestInput) Advice[advisor.HarvestAdvice]
	Diagnose(ctx context.Context, label string) Advice[advisor.Diagnosis]
	WeatherTips(ctx context.Context, w advisor.WeatherReading, month time.Month) Advice[[]string]
	// Scheme finds a scheme by key or display name. When nothing matches it
	// returns close names for a "did you mean" hint.
	Scheme(ctx context.Context, name string) (knowledge.Scheme, []string, bool)
	Schemes(ctx context.Context) Advice[[]knowledge.Scheme]
	// SuggestDiseases returns disease keys that fuzzily match query, best first.
	SuggestDiseases(query string) []string
}
