package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/arecabot/internal/db"
	"github.com/alexanderramin/arecabot/internal/dialogue"
	"github.com/alexanderramin/arecabot/internal/domain"
	"github.com/alexanderramin/arecabot/internal/logger"
	"github.com/alexanderramin/arecabot/internal/repository"
	"github.com/google/uuid"
)

type chatService struct {
	engine   *dialogue.Engine
	convs    repository.ConversationRepo
	turns    repository.TurnRepo
	uow      db.UnitOfWork
	sessions *registry
	channel  domain.Channel
	log      logger.Logger
	observer UseCaseObserver
	now      func() time.Time
}

type ChatOption func(*chatService)

// WithChannel sets the channel recorded for conversations this service
// starts implicitly. Defaults to cli.
func WithChannel(ch domain.Channel) ChatOption {
	return func(s *chatService) { s.channel = ch }
}

// WithSessionTTL sets how long an idle conversation keeps its dialogue state.
func WithSessionTTL(ttl time.Duration) ChatOption {
	return func(s *chatService) { s.sessions.ttl = ttl }
}

func WithClock(now func() time.Time) ChatOption {
	return func(s *chatService) {
		s.now = now
		s.sessions.now = now
	}
}

func WithLogger(l logger.Logger) ChatOption {
	return func(s *chatService) { s.log = l }
}

func WithObservers(observers ...UseCaseObserver) ChatOption {
	return func(s *chatService) { s.observer = useCaseObserverOrNoop(observers) }
}

func NewChatService(
	engine *dialogue.Engine,
	convs repository.ConversationRepo,
	turns repository.TurnRepo,
	uow db.UnitOfWork,
	opts ...ChatOption,
) ChatService {
	now := func() time.Time { return time.Now().UTC() }
	s := &chatService{
		engine:   engine,
		convs:    convs,
		turns:    turns,
		uow:      uow,
		sessions: newRegistry(30*time.Minute, now),
		channel:  domain.ChannelCLI,
		log:      logger.NewNop(),
		observer: NoopUseCaseObserver{},
		now:      now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *chatService) StartConversation(ctx context.Context, channel domain.Channel) (string, error) {
	c := &domain.Conversation{ID: uuid.New().String(), Channel: channel, CreatedAt: s.now()}
	if err := s.convs.Create(ctx, c); err != nil {
		return "", fmt.Errorf("starting conversation: %w", err)
	}
	ls := s.sessions.acquire(c.ID, channel)
	ls.mu.Lock()
	ls.persisted = true
	ls.mu.Unlock()
	s.log.Debug("conversation started", logger.Fields{"conversation_id": c.ID, "channel": string(channel)})
	return c.ID, nil
}

func (s *chatService) Turn(ctx context.Context, conversationID, message string) (result *TurnResult, err error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	startedAt := s.now()
	fields := map[string]any{"conversation_id": conversationID}
	defer func() {
		fields["active_sessions"] = s.sessions.len()
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      UseCaseTurn,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	ls := s.sessions.acquire(conversationID, s.channel)
	ls.mu.Lock()
	defer ls.mu.Unlock()
	fields["channel"] = string(ls.channel)

	reply := s.engine.Respond(ls.session, message)
	fields["outcome"] = string(reply.Outcome)
	fields["intent"] = reply.Intent

	turn := &domain.Turn{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		UserText:       message,
		BotText:        reply.Text,
		Outcome:        string(reply.Outcome),
		Intent:         reply.Intent,
		Entity:         reply.Entity,
		CreatedAt:      s.now(),
	}
	// The transcript is an audit trail; a failed write does not cost the
	// farmer their answer.
	if recErr := s.record(ctx, ls, turn); recErr != nil {
		fields["transcript_error"] = recErr.Error()
		s.log.WithError(recErr).Warn("transcript write failed", logger.Fields{"conversation_id": conversationID})
		turn.Seq = 0
	}

	return &TurnResult{ConversationID: conversationID, Seq: turn.Seq, Reply: reply}, nil
}

// record stores the turn, creating the conversation row the first time a
// conversation is seen. Caller holds ls.mu.
func (s *chatService) record(ctx context.Context, ls *liveSession, turn *domain.Turn) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if !ls.persisted {
			convs := repository.NewSQLiteConversationRepo(tx)
			_, err := convs.GetByID(ctx, turn.ConversationID)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				c := &domain.Conversation{ID: turn.ConversationID, Channel: ls.channel, CreatedAt: turn.CreatedAt}
				if err := convs.Create(ctx, c); err != nil {
					return err
				}
			case err != nil:
				return err
			}
		}
		return repository.NewSQLiteTurnRepo(tx).Append(ctx, turn)
	})
	if err != nil {
		return fmt.Errorf("recording turn: %w", err)
	}
	ls.persisted = true
	return nil
}

func (s *chatService) EndConversation(conversationID string) {
	s.sessions.remove(conversationID)
}

func (s *chatService) History(ctx context.Context, conversationID string, limit int) ([]*domain.Turn, error) {
	if _, err := s.convs.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.turns.ListByConversation(ctx, conversationID, limit)
}

func (s *chatService) Conversations(ctx context.Context, limit int) ([]domain.ConversationSummary, error) {
	return s.convs.ListRecent(ctx, limit)
}

func (s *chatService) Sweep() int {
	n := s.sessions.sweep()
	if n > 0 {
		s.log.Debug("evicted idle sessions", logger.Fields{"evicted": n, "active": s.sessions.len()})
	}
	return n
}

func (s *chatService) ActiveSessions() int {
	return s.sessions.len()
}
