package services

import (
	"align/domain"
	"align/errors"
	"align/moderation"
	"align/observability"
	"align/repositories"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
)

type IConversationService interface {
	Turn(ctx context.Context, cmd TurnCommand) (TurnResult, error)
	ListSessions(ctx context.Context, kind domain.Kind, ownerID int64) ([]domain.Session, error)
	GetSession(ctx context.Context, kind domain.Kind, id, ownerID int64) (domain.Session, error)
}

// TurnCommand is one authenticated incoming turn.
type TurnCommand struct {
	OwnerID   int64
	Input     domain.TurnInput
	SessionID *int64
	History   []domain.Message
}

// TurnResult carries the reply. SessionID is nil when the turn could not be persisted.
type TurnResult struct {
	Response  string
	SessionID *int64
	Fallback  bool
}

const DefaultPersistTimeout = 5 * time.Second

type ConversationServiceConfig struct {
	Window         domain.Window
	PersistTimeout time.Duration
}

type ConversationService struct {
	sessions repositories.ISessionRepository
	engine   *Engine
	screener *moderation.Screener
	stats    *observability.MonitoringManager
	cfg      ConversationServiceConfig
	log      *slog.Logger
}

func NewConversationService(
	sessions repositories.ISessionRepository,
	engine *Engine,
	screener *moderation.Screener,
	stats *observability.MonitoringManager,
	cfg ConversationServiceConfig,
	log *slog.Logger,
) *ConversationService {
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = DefaultPersistTimeout
	}
	return &ConversationService{
		sessions: sessions,
		engine:   engine,
		screener: screener,
		stats:    stats,
		cfg:      cfg,
		log:      log,
	}
}

// Turn validates the input, resolves the history, asks the engine for a reply
// and persists the turn pair. Nothing is written before validation and session lookup succeed.
func (s *ConversationService) Turn(ctx context.Context, cmd TurnCommand) (TurnResult, error) {
	in := cmd.Input
	in.Participants = domain.Participants{
		User:  strings.TrimSpace(in.Participants.User),
		Other: strings.TrimSpace(in.Participants.Other),
	}

	mode, err := domain.ModeFor(in.Kind)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	if err := mode.Validate(in); err != nil {
		return TurnResult{}, err
	}

	log := observability.LoggerFromContext(ctx, s.log).With("kind", in.Kind, "owner_id", cmd.OwnerID)

	var stored *domain.Session
	if cmd.SessionID != nil {
		session, err := s.sessions.GetSession(ctx, in.Kind, *cmd.SessionID, cmd.OwnerID)
		if err != nil {
			return TurnResult{}, err
		}
		stored = &session
		// Names are fixed at creation
		if session.Participants != nil {
			in.Participants = *session.Participants
		}
	}

	history, source, err := domain.ResolveHistory(mode, stored, cmd.History)
	if err != nil {
		return TurnResult{}, err
	}

	s.stats.IncrTurns()
	signals := s.screener.Screen(in.Message)
	prompt := mode.BuildContext(in, s.cfg.Window.Apply(history), signals)
	log.Debug("Context built", "history_source", source.String(), "history_length", len(history),
		"language", signals.Language, "crisis", signals.Crisis)

	reply := s.engine.Resolve(ctx, mode, prompt)
	result := TurnResult{Response: reply.Content, Fallback: reply.Fallback}

	// The reply is already computed, so persistence outlives a client disconnect.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.PersistTimeout)
	defer cancel()

	session, err := s.persist(persistCtx, mode, in, cmd.OwnerID, stored, reply.Content)
	if err != nil {
		if errors.Is(err, errors.ErrConflict) {
			s.stats.IncrConflicts()
		}
		s.stats.IncrPersistenceFailures()
		log.Error("Turn not persisted, returning reply without session", "error", err)
		return result, nil
	}

	result.SessionID = lo.ToPtr(session.ID)
	log.Info("Turn persisted", "session_id", session.ID, "messages", len(session.Messages), "fallback", reply.Fallback)
	return result, nil
}

// persist appends the turn pair to the stored session, conditional on the log length
// observed before the model call. A new session is created with the seed and the
// first turn pair in one write, so a failed turn never leaves an empty session behind.
func (s *ConversationService) persist(
	ctx context.Context,
	mode domain.Mode,
	in domain.TurnInput,
	ownerID int64,
	stored *domain.Session,
	reply string,
) (domain.Session, error) {
	turn := mode.TurnMessages(in, reply)
	if stored == nil {
		return s.sessions.CreateSession(ctx, domain.NewSession{
			Kind:         mode.Kind(),
			OwnerID:      ownerID,
			Title:        mode.DeriveTitle(in),
			Participants: mode.ParticipantsOf(in),
			Seed:         append(mode.Seed(in), turn...),
		})
	}

	return s.sessions.AppendAndTouch(ctx, domain.AppendCommand{
		Kind:           mode.Kind(),
		SessionID:      stored.ID,
		OwnerID:        ownerID,
		ExpectedLength: lo.ToPtr(len(stored.Messages)),
		Messages:       turn,
	})
}

func (s *ConversationService) ListSessions(ctx context.Context, kind domain.Kind, ownerID int64) ([]domain.Session, error) {
	return s.sessions.ListSessions(ctx, kind, ownerID)
}

func (s *ConversationService) GetSession(ctx context.Context, kind domain.Kind, id, ownerID int64) (domain.Session, error) {
	return s.sessions.GetSession(ctx, kind, id, ownerID)
}
