package postgres

import (
	"align/domain"
	"align/errors"
	"align/repositories"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `id, kind, owner_id, title, participant_user, participant_other, messages, created_at, updated_at`

var _ repositories.ISessionRepository = (*SessionRepository)(nil)

// SessionRepository stores each session as one row with its log in a JSONB array.
type SessionRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSessionRepository(pool *pgxpool.Pool, log *slog.Logger) *SessionRepository {
	return &SessionRepository{pool: pool, log: log}
}

func (r *SessionRepository) CreateSession(ctx context.Context, cmd domain.NewSession) (domain.Session, error) {
	if r.pool == nil {
		return domain.Session{}, fmt.Errorf("%w: nil pool", errors.ErrPersistence)
	}

	seed, err := json.Marshal(append([]domain.Message{}, cmd.Seed...))
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	var user, other *string
	if cmd.Participants != nil {
		user, other = &cmd.Participants.User, &cmd.Participants.Other
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO sessions (kind, owner_id, title, participant_user, participant_other, messages)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING `+sessionColumns,
		string(cmd.Kind), cmd.OwnerID, cmd.Title, user, other, string(seed),
	)
	session, err := scanSession(row)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	r.log.Debug("Session created", "kind", cmd.Kind, "session_id", session.ID, "owner_id", cmd.OwnerID)
	return session, nil
}

func (r *SessionRepository) GetSession(ctx context.Context, kind domain.Kind, id, ownerID int64) (domain.Session, error) {
	if r.pool == nil {
		return domain.Session{}, fmt.Errorf("%w: nil pool", errors.ErrPersistence)
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = $1 AND kind = $2 AND owner_id = $3`,
		id, string(kind), ownerID,
	)
	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("%w: %s session %d", errors.ErrNotFound, kind, id)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return session, nil
}

// AppendAndTouch is a single conditional UPDATE. When no row comes back the session
// is looked up again to tell a missing session from a stale expected length.
func (r *SessionRepository) AppendAndTouch(ctx context.Context, cmd domain.AppendCommand) (domain.Session, error) {
	if r.pool == nil {
		return domain.Session{}, fmt.Errorf("%w: nil pool", errors.ErrPersistence)
	}

	entries, err := json.Marshal(append([]domain.Message{}, cmd.Messages...))
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	var expected *int32
	if cmd.ExpectedLength != nil {
		n := int32(*cmd.ExpectedLength)
		expected = &n
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE sessions
		SET messages = messages || $4::jsonb,
		    updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		WHERE id = $1 AND kind = $2 AND owner_id = $3
		  AND ($5::int IS NULL OR jsonb_array_length(messages) = $5::int)
		RETURNING `+sessionColumns,
		cmd.SessionID, string(cmd.Kind), cmd.OwnerID, string(entries), expected,
	)
	session, err := scanSession(row)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	current, err := r.GetSession(ctx, cmd.Kind, cmd.SessionID, cmd.OwnerID)
	if err != nil {
		return domain.Session{}, err
	}
	if cmd.ExpectedLength == nil {
		return domain.Session{}, fmt.Errorf("%w: session %d was not updated", errors.ErrPersistence, cmd.SessionID)
	}
	return domain.Session{}, fmt.Errorf("%w: session %d has %d messages, expected %d",
		errors.ErrConflict, cmd.SessionID, len(current.Messages), *cmd.ExpectedLength)
}

func (r *SessionRepository) ListSessions(ctx context.Context, kind domain.Kind, ownerID int64) ([]domain.Session, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("%w: nil pool", errors.ErrPersistence)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE kind = $1 AND owner_id = $2
		ORDER BY updated_at DESC, id DESC`,
		string(kind), ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (domain.Session, error) {
	var (
		session     domain.Session
		kind        string
		user, other *string
		messages    []byte
	)
	err := row.Scan(&session.ID, &kind, &session.OwnerID, &session.Title,
		&user, &other, &messages, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return domain.Session{}, err
	}

	session.Kind = domain.Kind(kind)
	if user != nil && other != nil {
		session.Participants = &domain.Participants{User: *user, Other: *other}
	}
	session.Messages = []domain.Message{}
	if err := json.Unmarshal(messages, &session.Messages); err != nil {
		return domain.Session{}, fmt.Errorf("decode messages: %w", err)
	}
	session.CreatedAt = session.CreatedAt.UTC()
	session.UpdatedAt = session.UpdatedAt.UTC()
	return session, nil
}
