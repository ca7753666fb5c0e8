//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=../mocks/mock_session_repository.go -package=mocks
package repositories

import (
	"align/domain"
	"align/errors"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ISessionRepository is owner scoped: every read and write filters on the owner ID,
// and a session owned by someone else is indistinguishable from a missing one.
type ISessionRepository interface {
	CreateSession(ctx context.Context, cmd domain.NewSession) (domain.Session, error)
	GetSession(ctx context.Context, kind domain.Kind, id, ownerID int64) (domain.Session, error)
	AppendAndTouch(ctx context.Context, cmd domain.AppendCommand) (domain.Session, error)
	ListSessions(ctx context.Context, kind domain.Kind, ownerID int64) ([]domain.Session, error)
}

const sessionSequenceKey = "seq:session"

type SessionRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
	now func() time.Time
}

func NewSessionRepository(db *badger.DB, log *slog.Logger) (*SessionRepository, error) {
	seq, err := db.GetSequence([]byte(sessionSequenceKey), 100)
	if err != nil {
		return nil, fmt.Errorf("session sequence: %w", err)
	}
	return &SessionRepository{db: db, seq: seq, log: log, now: time.Now}, nil
}

// Close releases the unused part of the ID lease.
func (s *SessionRepository) Close() error {
	return s.seq.Release()
}

// CreateSession stores the record under "session:{kind}:{id}" and indexes it
// for its owner under "owner:{kind}:{owner}:{id}".
func (s *SessionRepository) CreateSession(_ context.Context, cmd domain.NewSession) (domain.Session, error) {
	id, err := nextID(s.seq)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	now := s.now().UTC()
	session := domain.Session{
		ID:           id,
		Kind:         cmd.Kind,
		OwnerID:      cmd.OwnerID,
		Title:        cmd.Title,
		Participants: cmd.Participants,
		CreatedAt:    now,
		UpdatedAt:    now,
		Messages:     append([]domain.Message{}, cmd.Seed...),
	}

	data, err := encode(session)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(sessionKey(cmd.Kind, id), data); err != nil {
			return err
		}
		return txn.Set(ownerKey(cmd.Kind, cmd.OwnerID, id), nil)
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	s.log.Debug("Session created", "kind", cmd.Kind, "session_id", id, "owner_id", cmd.OwnerID)
	return session, nil
}

func (s *SessionRepository) GetSession(_ context.Context, kind domain.Kind, id, ownerID int64) (domain.Session, error) {
	var session domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		session, err = getOwnedSession(txn, kind, id, ownerID)
		return err
	})
	return session, err
}

// AppendAndTouch appends within a single optimistic transaction.
// A length mismatch or a concurrent commit on the same session yields ErrConflict.
func (s *SessionRepository) AppendAndTouch(_ context.Context, cmd domain.AppendCommand) (domain.Session, error) {
	var session domain.Session
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		session, err = getOwnedSession(txn, cmd.Kind, cmd.SessionID, cmd.OwnerID)
		if err != nil {
			return err
		}
		if cmd.ExpectedLength != nil && len(session.Messages) != *cmd.ExpectedLength {
			return fmt.Errorf("%w: session %d has %d messages, expected %d",
				errors.ErrConflict, session.ID, len(session.Messages), *cmd.ExpectedLength)
		}

		session.Messages = append(session.Messages, cmd.Messages...)
		session.UpdatedAt = domain.NextUpdatedAt(session.UpdatedAt, s.now().UTC())

		data, err := encode(session)
		if err != nil {
			return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
		}
		return txn.Set(sessionKey(cmd.Kind, cmd.SessionID), data)
	})

	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, badger.ErrConflict):
		return domain.Session{}, fmt.Errorf("%w: session %d", errors.ErrConflict, cmd.SessionID)
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrConflict), errors.Is(err, errors.ErrPersistence):
		return domain.Session{}, err
	default:
		return domain.Session{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
}

// ListSessions walks the owner index and returns the sessions most recently updated first.
func (s *SessionRepository) ListSessions(_ context.Context, kind domain.Kind, ownerID int64) ([]domain.Session, error) {
	sessions := []domain.Session{}
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := ownerPrefix(kind, ownerID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id, err := lastSegmentID(it.Item().Key())
			if err != nil {
				return err
			}
			session, err := getOwnedSession(txn, kind, id, ownerID)
			if err != nil {
				return err
			}
			sessions = append(sessions, session)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	slices.SortStableFunc(sessions, func(a, b domain.Session) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return sessions, nil
}

func sessionKey(kind domain.Kind, id int64) []byte {
	return []byte(fmt.Sprintf("session:%s:%s", kind, formatID(id)))
}

func ownerPrefix(kind domain.Kind, ownerID int64) []byte {
	return []byte(fmt.Sprintf("owner:%s:%s:", kind, formatID(ownerID)))
}

func ownerKey(kind domain.Kind, ownerID, id int64) []byte {
	return append(ownerPrefix(kind, ownerID), formatID(id)...)
}

func getOwnedSession(txn *badger.Txn, kind domain.Kind, id, ownerID int64) (domain.Session, error) {
	var session domain.Session
	item, err := txn.Get(sessionKey(kind, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return session, fmt.Errorf("%w: %s session %d", errors.ErrNotFound, kind, id)
	}
	if err != nil {
		return session, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	if err := decodeItem(item, &session); err != nil {
		return session, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	if session.OwnerID != ownerID {
		return domain.Session{}, fmt.Errorf("%w: %s session %d", errors.ErrNotFound, kind, id)
	}
	return session, nil
}
