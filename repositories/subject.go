//go:generate go run go.uber.org/mock/mockgen -source=subject.go -destination=../mocks/mock_subject_repository.go -package=mocks
package repositories

import (
	"align/domain"
	"align/errors"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type ISubjectRepository interface {
	CreateSubject(ctx context.Context, subject domain.Subject) (domain.Subject, error)
	GetSubject(ctx context.Context, id int64) (domain.Subject, error)
	GetSubjectByEmail(ctx context.Context, email string) (domain.Subject, error)
	SoftDeleteSubject(ctx context.Context, email string) error
	ListSubjects(ctx context.Context) ([]domain.Subject, error)
}

const (
	subjectPrefix      = "subject:"
	subjectEmailPrefix = "subject_email:"
	subjectSequenceKey = "seq:subject"
)

type SubjectRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

func NewSubjectRepository(db *badger.DB, log *slog.Logger) (*SubjectRepository, error) {
	seq, err := db.GetSequence([]byte(subjectSequenceKey), 10)
	if err != nil {
		return nil, fmt.Errorf("subject sequence: %w", err)
	}
	return &SubjectRepository{db: db, seq: seq, log: log}, nil
}

// Close releases the unused part of the ID lease.
func (s *SubjectRepository) Close() error {
	return s.seq.Release()
}

// CreateSubject persists a subject under a fresh ID and indexes it by normalized email.
// The email stays reserved after a soft delete.
func (s *SubjectRepository) CreateSubject(_ context.Context, subject domain.Subject) (domain.Subject, error) {
	subject.Email = domain.NormalizeEmail(subject.Email)
	if subject.Role == "" {
		subject.Role = domain.SubjectRoleMember
	}

	id, err := nextID(s.seq)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	subject.ID = id
	subject.CreatedAt = time.Now().UTC()
	subject.DeletedAt = nil

	data, err := encode(subject)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte(subjectEmailPrefix + subject.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrUserAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(emailKey, []byte(strconv.FormatInt(id, 10))); err != nil {
			return err
		}
		return txn.Set(subjectKey(id), data)
	})
	switch {
	case err == nil:
		return subject, nil
	case errors.Is(err, errors.ErrUserAlreadyExists):
		return domain.Subject{}, err
	default:
		return domain.Subject{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
}

// GetSubject returns a live subject. Deleted subjects are reported as not found.
func (s *SubjectRepository) GetSubject(_ context.Context, id int64) (domain.Subject, error) {
	var subject domain.Subject
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		subject, err = getSubject(txn, id)
		return err
	})
	if err != nil {
		return domain.Subject{}, err
	}
	if subject.IsDeleted() {
		return domain.Subject{}, fmt.Errorf("%w: subject %d", errors.ErrNotFound, id)
	}
	return subject, nil
}

func (s *SubjectRepository) GetSubjectByEmail(_ context.Context, email string) (domain.Subject, error) {
	var subject domain.Subject
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := subjectIDByEmail(txn, domain.NormalizeEmail(email))
		if err != nil {
			return err
		}
		subject, err = getSubject(txn, id)
		return err
	})
	if err != nil {
		return domain.Subject{}, err
	}
	if subject.IsDeleted() {
		return domain.Subject{}, fmt.Errorf("%w: subject %s", errors.ErrNotFound, subject.Email)
	}
	return subject, nil
}

func (s *SubjectRepository) SoftDeleteSubject(_ context.Context, email string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		id, err := subjectIDByEmail(txn, domain.NormalizeEmail(email))
		if err != nil {
			return err
		}
		subject, err := getSubject(txn, id)
		if err != nil {
			return err
		}
		if subject.IsDeleted() {
			return fmt.Errorf("%w: subject %d", errors.ErrNotFound, id)
		}
		now := time.Now().UTC()
		subject.DeletedAt = &now
		data, err := encode(subject)
		if err != nil {
			return err
		}
		s.log.Info("Subject soft deleted", "subject_id", id)
		return txn.Set(subjectKey(id), data)
	})
}

// ListSubjects returns every subject by ID, deleted ones included.
func (s *SubjectRepository) ListSubjects(_ context.Context) ([]domain.Subject, error) {
	var subjects []domain.Subject
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(subjectPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var subject domain.Subject
			if err := decodeItem(it.Item(), &subject); err != nil {
				return err
			}
			subjects = append(subjects, subject)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return subjects, nil
}

func subjectKey(id int64) []byte {
	return []byte(subjectPrefix + formatID(id))
}

func getSubject(txn *badger.Txn, id int64) (domain.Subject, error) {
	var subject domain.Subject
	item, err := txn.Get(subjectKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return subject, fmt.Errorf("%w: subject %d", errors.ErrNotFound, id)
	}
	if err != nil {
		return subject, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	if err := decodeItem(item, &subject); err != nil {
		return subject, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return subject, nil
}

func subjectIDByEmail(txn *badger.Txn, email string) (int64, error) {
	item, err := txn.Get([]byte(subjectEmailPrefix + email))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("%w: subject %s", errors.ErrNotFound, email)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	var id int64
	err = item.Value(func(val []byte) error {
		id, err = strconv.ParseInt(string(val), 10, 64)
		return err
	})
	return id, err
}
