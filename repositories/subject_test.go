package repositories

import (
	"align/domain"
	"align/errors"
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newSubjectRepository(t *testing.T) *SubjectRepository {
	t.Helper()
	repository, err := NewSubjectRepository(openInMemory(t), logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })
	return repository
}

func TestSubjectRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should create and look up a subject by normalized email", func(t *testing.T) {
		req := require.New(t)
		repository := newSubjectRepository(t)

		created, err := repository.CreateSubject(ctx, domain.Subject{Email: "  Ana@Example.COM ", PasswordHash: "hash", Name: "Ana"})
		req.NoError(err)
		req.Positive(created.ID)
		req.Equal("ana@example.com", created.Email)
		req.Equal(domain.SubjectRoleMember, created.Role)

		byEmail, err := repository.GetSubjectByEmail(ctx, "ANA@example.com")
		req.NoError(err)
		req.Equal(created.ID, byEmail.ID)

		byID, err := repository.GetSubject(ctx, created.ID)
		req.NoError(err)
		req.Equal("Ana", byID.Name)
	})

	t.Run("should refuse a duplicate email", func(t *testing.T) {
		req := require.New(t)
		repository := newSubjectRepository(t)

		_, err := repository.CreateSubject(ctx, domain.Subject{Email: "ana@example.com", PasswordHash: "hash"})
		req.NoError(err)
		_, err = repository.CreateSubject(ctx, domain.Subject{Email: "ANA@example.com", PasswordHash: "hash"})
		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})

	t.Run("should hide a soft deleted subject", func(t *testing.T) {
		req := require.New(t)
		repository := newSubjectRepository(t)

		created, err := repository.CreateSubject(ctx, domain.Subject{Email: "ben@example.com", PasswordHash: "hash"})
		req.NoError(err)
		req.NoError(repository.SoftDeleteSubject(ctx, "ben@example.com"))

		_, err = repository.GetSubject(ctx, created.ID)
		req.ErrorIs(err, errors.ErrNotFound)
		_, err = repository.GetSubjectByEmail(ctx, "ben@example.com")
		req.ErrorIs(err, errors.ErrNotFound)
		req.ErrorIs(repository.SoftDeleteSubject(ctx, "ben@example.com"), errors.ErrNotFound)

		all, err := repository.ListSubjects(ctx)
		req.NoError(err)
		req.Len(all, 1)
		req.True(all[0].IsDeleted())
	})

	t.Run("should report an unknown subject as not found", func(t *testing.T) {
		req := require.New(t)
		repository := newSubjectRepository(t)

		_, err := repository.GetSubject(ctx, 42)
		req.ErrorIs(err, errors.ErrNotFound)
	})
}
