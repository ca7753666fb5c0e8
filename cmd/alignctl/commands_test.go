package main

import (
	"align/auth"
	"align/domain"
	"align/errors"
	"align/repositories"
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Corr3ct-Horse-Battery"

func newConsole(t *testing.T) (*console, *badger.DB, *bytes.Buffer) {
	t.Helper()
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	subjects, err := repositories.NewSubjectRepository(db, log)
	req.NoError(err)
	sessions, err := repositories.NewSessionRepository(db, log)
	req.NoError(err)
	tokens, err := auth.NewTokenIssuer("alignctl-test-secret", time.Hour)
	req.NoError(err)

	out := &bytes.Buffer{}
	return &console{out: out, subjects: subjects, sessions: sessions, tokens: tokens}, db, out
}

func TestConsole_Users(t *testing.T) {
	ctx := context.Background()

	t.Run("should create a subject and mint a token that validates", func(t *testing.T) {
		req := require.New(t)
		c, _, out := newConsole(t)

		subject, err := c.createUser(ctx, auth.CreateSubjectRequest{Email: "Ana@Example.com", Password: strongPassword, Name: "Ana"})
		req.NoError(err)
		req.Equal("ana@example.com", subject.Email)
		req.Contains(out.String(), "Created subject")

		token, err := c.token(ctx, "ana@example.com")
		req.NoError(err)
		claims, err := c.tokens.Validate(token)
		req.NoError(err)
		req.Equal(subject.ID, claims.SubjectID)
	})

	t.Run("should reject a weak password before storing anything", func(t *testing.T) {
		req := require.New(t)
		c, _, _ := newConsole(t)

		_, err := c.createUser(ctx, auth.CreateSubjectRequest{Email: "ben@example.com", Password: "alllowercaseletters"})
		req.ErrorIs(err, errors.ErrInvalidPassword)

		subjects, err := c.subjects.ListSubjects(ctx)
		req.NoError(err)
		req.Empty(subjects)
	})

	t.Run("should only log in with the right password", func(t *testing.T) {
		req := require.New(t)
		c, _, _ := newConsole(t)
		_, err := c.createUser(ctx, auth.CreateSubjectRequest{Email: "ana@example.com", Password: strongPassword})
		req.NoError(err)

		_, err = c.login(ctx, "ana@example.com", "Wr0ng-Password-Here")
		req.ErrorIs(err, errors.ErrInvalidCredentials)
		_, err = c.login(ctx, "nobody@example.com", strongPassword)
		req.ErrorIs(err, errors.ErrInvalidCredentials)

		token, err := c.login(ctx, "ana@example.com", strongPassword)
		req.NoError(err)
		req.NotEmpty(token)
	})

	t.Run("should refuse tokens for a deleted subject and still list it", func(t *testing.T) {
		req := require.New(t)
		c, _, out := newConsole(t)
		_, err := c.createUser(ctx, auth.CreateSubjectRequest{Email: "ana@example.com", Password: strongPassword})
		req.NoError(err)

		req.NoError(c.deleteUser(ctx, "ANA@example.com"))
		_, err = c.token(ctx, "ana@example.com")
		req.ErrorIs(err, errors.ErrNotFound)

		out.Reset()
		req.NoError(c.listUsers(ctx))
		req.Contains(out.String(), "ana@example.com")
	})
}

func TestConsole_SessionsAndInspect(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	c, db, out := newConsole(t)

	owner, err := c.createUser(ctx, auth.CreateSubjectRequest{Email: "ana@example.com", Password: strongPassword})
	req.NoError(err)
	_, err = c.sessions.CreateSession(ctx, domain.NewSession{
		Kind:         domain.KindMediation,
		OwnerID:      owner.ID,
		Title:        "Ana & Ben",
		Participants: &domain.Participants{User: "Ana", Other: "Ben"},
		Seed:         []domain.Message{{Role: domain.RoleMediator, Content: "welcome", Sender: domain.MediatorSender}},
	})
	req.NoError(err)

	out.Reset()
	req.NoError(c.listSessions(ctx, domain.KindMediation, "ana@example.com"))
	req.Contains(out.String(), "Ana & Ben")
	req.Contains(out.String(), "Ana / Ben")

	out.Reset()
	req.NoError(inspect(out, db, "session:mediation:"))
	req.Contains(out.String(), "session:mediation:")
}

func TestPreview(t *testing.T) {
	req := require.New(t)
	req.Equal("short", preview([]byte("short"), 10))
	req.Equal("abc...", preview([]byte("abcdef"), 3))
	req.Equal("a b", preview([]byte("a\nb"), 10))
}
