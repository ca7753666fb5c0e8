package auth

import (
	"align/domain"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	subject := domain.Subject{ID: 42, Role: domain.SubjectRoleAdmin}

	t.Run("should round trip the subject claims", func(t *testing.T) {
		req := require.New(t)
		issuer, err := NewTokenIssuer("a-long-enough-test-secret", time.Hour)
		req.NoError(err)

		token, err := issuer.Generate(subject)
		req.NoError(err)

		claims, err := issuer.Validate(token)
		req.NoError(err)
		req.Equal(int64(42), claims.SubjectID)
		req.Equal(domain.SubjectRoleAdmin, claims.Role)
		req.Equal("align", claims.Issuer)
		req.Equal("42", claims.Subject)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		req := require.New(t)
		issuer, err := NewTokenIssuer("a-long-enough-test-secret", time.Hour)
		req.NoError(err)
		issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, err := issuer.Generate(subject)
		req.NoError(err)

		issuer.now = time.Now
		_, err = issuer.Validate(token)
		req.ErrorIs(err, jwt.ErrTokenExpired)
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		req := require.New(t)
		other, err := NewTokenIssuer("another-secret", time.Hour)
		req.NoError(err)
		issuer, err := NewTokenIssuer("a-long-enough-test-secret", time.Hour)
		req.NoError(err)

		token, err := other.Generate(subject)
		req.NoError(err)

		_, err = issuer.Validate(token)
		req.ErrorIs(err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("should refuse an empty secret", func(t *testing.T) {
		_, err := NewTokenIssuer("", time.Hour)
		require.Error(t, err)
	})
}
