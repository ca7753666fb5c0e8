package auth

import (
	"align/errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MyPasswordIsTr0pSecure!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword(password, "$bcrypt$nope")
	req.Error(err)
}

func TestCreateSubjectValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateSubjectRequest
		wantErr error
	}{
		{"Valid request", CreateSubjectRequest{Email: "test@example.com", Password: "ComplexPass123!"}, nil},
		{"Valid admin", CreateSubjectRequest{Email: "test@example.com", Password: "ComplexPass123!", Role: "admin"}, nil},
		{"Invalid email", CreateSubjectRequest{Email: "notanemail", Password: "ComplexPass123!"}, errors.ErrValidation},
		{"Unknown role", CreateSubjectRequest{Email: "test@example.com", Password: "ComplexPass123!", Role: "root"}, errors.ErrValidation},
		{"Password too short", CreateSubjectRequest{Email: "test@example.com", Password: "Short1!"}, errors.ErrValidation},
		{"Missing digit", CreateSubjectRequest{Email: "test@example.com", Password: "NoDigitPass!"}, errors.ErrInvalidPassword},
		{"Missing special char", CreateSubjectRequest{Email: "test@example.com", Password: "NoSpecialChar123"}, errors.ErrInvalidPassword},
		{"Password too long", CreateSubjectRequest{Email: "test@example.com", Password: strings.Repeat("a", 73)}, errors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateSubject(tt.req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
