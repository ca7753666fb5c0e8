package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@localhost:5432/align", "postgres://u:p@localhost:5432/align"},
		{"  postgresql+asyncpg://u@db/align ", "postgresql://u@db/align"},
		{"postgres+pgx://u@db/align", "postgres://u@db/align"},
		{"postgresql+pgx://u@db/align", "postgresql://u@db/align"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeDSN(tt.in))
		})
	}
}
