package auth

import (
	"align/domain"
	"align/errors"
	"align/repositories"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const SubjectIDKey contextKey = "subject_id"

// ErrorResponder renders a gate failure. The HTTP layer owns the error body.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// Gate resolves the authenticated subject of an HTTP request.
type Gate struct {
	tokens     *TokenIssuer
	subjects   repositories.ISubjectRepository
	cookieName string
	log        *slog.Logger
}

func NewGate(tokens *TokenIssuer, subjects repositories.ISubjectRepository, cookieName string, log *slog.Logger) *Gate {
	return &Gate{tokens: tokens, subjects: subjects, cookieName: cookieName, log: log}
}

// Authenticate returns the live subject behind the request credentials.
// Missing or invalid credentials give ErrUnauthorized, an unknown or deleted subject ErrNotFound.
func (g *Gate) Authenticate(r *http.Request) (domain.Subject, error) {
	raw := g.extractToken(r)
	if raw == "" {
		return domain.Subject{}, fmt.Errorf("%w: credentials are missing", errors.ErrUnauthorized)
	}

	claims, err := g.tokens.Validate(raw)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("%w: invalid or expired token", errors.ErrUnauthorized)
	}

	subject, err := g.subjects.GetSubject(r.Context(), claims.SubjectID)
	if err != nil {
		return domain.Subject{}, err
	}
	return subject, nil
}

// Middleware rejects unauthenticated requests before any handler runs
// and injects the subject identity into the request context.
func (g *Gate) Middleware(onError ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := g.Authenticate(r)
			if err != nil {
				g.log.Debug("Request rejected by identity gate", "path", r.URL.Path, "error", err)
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
		})
	}
}

// extractToken prefers the Authorization header and falls back to the session cookie.
func (g *Gate) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if g.cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// WithSubject stores the subject ID only. Handlers scope every read by owner and never by role.
func WithSubject(ctx context.Context, subject domain.Subject) context.Context {
	return context.WithValue(ctx, SubjectIDKey, subject.ID)
}

// SubjectIDFromContext returns the subject injected by the gate.
func SubjectIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(SubjectIDKey).(int64)
	return id, ok && id > 0
}
