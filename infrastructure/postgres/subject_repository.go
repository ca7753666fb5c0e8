package postgres

import (
	"align/domain"
	"align/errors"
	"align/repositories"
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	subjectColumns  = `id, email, password_hash, name, role, created_at, deleted_at`
	uniqueViolation = "23505"
)

var _ repositories.ISubjectRepository = (*SubjectRepository)(nil)

type SubjectRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSubjectRepository(pool *pgxpool.Pool, log *slog.Logger) *SubjectRepository {
	return &SubjectRepository{pool: pool, log: log}
}

// CreateSubject inserts a subject keyed by normalized email.
// The email stays reserved after a soft delete.
func (r *SubjectRepository) CreateSubject(ctx context.Context, subject domain.Subject) (domain.Subject, error) {
	if r.pool == nil {
		return domain.Subject{}, fmt.Errorf("%w: nil pool", errors.ErrPersistence)
	}
	if subject.Role == "" {
		subject.Role = domain.SubjectRoleMember
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+subjectColumns,
		domain.NormalizeEmail(subject.Email), subject.PasswordHash, subject.Name, string(subject.Role),
	)
	created, err := scanSubject(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Subject{}, errors.ErrUserAlreadyExists
		}
		return domain.Subject{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return created, nil
}

func (r *SubjectRepository) GetSubject(ctx context.Context, id int64) (domain.Subject, error) {
	return r.getOne(ctx, fmt.Sprintf("subject %d", id),
		`SELECT `+subjectColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *SubjectRepository) GetSubjectByEmail(ctx context.Context, email string) (domain.Subject, error) {
	normalized := domain.NormalizeEmail(email)
	return r.getOne(ctx, "subject "+normalized,
		`SELECT `+subjectColumns+` FROM users WHERE email = $1 AND deleted_at IS NULL`, normalized)
}

func (r *SubjectRepository) SoftDeleteSubject(ctx context.Context, email string) error {
	if r.pool == nil {
		return fmt.Errorf("%w: nil pool", errors.ErrPersistence)
	}

	normalized := domain.NormalizeEmail(email)
	ct, err := r.pool.Exec(ctx,
		`UPDATE users SET deleted_at = now() WHERE email = $1 AND deleted_at IS NULL`, normalized)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: subject %s", errors.ErrNotFound, normalized)
	}
	r.log.Info("Subject soft deleted", "email", normalized)
	return nil
}

// ListSubjects returns every subject by ID, deleted ones included.
func (r *SubjectRepository) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("%w: nil pool", errors.ErrPersistence)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+subjectColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return subjects, nil
}

func (r *SubjectRepository) getOne(ctx context.Context, label, query string, arg any) (domain.Subject, error) {
	if r.pool == nil {
		return domain.Subject{}, fmt.Errorf("%w: nil pool", errors.ErrPersistence)
	}
	subject, err := scanSubject(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Subject{}, fmt.Errorf("%w: %s", errors.ErrNotFound, label)
	}
	if err != nil {
		return domain.Subject{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return subject, nil
}

func scanSubject(row pgx.Row) (domain.Subject, error) {
	var (
		subject domain.Subject
		role    string
	)
	err := row.Scan(&subject.ID, &subject.Email, &subject.PasswordHash, &subject.Name,
		&role, &subject.CreatedAt, &subject.DeletedAt)
	if err != nil {
		return domain.Subject{}, err
	}
	subject.Role = domain.ParseSubjectRole(role)
	subject.CreatedAt = subject.CreatedAt.UTC()
	return subject, nil
}
