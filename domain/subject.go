// Package domain contains core concepts of the conversation core.
// This file defines the authenticated Subject.
// Subjects are created out-of-band and read-only to the request pipeline.
package domain

import (
	"strings"
	"time"
)

type SubjectRole string

const (
	SubjectRoleMember SubjectRole = "member"
	SubjectRoleAdmin  SubjectRole = "admin"
)

type Subject struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"passwordHash"`
	Name         string      `json:"name,omitempty"`
	Role         SubjectRole `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	DeletedAt    *time.Time  `json:"deletedAt,omitempty"`
}

// IsDeleted reports whether the subject has been soft-deleted.
func (s Subject) IsDeleted() bool {
	return s.DeletedAt != nil
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseSubjectRole falls back to member for unknown values.
func ParseSubjectRole(s string) SubjectRole {
	switch SubjectRole(strings.ToLower(strings.TrimSpace(s))) {
	case SubjectRoleAdmin:
		return SubjectRoleAdmin
	default:
		return SubjectRoleMember
	}
}
