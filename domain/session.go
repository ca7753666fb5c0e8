// Package domain contains core concepts of the conversation core.
// This file defines conversation sessions and the commands that mutate them.
package domain

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindVent      Kind = "vent"
	KindMediation Kind = "mediation"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVent:
		return KindVent, nil
	case KindMediation, "mediate":
		return KindMediation, nil
	default:
		return "", fmt.Errorf("unknown session kind %q", s)
	}
}

// Participants are the two display names of a mediation, fixed at creation.
type Participants struct {
	User  string `json:"user"`
	Other string `json:"other"`
}

// Session is a conversation owned by exactly one subject.
type Session struct {
	ID           int64         `json:"id"`
	Kind         Kind          `json:"kind"`
	OwnerID      int64         `json:"ownerId"`
	Title        string        `json:"title"`
	Participants *Participants `json:"participants,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	Messages     []Message     `json:"messages"`
}

// NewSession describes a session to allocate. Seed is the initial log.
type NewSession struct {
	Kind         Kind
	OwnerID      int64
	Title        string
	Participants *Participants
	Seed         []Message
}

// AppendCommand appends whole messages to an owned session.
// When ExpectedLength is set the append only succeeds if the stored log still has that length.
type AppendCommand struct {
	Kind           Kind
	SessionID      int64
	OwnerID        int64
	ExpectedLength *int
	Messages       []Message
}

// NextUpdatedAt returns a timestamp strictly after previous.
func NextUpdatedAt(previous, now time.Time) time.Time {
	if now.After(previous) {
		return now
	}
	return previous.Add(time.Microsecond)
}
