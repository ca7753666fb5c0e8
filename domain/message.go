// Package domain contains core concepts of the conversation core.
// This file defines transcript messages and their roles.
// Messages are embedded in a session log and never reordered.
package domain

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleMediator  Role = "mediator"
	RoleSystem    Role = "system"
	RoleOther     Role = "other"
)

// MediatorSender is the display name attached to mediator replies.
const MediatorSender = "AI Mediator"

// Message is one transcript entry. Sender is only meaningful in mediation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Sender  string `json:"sender,omitempty"`
}

// IsBlank reports whether the message carries no content.
func (m Message) IsBlank() bool {
	return strings.TrimSpace(m.Content) == ""
}

// SameMessages compares two logs entry by entry on role, content and sender.
func SameMessages(a, b []Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Role != b[i].Role || a[i].Content != b[i].Content || a[i].Sender != b[i].Sender {
			return false
		}
	}
	return true
}
