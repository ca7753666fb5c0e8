package domain

import (
	"align/errors"
	"fmt"
	"slices"
)

// HistorySource tells where the context of a turn was taken from.
type HistorySource int

const (
	// HistoryClient is a client-supplied history for a conversation that has no stored session yet.
	HistoryClient HistorySource = iota
	// HistoryStored is the log of a stored session; it is authoritative.
	HistoryStored
)

func (h HistorySource) String() string {
	switch h {
	case HistoryStored:
		return "stored"
	default:
		return "client"
	}
}

// ResolveHistory picks the history of a turn.
// With a stored session the client copy, when sent, must match the stored log exactly.
// Without one the client copy is sanitized against the mode's roles.
func ResolveHistory(mode Mode, stored *Session, client []Message) ([]Message, HistorySource, error) {
	if stored != nil {
		if len(client) > 0 && !SameMessages(client, stored.Messages) {
			return nil, HistoryStored, fmt.Errorf("%w: conversation does not match session %d",
				errors.ErrValidation, stored.ID)
		}
		return stored.Messages, HistoryStored, nil
	}

	allowed := mode.AllowedHistoryRoles()
	out := make([]Message, 0, len(client))
	for i, m := range client {
		if m.IsBlank() {
			continue
		}
		if !slices.Contains(allowed, m.Role) {
			return nil, HistoryClient, fmt.Errorf("%w: conversation entry %d has role %q",
				errors.ErrValidation, i, m.Role)
		}
		out = append(out, m)
	}
	return out, HistoryClient, nil
}
