package domain

// Window bounds the history handed to the model. Max <= 0 disables the bound.
// The stored log is never affected.
type Window struct {
	Max int
}

// Apply keeps the most recent Max messages.
func (w Window) Apply(history []Message) []Message {
	if w.Max <= 0 || len(history) <= w.Max {
		return history
	}
	return history[len(history)-w.Max:]
}
