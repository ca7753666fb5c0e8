package domain

import "strings"

const crisisGuidance = `
Safety: the latest message may mention self-harm, suicide or hurting someone.
Acknowledge this with care before anything else, encourage the person to reach out to local
emergency services or a trusted person right away, and make clear you cannot replace
professional help. Never give instructions that could cause harm.`

// guidance renders the signal paragraph appended to system prompts and instructions.
func (s Signals) guidance() string {
	var b strings.Builder
	if s.Language != "" {
		b.WriteString("\nReply in ")
		b.WriteString(s.Language)
		b.WriteString(", the language the latest message is written in.")
	}
	if s.Crisis {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(crisisGuidance))
	}
	return b.String()
}
