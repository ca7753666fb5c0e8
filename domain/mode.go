// Package domain contains core concepts of the conversation core.
// This file defines the Mode capability shared by vent and mediation.
package domain

import "fmt"

// Speaker selects which mediation participant wrote a turn.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerOther Speaker = "other"
)

// TurnInput is one incoming turn, already decoded from the transport.
type TurnInput struct {
	Kind         Kind
	Message      string
	Speaker      Speaker
	Participants Participants
}

// Signals are hints computed from the incoming message before the prompt is built.
type Signals struct {
	Language string
	Crisis   bool
}

// Prompt is what the model client receives.
// Vent uses System + Messages; mediation uses a single Instruction.
type Prompt struct {
	System      string
	Messages    []Message
	Instruction string
}

// Mode is the capability object that makes the pipeline mode-agnostic.
type Mode interface {
	Kind() Kind
	Validate(in TurnInput) error
	AllowedHistoryRoles() []Role
	BuildContext(in TurnInput, history []Message, signals Signals) Prompt
	Fallback() string
	DeriveTitle(in TurnInput) string
	Seed(in TurnInput) []Message
	TurnMessages(in TurnInput, reply string) []Message
	ParticipantsOf(in TurnInput) *Participants
}

var modes = map[Kind]Mode{
	KindVent:      VentMode{},
	KindMediation: MediationMode{},
}

func ModeFor(kind Kind) (Mode, error) {
	m, ok := modes[kind]
	if !ok {
		return nil, fmt.Errorf("no mode registered for kind %q", kind)
	}
	return m, nil
}
