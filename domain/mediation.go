package domain

import (
	"align/errors"
	"fmt"
	"strings"
)

// MediationFallback is returned verbatim when the model cannot answer a mediation turn.
const MediationFallback = `Thank you for sharing that perspective. I want to make sure both parties understand each other clearly. 

Could you help me understand what outcome you're hoping for from this conversation? And how do you feel about what was just shared?

Remember, the goal is to find a path forward that works for everyone involved.`

const mediationInstruction = `You are an AI mediator facilitating a conversation between %s and %s. Your role is to:

1. Help both parties communicate clearly and constructively
2. Translate emotional or confrontational language into neutral terms
3. Identify common ground and shared interests
4. Ask clarifying questions when needed
5. Keep the conversation focused on resolution
6. Remain completely neutral and fair to both sides

Previous conversation:
%s

Latest message from %s: "%s"

Please provide a mediation response that:
- Acknowledges their message
- Clarifies or rephrases it in neutral terms if needed
- Guides the conversation toward understanding and resolution
- Asks follow-up questions to promote dialogue

Keep your response concise but thoughtful. Focus on moving the conversation forward constructively.`

const mediationWelcome = `Welcome to this mediated conversation between %s and %s. I'm here to help facilitate clear, constructive communication. 

Ground rules:
• Speak from your perspective using "I" statements
• Listen to understand, not to respond
• Keep the focus on resolving the issue together
• I'll help translate and clarify messages when needed

%s, would you like to start by sharing your perspective?`

// MediationMode narrates a two-party conversation through one synthesized instruction.
type MediationMode struct{}

func (MediationMode) Kind() Kind {
	return KindMediation
}

func (MediationMode) Validate(in TurnInput) error {
	if strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("%w: message is required", errors.ErrValidation)
	}
	if strings.TrimSpace(in.Participants.User) == "" || strings.TrimSpace(in.Participants.Other) == "" {
		return fmt.Errorf("%w: both participant names are required", errors.ErrValidation)
	}
	switch in.Speaker {
	case "", SpeakerUser, SpeakerOther:
	default:
		return fmt.Errorf("%w: unknown sender %q", errors.ErrValidation, in.Speaker)
	}
	return nil
}

func (MediationMode) AllowedHistoryRoles() []Role {
	return []Role{RoleUser, RoleOther, RoleMediator}
}

// BuildContext renders the whole transcript as "<sender>: <content>" lines inside one instruction.
func (MediationMode) BuildContext(in TurnInput, history []Message, signals Signals) Prompt {
	p := in.Participants
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, senderLabel(m, p)+": "+m.Content)
	}

	instruction := fmt.Sprintf(mediationInstruction,
		p.User, p.Other,
		strings.Join(lines, "\n"),
		speakerName(in), in.Message,
	)

	return Prompt{Instruction: instruction + signals.guidance()}
}

func (MediationMode) Fallback() string {
	return MediationFallback
}

func (MediationMode) DeriveTitle(in TurnInput) string {
	return fmt.Sprintf("%s & %s",
		strings.TrimSpace(in.Participants.User),
		strings.TrimSpace(in.Participants.Other))
}

// Seed opens every mediation with the welcome message the mediator shows both parties.
func (MediationMode) Seed(in TurnInput) []Message {
	p := in.Participants
	return []Message{{
		Role:    RoleMediator,
		Content: fmt.Sprintf(mediationWelcome, p.User, p.Other, p.User),
		Sender:  MediatorSender,
	}}
}

func (MediationMode) TurnMessages(in TurnInput, reply string) []Message {
	role := RoleUser
	if in.Speaker == SpeakerOther {
		role = RoleOther
	}
	return []Message{
		{Role: role, Content: in.Message, Sender: speakerName(in)},
		{Role: RoleMediator, Content: reply, Sender: MediatorSender},
	}
}

func (MediationMode) ParticipantsOf(in TurnInput) *Participants {
	return &Participants{
		User:  strings.TrimSpace(in.Participants.User),
		Other: strings.TrimSpace(in.Participants.Other),
	}
}

func speakerName(in TurnInput) string {
	if in.Speaker == SpeakerOther {
		return in.Participants.Other
	}
	return in.Participants.User
}

// senderLabel falls back to the role when a message carries no sender.
func senderLabel(m Message, p Participants) string {
	if m.Sender != "" {
		return m.Sender
	}
	switch m.Role {
	case RoleUser:
		return p.User
	case RoleOther:
		return p.Other
	case RoleMediator:
		return MediatorSender
	default:
		return string(m.Role)
	}
}
