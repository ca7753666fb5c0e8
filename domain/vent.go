package domain

import (
	"align/errors"
	"fmt"
	"strings"
)

// VentTitleLength is the maximum rune length of a vent session title.
const VentTitleLength = 60

const ventFirstTurnPrompt = `You are a thoughtful conflict resolution assistant. A user has shared their thoughts about a conflict they're experiencing. Your role is to:

1. Help them structure their thoughts clearly
2. Identify potential biases or emotional reactions that might cloud their judgment
3. Provide balanced perspective on the situation
4. Suggest constructive ways to approach the conflict
5. Help them see both sides of the situation

Please provide a thoughtful, empathetic analysis that helps them gain clarity. Be supportive but also gently challenge any obvious biases or one-sided thinking.

Please provide your analysis in a clear, structured format with sections like:
- Key Points Summary
- Emotional Patterns & Biases to Consider
- Different Perspectives
- Constructive Next Steps`

const ventContinuationPrompt = `You are a thoughtful conflict resolution assistant continuing a private reflection with a user about a conflict they're experiencing. You already shared an analysis earlier in this conversation.

Respond to the user's latest message:
- Build on what was said before instead of repeating the full analysis
- Keep helping them separate facts from interpretations
- Gently point out one-sided thinking when you notice it
- Offer one or two concrete, realistic next steps when they ask what to do

Keep the answer focused and supportive.`

// VentFallback is returned verbatim when the model cannot answer a vent turn.
const VentFallback = `Thank you for sharing your thoughts. While I'm having technical difficulties providing a full AI analysis right now, here are some general reflection points:

**Key Reflection Questions:**
- What are the core facts vs. your interpretations?
- What emotions are driving your perspective?
- What might the other person's viewpoint be?
- What outcome would be most constructive for everyone?

**Next Steps to Consider:**
- Take some time to process these emotions
- Consider the other person's possible motivations
- Think about what you'd like to achieve from resolving this
- Plan how you might approach a calm conversation

Remember: Conflicts often involve misunderstandings that can be resolved through clear, empathetic communication.`

// VentMode is private reflection with a role-tagged history.
type VentMode struct{}

func (VentMode) Kind() Kind {
	return KindVent
}

func (VentMode) Validate(in TurnInput) error {
	if strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("%w: message is required", errors.ErrValidation)
	}
	return nil
}

func (VentMode) AllowedHistoryRoles() []Role {
	return []Role{RoleUser, RoleAssistant}
}

// BuildContext prepends one system instruction to the history and appends the new message last.
func (VentMode) BuildContext(in TurnInput, history []Message, signals Signals) Prompt {
	system := ventFirstTurnPrompt
	if len(history) > 0 {
		system = ventContinuationPrompt
	}

	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: in.Message})

	return Prompt{
		System:   system + signals.guidance(),
		Messages: messages,
	}
}

func (VentMode) Fallback() string {
	return VentFallback
}

// DeriveTitle summarises the first message on a single line, bounded to VentTitleLength runes.
func (VentMode) DeriveTitle(in TurnInput) string {
	title := strings.Join(strings.Fields(in.Message), " ")
	runes := []rune(title)
	if len(runes) <= VentTitleLength {
		return title
	}
	return strings.TrimSpace(string(runes[:VentTitleLength-3])) + "..."
}

func (VentMode) Seed(TurnInput) []Message {
	return nil
}

func (VentMode) TurnMessages(in TurnInput, reply string) []Message {
	return []Message{
		{Role: RoleUser, Content: in.Message},
		{Role: RoleAssistant, Content: reply},
	}
}

func (VentMode) ParticipantsOf(TurnInput) *Participants {
	return nil
}
