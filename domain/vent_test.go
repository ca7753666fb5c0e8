package domain

import (
	"align/errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVentMode_BuildContext_FirstTurn(t *testing.T) {
	req := require.New(t)
	in := TurnInput{Kind: KindVent, Message: "I feel unheard"}

	prompt := VentMode{}.BuildContext(in, nil, Signals{})

	req.Equal(ventFirstTurnPrompt, prompt.System)
	req.Empty(prompt.Instruction)
	req.Equal([]Message{{Role: RoleUser, Content: "I feel unheard"}}, prompt.Messages)
}

func TestVentMode_BuildContext_Continuation(t *testing.T) {
	req := require.New(t)
	history := []Message{
		{Role: RoleUser, Content: "I feel unheard"},
		{Role: RoleAssistant, Content: "Key Points Summary ..."},
	}
	in := TurnInput{Kind: KindVent, Message: "What should I do?"}

	prompt := VentMode{}.BuildContext(in, history, Signals{})

	req.Equal(ventContinuationPrompt, prompt.System)
	req.Len(prompt.Messages, 3)
	req.Equal(history, prompt.Messages[:2])
	req.Equal(Message{Role: RoleUser, Content: "What should I do?"}, prompt.Messages[2])
	// The caller's history slice is left untouched
	req.Len(history, 2)
}

func TestVentMode_BuildContext_Signals(t *testing.T) {
	req := require.New(t)
	in := TurnInput{Kind: KindVent, Message: "Je me sens ignorée"}

	prompt := VentMode{}.BuildContext(in, nil, Signals{Language: "French", Crisis: true})

	req.True(strings.HasPrefix(prompt.System, ventFirstTurnPrompt))
	req.Contains(prompt.System, "Reply in French")
	req.Contains(prompt.System, "emergency services")
}

func TestVentMode_Validate(t *testing.T) {
	req := require.New(t)
	req.NoError(VentMode{}.Validate(TurnInput{Message: "hello"}))
	req.ErrorIs(VentMode{}.Validate(TurnInput{Message: "   "}), errors.ErrValidation)
	req.ErrorIs(VentMode{}.Validate(TurnInput{}), errors.ErrValidation)
}

func TestVentMode_DeriveTitle(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"Short message kept", "I feel unheard", "I feel unheard"},
		{"Whitespace collapsed", "  I feel\n\nunheard \t at work ", "I feel unheard at work"},
		{"Long message truncated", strings.Repeat("a", 80), strings.Repeat("a", VentTitleLength-3) + "..."},
		{"Exact bound kept", strings.Repeat("é", VentTitleLength), strings.Repeat("é", VentTitleLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := VentMode{}.DeriveTitle(TurnInput{Message: tt.message})
			require.Equal(t, tt.expected, title)
			require.LessOrEqual(t, len([]rune(title)), VentTitleLength)
		})
	}
}

func TestVentMode_TurnMessages(t *testing.T) {
	req := require.New(t)
	msgs := VentMode{}.TurnMessages(TurnInput{Message: "I feel unheard"}, "reply")
	req.Equal([]Message{
		{Role: RoleUser, Content: "I feel unheard"},
		{Role: RoleAssistant, Content: "reply"},
	}, msgs)
	req.Empty(VentMode{}.Seed(TurnInput{}))
	req.Nil(VentMode{}.ParticipantsOf(TurnInput{}))
}
