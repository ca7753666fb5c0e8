package domain

import (
	"align/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var anaAndBen = Participants{User: "Ana", Other: "Ben"}

func TestMediationMode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      TurnInput
		wantErr bool
	}{
		{"Valid turn", TurnInput{Message: "He never listens", Participants: anaAndBen}, false},
		{"Valid turn from other", TurnInput{Message: "I do", Speaker: SpeakerOther, Participants: anaAndBen}, false},
		{"Missing message", TurnInput{Participants: anaAndBen}, true},
		{"Missing user", TurnInput{Message: "hi", Participants: Participants{Other: "Ben"}}, true},
		{"Missing other", TurnInput{Message: "hi", Participants: Participants{User: "Ana", Other: "  "}}, true},
		{"Unknown sender", TurnInput{Message: "hi", Speaker: "judge", Participants: anaAndBen}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MediationMode{}.Validate(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMediationMode_BuildContext_EmbedsTranscript(t *testing.T) {
	req := require.New(t)
	history := []Message{
		{Role: RoleMediator, Content: "Welcome", Sender: MediatorSender},
		{Role: RoleUser, Content: "You never call", Sender: "Ana"},
		{Role: RoleOther, Content: "I was busy"},
	}
	in := TurnInput{Kind: KindMediation, Message: "He never listens", Participants: anaAndBen}

	prompt := MediationMode{}.BuildContext(in, history, Signals{})

	req.Empty(prompt.System)
	req.Empty(prompt.Messages)
	req.Contains(prompt.Instruction, "facilitating a conversation between Ana and Ben")
	req.Contains(prompt.Instruction, "AI Mediator: Welcome\nAna: You never call\nBen: I was busy")
	req.Contains(prompt.Instruction, `Latest message from Ana: "He never listens"`)
}

func TestMediationMode_BuildContext_OtherSpeaker(t *testing.T) {
	req := require.New(t)
	in := TurnInput{Message: "That's unfair", Speaker: SpeakerOther, Participants: anaAndBen}

	prompt := MediationMode{}.BuildContext(in, nil, Signals{Language: "English"})

	req.Contains(prompt.Instruction, `Latest message from Ben: "That's unfair"`)
	req.Contains(prompt.Instruction, "Reply in English")
}

func TestMediationMode_TitleSeedAndTurn(t *testing.T) {
	req := require.New(t)
	in := TurnInput{Message: "He never listens", Participants: Participants{User: " Ana ", Other: "Ben"}}

	req.Equal("Ana & Ben", MediationMode{}.DeriveTitle(in))
	req.Equal(&anaAndBen, MediationMode{}.ParticipantsOf(in))

	seed := MediationMode{}.Seed(TurnInput{Participants: anaAndBen})
	req.Len(seed, 1)
	req.Equal(RoleMediator, seed[0].Role)
	req.Equal(MediatorSender, seed[0].Sender)
	req.Contains(seed[0].Content, "between Ana and Ben")

	turn := MediationMode{}.TurnMessages(TurnInput{Message: "I hear you", Speaker: SpeakerOther, Participants: anaAndBen}, "reply")
	req.Equal([]Message{
		{Role: RoleOther, Content: "I hear you", Sender: "Ben"},
		{Role: RoleMediator, Content: "reply", Sender: MediatorSender},
	}, turn)
}
