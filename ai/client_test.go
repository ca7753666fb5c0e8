package ai

import (
	"align/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestParseProvider(t *testing.T) {
	req := require.New(t)

	p, err := ParseProvider(" GenAI ")
	req.NoError(err)
	req.Equal(ProviderGenAI, p)

	_, err = ParseProvider("openrouter")
	req.Error(err)
}

func TestGenAIClient_Request(t *testing.T) {
	t.Run("should map history to user and model contents with a system instruction", func(t *testing.T) {
		req := require.New(t)
		client := &GenAIClient{settings: GenerationSettings{Temperature: 0.7, MaxOutputTokens: 2048}}

		contents, cfg := client.request(domain.Prompt{
			System: "be kind",
			Messages: []domain.Message{
				{Role: domain.RoleUser, Content: "hello"},
				{Role: domain.RoleAssistant, Content: "hi"},
			},
		})

		req.Len(contents, 2)
		req.Equal(genai.Role(genai.RoleUser), genai.Role(contents[0].Role))
		req.Equal(genai.Role(genai.RoleModel), genai.Role(contents[1].Role))
		req.Equal("hello", contents[0].Parts[0].Text)
		req.NotNil(cfg.SystemInstruction)
		req.Equal("be kind", cfg.SystemInstruction.Parts[0].Text)
		req.InDelta(0.7, float64(*cfg.Temperature), 0.0001)
		req.Nil(cfg.TopP)
		req.Equal(int32(2048), cfg.MaxOutputTokens)
	})

	t.Run("should send an instruction without system prompt", func(t *testing.T) {
		req := require.New(t)
		client := &GenAIClient{}

		contents, cfg := client.request(domain.Prompt{Instruction: "mediate"})

		req.Len(contents, 1)
		req.Equal("mediate", contents[0].Parts[0].Text)
		req.Nil(cfg.SystemInstruction)
	})
}

func TestScriptedClient(t *testing.T) {
	req := require.New(t)
	client := NewScriptedClient("first")

	text, err := client.Generate(context.Background(), domain.Prompt{Instruction: "x"})
	req.NoError(err)
	req.Equal("first", text)

	text, err = client.Generate(context.Background(), domain.Prompt{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "I feel unheard"}},
	})
	req.NoError(err)
	req.Contains(text, "I feel unheard")
	req.Equal(2, client.Calls())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Generate(ctx, domain.Prompt{Instruction: "x"})
	req.ErrorIs(err, context.Canceled)
}
