//go:generate go run go.uber.org/mock/mockgen -source=client.go -destination=../mocks/mock_client.go -package=mocks
package ai

import (
	"align/domain"
	"context"
	"fmt"
	"strings"
)

// IClient sends a prompt to a generative model and returns its text.
// Implementations are safe for concurrent use and honor ctx cancellation.
type IClient interface {
	Generate(ctx context.Context, prompt domain.Prompt) (string, error)
}

type Provider string

const (
	ProviderGenAI    Provider = "genai"
	ProviderAzure    Provider = "azure"
	ProviderScripted Provider = "scripted"
)

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderGenAI, ProviderAzure, ProviderScripted:
		return p, nil
	default:
		return "", fmt.Errorf("unknown model provider %q", s)
	}
}

// GenerationSettings are shared by every provider.
type GenerationSettings struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// chatTurn is the provider-neutral shape of a role-tagged message.
type chatTurn struct {
	Role    string
	Content string
}

// flatten renders a prompt as role-tagged turns. A mediation prompt becomes a single user turn.
func flatten(prompt domain.Prompt) []chatTurn {
	if prompt.Instruction != "" {
		return []chatTurn{{Role: "user", Content: prompt.Instruction}}
	}

	turns := make([]chatTurn, 0, len(prompt.Messages))
	for _, m := range prompt.Messages {
		switch m.Role {
		case domain.RoleAssistant, domain.RoleMediator:
			turns = append(turns, chatTurn{Role: "assistant", Content: m.Content})
		default:
			turns = append(turns, chatTurn{Role: "user", Content: m.Content})
		}
	}
	return turns
}
