package ai

import (
	"align/domain"
	"context"
	"fmt"
	"sync"
)

// ScriptedClient replays canned replies in order, then echoes the last user turn.
// Intended for local development without model credentials.
type ScriptedClient struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func NewScriptedClient(replies ...string) *ScriptedClient {
	return &ScriptedClient{replies: replies}
}

func (s *ScriptedClient) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.replies) > 0 {
		reply := s.replies[0]
		s.replies = s.replies[1:]
		return reply, nil
	}

	turns := flatten(prompt)
	if len(turns) == 0 {
		return "", fmt.Errorf("scripted client received an empty prompt")
	}
	return fmt.Sprintf("I hear you. You said: %q. Tell me more about how that made you feel.", turns[len(turns)-1].Content), nil
}

// Calls reports how many prompts the client has received.
func (s *ScriptedClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
