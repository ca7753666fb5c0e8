package ai

import (
	"align/domain"
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// GenAIConfig selects either the Gemini API (APIKey) or Vertex AI (Project + Location).
type GenAIConfig struct {
	APIKey   string
	Project  string
	Location string
	Model    string
	BaseURL  string
	Settings GenerationSettings
}

type GenAIClient struct {
	client   *genai.Client
	model    string
	settings GenerationSettings
	log      *slog.Logger
}

func NewGenAIClient(ctx context.Context, cfg GenAIConfig, log *slog.Logger) (*GenAIClient, error) {
	clientConfig := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}
	switch {
	case cfg.APIKey != "":
		clientConfig.APIKey = cfg.APIKey
		clientConfig.Backend = genai.BackendGeminiAPI
	case cfg.Project != "" && cfg.Location != "":
		clientConfig.Project = cfg.Project
		clientConfig.Location = cfg.Location
		clientConfig.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("genai requires an API key or a project and location")
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	log.Info("GenAI client ready", "vertex", clientConfig.Backend == genai.BackendVertexAI, "model", cfg.Model)
	return &GenAIClient{client: client, model: cfg.Model, settings: cfg.Settings, log: log}, nil
}

func (g *GenAIClient) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	contents, cfg := g.request(prompt)

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("genai returned empty text")
	}
	return text, nil
}

func (g *GenAIClient) request(prompt domain.Prompt) ([]*genai.Content, *genai.GenerateContentConfig) {
	var contents []*genai.Content
	for _, turn := range flatten(prompt) {
		role := genai.Role(genai.RoleUser)
		if turn.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}

	cfg := &genai.GenerateContentConfig{}
	if g.settings.Temperature > 0 {
		cfg.Temperature = &g.settings.Temperature
	}
	if g.settings.TopP > 0 {
		cfg.TopP = &g.settings.TopP
	}
	if g.settings.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = g.settings.MaxOutputTokens
	}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}
	return contents, cfg
}
