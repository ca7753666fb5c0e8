package ai

import (
	"align/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const DefaultAzureAPIVersion = "2025-01-01-preview"

// AzureConfig targets a deployment-based Azure OpenAI chat completions endpoint.
// Endpoint overrides the URL derived from ResourceName.
type AzureConfig struct {
	APIKey       string
	ResourceName string
	Endpoint     string
	Deployment   string
	APIVersion   string
	Settings     GenerationSettings
}

type AzureClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
	settings   GenerationSettings
	log        *slog.Logger
}

type azureMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureRequest struct {
	Messages    []azureMessage `json:"messages"`
	Temperature *float32       `json:"temperature,omitempty"`
	TopP        *float32       `json:"top_p,omitempty"`
	MaxTokens   int32          `json:"max_tokens,omitempty"`
}

type azureResponse struct {
	Choices []struct {
		Message azureMessage `json:"message"`
	} `json:"choices"`
}

func NewAzureClient(cfg AzureConfig, httpClient *http.Client, log *slog.Logger) (*AzureClient, error) {
	if cfg.APIKey == "" || cfg.Deployment == "" {
		return nil, fmt.Errorf("azure requires an API key and a deployment")
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		if cfg.ResourceName == "" {
			return nil, fmt.Errorf("azure requires a resource name or an endpoint")
		}
		endpoint = fmt.Sprintf("https://%s.openai.azure.com", cfg.ResourceName)
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAzureAPIVersion
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	target := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		endpoint, url.PathEscape(cfg.Deployment), url.QueryEscape(version))

	log.Info("Azure OpenAI client ready", "deployment", cfg.Deployment, "api_version", version)
	return &AzureClient{httpClient: httpClient, url: target, apiKey: cfg.APIKey, settings: cfg.Settings, log: log}, nil
}

func (a *AzureClient) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	body, err := json.Marshal(a.request(prompt))
	if err != nil {
		return "", fmt.Errorf("azure marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("azure build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", a.apiKey)

	res, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("azure chat completions: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("azure chat completions: status %d: %s", res.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded azureResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("azure decode response: %w", err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("azure returned empty text")
	}
	return decoded.Choices[0].Message.Content, nil
}

func (a *AzureClient) request(prompt domain.Prompt) azureRequest {
	var req azureRequest
	if prompt.System != "" {
		req.Messages = append(req.Messages, azureMessage{Role: "system", Content: prompt.System})
	}
	for _, turn := range flatten(prompt) {
		req.Messages = append(req.Messages, azureMessage{Role: turn.Role, Content: turn.Content})
	}
	if a.settings.Temperature > 0 {
		req.Temperature = &a.settings.Temperature
	}
	if a.settings.TopP > 0 {
		req.TopP = &a.settings.TopP
	}
	req.MaxTokens = a.settings.MaxOutputTokens
	return req
}
