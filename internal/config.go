package internal

import (
	"align/ai"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	StorageBadger   = "badger"
	StoragePostgres = "postgres"
)

type Config struct {
	Host     string `env:"HTTP_HOST,default=localhost"`
	Port     int    `env:"HTTP_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	// DebugPort serves the Badger inspector when LOG_LEVEL is DEBUG. 0 disables it.
	DebugPort int `env:"DEBUG_PORT,default=8081"`

	StorageBackend   string `env:"STORAGE_BACKEND,default=badger"`
	BadgerFilepath   string `env:"BADGER_FILEPATH,default=./data/badger"`
	PostgresURL      string `env:"POSTGRES_URL"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS,default=5"`

	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	AuthCookieName    string        `env:"AUTH_COOKIE_NAME,default=align_session"`

	ModelProvider       string        `env:"MODEL_PROVIDER,default=genai"`
	ModelTimeout        time.Duration `env:"MODEL_TIMEOUT,default=30s"`
	ModelTemperature    float64       `env:"MODEL_TEMPERATURE,default=0.7"`
	ModelTopP           float64       `env:"MODEL_TOP_P,default=0.9"`
	ModelMaxTokens      int32         `env:"MODEL_MAX_OUTPUT_TOKENS,default=2048"`
	GenAIAPIKey         string        `env:"GENAI_API_KEY"`
	GenAIProject        string        `env:"GENAI_PROJECT"`
	GenAILocation       string        `env:"GENAI_LOCATION"`
	GenAIModel          string        `env:"GENAI_MODEL,default=gemini-2.5-flash"`
	AzureAPIKey         string        `env:"AZURE_API_KEY"`
	AzureResourceName   string        `env:"AZURE_RESOURCE_NAME"`
	AzureEndpoint       string        `env:"AZURE_ENDPOINT"`
	AzureDeployment     string        `env:"AZURE_DEPLOYMENT,default=gpt-5-chat"`
	AzureAPIVersion     string        `env:"AZURE_API_VERSION,default=2025-01-01-preview"`
	PersistTimeout      time.Duration `env:"PERSIST_TIMEOUT,default=5s"`
	MaxContextMessages  int           `env:"MAX_CONTEXT_MESSAGES,default=40"`
	AppSubdomain        string        `env:"APP_SUBDOMAIN,default=app"`
	CrisisKeywords      string        `env:"CRISIS_KEYWORDS"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD,default=10s"`
}

// Validate checks the cross-field rules that struct tags cannot express.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case StorageBadger:
		if c.BadgerFilepath == "" {
			return fmt.Errorf("BADGER_FILEPATH is required for the badger backend")
		}
	case StoragePostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageBadger, StoragePostgres, c.StorageBackend)
	}

	if _, err := ai.ParseProvider(c.ModelProvider); err != nil {
		return err
	}
	if c.ModelTimeout <= 0 || c.PersistTimeout <= 0 {
		return fmt.Errorf("MODEL_TIMEOUT and PERSIST_TIMEOUT must be positive")
	}
	if c.MaxContextMessages < 0 {
		return fmt.Errorf("MAX_CONTEXT_MESSAGES must not be negative, got %d", c.MaxContextMessages)
	}
	return nil
}

// GenerationSettings converts the sampling options for the model clients.
func (c Config) GenerationSettings() ai.GenerationSettings {
	return ai.GenerationSettings{
		Temperature:     float32(c.ModelTemperature),
		TopP:            float32(c.ModelTopP),
		MaxOutputTokens: c.ModelMaxTokens,
	}
}

// Keywords splits CRISIS_KEYWORDS on commas. Empty means the built-in list.
func Keywords(raw string, fallback []string) []string {
	words := lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if len(words) == 0 {
		return fallback
	}
	return words
}
