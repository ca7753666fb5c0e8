package internal

import (
	"align/ai"
	"align/infrastructure/postgres"
	"align/repositories"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dgraph-io/badger/v4"
)

// Stores are the two repositories selected by STORAGE_BACKEND.
// Badger is set only for the badger backend.
type Stores struct {
	Subjects repositories.ISubjectRepository
	Sessions repositories.ISessionRepository
	Badger   *badger.DB
	closers  []func()
}

// Close releases sequences, pools and files in reverse opening order.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores opens the configured backend.
func OpenStores(ctx context.Context, cfg Config, log *slog.Logger) (*Stores, error) {
	switch cfg.StorageBackend {
	case StoragePostgres:
		return openPostgres(ctx, cfg, log)
	case StorageBadger:
		return openBadger(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func openPostgres(ctx context.Context, cfg Config, log *slog.Logger) (*Stores, error) {
	pool, err := postgres.Connect(ctx, cfg.PostgresURL, postgres.WithMaxConns(cfg.PostgresMaxConns))
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("Postgres connected", "max_conns", pool.Config().MaxConns)
	return &Stores{
		Subjects: postgres.NewSubjectRepository(pool, log),
		Sessions: postgres.NewSessionRepository(pool, log),
		closers: []func(){func() {
			log.Info("Closing Postgres pool...")
			pool.Close()
		}},
	}, nil
}

func openBadger(ctx context.Context, cfg Config, log *slog.Logger) (*Stores, error) {
	db, err := badger.Open(BadgerOptions(ctx, cfg.BadgerFilepath, log))
	if err != nil {
		return nil, fmt.Errorf("database opening failed: %w", err)
	}
	stores := &Stores{Badger: db}
	stores.closers = append(stores.closers, func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	})

	subjects, err := repositories.NewSubjectRepository(db, log)
	if err != nil {
		stores.Close()
		return nil, err
	}
	stores.closers = append(stores.closers, func() { _ = subjects.Close() })

	sessions, err := repositories.NewSessionRepository(db, log)
	if err != nil {
		stores.Close()
		return nil, err
	}
	stores.closers = append(stores.closers, func() { _ = sessions.Close() })

	stores.Subjects = subjects
	stores.Sessions = sessions
	return stores, nil
}

// BadgerOptions raises Badger's own logging when the process runs at debug level.
func BadgerOptions(ctx context.Context, path string, log *slog.Logger) badger.Options {
	options := badger.DefaultOptions(path)
	if log.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

// NewModelClient builds the client selected by MODEL_PROVIDER.
func NewModelClient(ctx context.Context, cfg Config, log *slog.Logger) (ai.IClient, error) {
	provider, err := ai.ParseProvider(cfg.ModelProvider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case ai.ProviderAzure:
		client, err := ai.NewAzureClient(ai.AzureConfig{
			APIKey:       cfg.AzureAPIKey,
			ResourceName: cfg.AzureResourceName,
			Endpoint:     cfg.AzureEndpoint,
			Deployment:   cfg.AzureDeployment,
			APIVersion:   cfg.AzureAPIVersion,
			Settings:     cfg.GenerationSettings(),
		}, &http.Client{Timeout: cfg.ModelTimeout}, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	case ai.ProviderScripted:
		log.Warn("Scripted model client in use, replies are canned")
		return ai.NewScriptedClient(), nil
	default:
		client, err := ai.NewGenAIClient(ctx, ai.GenAIConfig{
			APIKey:   cfg.GenAIAPIKey,
			Project:  cfg.GenAIProject,
			Location: cfg.GenAILocation,
			Model:    cfg.GenAIModel,
			Settings: cfg.GenerationSettings(),
		}, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
