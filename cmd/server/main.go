package main

import (
	"align/auth"
	"align/domain"
	"align/infrastructure/http/server"
	"align/internal"
	"align/moderation"
	"align/observability"
	"align/services"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run keeps every defer on the exit path so storage is released before os.Exit.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	stores, err := internal.OpenStores(ctx, config, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer stores.Close()

	if stores.Badger != nil && config.DebugPort > 0 && logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(stores.Badger, config.DebugPort, endpoint, sessionMapper)
	}

	// 3. Model, screening and pipeline
	client, err := internal.NewModelClient(ctx, config, logger)
	if err != nil {
		return exitConfig, fmt.Errorf("model client: %w", err)
	}
	screener, err := moderation.NewScreener(internal.Keywords(config.CrisisKeywords, moderation.DefaultCrisisKeywords), logger)
	if err != nil {
		return exitConfig, fmt.Errorf("crisis screener: %w", err)
	}
	tokens, err := auth.NewTokenIssuer(config.AuthSecret, config.AuthTokenDuration)
	if err != nil {
		return exitConfig, err
	}

	stats := observability.NewMonitoringManager()
	engine := services.NewEngine(client, config.ModelTimeout, stats, logger)
	conversations := services.NewConversationService(stores.Sessions, engine, screener, stats,
		services.ConversationServiceConfig{
			Window:         domain.Window{Max: config.MaxContextMessages},
			PersistTimeout: config.PersistTimeout,
		}, logger)

	handler := server.NewServer(server.Deps{
		Conversations: conversations,
		Gate:          auth.NewGate(tokens, stores.Subjects, config.AuthCookieName, logger),
		Stats:         stats,
		AppSubdomain:  config.AppSubdomain,
		Log:           logger,
	})

	// 4. HTTP server
	address := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	httpServer := &http.Server{
		Addr:              address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "storage", config.StorageBackend,
			"model", config.ModelProvider, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 5. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 6. Drain in-flight turns, including their transcript writes.
	logger.Info("Shutting down gracefully...", "grace_period", config.ShutdownGracePeriod)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownGracePeriod)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return exitRuntime, fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Program stopped cleanly", "stats", stats.Snapshot())

	return exitOK, nil
}

// sessionMapper renders session records in the inspector; other keys use the default rendering.
func sessionMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	if !strings.HasPrefix(key, "session:") {
		return row
	}

	var session domain.Session
	if err := json.Unmarshal(val, &session); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	row.Type = strings.ToUpper(string(session.Kind))
	row.Detail = fmt.Sprintf("%s (%d messages, owner %d)", session.Title, len(session.Messages), session.OwnerID)
	return row
}
