package services

import (
	"align/ai"
	"align/domain"
	"align/errors"
	"align/observability"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Reply is the resolved outcome of one model call.
// Fallback is true when Content is the mode's fixed fallback text.
type Reply struct {
	Content  string
	Fallback bool
}

// Engine turns a prompt into a reply. It never fails: any upstream problem
// resolves to the mode's fallback text.
type Engine struct {
	client  ai.IClient
	timeout time.Duration
	stats   *observability.MonitoringManager
	log     *slog.Logger
}

func NewEngine(client ai.IClient, timeout time.Duration, stats *observability.MonitoringManager, log *slog.Logger) *Engine {
	return &Engine{client: client, timeout: timeout, stats: stats, log: log}
}

// Resolve calls the model under a timeout derived from ctx, so a cancelled
// request also cancels the upstream call. No retries.
func (e *Engine) Resolve(ctx context.Context, mode domain.Mode, prompt domain.Prompt) Reply {
	log := observability.LoggerFromContext(ctx, e.log).With("kind", mode.Kind())

	callCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := e.client.Generate(callCtx, prompt)
	e.stats.ObserveModelCall(time.Since(start))

	text = strings.TrimSpace(text)
	if err == nil && text == "" {
		err = fmt.Errorf("empty reply")
	}
	if err != nil {
		err = fmt.Errorf("%w: %v", errors.ErrUpstreamModel, err)
		log.Warn("Model call failed, answering with fallback", "error", err, "elapsed", time.Since(start))
		e.stats.IncrFallbacks()
		return Reply{Content: mode.Fallback(), Fallback: true}
	}

	log.Debug("Model call resolved", "elapsed", time.Since(start), "length", len(text))
	return Reply{Content: text}
}
