// Package app wires config, the session store, the completion client and the
// HTTP server into one process lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"chatterbox/internal/retention"
	"chatterbox/pkg/api"
	"chatterbox/pkg/banner"
	"chatterbox/pkg/chat"
	"chatterbox/pkg/config"
	"chatterbox/pkg/history"
	"chatterbox/pkg/logger"
	"chatterbox/pkg/openai"
	"chatterbox/pkg/prompt"
	"chatterbox/pkg/shutdown"
)

// App encapsulates the server components and lifecycle.
type App struct {
	cfg     *config.Config
	version string

	store   *history.Store
	client  *openai.Client
	service *chat.Service
	hooks   *shutdown.Hooks

	srv *http.Server
}

// New builds all components. The session store owns the one live session for
// the process; nothing else holds a mutable reference to it.
func New(cfg *config.Config, version string) (*App, error) {
	if cfg.Chat.Dir == "" {
		return nil, fmt.Errorf("chat dir must not be empty")
	}
	// MkdirAll is idempotent and tolerates a concurrent create.
	if err := os.MkdirAll(cfg.Chat.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chat dir %s: %w", cfg.Chat.Dir, err)
	}

	store := history.New(cfg.Chat.Dir)
	client := openai.New(cfg.OpenAI.Endpoint, cfg.OpenAI.Deployment, cfg.OpenAI.APIVersion, config.APIKey(), nil)
	builder := prompt.NewBuilder(cfg.Chat.HistoryWindow)
	service := chat.NewService(store, client, builder)

	a := &App{
		cfg:     cfg,
		version: version,
		store:   store,
		client:  client,
		service: service,
		hooks:   &shutdown.Hooks{},
	}
	a.hooks.Register("flush_session", func() { store.Flush() })
	return a, nil
}

// Run starts the retention scheduler and the HTTP server, blocks until ctx
// is cancelled or a fatal server error occurs, then runs the shutdown hooks.
func (a *App) Run(ctx context.Context) error {
	stopRetention, err := retention.Start(ctx, a.cfg.Retention, a.cfg.Chat.Dir)
	if err != nil {
		return err
	}
	a.hooks.Register("stop_retention", stopRetention)

	banner.Print(a.cfg.Addr(), a.cfg.Chat.Dir, a.version, a.client.IsConfigured())

	errCh := a.startHTTP()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		runErr = err
	}

	a.stopHTTP()
	a.hooks.Run()
	return runErr
}

// stopHTTP shuts the server down with a short deadline so a hung connection
// cannot stall session flushing.
func (a *App) stopHTTP() {
	if a.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		logger.Warn("http_shutdown_failed", "error", err)
	}
}

// Service exposes the chat service for tests.
func (a *App) Service() *chat.Service { return a.service }

// Handler builds the full HTTP handler, including operational endpoints.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	a.setupHTTPHandlers(mux)
	return mux
}

func (a *App) chatHandler() http.Handler {
	return api.Handler(api.Options{
		Service:   a.service,
		Store:     a.store,
		MaxMsgLen: a.cfg.Chat.MaxMessageBytes.Int(),
	})
}
