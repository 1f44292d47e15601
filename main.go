package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/conduitlabs/conduit/internal/adapter/llm"
	"github.com/conduitlabs/conduit/internal/agent"
	"github.com/conduitlabs/conduit/internal/config"
	"github.com/conduitlabs/conduit/internal/orchestrator"
	"github.com/conduitlabs/conduit/internal/router"
	"github.com/conduitlabs/conduit/internal/store"
	transport "github.com/conduitlabs/conduit/internal/transport/http"
	"github.com/conduitlabs/conduit/policy"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	logger.Info().
		Int("http_port", cfg.HTTPPort).
		Str("database_url", cfg.DatabaseURL).
		Str("llm_base_url", cfg.LLMBaseURL).
		Msg("starting conduit")

	// Session store: sqlite when a DSN is configured, in-memory otherwise.
	var sessions store.SessionStore
	if cfg.DatabaseURL != "" {
		sessions, err = store.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize session store")
		}
	} else {
		logger.Info().Msg("no database configured, using in-memory session store")
		sessions = store.NewMemoryStore()
	}
	defer sessions.Close()

	gateway := llm.NewGateway(cfg, logger)

	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize policy engine")
	}

	handlers := agent.NewRegistry()
	handlers.Register(agent.NewChatHandler(gateway, logger))
	handlers.Register(agent.NewRetrievalHandler())
	handlers.Register(agent.NewToolHandler())

	orch := orchestrator.New(router.New(gateway, logger), handlers, policyEngine, logger)

	h := transport.NewHandler(orch, sessions, logger)
	server := transport.NewServer(h)

	// Session janitor: bounded memory growth for a long-running process.
	janitorDone := make(chan struct{})
	if cfg.PurgeInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.PurgeInterval)
			defer ticker.Stop()
			for {
				select {
				case <-janitorDone:
					return
				case <-ticker.C:
					purged, err := sessions.PurgeOlderThan(context.Background(), cfg.SessionMaxAge)
					if err != nil {
						logger.Error().Err(err).Msg("session purge failed")
					} else if purged > 0 {
						logger.Info().Int("purged", purged).Msg("purged stale sessions")
					}
				}
			}
		}()
	}

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	logger.Info().Int("port", cfg.HTTPPort).Msg("conduit started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	close(janitorDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down server gracefully")
	}

	logger.Info().Msg("conduit stopped")
}
