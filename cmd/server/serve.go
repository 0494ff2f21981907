package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	specpkg "github.com/replyforge/replyforge/api"
	"github.com/replyforge/replyforge/internal/action"
	"github.com/replyforge/replyforge/internal/api"
	"github.com/replyforge/replyforge/internal/auth"
	"github.com/replyforge/replyforge/internal/automation"
	"github.com/replyforge/replyforge/internal/brand"
	"github.com/replyforge/replyforge/internal/composio"
	"github.com/replyforge/replyforge/internal/config"
	"github.com/replyforge/replyforge/internal/database"
	"github.com/replyforge/replyforge/internal/embedding"
	"github.com/replyforge/replyforge/internal/events"
	"github.com/replyforge/replyforge/internal/reaper"
	"github.com/replyforge/replyforge/internal/reply"
	"github.com/replyforge/replyforge/internal/telemetry"
	"github.com/replyforge/replyforge/internal/website"
)

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	setupLogger(cfg.LogLevel)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "replyforge", cfg.Version, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		nats, err := events.Connect(cfg.NATSURL)
		if err != nil {
			slog.Warn("nats unavailable; events disabled", "error", err)
		} else {
			defer nats.Close()
			publisher = nats
		}
	}

	httpClient := telemetry.HTTPClient()
	replies := reply.NewRepository(db.Pool())

	router := api.NewRouter(api.RouterDeps{
		DBPinger:           db,
		Version:            cfg.Version,
		OpenAPISpec:        specpkg.OpenAPISpec,
		Verifier:           newVerifier(cfg, httpClient),
		ServiceKeys:        auth.NewServiceKeyChecker(cfg.ServiceKeyHash),
		Brands:             brand.NewRepository(db.Pool()),
		Actions:            action.NewRepository(db.Pool()),
		Replies:            replies,
		Embeddings:         embedding.NewRepository(db.Pool()),
		Automation:         automation.NewClient(cfg.AutomationServiceURL, httpClient),
		Poster:             composio.NewClient(cfg.ComposioAPIURL, cfg.ComposioAPIKey, httpClient),
		Analyzer:           website.NewAnalyzer(httpClient, cfg.WebsiteFetchTimeout),
		Publisher:          publisher,
		SecureCookies:      cfg.IsProduction(),
		AllowedOrigins:     cfg.AllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Tracing:            cfg.OTLPEndpoint != "",
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting ReplyForge server", "port", cfg.Port, "version", cfg.Version, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		reaper.New(replies, publisher, cfg.ReaperInterval, cfg.PostingStaleAfter).Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}

// newVerifier verifies tokens locally when the JWT secret is known and
// falls back to asking the identity provider.
func newVerifier(cfg *config.Config, client *http.Client) auth.Verifier {
	if cfg.SupabaseJWTSecret != "" {
		return auth.NewJWTVerifier(cfg.SupabaseJWTSecret)
	}
	if cfg.SupabaseURL == "" {
		slog.Warn("no identity provider configured; every protected request will be redirected to login")
	}
	return auth.NewRemoteVerifier(cfg.SupabaseURL, cfg.SupabaseAnonKey, client)
}
