// Package main is the entry point for the contentstudio server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentstudio/internal/ai"
	"contentstudio/internal/analytics"
	"contentstudio/internal/auth"
	"contentstudio/internal/cache"
	"contentstudio/internal/config"
	"contentstudio/internal/content"
	"contentstudio/internal/database"
	"contentstudio/internal/handlers"
	"contentstudio/internal/middleware"
	"contentstudio/internal/router"
	"contentstudio/internal/storage"
	"contentstudio/internal/store"
	"contentstudio/internal/translate"
)

// devStudioPassword is the studio password used in development when no
// hash is configured.
const devStudioPassword = "studio"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"languages", cfg.Languages,
	)

	// Connect to PostgreSQL and run pending migrations.
	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	db, err := database.Connect(startCtx, cfg.DSN(), database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		cancelStart()
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	_, err = database.Migrate(startCtx, db)
	cancelStart()
	if err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (render cache, drafts, translations).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	renderCache := cache.NewRenderCache(valkeyClient, cfg.RenderCacheTTL)
	draftStore := cache.NewDraftStore(valkeyClient, cfg.DraftTTL)
	translationCache := cache.NewTranslationCache(valkeyClient, cfg.TranslationCacheTTL)

	// Initialize data stores.
	entryStore := store.NewEntryStore(db)
	pageViewStore := store.NewPageViewStore(db)

	// Connect to S3-compatible object storage (optional, uploads are
	// disabled without it).
	var uploader handlers.Uploader
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	switch {
	case err != nil:
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	case storageClient != nil:
		uploader = storage.NewUploader(storageClient, cfg.ImageMaxWidth)
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	default:
		slog.Warn("s3 storage not configured, uploads disabled")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	var (
		translator   handlers.Translator
		translations handlers.TranslationCache
		providers    handlers.ProviderSwitch
	)
	if len(aiRegistry.Available()) > 0 {
		translator = translate.New(aiRegistry, translationCache)
		translations = translationCache
		providers = aiRegistry
		slog.Info("ai providers initialized",
			"active", aiRegistry.ActiveName(),
			"available", aiRegistry.Available(),
		)
	} else {
		slog.Warn("no ai provider configured, translation disabled")
	}

	// Studio credentials.
	passwordHash := cfg.StudioPasswordHash
	if passwordHash == "" {
		passwordHash, err = auth.HashPassword(devStudioPassword)
		if err != nil {
			slog.Error("failed to hash development password", "error", err)
			os.Exit(1)
		}
		slog.Warn("STUDIO_PASSWORD_HASH not set, using development password",
			"email", cfg.StudioEmail, "password", devStudioPassword)
	}
	authManager := auth.NewManager(cfg.StudioEmail, passwordHash, cfg.JWTSecret, cfg.TokenTTL)

	// The analytics queue lives as long as the server. It is stopped after
	// the HTTP server has drained so late page views are still written.
	queue := analytics.New(pageViewStore, analytics.Config{
		Buffer:        cfg.AnalyticsBuffer,
		BatchSize:     cfg.AnalyticsBatchSize,
		FlushInterval: cfg.AnalyticsFlushInterval,
	})
	queueDone := make(chan error, 1)
	go func() { queueDone <- queue.Run(context.Background()) }()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	langs := handlers.Languages{Default: cfg.DefaultLanguage, Supported: cfg.Languages}
	renderer := content.NewRenderer()

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(entryStore, renderer, renderCache, queue, langs)
	studioHandlers := handlers.NewStudio(handlers.StudioDeps{
		Entries:          entryStore,
		Drafts:           draftStore,
		Cache:            renderCache,
		Renderer:         renderer,
		Translator:       translator,
		TranslationCache: translations,
		Uploader:         uploader,
		Stats:            pageViewStore,
		Auth:             authManager,
		Providers:        providers,
		Languages:        langs,
		MaxUploadBytes:   cfg.MaxUploadBytes(),
	})

	r := router.New(publicHandlers, studioHandlers, authManager, limiter)

	// WriteTimeout must accommodate translation requests that wait on LLM
	// responses.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	if err := queue.Close(ctx); err != nil {
		slog.Error("analytics queue did not drain", "error", err)
	} else if err := <-queueDone; err != nil {
		slog.Error("analytics queue stopped with error", "error", err)
	}
	slog.Info("server stopped gracefully",
		"views_flushed", queue.Flushed(),
		"views_dropped", queue.Dropped(),
	)
}
