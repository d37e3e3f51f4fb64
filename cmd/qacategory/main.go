// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the question category directory.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qacategory/internal/cache"
	"qacategory/internal/config"
	"qacategory/internal/database"
	"qacategory/internal/handlers"
	"qacategory/internal/listing"
	"qacategory/internal/media"
	"qacategory/internal/middleware"
	"qacategory/internal/route"
	"qacategory/internal/router"
	"qacategory/internal/storage"
	"qacategory/internal/store"
	"qacategory/internal/summary"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text otherwise.
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Env == "production" {
		opts.Level = slog.LevelInfo
		logHandler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"base_path", cfg.BasePath,
		"pretty_permalinks", cfg.PrettyPermalinks,
	)

	ctx := context.Background()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN(), database.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Hover cards live in Valkey. Without it they fall back to a
	// process-local cache; the cache only saves recomputation.
	checks := map[string]router.HealthCheck{"postgres": db.PingContext}
	var cardCache summary.Cache
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, caching cards in memory", "error", err)
		cardCache = cache.NewMemoryCache()
	} else {
		defer valkeyClient.Close()
		cards := cache.NewCardCache(valkeyClient)
		// Cards written by a previous build may have a different shape.
		if err := cards.Flush(ctx); err != nil {
			slog.Warn("failed to flush card cache", "error", err)
		}
		cardCache = cards
		checks["valkey"] = func(ctx context.Context) error {
			return valkeyClient.Ping(ctx).Err()
		}
	}

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	metaStore := store.NewMetaStore(db)
	questionStore := store.NewQuestionStore(db)
	mediaStore := store.NewMediaStore(db)
	variantStore := store.NewVariantStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	// S3-compatible object storage is optional; category images render as
	// color blocks without it.
	urls, err := newURLBuilder(cfg)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if urls != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured, category images disabled")
	}

	routes := route.New(route.Options{
		SiteURL:        cfg.SiteURL,
		BasePath:       cfg.BasePath,
		CategoriesSlug: cfg.CategoriesSlug,
		CategorySlug:   cfg.CategorySlug,
		Pretty:         cfg.PrettyPermalinks,
	}, categoryStore)

	cards := summary.NewService(categoryStore, metaStore, routes, cardCache, cfg.CardTTL).
		WithImages(media.NewResolver(mediaStore, variantStore, urls)).
		WithInvalidationLog(cacheLogStore)

	// Media ids are only checked against the store when images can render.
	var mediaFinder handlers.MediaFinder
	if urls != nil {
		mediaFinder = mediaStore
	}

	cardLimiter := middleware.NewRateLimiter(cfg.CardRateLimit, cfg.CardRateBurst)
	defer cardLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Options{
		BasePath:    cfg.BasePath,
		HSTS:        !cfg.IsDev(),
		CardLimiter: cardLimiter,
		Checks:      checks,
	}, router.Handlers{
		Directory: handlers.NewDirectory(routes, categoryStore, metaStore, questionStore, cards, handlers.DirectoryOptions{
			Title:            cfg.CategoriesPageTitle,
			PerPage:          cfg.CategoriesPerPage,
			OrderBy:          cfg.CategoriesOrderBy,
			Order:            cfg.CategoriesOrder,
			ImageHeight:      cfg.CategoryImageHeight,
			QuestionsPerPage: cfg.QuestionsPerPage,
		}),
		Questions:     handlers.NewQuestions(listing.NewComposer(), questionStore, cfg.QuestionsPerPage),
		Card:          handlers.NewCard(cards),
		Filters:       handlers.NewFilters(categoryStore),
		Meta:          handlers.NewMeta(categoryStore, metaStore, mediaFinder, cards),
		Media:         handlers.NewMedia(mediaStore, variantStore, cfg.S3BucketPublic, cfg.S3BucketPrivate),
		Invalidations: handlers.NewInvalidations(cacheLogStore),
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// newURLBuilder returns the S3 client used to build image URLs, or a nil
// interface when storage is not configured. A nil *storage.Client must not
// leak into the interface: the resolver tests urls against nil.
func newURLBuilder(cfg *config.Config) (media.URLBuilder, error) {
	if !cfg.HasStorage() {
		return nil, nil
	}
	client, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
	)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return client, nil
}
