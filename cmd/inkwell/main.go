// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package main is the entry point for the Inkwell web front-end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/cache"
	"github.com/olegiv/inkwell/internal/config"
	"github.com/olegiv/inkwell/internal/logging"
	"github.com/olegiv/inkwell/internal/metrics"
	"github.com/olegiv/inkwell/internal/scheduler"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/internal/store"
	"github.com/olegiv/inkwell/internal/version"
)

const (
	tagRefreshJob   = "refresh_tags"
	shutdownTimeout = 30 * time.Second
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Inkwell - blog front-end\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_API_BASE_URL     Blog API base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_DB_PATH          SQLite session database (default: ./data/inkwell.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_REDIS_URL        Redis URL for the tag cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_IMAGE_DOMAINS    Comma-separated cover image hosts\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		v := version.Get()
		_, _ = fmt.Printf("inkwell %s (commit: %s, built: %s)\n", v.Version, v.GitCommit, v.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	logger.Info("initializing session database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	sessions := session.NewStore(sessionManager)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	client, err := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		api.WithObserver(m),
	)
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}

	tagCache, backend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
	}, logger)
	defer func() {
		if err := tagCache.Close(); err != nil {
			logger.Error("error closing cache", "error", err)
		}
	}()
	logger.Info("tag cache ready", "backend", backend)
	tags := cache.NewTagCatalog(tagCache, client, cfg.CacheTTL, logger)

	sched := scheduler.New(logger, cfg.APITimeout)
	if err := sched.Register(tagRefreshJob, cfg.TagRefreshSchedule, tags.Refresh); err != nil {
		return fmt.Errorf("registering tag refresh: %w", err)
	}
	if err := sched.RunNow(tagRefreshJob); err != nil {
		logger.Warn("initial tag refresh failed, tags load on demand", "error", err)
	}
	sched.Start()
	defer sched.Stop()

	r, closeRouter, err := newRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		sm:       sessionManager,
		sessions: sessions,
		client:   client,
		tags:     tags,
		cache:    tagCache,
		metrics:  m,
		registry: registry,
	})
	if err != nil {
		return err
	}
	defer closeRouter()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
