// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/cache"
	"github.com/olegiv/inkwell/internal/config"
	"github.com/olegiv/inkwell/internal/handler"
	"github.com/olegiv/inkwell/internal/imaging"
	"github.com/olegiv/inkwell/internal/metrics"
	"github.com/olegiv/inkwell/internal/middleware"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/internal/store"
	"github.com/olegiv/inkwell/web"
)

// routerDeps are the long-lived services the routes are built from.
type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *sql.DB
	sm       *scs.SessionManager
	sessions *session.Store
	client   *api.Client
	tags     *cache.TagCatalog
	cache    cache.Cacher
	metrics  *metrics.Metrics
	registry prometheus.Gatherer
}

// newRouter wires middleware, handlers and routes. The returned func
// releases background workers started for the router.
func newRouter(d routerDeps) (http.Handler, func(), error) {
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return nil, nil, fmt.Errorf("loading templates: %w", err)
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, nil, fmt.Errorf("loading static files: %w", err)
	}

	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: d.sm})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing renderer: %w", err)
	}

	backend := func(token string) handler.Backend { return d.client.WithToken(token) }
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig(), d.logger)

	pagesHandler, err := handler.NewPagesHandler(renderer, web.About, d.logger)
	if err != nil {
		loginProtection.Close()
		return nil, nil, err
	}
	authHandler := handler.NewAuthHandler(renderer, d.sessions, backend, loginProtection, d.metrics, d.logger)
	profileHandler := handler.NewProfileHandler(renderer, backend, d.metrics, d.logger)
	postHandler := handler.NewPostHandler(renderer, backend, d.tags,
		imaging.NewHostPolicy(d.cfg.ImageDomains), d.cfg.MaxUploadBytes(), d.metrics, d.logger)

	checks := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return store.Ping(ctx, d.db) },
	}
	if rc, ok := d.cache.(*cache.RedisCache); ok {
		checks["redis"] = rc.Ping
	}
	healthHandler := handler.NewHealthHandler(checks, d.cache)

	securityCfg := middleware.DefaultSecurityHeadersConfig(d.cfg.IsDevelopment(), d.cfg.ImageDomains)
	securityCfg.ExcludePaths = []string{handler.RouteMetrics}
	csrfCfg := middleware.DefaultCSRFConfig([]byte(d.cfg.SessionSecret), d.cfg.IsDevelopment(), d.cfg.ServerPort)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	r.Use(chimw.Recoverer)
	r.Use(d.metrics.Middleware)
	r.Use(middleware.SecurityHeaders(securityCfg))

	// Operational endpoints skip sessions and CSRF.
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Handle(handler.RouteMetrics, metrics.Handler(d.registry))
	r.Handle(handler.RouteStatic, http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(d.cfg.RequestTimeout, d.logger))
		r.Use(d.sm.LoadAndSave)
		r.Use(middleware.CSRF(csrfCfg, d.logger))
		r.Use(middleware.LoadSession(d.sessions, d.logger))

		r.Get(handler.RouteRoot, pagesHandler.Home)
		r.Get(handler.RouteAbout, pagesHandler.About)
		r.Post(handler.RoutePasswordStrength, handler.PasswordStrength)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteRegister, authHandler.Register)
		r.Post(handler.RouteLogout, authHandler.Logout)

		r.Get(handler.RouteUser, profileHandler.Show)
		r.Get(handler.RoutePost, postHandler.Show)
		r.With(middleware.RequireRole(model.RoleSuperAdmin, d.logger)).
			Get(handler.RouteDashboard, profileHandler.Dashboard)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Get(handler.RouteProfileEdit, profileHandler.EditForm)
			r.Post(handler.RouteProfileEdit, profileHandler.Edit)
			r.Get(handler.RoutePostEdit, postHandler.EditForm)
			r.Post(handler.RoutePostEdit, postHandler.Edit)
		})

		r.NotFound(pagesHandler.NotFound)
	})

	return r, loginProtection.Close, nil
}
