// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session loading,
// authorization, and request context handling.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/inkwell/internal/logging"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/session"
)

// LoginPath is where unauthenticated visitors of guarded pages are sent.
const LoginPath = "/login"

// SessionReader is the read side of the session store used per request.
type SessionReader interface {
	Current(ctx context.Context) (session.Session, error)
	HasEntries(ctx context.Context) bool
	Clear(ctx context.Context) error
}

// LoadSession reads the persisted session once per request and places it
// in the request context. A partial or corrupt record is cleared so the
// browser is treated as anonymous from then on.
// It must run inside the session manager's LoadAndSave.
func LoadSession(store SessionReader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			s, err := store.Current(ctx)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, s)))
				return
			}

			if !errors.Is(err, session.ErrNotAuthenticated) || store.HasEntries(ctx) {
				logger.WarnContext(ctx, "discarding inconsistent session", "error", err)
				if err := store.Clear(ctx); err != nil {
					logger.ErrorContext(ctx, "failed to clear session", "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession redirects anonymous visitors to the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows only signed-in users with the given role.
// Anonymous visitors are redirected to login; other roles get 403.
func RequireRole(role model.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if s.User.Role != role {
				logger.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"user_id", s.User.ID,
					"user_role", s.User.Role,
					"required_role", role,
				)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestPath stores the request path in the context for log enrichment.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.WithRequestPath(r.Context(), r.URL.Path)))
	})
}
