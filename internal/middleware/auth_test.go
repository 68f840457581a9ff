// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/inkwell/internal/logging"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/internal/testutil"
)

type fakeSessions struct {
	current    session.Session
	err        error
	hasEntries bool
	cleared    int
}

func (f *fakeSessions) Current(context.Context) (session.Session, error) {
	return f.current, f.err
}

func (f *fakeSessions) HasEntries(context.Context) bool { return f.hasEntries }

func (f *fakeSessions) Clear(context.Context) error {
	f.cleared++
	return nil
}

var signedIn = session.Session{
	Token: "tok",
	User:  model.SessionUser{ID: "u1", Email: "a@b.com", Slug: "a-b", Role: model.RoleUser},
}

func TestLoadSession(t *testing.T) {
	tests := []struct {
		name        string
		store       *fakeSessions
		wantSession bool
		wantCleared int
	}{
		{
			name:        "authenticated",
			store:       &fakeSessions{current: signedIn},
			wantSession: true,
		},
		{
			name:  "anonymous",
			store: &fakeSessions{err: session.ErrNotAuthenticated},
		},
		{
			name:        "partial record is cleared",
			store:       &fakeSessions{err: fmt.Errorf("%w: incomplete user record", session.ErrNotAuthenticated), hasEntries: true},
			wantCleared: 1,
		},
		{
			name:        "store failure is cleared",
			store:       &fakeSessions{err: errors.New("boom")},
			wantCleared: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bool
			h := LoadSession(tt.store, testutil.TestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, got = session.FromContext(r.Context())
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			if got != tt.wantSession {
				t.Errorf("session in context = %v, want %v", got, tt.wantSession)
			}
			if tt.store.cleared != tt.wantCleared {
				t.Errorf("Clear() calls = %d, want %d", tt.store.cleared, tt.wantCleared)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	t.Run("anonymous is redirected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireSession(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile/edit", nil))

		if rec.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Location = %q, want %q", loc, LoginPath)
		}
	})

	t.Run("signed in passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/profile/edit", nil)
		req = req.WithContext(session.WithSession(req.Context(), signedIn))
		rec := httptest.NewRecorder()
		RequireSession(okHandler()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestRequireRole(t *testing.T) {
	admin := signedIn
	admin.User.Role = model.RoleSuperAdmin

	tests := []struct {
		name       string
		sess       *session.Session
		wantStatus int
	}{
		{"anonymous", nil, http.StatusSeeOther},
		{"wrong role", &signedIn, http.StatusForbidden},
		{"super admin", &admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard/a-b", nil)
			if tt.sess != nil {
				req = req.WithContext(session.WithSession(req.Context(), *tt.sess))
			}
			rec := httptest.NewRecorder()
			RequireRole(model.RoleSuperAdmin, testutil.TestLogger())(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	h := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logging.RequestPath(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blog/hello", nil))

	if got != "/blog/hello" {
		t.Errorf("request path = %q, want /blog/hello", got)
	}
}
