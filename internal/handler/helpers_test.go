// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/web"
)

// fakeBackend records every call made through it.
type fakeBackend struct {
	mu sync.Mutex

	loginRes    api.AuthResult
	loginErr    error
	registerRes api.AuthResult
	registerErr error

	users     []model.User
	userErr   error
	updateErr error
	gets      int

	post          model.Post
	postErr       error
	postUpdateErr error
	uploadURL     string

	tokens         []string
	logins         []api.Credentials
	registrations  []api.RegisterPayload
	profileUpdates []api.ProfileUpdate
	postUpdates    []api.PostUpdate
	postIDs        []string
	uploads        []string
}

// For returns the backend as the per-token factory and records tokens.
func (f *fakeBackend) For(token string) Backend {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	return f
}

func (f *fakeBackend) Login(_ context.Context, creds api.Credentials) (api.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, creds)
	return f.loginRes, f.loginErr
}

func (f *fakeBackend) Register(_ context.Context, p api.RegisterPayload) (api.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations = append(f.registrations, p)
	return f.registerRes, f.registerErr
}

func (f *fakeBackend) CurrentUser(context.Context) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return model.User{}, f.userErr
	}
	u := f.users[min(f.gets, len(f.users)-1)]
	f.gets++
	return u, nil
}

func (f *fakeBackend) UpdateCurrentUser(_ context.Context, u api.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profileUpdates = append(f.profileUpdates, u)
	return f.updateErr
}

func (f *fakeBackend) PostBySlug(_ context.Context, slug string) (model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return model.Post{}, f.postErr
	}
	p := f.post
	p.Slug = slug
	return p, nil
}

func (f *fakeBackend) UpdatePost(_ context.Context, id string, u api.PostUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postIDs = append(f.postIDs, id)
	f.postUpdates = append(f.postUpdates, u)
	return f.postUpdateErr
}

func (f *fakeBackend) UploadImage(_ context.Context, filename, contentType string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename+"|"+contentType)
	return f.uploadURL, nil
}

type fakeTags struct {
	tags []model.Tag
	err  error
}

func (f *fakeTags) ListTags(context.Context) ([]model.Tag, error) {
	return f.tags, f.err
}

type persisted struct {
	token string
	user  model.SessionUser
}

type fakeSessions struct {
	mu      sync.Mutex
	persist []persisted
	cleared int
}

func (f *fakeSessions) Persist(_ context.Context, token string, user model.SessionUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.persist = append(f.persist, persisted{token: token, user: user})
	return nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	return nil
}

// testEnv serves handlers behind the session manager the way the server
// does, so flash notices survive redirects.
type testEnv struct {
	t        *testing.T
	sm       *scs.SessionManager
	renderer *render.Renderer
	router   chi.Router
	session  *session.Session
	cookies  []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	sm := scs.New()
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm})
	require.NoError(t, err)

	e := &testEnv{t: t, sm: sm, renderer: renderer, router: chi.NewRouter()}
	e.router.Use(sm.LoadAndSave)
	e.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if e.session != nil {
				r = r.WithContext(session.WithSession(r.Context(), *e.session))
			}
			next.ServeHTTP(w, r)
		})
	})
	return e
}

// signIn makes following requests carry an authenticated session.
func (e *testEnv) signIn(token string, user model.SessionUser) {
	e.session = &session.Session{Token: token, User: user}
}

// do serves req and keeps the session cookie for the next request.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	return rec
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return e.do(req)
}

var (
	regularUser = model.SessionUser{ID: "u1", Email: "a@b.com", Slug: "alice", Role: model.RoleUser}
	adminUser   = model.SessionUser{ID: "u2", Email: "root@b.com", Slug: "root", Role: model.RoleSuperAdmin}
)

func authResult(u model.SessionUser, token string) api.AuthResult {
	return api.AuthResult{ID: model.ID(u.ID), Email: u.Email, Slug: u.Slug, Role: u.Role, Token: token}
}
