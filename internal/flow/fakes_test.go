// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package flow

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAuth struct {
	loginRes    api.AuthResult
	loginErr    error
	registerRes api.AuthResult
	registerErr error

	loginCalls []api.Credentials
	registered []api.RegisterPayload
}

func (f *fakeAuth) Login(_ context.Context, creds api.Credentials) (api.AuthResult, error) {
	f.loginCalls = append(f.loginCalls, creds)
	return f.loginRes, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, p api.RegisterPayload) (api.AuthResult, error) {
	f.registered = append(f.registered, p)
	return f.registerRes, f.registerErr
}

type persisted struct {
	token string
	user  model.SessionUser
}

type fakeSessions struct {
	err     error
	persist []persisted
	cleared int
}

func (f *fakeSessions) Persist(_ context.Context, token string, user model.SessionUser) error {
	if f.err != nil {
		return f.err
	}
	f.persist = append(f.persist, persisted{token: token, user: user})
	return nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.cleared++
	return nil
}

type fakeUsers struct {
	users     []model.User // returned in order by CurrentUser
	getErr    error
	updateErr error
	updates   []api.ProfileUpdate
	gets      int
}

func (f *fakeUsers) CurrentUser(context.Context) (model.User, error) {
	if f.getErr != nil {
		return model.User{}, f.getErr
	}
	u := f.users[min(f.gets, len(f.users)-1)]
	f.gets++
	return u, nil
}

func (f *fakeUsers) UpdateCurrentUser(_ context.Context, u api.ProfileUpdate) error {
	f.updates = append(f.updates, u)
	return f.updateErr
}

type fakePosts struct {
	mu        sync.Mutex
	post      model.Post
	getErr    error
	updateErr error
	uploadURL string
	uploadErr error

	updates []api.PostUpdate
	ids     []string
	uploads []string
}

func (f *fakePosts) PostBySlug(_ context.Context, slug string) (model.Post, error) {
	if f.getErr != nil {
		return model.Post{}, f.getErr
	}
	p := f.post
	p.Slug = slug
	return p, nil
}

func (f *fakePosts) UpdatePost(_ context.Context, id string, u api.PostUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	f.updates = append(f.updates, u)
	return f.updateErr
}

func (f *fakePosts) UploadImage(_ context.Context, filename, contentType string, _ []byte) (string, error) {
	f.uploads = append(f.uploads, filename+"|"+contentType)
	return f.uploadURL, f.uploadErr
}

type fakeTags struct {
	tags []model.Tag
	err  error
}

func (f *fakeTags) ListTags(context.Context) ([]model.Tag, error) {
	return f.tags, f.err
}

type fakeObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *fakeObserver) ObserveFlow(flow, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, flow+":"+outcome)
}
