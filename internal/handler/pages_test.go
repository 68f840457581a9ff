// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/inkwell/web"

	"github.com/olegiv/inkwell/internal/testutil"
)

func newPagesFixture(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	h, err := NewPagesHandler(env.renderer, web.About, testutil.TestLogger())
	require.NoError(t, err)
	env.router.Get(RouteRoot, h.Home)
	env.router.Get(RouteAbout, h.About)
	env.router.NotFound(h.NotFound)
	return env
}

func TestHome(t *testing.T) {
	env := newPagesFixture(t)

	rec := env.get(RouteRoot)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/login"`)

	env.signIn("tok", regularUser)
	rec = env.get(RouteRoot)
	assert.Contains(t, rec.Body.String(), `action="/logout"`)
}

func TestAboutRendersMarkdown(t *testing.T) {
	env := newPagesFixture(t)

	rec := env.get(RouteAbout)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>About us</h1>")
}

func TestNotFound(t *testing.T) {
	env := newPagesFixture(t)

	rec := env.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}
