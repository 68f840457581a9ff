// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/flow"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/testutil"
)

func newProfileFixture(t *testing.T, backend *fakeBackend) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	h := NewProfileHandler(env.renderer, backend.For, nil, testutil.TestLogger())
	env.router.Get(RouteUser, h.Show)
	env.router.Get(RouteDashboard, h.Dashboard)
	env.router.Get(RouteProfileEdit, h.EditForm)
	env.router.Post(RouteProfileEdit, h.Edit)
	return env
}

func TestProfileShow(t *testing.T) {
	env := newProfileFixture(t, &fakeBackend{})

	rec := env.get("/user/bob")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>bob</h1>")
	assert.NotContains(t, rec.Body.String(), "Edit profile")

	env.signIn("tok", regularUser)
	rec = env.get("/user/alice")
	assert.Contains(t, rec.Body.String(), "This is your profile.")
}

func TestProfileShowInvalidSlug(t *testing.T) {
	env := newProfileFixture(t, &fakeBackend{})

	rec := env.get("/user/-bad")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardShow(t *testing.T) {
	env := newProfileFixture(t, &fakeBackend{})
	env.signIn("tok", adminUser)

	rec := env.get("/dashboard/root")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This is your dashboard.")
}

func TestProfileEditFormPrefills(t *testing.T) {
	backend := &fakeBackend{users: []model.User{{FullName: "Jane Doe", Username: "jane", Email: "j@d.com", Position: "Dev"}}}
	env := newProfileFixture(t, backend)
	env.signIn("tok", regularUser)

	rec := env.get(RouteProfileEdit)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Jane Doe"`)
	assert.Contains(t, rec.Body.String(), `value="Dev"`)
	assert.Equal(t, []string{"tok"}, backend.tokens)
}

func TestProfileEditFormLoadFailure(t *testing.T) {
	backend := &fakeBackend{userErr: &api.Error{StatusCode: http.StatusInternalServerError}}
	env := newProfileFixture(t, backend)
	env.signIn("tok", regularUser)

	rec := env.get(RouteProfileEdit)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), flow.MsgProfileFetchFailed)
	assert.Contains(t, rec.Body.String(), `name="fullName" value=""`)
}

func profileValues() url.Values {
	return url.Values{
		flow.FieldFullName: {"Jane Doe"},
		flow.FieldUsername: {"jane"},
		flow.FieldEmail:    {"j@d.com"},
		flow.FieldPosition: {"Dev"},
	}
}

func TestProfileEditSuccess(t *testing.T) {
	backend := &fakeBackend{users: []model.User{{Username: "jane-renamed"}}}
	env := newProfileFixture(t, backend)
	env.signIn("tok", regularUser)

	rec := env.postForm(RouteProfileEdit, profileValues())

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/user/jane-renamed", rec.Header().Get("Location"))
	require.Len(t, backend.profileUpdates, 1)
	assert.Equal(t, api.ProfileUpdate{FullName: "Jane Doe", Username: "jane", Email: "j@d.com", Position: "Dev"},
		backend.profileUpdates[0])

	env.session = nil
	rec = env.get("/user/jane-renamed")
	assert.Contains(t, rec.Body.String(), flow.MsgProfileUpdated)
}

func TestProfileEditInvalid(t *testing.T) {
	backend := &fakeBackend{}
	env := newProfileFixture(t, backend)
	env.signIn("tok", regularUser)

	v := profileValues()
	v.Set(flow.FieldFullName, "J")
	rec := env.postForm(RouteProfileEdit, v)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Name too short")
	assert.Empty(t, backend.profileUpdates)
}

func TestProfileEditUpstreamMessage(t *testing.T) {
	backend := &fakeBackend{updateErr: &api.Error{StatusCode: http.StatusBadRequest, Message: "Email already used"}}
	env := newProfileFixture(t, backend)
	env.signIn("tok", regularUser)

	rec := env.postForm(RouteProfileEdit, profileValues())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already used")
	assert.Contains(t, rec.Body.String(), `value="Jane Doe"`)
}
