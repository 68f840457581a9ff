// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/inkwell/internal/flow"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/internal/util"
)

// ProfileHandler serves the profile pages and the profile editor.
type ProfileHandler struct {
	renderer *render.Renderer
	backend  BackendFor
	obs      flow.Observer
	logger   *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(renderer *render.Renderer, backend BackendFor, obs flow.Observer, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{renderer: renderer, backend: backend, obs: obs, logger: logger}
}

// profileData is the data of the profile and dashboard pages.
type profileData struct {
	Slug      string
	Own       bool
	Dashboard bool
}

var profileEditPage = page{name: "edit_profile", title: "Edit profile"}

// Show renders the public profile route.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, false)
}

// Dashboard renders the super-admin landing route. Access is enforced by
// the role middleware.
func (h *ProfileHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, true)
}

func (h *ProfileHandler) show(w http.ResponseWriter, r *http.Request, dashboard bool) {
	slug := chi.URLParam(r, paramSlug)
	if !util.IsValidSlug(slug) {
		renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "Page not found")
		return
	}

	s, signedIn := session.FromContext(r.Context())
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "profile", render.TemplateData{
		Title: slug,
		Data: profileData{
			Slug:      slug,
			Own:       signedIn && s.User.Slug == slug,
			Dashboard: dashboard,
		},
	})
}

// EditForm renders the profile editor prefilled from the API.
func (h *ProfileHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	f := flow.NewProfileForm()
	defer f.Close()

	out := flow.NewEditProfile(h.backend(s.Token), h.obs, h.logger).Load(r.Context(), f)
	data := render.TemplateData{Title: profileEditPage.title, Form: f}
	if out.Notice != nil {
		data.Flash = out.Notice.Message
		data.FlashType = string(out.Notice.Kind)
	}
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, profileEditPage.name, data)
}

// Edit handles the profile form submission.
func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	s, _ := session.FromContext(r.Context())
	f := flow.NewProfileForm()
	defer f.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.InfoContext(r.Context(), "invalid form body", "error", err)
		respond(w, r, h.renderer, h.logger, profileEditPage, f, flow.Outcome{
			Result: flow.ResultInvalid,
			Notice: &flow.Notice{Kind: flow.NoticeError, Message: msgInvalidForm},
		}, nil)
		return
	}
	f.Bind(r.PostForm)

	out, err := flow.NewEditProfile(h.backend(s.Token), h.obs, h.logger).Submit(r.Context(), f)
	respond(w, r, h.renderer, h.logger, profileEditPage, f, out, err)
}
