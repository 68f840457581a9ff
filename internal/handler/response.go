// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/inkwell/internal/flow"
	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/render"
)

// Messages for submissions the form engine refused to run.
const (
	msgSubmissionBusy  = "This form is already being submitted"
	msgSubmissionStale = "This form has expired, please try again"
	msgInvalidForm     = "Invalid form data"
)

// flashAndRedirect stores a notice and redirects with 303.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url string, n *flow.Notice) {
	renderer.SetNotice(r.Context(), n)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// page describes a form page to re-render after a submission.
type page struct {
	name  string
	title string
	data  any
}

// switchTargets maps a flow's SwitchTo value to a route.
var switchTargets = map[string]string{
	flow.SwitchLogin:    RouteLogin,
	flow.SwitchRegister: RouteRegister,
}

// respond turns a flow outcome into an HTTP response: a redirect for
// navigation or a form switch, otherwise the form page re-rendered with
// its inline errors and the notice shown immediately. Every redirect is a
// full page load, so hard and soft navigation are served alike.
func respond(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logger *slog.Logger,
	p page, f *form.Form, out flow.Outcome, err error) {
	if err != nil {
		out.Notice = submitErrorNotice(err)
	}

	if out.Navigates() {
		flashAndRedirect(w, r, renderer, out.Redirect, out.Notice)
		return
	}
	if target, ok := switchTargets[out.SwitchTo]; ok {
		flashAndRedirect(w, r, renderer, target, out.Notice)
		return
	}

	status := http.StatusOK
	switch out.Result {
	case flow.ResultInvalid:
		status = http.StatusUnprocessableEntity
	case flow.ResultBusy, flow.ResultStale:
		status = http.StatusConflict
	}

	data := render.TemplateData{Title: p.title, Data: p.data, Form: f}
	if out.Notice != nil {
		data.Flash = out.Notice.Message
		data.FlashType = string(out.Notice.Kind)
	}
	if rerr := renderer.Render(w, r, status, p.name, data); rerr != nil {
		logAndInternalError(w, r, logger, "failed to render form page", rerr)
	}
}

func submitErrorNotice(err error) *flow.Notice {
	if errors.Is(err, form.ErrSubmissionInFlight) {
		return &flow.Notice{Kind: flow.NoticeError, Message: msgSubmissionBusy}
	}
	return &flow.Notice{Kind: flow.NoticeError, Message: msgSubmissionStale}
}

// renderPage renders a page or answers 500 when the template fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logger *slog.Logger,
	status int, name string, data render.TemplateData) {
	if err := renderer.Render(w, r, status, name, data); err != nil {
		logAndInternalError(w, r, logger, "failed to render page", err)
	}
}

// renderError shows the error page.
func renderError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logger *slog.Logger,
	status int, message string) {
	renderPage(w, r, renderer, logger, status, "error", render.TemplateData{
		Title: http.StatusText(status),
		Data:  message,
	})
}

// logAndInternalError logs err and writes a plain 500.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(r.Context(), msg, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(HeaderContentType, "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
