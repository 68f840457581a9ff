// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package flow implements the form submission handlers: login,
// registration, profile editing and post editing. Each flow turns validated
// form values into an upstream API call and maps the result to navigation
// or a user-visible notice.
package flow

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/model"
)

// NoticeKind is the visual class of a notice.
type NoticeKind string

// Notice kinds, matching the flash types used by the renderer.
const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a toast/banner message for the user.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Result classifies an outcome for metrics and login protection.
type Result string

// Flow results.
const (
	ResultSuccess     Result = "success"
	ResultInvalid     Result = "invalid"
	ResultRejected    Result = "rejected"
	ResultConflict    Result = "conflict"
	ResultUnknownRole Result = "unknown_role"
	ResultError       Result = "error"
	ResultBusy        Result = "busy"
	ResultStale       Result = "stale"
)

// Switch targets.
const (
	SwitchLogin    = "login"
	SwitchRegister = "register"
)

// Outcome tells the HTTP layer what to do after a submission.
type Outcome struct {
	Result Result
	State  form.State
	// Redirect is empty when the user stays on the form.
	Redirect string
	// HardRedirect asks for a full page load rather than an in-app navigation.
	HardRedirect bool
	Notice       *Notice
	// SwitchTo names another form to show instead of this one.
	SwitchTo string
}

// Navigates reports whether the outcome leaves the form.
func (o Outcome) Navigates() bool {
	return o.Redirect != ""
}

// Observer records one flow run.
type Observer interface {
	ObserveFlow(flow, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveFlow(string, string, time.Duration) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}

func errorNotice(msg string) *Notice {
	return &Notice{Kind: NoticeError, Message: msg}
}

func successNotice(msg string) *Notice {
	return &Notice{Kind: NoticeSuccess, Message: msg}
}

// Route helpers.

// ProfilePath is the public profile route of a user.
func ProfilePath(slug string) string {
	return "/user/" + url.PathEscape(slug)
}

// DashboardPath is the admin dashboard route of a user.
func DashboardPath(slug string) string {
	return "/dashboard/" + url.PathEscape(slug)
}

// PostPath is the public route of a post.
func PostPath(slug string) string {
	return "/blog/" + url.PathEscape(slug)
}

// HomeFor returns the landing route for a signed-in user by role, and
// false for roles the front-end does not route.
func HomeFor(u model.SessionUser) (string, bool) {
	switch u.Role {
	case model.RoleSuperAdmin:
		return DashboardPath(u.Slug), true
	case model.RoleUser:
		return ProfilePath(u.Slug), true
	default:
		return "", false
	}
}

// run executes a submission and fills in the form-level parts of the
// outcome. The callback sets the flow-specific fields on out.
func run(ctx context.Context, name string, f *form.Form, obs Observer, logger *slog.Logger,
	out *Outcome, submit form.SubmitFunc) error {
	start := time.Now()
	err := f.HandleSubmit(ctx, submit)

	switch {
	case err == nil:
		out.Result = ResultSuccess
	case errors.Is(err, form.ErrInvalid):
		*out = Outcome{Result: ResultInvalid}
		err = nil
	case errors.Is(err, form.ErrSubmissionInFlight):
		*out = Outcome{Result: ResultBusy}
	case errors.Is(err, form.ErrStale), errors.Is(err, form.ErrClosed):
		*out = Outcome{Result: ResultStale}
	default:
		// Rejections are mapped to notices by the callback.
		if out.Result == "" {
			out.Result = ResultError
		}
		err = nil
	}

	out.State = f.State()
	obs.ObserveFlow(name, string(out.Result), time.Since(start))
	logger.Debug("form submitted", "flow", name, "form_id", f.ID(), "result", out.Result)
	return err
}
