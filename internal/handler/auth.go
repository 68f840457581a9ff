// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/inkwell/internal/auth"
	"github.com/olegiv/inkwell/internal/flow"
	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/middleware"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/session"
)

const msgLoggedOut = "You have been logged out"

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	renderer        *render.Renderer
	sessions        session.Writer
	backend         BackendFor
	loginProtection *middleware.LoginProtection
	obs             flow.Observer
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable
// account lockout.
func NewAuthHandler(renderer *render.Renderer, sessions session.Writer, backend BackendFor,
	lp *middleware.LoginProtection, obs flow.Observer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		sessions:        sessions,
		backend:         backend,
		loginProtection: lp,
		obs:             obs,
		logger:          logger,
	}
}

// registerData is the extra data of the registration page.
type registerData struct {
	Strength auth.Report
}

var loginPage = page{name: "login", title: "Log in"}

func registerPage() page {
	// Passwords are never echoed back, so the meter restarts empty.
	return page{name: "register", title: "Register", data: registerData{Strength: auth.Evaluate("")}}
}

// redirectSignedIn sends signed-in visitors to their home route and
// reports whether it did.
func redirectSignedIn(w http.ResponseWriter, r *http.Request) bool {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return false
	}
	if target, ok := flow.HomeFor(s.User); ok {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return true
	}
	return false
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if redirectSignedIn(w, r) {
		return
	}
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, loginPage.name, render.TemplateData{
		Title: loginPage.title,
		Form:  flow.NewLoginForm(),
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	f, ok := h.bind(w, r, flow.NewLoginForm(), loginPage)
	if !ok {
		return
	}
	defer f.Close()

	email := f.Value(flow.FieldEmail)
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logger.WarnContext(r.Context(), "login attempt on locked account")
			respond(w, r, h.renderer, h.logger, loginPage, f, flow.Outcome{
				Result: flow.ResultRejected,
				Notice: &flow.Notice{Kind: flow.NoticeError, Message: lockedMessage(remaining)},
			}, nil)
			return
		}
	}

	out, err := flow.NewLogin(h.backend(""), h.sessions, h.obs, h.logger).Submit(r.Context(), f)

	if h.loginProtection != nil {
		switch out.Result {
		case flow.ResultSuccess:
			h.loginProtection.RecordSuccessfulLogin(email)
		case flow.ResultRejected:
			if locked, d := h.loginProtection.RecordFailedAttempt(email); locked {
				out.Notice = &flow.Notice{Kind: flow.NoticeError, Message: lockedMessage(d)}
			} else if left := h.loginProtection.RemainingAttempts(email); left > 0 && left <= 3 {
				out.Notice = &flow.Notice{
					Kind:    flow.NoticeError,
					Message: fmt.Sprintf("%s. %d attempts remaining.", flow.MsgInvalidCredentials, left),
				}
			}
		}
	}

	respond(w, r, h.renderer, h.logger, loginPage, f, out, err)
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if redirectSignedIn(w, r) {
		return
	}
	p := registerPage()
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, p.name, render.TemplateData{
		Title: p.title,
		Data:  p.data,
		Form:  flow.NewRegisterForm(),
	})
}

// Register handles the registration form submission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	p := registerPage()
	f, ok := h.bind(w, r, flow.NewRegisterForm(), p)
	if !ok {
		return
	}
	defer f.Close()

	out, err := flow.NewRegister(h.backend(""), h.sessions, h.obs, h.logger).Submit(r.Context(), f)
	respond(w, r, h.renderer, h.logger, p, f, out, err)
}

// Logout clears the session and returns to the home page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Clear(r.Context()); err != nil {
		logAndInternalError(w, r, h.logger, "failed to clear session", err)
		return
	}
	if s, ok := session.FromContext(r.Context()); ok {
		h.logger.InfoContext(r.Context(), "user logged out", "user_id", s.User.ID)
	}
	flashAndRedirect(w, r, h.renderer, RouteRoot, &flow.Notice{Kind: flow.NoticeInfo, Message: msgLoggedOut})
}

// bind parses a url-encoded submission into f. On a malformed body the
// empty form is re-rendered with a notice and ok is false.
func (h *AuthHandler) bind(w http.ResponseWriter, r *http.Request, f *form.Form, p page) (*form.Form, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.InfoContext(r.Context(), "invalid form body", "error", err)
		respond(w, r, h.renderer, h.logger, p, f, flow.Outcome{
			Result: flow.ResultInvalid,
			Notice: &flow.Notice{Kind: flow.NoticeError, Message: msgInvalidForm},
		}, nil)
		f.Close()
		return nil, false
	}
	f.Bind(r.PostForm)
	return f, true
}

// lockedMessage tells the user how long the account stays locked.
func lockedMessage(d time.Duration) string {
	return fmt.Sprintf("Too many failed sign-in attempts. Try again in %s.", formatDuration(d))
}

// formatDuration rounds d up to whole minutes for display.
func formatDuration(d time.Duration) string {
	minutes := int((d + time.Minute - 1) / time.Minute)
	if minutes <= 1 {
		return "1 minute"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := (minutes + 59) / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
