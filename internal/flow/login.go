// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package flow

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/internal/validation"
)

// User-visible login messages.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgSignInFailed       = "Sign in failed, try again later"
	MsgRoleNotSupported   = "This account cannot sign in here"
)

var errUnknownRole = errors.New("unrecognised role")

// Authenticator is the part of the API used by login and registration.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (api.AuthResult, error)
	Register(ctx context.Context, payload api.RegisterPayload) (api.AuthResult, error)
}

// Login signs a user in.
type Login struct {
	auth     Authenticator
	sessions session.Writer
	obs      Observer
	logger   *slog.Logger
}

// NewLogin creates the login flow.
func NewLogin(auth Authenticator, sessions session.Writer, obs Observer, logger *slog.Logger) *Login {
	return &Login{auth: auth, sessions: sessions, obs: observerOrNop(obs), logger: logger}
}

// Submit validates f and signs in. The session is persisted only for a
// response with an identifier and a routable role.
func (l *Login) Submit(ctx context.Context, f *form.Form) (Outcome, error) {
	var out Outcome
	err := run(ctx, "login", f, l.obs, l.logger, &out, func(ctx context.Context, v validation.Values) error {
		res, err := l.auth.Login(ctx, api.Credentials{
			Email:    v.Get(FieldEmail),
			Password: v.Get(FieldPassword),
		})
		if err != nil {
			out = l.failure(err)
			return err
		}

		user := res.SessionUser()
		target, ok := HomeFor(user)
		if !ok {
			l.logger.Warn("login returned unrecognised role", "user_id", user.ID, "role", user.Role)
			out = Outcome{Result: ResultUnknownRole, Notice: errorNotice(MsgRoleNotSupported)}
			return errUnknownRole
		}

		if err := l.sessions.Persist(ctx, res.Token, user); err != nil {
			l.logger.Error("failed to persist session", "user_id", user.ID, "error", err)
			out = Outcome{Result: ResultError, Notice: errorNotice(MsgSignInFailed)}
			return err
		}

		l.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
		out = Outcome{Redirect: target, HardRedirect: true}
		return nil
	})
	return out, err
}

func (l *Login) failure(err error) Outcome {
	switch {
	case api.IsMissingField(err):
		l.logger.Info("login rejected: wrong credentials")
		return Outcome{Result: ResultRejected, Notice: errorNotice(MsgInvalidCredentials)}
	case api.IsUnauthorized(err), api.StatusOf(err) == http.StatusBadRequest, api.StatusOf(err) == http.StatusNotFound:
		l.logger.Info("login rejected", "status", api.StatusOf(err))
		return Outcome{Result: ResultRejected, Notice: errorNotice(MsgInvalidCredentials)}
	default:
		l.logger.Error("login request failed", "error", err)
		return Outcome{Result: ResultError, Notice: errorNotice(MsgSignInFailed)}
	}
}
