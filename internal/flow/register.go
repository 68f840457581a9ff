// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package flow

import (
	"context"
	"log/slog"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/internal/validation"
)

// User-visible registration messages.
const (
	MsgAccountExists = "Account already exists — please log in."
	MsgUnknownError  = "Unknown error, try again later."
	MsgGenericError  = "Something went wrong"
)

// Register creates an account and signs the new user in.
type Register struct {
	auth     Authenticator
	sessions session.Writer
	obs      Observer
	logger   *slog.Logger
}

// NewRegister creates the registration flow.
func NewRegister(auth Authenticator, sessions session.Writer, obs Observer, logger *slog.Logger) *Register {
	return &Register{auth: auth, sessions: sessions, obs: observerOrNop(obs), logger: logger}
}

// RegisterPayload builds the API payload from validated values. The
// confirmation field is dropped and the fixed role and status are added.
func RegisterPayload(v validation.Values) api.RegisterPayload {
	return api.RegisterPayload{
		Username: v.Get(FieldUsername),
		FullName: v.Get(FieldFullName),
		Email:    v.Get(FieldEmail),
		Password: v.Get(FieldPassword),
		Contact:  v.Get(FieldContact),
		Location: v.Get(FieldLocation),
		Role:     model.RoleUser,
		Status:   model.AccountStatusApproved,
	}
}

// Submit validates f and registers. A conflict switches the user to the
// login form without touching the session.
func (r *Register) Submit(ctx context.Context, f *form.Form) (Outcome, error) {
	var out Outcome
	err := run(ctx, "register", f, r.obs, r.logger, &out, func(ctx context.Context, v validation.Values) error {
		res, err := r.auth.Register(ctx, RegisterPayload(v))
		if err != nil {
			out = r.failure(err)
			return err
		}

		user := res.SessionUser()
		if err := r.sessions.Persist(ctx, res.Token, user); err != nil {
			r.logger.Error("failed to persist session after registration", "user_id", user.ID, "error", err)
			out = Outcome{Result: ResultError, Notice: errorNotice(MsgUnknownError)}
			return err
		}

		r.logger.Info("user registered", "user_id", user.ID, "slug", user.Slug)
		out = Outcome{Redirect: ProfilePath(user.Slug), HardRedirect: true}
		return nil
	})
	return out, err
}

func (r *Register) failure(err error) Outcome {
	switch {
	case api.IsMissingField(err):
		r.logger.Warn("registration response without identifier", "error", err)
		return Outcome{Result: ResultError, Notice: errorNotice(MsgUnknownError)}
	case api.IsConflict(err):
		r.logger.Info("registration conflict: account exists")
		return Outcome{
			Result:   ResultConflict,
			Notice:   errorNotice(MsgAccountExists),
			SwitchTo: SwitchLogin,
		}
	default:
		r.logger.Error("registration failed", "status", api.StatusOf(err), "error", err)
		msg := api.MessageOf(err)
		if msg == "" {
			msg = MsgGenericError
		}
		return Outcome{Result: ResultError, Notice: errorNotice(msg)}
	}
}
