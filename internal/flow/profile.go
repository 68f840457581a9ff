// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package flow

import (
	"context"
	"log/slog"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/validation"
)

// User-visible profile messages.
const (
	MsgProfileFetchFailed = "Failed to fetch profile"
	MsgProfileUpdated     = "Profile updated"
	MsgUpdateFailed       = "Update failed"
)

// ProfileAPI is the part of the API used by the profile flow.
type ProfileAPI interface {
	CurrentUser(ctx context.Context) (model.User, error)
	UpdateCurrentUser(ctx context.Context, update api.ProfileUpdate) error
}

// EditProfile loads and saves the signed-in user's profile.
type EditProfile struct {
	api    ProfileAPI
	obs    Observer
	logger *slog.Logger
}

// NewEditProfile creates the profile flow. users must already carry the
// caller's token.
func NewEditProfile(users ProfileAPI, obs Observer, logger *slog.Logger) *EditProfile {
	return &EditProfile{api: users, obs: observerOrNop(obs), logger: logger}
}

// ProfileValues maps a user record onto the form fields.
func ProfileValues(u model.User) validation.Values {
	v := make(validation.Values)
	v.Set(FieldFullName, u.FullName)
	v.Set(FieldUsername, u.Username)
	v.Set(FieldEmail, u.Email)
	v.Set(FieldPosition, u.Position)
	return v
}

// Load prefills f with the current profile. On failure the form is left
// empty and the outcome carries a notice.
func (p *EditProfile) Load(ctx context.Context, f *form.Form) Outcome {
	u, err := p.api.CurrentUser(ctx)
	if err != nil {
		p.logger.Error("failed to fetch profile", "error", err)
		return Outcome{Result: ResultError, Notice: errorNotice(messageOr(err, MsgProfileFetchFailed))}
	}
	f.Prefill(ProfileValues(u))
	return Outcome{Result: ResultSuccess}
}

// Submit saves the profile, re-reads it and navigates to the profile route
// of the username the API now reports.
func (p *EditProfile) Submit(ctx context.Context, f *form.Form) (Outcome, error) {
	var out Outcome
	err := run(ctx, "edit_profile", f, p.obs, p.logger, &out, func(ctx context.Context, v validation.Values) error {
		update := api.ProfileUpdate{
			FullName: v.Get(FieldFullName),
			Username: v.Get(FieldUsername),
			Email:    v.Get(FieldEmail),
			Position: v.Get(FieldPosition),
		}
		if err := p.api.UpdateCurrentUser(ctx, update); err != nil {
			p.logger.Error("failed to update profile", "error", err)
			out = Outcome{Result: ResultError, Notice: errorNotice(messageOr(err, MsgUpdateFailed))}
			return err
		}

		fresh, err := p.api.CurrentUser(ctx)
		if err == nil && fresh.Username == "" {
			err = api.ErrMissingField
		}
		if err != nil {
			p.logger.Error("failed to re-fetch profile after update", "error", err)
			out = Outcome{Result: ResultError, Notice: errorNotice(messageOr(err, MsgUpdateFailed))}
			return err
		}

		out = Outcome{
			Redirect: ProfilePath(fresh.Username),
			Notice:   successNotice(MsgProfileUpdated),
		}
		return nil
	})
	return out, err
}

func messageOr(err error, fallback string) string {
	if msg := api.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}
