// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/inkwell/internal/model"
)

// Session entry keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var (
	// ErrIncomplete is returned when persisting a token without a complete user record.
	ErrIncomplete = errors.New("session: token and complete user record are required")
	// ErrNotAuthenticated is returned when no valid session is present.
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

// Session is the authenticated state of one browser.
type Session struct {
	Token string
	User  model.SessionUser
}

// Authenticated reports whether both the token and the user record are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User.Complete()
}

// Writer mutates the persisted session.
type Writer interface {
	Persist(ctx context.Context, token string, user model.SessionUser) error
	Clear(ctx context.Context) error
}

// Store is the single writer of the persisted session.
type Store struct {
	sm *scs.SessionManager
}

// NewStore wraps a session manager.
func NewStore(sm *scs.SessionManager) *Store {
	return &Store{sm: sm}
}

// Persist stores token and user together after renewing the session token.
// Nothing is written unless both are present.
func (s *Store) Persist(ctx context.Context, token string, user model.SessionUser) error {
	if token == "" || !user.Complete() {
		return ErrIncomplete
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}

	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	s.sm.Put(ctx, KeyUser, string(data))
	s.sm.Put(ctx, KeyToken, token)
	return nil
}

// Clear removes both entries and renews the session token.
func (s *Store) Clear(ctx context.Context) error {
	s.sm.Remove(ctx, KeyToken)
	s.sm.Remove(ctx, KeyUser)
	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	return nil
}

// Current reads the persisted session. A missing token, a missing user or a
// user record that does not decode into a complete projection all yield
// ErrNotAuthenticated.
func (s *Store) Current(ctx context.Context) (Session, error) {
	token := s.sm.GetString(ctx, KeyToken)
	raw := s.sm.GetString(ctx, KeyUser)
	if token == "" || raw == "" {
		return Session{}, ErrNotAuthenticated
	}

	var user model.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return Session{}, fmt.Errorf("%w: decoding user: %v", ErrNotAuthenticated, err)
	}
	if !user.Complete() {
		return Session{}, fmt.Errorf("%w: incomplete user record", ErrNotAuthenticated)
	}
	return Session{Token: token, User: user}, nil
}

// HasEntries reports whether either session entry is present, including a
// partial or corrupt record that Current rejects.
func (s *Store) HasEntries(ctx context.Context) bool {
	return s.sm.Exists(ctx, KeyToken) || s.sm.Exists(ctx, KeyUser)
}
