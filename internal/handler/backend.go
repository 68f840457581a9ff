// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP handlers of the web front-end.
package handler

import (
	"github.com/olegiv/inkwell/internal/flow"
)

// Backend is the upstream blog API as seen by one request.
type Backend interface {
	flow.Authenticator
	flow.ProfileAPI
	flow.PostAPI
}

// BackendFor returns the upstream API acting with token. An empty token
// yields an anonymous client.
type BackendFor func(token string) Backend
