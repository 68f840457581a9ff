// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/inkwell/internal/auth"
)

// maxStrengthBody bounds the strength request body.
const maxStrengthBody = 4 << 10

// PasswordStrength scores the submitted password for keystroke feedback.
// Nothing about the password is logged or stored.
func PasswordStrength(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStrengthBody)
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, auth.Evaluate(r.PostForm.Get("password")))
}
