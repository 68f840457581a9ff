// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import "regexp"

// Shared messages and patterns used by the account forms.
const (
	MsgEmailInvalid      = "Email not valid"
	MsgPasswordLength    = "Password must be at least 6 characters long"
	MsgPasswordLetter    = "Password should contain at least one letter"
	MsgPasswordNumber    = "Password should contain at least one number"
	MsgPasswordsMismatch = "Passwords do not match"
)

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 6

var (
	letterPattern = regexp.MustCompile(`[A-Za-z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// Password declares the standard password rules on a field:
// length first, then letter, then digit.
func (f *FieldRules) Password() *FieldRules {
	return f.MinLen(PasswordMinLength, MsgPasswordLength).
		Matches(letterPattern, MsgPasswordLetter).
		Matches(digitPattern, MsgPasswordNumber)
}
