// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers for route parameters and uploaded
// file names.
package util

import (
	"strings"
	"unicode"
)

// maxSlugLen bounds slugs accepted from URLs.
const maxSlugLen = 200

// IsValidSlug reports whether s can be a user or post slug taken from a
// URL path. Slugs are assigned by the blog API, so the check only rejects
// what can never be one: empty or oversized values, path separators, dot
// segments, whitespace and control characters.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > maxSlugLen || s == "." || s == ".." {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return !strings.HasPrefix(s, "-")
}
