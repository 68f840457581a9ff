// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password strength scoring used for live
// feedback on the registration and login forms.
package auth

import (
	"regexp"
	"unicode/utf8"
)

// Strength scoring parameters.
const (
	StrengthMax   = 100
	StrengthFloor = 10
	// strengthMinLength is the length a password must exceed to satisfy the length check.
	strengthMinLength = 5
)

// Tier is the qualitative bucket derived from a strength score.
type Tier string

// Strength tiers.
const (
	TierWeak   Tier = "weak"
	TierMedium Tier = "medium"
	TierStrong Tier = "strong"
)

// requirement is a single character-class check.
type requirement struct {
	re    *regexp.Regexp
	label string
}

var requirements = []requirement{
	{re: regexp.MustCompile(`[0-9]`), label: "Includes number"},
	{re: regexp.MustCompile(`[a-z]`), label: "Includes lowercase letter"},
	{re: regexp.MustCompile(`[A-Z]`), label: "Includes uppercase letter"},
	{re: regexp.MustCompile(`[$&+,:;=?@#|'<>.^*()%!-]`), label: "Includes special symbol"},
}

// LengthRequirementLabel is shown for the length check.
const LengthRequirementLabel = "Includes at least 6 characters"

// Requirement reports whether one strength rule is met.
type Requirement struct {
	Label string `json:"label"`
	Met   bool   `json:"met"`
}

// Strength scores a password in [StrengthFloor, StrengthMax].
// The length check and the four class checks weigh 20 points each.
func Strength(password string) int {
	multiplier := 0
	if !longEnough(password) {
		multiplier = 1
	}
	for _, req := range requirements {
		if !req.re.MatchString(password) {
			multiplier++
		}
	}

	step := StrengthMax / (len(requirements) + 1)
	return max(StrengthMax-step*multiplier, StrengthFloor)
}

// longEnough counts characters, not bytes, matching the validation rules.
func longEnough(password string) bool {
	return utf8.RuneCountInString(password) > strengthMinLength
}

// TierOf maps a strength score to its tier.
func TierOf(strength int) Tier {
	switch {
	case strength == StrengthMax:
		return TierStrong
	case strength > 50:
		return TierMedium
	default:
		return TierWeak
	}
}

// Requirements lists every strength rule and whether the password meets it.
// The length check comes first.
func Requirements(password string) []Requirement {
	out := make([]Requirement, 0, len(requirements)+1)
	out = append(out, Requirement{Label: LengthRequirementLabel, Met: longEnough(password)})
	for _, req := range requirements {
		out = append(out, Requirement{Label: req.label, Met: req.re.MatchString(password)})
	}
	return out
}

// Report bundles score, tier and rule checks for one password.
type Report struct {
	Strength     int           `json:"strength"`
	Tier         Tier          `json:"tier"`
	Requirements []Requirement `json:"requirements"`
}

// Evaluate computes a full report. It holds no state, so every call
// reflects exactly the password it is given.
func Evaluate(password string) Report {
	s := Strength(password)
	return Report{
		Strength:     s,
		Tier:         TierOf(s),
		Requirements: Requirements(password),
	}
}
