// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

// Values maps a field name to its submitted values.
// Single-valued fields hold one element; multi-selects hold one element per choice.
type Values map[string][]string

// Get returns the first value of a field, or empty string if absent.
func (v Values) Get(field string) string {
	if vs := v[field]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// List returns all values of a field.
func (v Values) List(field string) []string {
	return v[field]
}

// Set replaces a field with a single value.
func (v Values) Set(field, value string) {
	v[field] = []string{value}
}

// SetList replaces a field with the given values.
func (v Values) SetList(field string, values []string) {
	v[field] = append([]string(nil), values...)
}

// Clone returns a deep copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
