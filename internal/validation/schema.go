// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation builds declarative field schemas and validates
// submitted form values against them. Validation is synchronous and pure.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// formatValidator checks single-variable formats such as email.
var formatValidator = validator.New()

// rule is one constraint on a field. check receives the whole value set
// so cross-field rules can look at sibling fields.
type rule struct {
	message string
	check   func(field string, values Values) bool
}

// FieldRules is the ordered list of rules declared for one field.
type FieldRules struct {
	name  string
	rules []rule
}

// Schema is an ordered set of field declarations.
type Schema struct {
	fields []*FieldRules
	index  map[string]*FieldRules
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{index: make(map[string]*FieldRules)}
}

// Field returns the rule builder for a field, declaring it if needed.
func (s *Schema) Field(name string) *FieldRules {
	if f, ok := s.index[name]; ok {
		return f
	}
	f := &FieldRules{name: name}
	s.fields = append(s.fields, f)
	s.index[name] = f
	return f
}

// Fields returns declared field names in declaration order.
func (s *Schema) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		names = append(names, f.name)
	}
	return names
}

func (f *FieldRules) add(message string, check func(field string, values Values) bool) *FieldRules {
	f.rules = append(f.rules, rule{message: message, check: check})
	return f
}

// Required fails when the field is empty or whitespace only.
func (f *FieldRules) Required(message string) *FieldRules {
	return f.add(message, func(field string, values Values) bool {
		return strings.TrimSpace(values.Get(field)) != ""
	})
}

// Email fails when the field does not have the shape of an email address.
func (f *FieldRules) Email(message string) *FieldRules {
	return f.add(message, func(field string, values Values) bool {
		v := values.Get(field)
		if v == "" {
			return false
		}
		return formatValidator.Var(v, "email") == nil
	})
}

// MinLen fails when the field has fewer than n characters.
func (f *FieldRules) MinLen(n int, message string) *FieldRules {
	return f.add(message, func(field string, values Values) bool {
		return utf8.RuneCountInString(values.Get(field)) >= n
	})
}

// Matches fails when the field does not contain a match of re.
func (f *FieldRules) Matches(re *regexp.Regexp, message string) *FieldRules {
	return f.add(message, func(field string, values Values) bool {
		return re.MatchString(values.Get(field))
	})
}

// MinItems fails when fewer than n non-empty values are selected.
func (f *FieldRules) MinItems(n int, message string) *FieldRules {
	return f.add(message, func(field string, values Values) bool {
		count := 0
		for _, v := range values.List(field) {
			if strings.TrimSpace(v) != "" {
				count++
			}
		}
		return count >= n
	})
}

// EqualsField fails when the field differs from other. The error is
// reported on this field, never on other.
func (f *FieldRules) EqualsField(other, message string) *FieldRules {
	return f.add(message, func(field string, values Values) bool {
		return values.Get(field) == values.Get(other)
	})
}

// Result is the outcome of validating a value set.
type Result struct {
	Valid  bool
	Errors map[string][]string
}

// First returns the first error message for a field, or empty string.
func (r Result) First(field string) string {
	if msgs := r.Errors[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Messages returns the first error message of every invalid field.
func (r Result) Messages() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for field, msgs := range r.Errors {
		if len(msgs) > 0 {
			out[field] = msgs[0]
		}
	}
	return out
}

// Validate checks every rule of every field. Rules are not short-circuited:
// a field reports all of its failing rules in declaration order.
func (s *Schema) Validate(values Values) Result {
	res := Result{Valid: true, Errors: make(map[string][]string)}
	for _, f := range s.fields {
		if msgs := f.evaluate(values); len(msgs) > 0 {
			res.Errors[f.name] = msgs
			res.Valid = false
		}
	}
	return res
}

// ValidateField checks a single field and returns its failing messages.
func (s *Schema) ValidateField(field string, values Values) []string {
	f, ok := s.index[field]
	if !ok {
		return nil
	}
	return f.evaluate(values)
}

func (f *FieldRules) evaluate(values Values) []string {
	var msgs []string
	for _, r := range f.rules {
		if !r.check(f.name, values) {
			msgs = append(msgs, r.message)
		}
	}
	return msgs
}
