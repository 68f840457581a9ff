// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form binds submitted fields to per-instance state, tracks
// field errors and gates submission behind schema validation.
package form

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/olegiv/inkwell/internal/validation"
)

var (
	// ErrInvalid is returned by HandleSubmit when validation fails.
	ErrInvalid = errors.New("form has validation errors")
	// ErrSubmissionInFlight is returned when a submission is already running.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrStale is returned when a submission finished after the form was
	// reset or closed; its result was not applied.
	ErrStale = errors.New("submission is no longer active")
	// ErrClosed is returned when submitting a closed form.
	ErrClosed = errors.New("form is closed")
)

// State is the submission state of a form instance.
type State int

// Submission states.
const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubmitFunc receives validated values. Its context is cancelled when the
// caller's context ends or the form is closed.
type SubmitFunc func(ctx context.Context, values validation.Values) error

// Option configures a Form.
type Option func(*Form)

// WithRawFields keeps the listed fields exactly as submitted (no trimming or
// normalisation). Use it for secrets such as passwords.
func WithRawFields(fields ...string) Option {
	return func(f *Form) {
		for _, name := range fields {
			f.raw[name] = true
		}
	}
}

// WithResetOnSuccess clears values and errors after a successful submission.
func WithResetOnSuccess() Option {
	return func(f *Form) {
		f.resetOnSuccess = true
	}
}

// Form is one form instance. It is safe for concurrent use.
type Form struct {
	id             string
	schema         *validation.Schema
	raw            map[string]bool
	resetOnSuccess bool

	lifetime context.Context
	end      context.CancelFunc

	mu         sync.Mutex
	values     validation.Values
	errors     map[string]string
	state      State
	generation uint64
	closed     bool
}

// New creates a form instance validated by schema.
func New(schema *validation.Schema, opts ...Option) *Form {
	lifetime, end := context.WithCancel(context.Background())
	f := &Form{
		id:       uuid.NewString(),
		schema:   schema,
		raw:      make(map[string]bool),
		lifetime: lifetime,
		end:      end,
		values:   make(validation.Values),
		errors:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	for _, name := range schema.Fields() {
		f.values[name] = nil
	}
	return f
}

// ID returns the unique instance identifier.
func (f *Form) ID() string {
	return f.id
}

func (f *Form) normalize(field string, vs []string) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if !f.raw[field] {
			v = norm.NFC.String(strings.TrimSpace(v))
		}
		out = append(out, v)
	}
	return out
}

// Bind replaces the form values with a submitted request body.
// Declared fields missing from src become empty.
func (f *Form) Bind(src url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := make(validation.Values, len(src))
	for _, name := range f.schema.Fields() {
		values[name] = nil
	}
	for name, vs := range src {
		values[name] = f.normalize(name, vs)
	}
	f.values = values
}

// Prefill loads an external record into the form, replacing prior values
// and clearing errors.
func (f *Form) Prefill(record validation.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = record.Clone()
	for _, name := range f.schema.Fields() {
		if _, ok := f.values[name]; !ok {
			f.values[name] = nil
		}
	}
	f.errors = make(map[string]string)
}

// Set replaces one field's values and revalidates that field.
func (f *Form) Set(field string, values ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[field] = f.normalize(field, values)
	if msgs := f.schema.ValidateField(field, f.values); len(msgs) > 0 {
		f.errors[field] = msgs[0]
	} else {
		delete(f.errors, field)
	}
}

// Value returns the first value of a field.
func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Get(field)
}

// List returns all values of a field.
func (f *Form) List(field string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.values.List(field)...)
}

// Values returns a copy of the current values.
func (f *Form) Values() validation.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

// Error returns the error message for a field, or empty string if valid.
func (f *Form) Error(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// Errors returns a copy of the field error mapping.
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// HasErrors reports whether any field currently has an error.
func (f *Form) HasErrors() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errors) > 0
}

// State returns the submission state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Validate runs the schema against the current values and stores the errors.
func (f *Form) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := f.schema.Validate(f.values)
	f.errors = res.Messages()
	return res.Valid
}

// Reset clears values, errors and state. A submission still running
// becomes stale.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
	f.generation++
}

func (f *Form) resetLocked() {
	f.values = make(validation.Values)
	for _, name := range f.schema.Fields() {
		f.values[name] = nil
	}
	f.errors = make(map[string]string)
	f.state = StateIdle
}

// Close ends the form instance. In-flight submissions see their context
// cancelled and their results are discarded.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.generation++
	f.mu.Unlock()
	f.end()
}

// HandleSubmit validates the current values and, when valid, calls onValid.
// Validation failure stores field errors and returns ErrInvalid. An error
// from onValid is returned wrapped and leaves values and errors untouched
// so the user can retry.
func (f *Form) HandleSubmit(ctx context.Context, onValid SubmitFunc) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}

	res := f.schema.Validate(f.values)
	f.errors = res.Messages()
	if !res.Valid {
		f.mu.Unlock()
		return ErrInvalid
	}

	f.state = StateSubmitting
	f.generation++
	gen := f.generation
	values := f.values.Clone()
	f.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(f.lifetime, cancel)
	defer func() {
		stop()
		cancel()
	}()

	err := onValid(subCtx, values)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || gen != f.generation {
		if err != nil {
			return errors.Join(ErrStale, err)
		}
		return ErrStale
	}
	if err != nil {
		f.state = StateFailed
		return fmt.Errorf("submitting form: %w", err)
	}

	f.state = StateSucceeded
	if f.resetOnSuccess {
		f.resetLocked()
		f.state = StateSucceeded
	}
	return nil
}
