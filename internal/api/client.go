// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the HTTP client for the upstream blog API. Every endpoint
// has an explicit result type and absent required fields are reported as
// errors instead of zero values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client configuration defaults.
const (
	DefaultTimeout = 15 * time.Second
	MaxResponseLen = 1 << 20 // 1MB
	UserAgent      = "inkwell/1.0"
)

// Observer receives one call per upstream request. status is 0 when the
// request failed before a response arrived.
type Observer interface {
	ObserveRequest(endpoint string, status int, elapsed time.Duration)
}

// Client calls the blog API. The zero value is not usable; use New.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	token    string
	observer Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithObserver registers a request observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of the client that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, name, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", name, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("building %s request: %w", name, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, name, out)
}

// send executes req and decodes the response.
func (c *Client) send(req *http.Request, name string, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(name, 0, start)
		return fmt.Errorf("%s request failed: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(name, resp.StatusCode, start)

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrMalformedResponse, name, err)
	}
	return nil
}

func (c *Client) observe(name string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(name, status, time.Since(start))
	}
}

// errorBody is the failure shape sent by the API. status and message are
// loosely typed upstream, so both are decoded by hand.
type errorBody struct {
	StatusCode int             `json:"statusCode"`
	Status     json.RawMessage `json:"status"`
	Message    json.RawMessage `json:"message"`
}

func parseError(httpStatus int, data []byte) error {
	apiErr := &Error{StatusCode: httpStatus}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}

	switch {
	case body.StatusCode != 0:
		apiErr.StatusCode = body.StatusCode
	case len(body.Status) > 0:
		var n int
		if err := json.Unmarshal(body.Status, &n); err == nil && n != 0 {
			apiErr.StatusCode = n
		}
	}

	apiErr.Message = decodeMessage(body.Message)
	return apiErr
}

// decodeMessage accepts either a string or a list of strings.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}

// requireField returns ErrMissingField when value is empty.
func requireField(endpoint, field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: %w: %s", endpoint, ErrMissingField, field)
	}
	return nil
}

// IsMissingField reports whether err is an absent-field error.
func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}
