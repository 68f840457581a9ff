// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/olegiv/inkwell/internal/cache"
	"github.com/olegiv/inkwell/internal/version"
)

// Pinger checks one dependency.
type Pinger func(ctx context.Context) error

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks    map[string]Pinger
	cache     cache.Cacher
	startTime time.Time
}

// NewHealthHandler creates a health handler running checks on each call.
// c may be nil; when it reports statistics they are included.
func NewHealthHandler(checks map[string]Pinger, c cache.Cacher) *HealthHandler {
	return &HealthHandler{checks: checks, cache: c, startTime: time.Now()}
}

// HealthStatus is the health response.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   version.Info     `json:"version"`
	Checks    map[string]Check `json:"checks"`
	Cache     *cache.Stats     `json:"cache,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency"`
}

// Health handles GET /health. Any failing check makes the status
// "degraded" with 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Get(),
		Checks:    make(map[string]Check, len(h.checks)),
	}
	for name, ping := range h.checks {
		start := time.Now()
		c := Check{Status: "healthy"}
		if err := ping(ctx); err != nil {
			c.Status = "unhealthy"
			c.Message = err.Error()
			status.Status = "degraded"
		}
		c.Latency = time.Since(start).String()
		status.Checks[name] = c
	}
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		stats := sp.Stats()
		status.Cache = &stats
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}
