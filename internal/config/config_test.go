// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("INKWELL_SESSION_SECRET", testSecret)
	t.Setenv("INKWELL_API_BASE_URL", "https://api.example.com/v1")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/inkwell.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("APITimeout = %v, want 10s", cfg.APITimeout)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v, want 10m", cfg.CacheTTL)
	}
	if len(cfg.ImageDomains) != 1 || cfg.ImageDomains[0] != "res.cloudinary.com" {
		t.Errorf("ImageDomains = %v", cfg.ImageDomains)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Errorf("MaxUploadBytes() = %d", cfg.MaxUploadBytes())
	}
	if cfg.UseRedisCache() {
		t.Error("redis should be off by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("INKWELL_ENV", "production")
	t.Setenv("INKWELL_SERVER_PORT", "9000")
	t.Setenv("INKWELL_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("INKWELL_IMAGE_DOMAINS", " Res.Cloudinary.com , images.example.com,")
	t.Setenv("INKWELL_LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production")
	}
	if cfg.ServerPort != 9000 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if !cfg.UseRedisCache() {
		t.Error("expected redis cache")
	}
	want := []string{"res.cloudinary.com", "images.example.com"}
	if strings.Join(cfg.ImageDomains, ",") != strings.Join(want, ",") {
		t.Errorf("ImageDomains = %v, want %v", cfg.ImageDomains, want)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"short secret", "INKWELL_SESSION_SECRET", "short", "at least 32 bytes"},
		{"weak secret", "INKWELL_SESSION_SECRET", "change-me-to-32-byte-secret-key!", "known default"},
		{"relative api url", "INKWELL_API_BASE_URL", "/api", "absolute URL"},
		{"zero timeout", "INKWELL_API_TIMEOUT", "0s", "INKWELL_API_TIMEOUT"},
		{"zero upload", "INKWELL_MAX_UPLOAD_MB", "0", "INKWELL_MAX_UPLOAD_MB"},
		{"empty image domains", "INKWELL_IMAGE_DOMAINS", " , ", "INKWELL_IMAGE_DOMAINS"},
		{"bad log format", "INKWELL_LOG_FORMAT", "xml", "INKWELL_LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("INKWELL_SESSION_SECRET", testSecret)
	t.Setenv("INKWELL_API_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without INKWELL_API_BASE_URL")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := map[string]bool{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": false,
		"abcdefABCDEF0123456789abcdefABCD": true,
		testSecret:                         true,
	}
	for in, want := range tests {
		if got := hasMinimumEntropy(in); got != want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", in, got, want)
		}
	}
}
