// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/inkwell/internal/testutil"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	dev := DefaultCSRFConfig(testAuthKey, true, 3000)
	want := map[string]bool{"localhost:3000": true, "127.0.0.1:3000": true}
	if len(dev.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %v", dev.TrustedOrigins)
	}
	for _, o := range dev.TrustedOrigins {
		if !want[o] {
			t.Errorf("unexpected trusted origin %q", o)
		}
	}

	prod := DefaultCSRFConfig(testAuthKey, false, 3000)
	if len(prod.TrustedOrigins) != 0 {
		t.Errorf("production TrustedOrigins = %v, want none", prod.TrustedOrigins)
	}
}

func TestCSRF(t *testing.T) {
	h := CSRF(DefaultCSRFConfig(testAuthKey, false, 8080), testutil.TestLogger())(okHandler())

	tests := []struct {
		name       string
		method     string
		fetchSite  string
		origin     string
		wantStatus int
	}{
		{"safe method", http.MethodGet, "cross-site", "https://evil.example", http.StatusOK},
		{"same origin post", http.MethodPost, "same-origin", "", http.StatusOK},
		{"cross site post", http.MethodPost, "cross-site", "https://evil.example", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://inkwell.test/login", nil)
			if tt.fetchSite != "" {
				req.Header.Set("Sec-Fetch-Site", tt.fetchSite)
			}
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
