// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/inkwell/internal/testutil"
)

func newTestProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) *LoginProtection {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	}, testutil.TestLogger())
	t.Cleanup(lp.Close)
	return lp
}

func TestNewLoginProtectionDefaults(t *testing.T) {
	lp := newTestProtection(t, 0, 0, 0)
	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m", lp.attemptWindow)
	}
}

func TestLockoutAfterMaxAttempts(t *testing.T) {
	lp := newTestProtection(t, 3, time.Minute, time.Hour)
	email := "User@Example.com"

	for i := 1; i < 3; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("locked after %d attempts", i)
		}
	}
	if got := lp.RemainingAttempts("user@example.com"); got != 1 {
		t.Errorf("RemainingAttempts() = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailedAttempt() = %v, %v; want true, 1m", locked, d)
	}
	if locked, _ := lp.IsAccountLocked(" user@example.com "); !locked {
		t.Error("case and whitespace variants should share the lock")
	}
}

func TestLockoutDoubles(t *testing.T) {
	lp := newTestProtection(t, 1, time.Minute, time.Hour)
	now := time.Now()
	lp.now = func() time.Time { return now }

	// The first failure only opens the window.
	lp.RecordFailedAttempt("a@b.com")
	_, first := lp.RecordFailedAttempt("a@b.com")
	now = now.Add(2 * time.Minute)
	_, second := lp.RecordFailedAttempt("a@b.com")

	if first != time.Minute || second != 2*time.Minute {
		t.Errorf("lockouts = %v, %v; want 1m, 2m", first, second)
	}
}

func TestAttemptWindowResets(t *testing.T) {
	lp := newTestProtection(t, 3, time.Minute, time.Minute)
	now := time.Now()
	lp.now = func() time.Time { return now }

	lp.RecordFailedAttempt("a@b.com")
	lp.RecordFailedAttempt("a@b.com")
	now = now.Add(2 * time.Minute)

	if got := lp.RemainingAttempts("a@b.com"); got != 3 {
		t.Errorf("RemainingAttempts() after window = %d, want 3", got)
	}
	if locked, _ := lp.RecordFailedAttempt("a@b.com"); locked {
		t.Error("window reset should restart counting")
	}
}

func TestSuccessfulLoginClears(t *testing.T) {
	lp := newTestProtection(t, 3, time.Minute, time.Hour)
	lp.RecordFailedAttempt("a@b.com")
	lp.RecordFailedAttempt("a@b.com")
	lp.RecordSuccessfulLogin("a@b.com")

	if got := lp.RemainingAttempts("a@b.com"); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}
}

func TestCleanupStaleEntries(t *testing.T) {
	lp := newTestProtection(t, 5, time.Minute, time.Minute)
	now := time.Now()
	lp.now = func() time.Time { return now }
	lp.RecordFailedAttempt("a@b.com")

	now = now.Add(time.Hour)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	defer lp.attemptsMu.RUnlock()
	if len(lp.failedAttempts) != 0 {
		t.Errorf("failedAttempts = %d entries, want 0", len(lp.failedAttempts))
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1}, testutil.TestLogger())
	t.Cleanup(lp.Close)
	h := lp.Middleware()(okHandler())

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := post(); got != http.StatusOK {
		t.Fatalf("first POST status = %d", got)
	}
	if got := post(); got != http.StatusTooManyRequests {
		t.Errorf("second POST status = %d, want 429", got)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET should not be limited, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := clientIP(req); got != "192.0.2.1" {
		t.Errorf("clientIP() = %q", got)
	}
	req.RemoteAddr = "192.0.2.9"
	if got := clientIP(req); got != "192.0.2.9" {
		t.Errorf("clientIP() without port = %q", got)
	}
}

func TestLimiterCacheClear(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")
	if lc.clearIfExceeds(5) {
		t.Error("should not clear below limit")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("should clear above limit")
	}
}
