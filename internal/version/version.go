// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

// Set via -ldflags "-X github.com/olegiv/inkwell/internal/version.version=...".
var (
	version   = ""
	gitCommit = ""
	buildTime = ""
)

// Info contains build-time version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
}

// Get returns the injected build information, with placeholders for
// values that were not set at link time.
func Get() Info {
	return Info{
		Version:   orDefault(version, "dev"),
		GitCommit: orDefault(gitCommit, "unknown"),
		BuildTime: orDefault(buildTime, "unknown"),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
