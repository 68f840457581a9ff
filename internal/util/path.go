// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"strings"
)

// SanitizeFilename keeps only the base name of an uploaded file. Browsers
// may send Windows paths such as C:\fakepath\cover.png, so backslashes are
// treated as separators too.
func SanitizeFilename(filename string) (string, error) {
	safe := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	safe = strings.TrimSpace(safe)
	if safe == "." || safe == ".." || safe == "" || safe == "/" {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	for _, r := range safe {
		if r < 0x20 || r == 0x7f {
			return "", fmt.Errorf("invalid filename: %q", filename)
		}
	}
	return safe, nil
}
