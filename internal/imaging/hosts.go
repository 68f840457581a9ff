// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"errors"
	"net/url"
	"strings"
)

// ErrHostNotAllowed is returned for image URLs outside the allowed hosts.
var ErrHostNotAllowed = errors.New("image host not allowed")

// HostPolicy restricts which hosts may serve post images.
type HostPolicy struct {
	hosts map[string]struct{}
}

// NewHostPolicy creates a policy allowing exactly the given host names.
func NewHostPolicy(hosts []string) *HostPolicy {
	p := &HostPolicy{hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			p.hosts[h] = struct{}{}
		}
	}
	return p
}

// Check returns ErrHostNotAllowed unless raw is an absolute http(s) URL on
// an allowed host.
func (p *HostPolicy) Check(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Hostname() == "" {
		return ErrHostNotAllowed
	}
	if _, ok := p.hosts[strings.ToLower(u.Hostname())]; !ok {
		return ErrHostNotAllowed
	}
	return nil
}
