// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/inkwell/internal/model"
)

const tagCatalogKey = "tags:all"

// TagFetcher loads the full tag catalog from the upstream API.
type TagFetcher interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
}

// TagCatalog serves the tag catalog from cache and reloads it on a miss.
type TagCatalog struct {
	cache   *TypedCache[[]model.Tag]
	fetcher TagFetcher
	logger  *slog.Logger
}

// NewTagCatalog creates a tag catalog over c.
func NewTagCatalog(c Cacher, fetcher TagFetcher, ttl time.Duration, logger *slog.Logger) *TagCatalog {
	return &TagCatalog{
		cache:   NewTypedCache[[]model.Tag](c, ttl),
		fetcher: fetcher,
		logger:  logger,
	}
}

// ListTags returns the cached catalog, fetching it on a miss.
func (t *TagCatalog) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := t.cache.GetOrSet(ctx, tagCatalogKey, t.fetcher.ListTags)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	return tags, nil
}

// Refresh fetches the catalog and replaces the cached copy. The cached copy
// is left in place when the fetch fails.
func (t *TagCatalog) Refresh(ctx context.Context) error {
	tags, err := t.fetcher.ListTags(ctx)
	if err != nil {
		return fmt.Errorf("refreshing tag catalog: %w", err)
	}
	if err := t.cache.Set(ctx, tagCatalogKey, tags); err != nil {
		return fmt.Errorf("caching tag catalog: %w", err)
	}
	t.logger.Debug("tag catalog refreshed", "count", len(tags))
	return nil
}
