// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Tag is a labelled category attachable to posts.
type Tag struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

// PostAuthor is the author reference embedded in a post.
type PostAuthor struct {
	Username string `json:"username"`
}

// Post is a blog post as returned by the post detail endpoint.
type Post struct {
	ID      ID          `json:"id"`
	Slug    string      `json:"slug,omitempty"`
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Image   *string     `json:"image"`
	Tags    []Tag       `json:"tags"`
	User    *PostAuthor `json:"user"`
}

// TagIDs returns the identifiers of the post's tags in their original order.
func (p Post) TagIDs() []string {
	ids := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		ids = append(ids, t.ID.String())
	}
	return ids
}

// AuthorUsername returns the author's username, or empty string if unknown.
func (p Post) AuthorUsername() string {
	if p.User == nil {
		return ""
	}
	return p.User.Username
}

// ImageURL returns the cover image reference, or empty string if none.
func (p Post) ImageURL() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}
