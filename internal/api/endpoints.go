// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/olegiv/inkwell/internal/model"
)

// Upstream routes.
const (
	PathLogin      = "/auth/login"
	PathRegister   = "/auth/register"
	PathMe         = "/users/me"
	PathPosts      = "/posts"
	PathPostBySlug = "/posts/slug/"
	PathTags       = "/tags"
	PathUpload     = "/upload"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	Username string     `json:"username"`
	FullName string     `json:"fullName"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Contact  string     `json:"contact"`
	Location string     `json:"location"`
	Role     model.Role `json:"role"`
	Status   string     `json:"status"`
}

// AuthResult is returned by login and registration.
type AuthResult struct {
	ID    model.ID   `json:"id"`
	Email string     `json:"email"`
	Slug  string     `json:"slug"`
	Role  model.Role `json:"role"`
	Token string     `json:"token"`
}

// SessionUser projects the result onto the fields kept in the session.
func (r AuthResult) SessionUser() model.SessionUser {
	return model.SessionUser{ID: r.ID.String(), Email: r.Email, Slug: r.Slug, Role: r.Role}
}

// ProfileUpdate is the profile edit request body.
type ProfileUpdate struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// PostUpdate is the post edit request body.
type PostUpdate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TagIDs      []string `json:"tagIds"`
	Image       *string  `json:"image"`
}

// UploadResult is returned by the image upload endpoint.
type UploadResult struct {
	URL string `json:"url"`
}

// Login authenticates with email and password. A response without an
// identifier is reported as ErrMissingField.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, "login", http.MethodPost, PathLogin, creds, &res); err != nil {
		return AuthResult{}, err
	}
	if err := requireField("login", "id", res.ID.String()); err != nil {
		return AuthResult{}, err
	}
	return res, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, "register", http.MethodPost, PathRegister, payload, &res); err != nil {
		return AuthResult{}, err
	}
	if err := requireField("register", "id", res.ID.String()); err != nil {
		return AuthResult{}, err
	}
	return res, nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var u model.User
	if err := c.do(ctx, "get_current_user", http.MethodGet, PathMe, nil, &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UpdateCurrentUser saves the authenticated user's profile.
func (c *Client) UpdateCurrentUser(ctx context.Context, update ProfileUpdate) error {
	return c.do(ctx, "update_current_user", http.MethodPatch, PathMe, update, nil)
}

// PostBySlug fetches a post for editing.
func (c *Client) PostBySlug(ctx context.Context, slug string) (model.Post, error) {
	var p model.Post
	if err := c.do(ctx, "get_post", http.MethodGet, PathPostBySlug+url.PathEscape(slug), nil, &p); err != nil {
		return model.Post{}, err
	}
	if err := requireField("get_post", "id", p.ID.String()); err != nil {
		return model.Post{}, err
	}
	if p.Slug == "" {
		p.Slug = slug
	}
	return p, nil
}

// UpdatePost saves a post.
func (c *Client) UpdatePost(ctx context.Context, id string, update PostUpdate) error {
	if id == "" {
		return fmt.Errorf("update_post: post id is required")
	}
	return c.do(ctx, "update_post", http.MethodPatch, PathPosts+"/"+url.PathEscape(id), update, nil)
}

// ListTags fetches the full tag catalog.
func (c *Client) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.do(ctx, "list_tags", http.MethodGet, PathTags, nil, &tags); err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	return tags, nil
}

// UploadImage sends an image as multipart form data and returns its hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(PathUpload), &buf)
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res UploadResult
	if err := c.send(req, "upload_image", &res); err != nil {
		return "", err
	}
	if err := requireField("upload_image", "url", res.URL); err != nil {
		return "", err
	}
	return res.URL, nil
}
