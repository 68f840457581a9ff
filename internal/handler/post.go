// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/inkwell/internal/api"
	"github.com/olegiv/inkwell/internal/flow"
	"github.com/olegiv/inkwell/internal/imaging"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/internal/util"
)

// Form fields of the edit page that are not validated by the post schema.
const (
	fieldImageFile = "image"
	fieldImageURL  = "imageUrl"
)

// PostHandler serves post pages and the post editor.
type PostHandler struct {
	renderer  *render.Renderer
	backend   BackendFor
	tags      flow.TagSource
	hosts     *imaging.HostPolicy
	maxUpload int64
	sanitizer *bluemonday.Policy
	obs       flow.Observer
	logger    *slog.Logger
}

// NewPostHandler creates a new PostHandler. maxUpload bounds cover uploads
// in bytes.
func NewPostHandler(renderer *render.Renderer, backend BackendFor, tags flow.TagSource,
	hosts *imaging.HostPolicy, maxUpload int64, obs flow.Observer, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		renderer:  renderer,
		backend:   backend,
		tags:      tags,
		hosts:     hosts,
		maxUpload: maxUpload,
		sanitizer: bluemonday.UGCPolicy(),
		obs:       obs,
		logger:    logger,
	}
}

// postData is the data of the post page.
type postData struct {
	Post    model.Post
	Content template.HTML
}

// postEditData is the data of the post editor.
type postEditData struct {
	Slug     string
	Editor   flow.PostEditor
	ImageURL string
}

func (h *PostHandler) editFlow(token string) *flow.EditPost {
	return flow.NewEditPost(h.backend(token), h.tags, h.hosts, h.maxUpload, h.obs, h.logger)
}

// Show renders a post.
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, paramSlug)
	if !util.IsValidSlug(slug) {
		renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "Post not found")
		return
	}

	s, _ := session.FromContext(r.Context())
	p, err := h.backend(s.Token).PostBySlug(r.Context(), slug)
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "Post not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to load post", "slug", slug, "error", err)
		renderError(w, r, h.renderer, h.logger, http.StatusBadGateway, flow.MsgPostLoadFailed)
		return
	}

	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "post", render.TemplateData{
		Title: p.Title,
		Data: postData{
			Post:    p,
			Content: template.HTML(h.sanitizer.Sanitize(p.Content)), //nolint:gosec // sanitised above
		},
	})
}

// EditForm renders the post editor prefilled with the post and the tag
// catalog.
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, paramSlug)
	if !util.IsValidSlug(slug) {
		renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "Post not found")
		return
	}

	s, _ := session.FromContext(r.Context())
	f := flow.NewPostForm()
	defer f.Close()

	ed, out := h.editFlow(s.Token).Load(r.Context(), slug, f)
	data := render.TemplateData{
		Title: "Edit post",
		Form:  f,
		Data:  postEditData{Slug: slug, Editor: ed},
	}
	if out.Notice != nil {
		data.Flash = out.Notice.Message
		data.FlashType = string(out.Notice.Kind)
	}
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "edit_post", data)
}

// Edit handles the post editor submission, including an optional cover
// upload.
func (h *PostHandler) Edit(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, paramSlug)
	if !util.IsValidSlug(slug) {
		renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "Post not found")
		return
	}

	s, _ := session.FromContext(r.Context())
	edit := h.editFlow(s.Token)

	// The stored post supplies the id, author and existing image; the
	// scratch form only absorbs its prefill.
	scratch := flow.NewPostForm()
	ed, loaded := edit.Load(r.Context(), slug, scratch)
	scratch.Close()

	f := flow.NewPostForm()
	defer f.Close()
	p := page{name: "edit_post", title: "Edit post"}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.InfoContext(r.Context(), "invalid multipart body", "error", err)
		p.data = postEditData{Slug: slug, Editor: ed}
		respond(w, r, h.renderer, h.logger, p, f, flow.Outcome{
			Result: flow.ResultInvalid,
			Notice: &flow.Notice{Kind: flow.NoticeError, Message: msgInvalidForm},
		}, nil)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		f.Bind(url.Values(r.MultipartForm.Value))
	} else {
		f.Bind(r.PostForm)
	}

	change := flow.ImageChange{URL: strings.TrimSpace(r.FormValue(fieldImageURL))}
	p.data = postEditData{Slug: slug, Editor: ed, ImageURL: change.URL}

	if loaded.Result != flow.ResultSuccess {
		respond(w, r, h.renderer, h.logger, p, f, loaded, nil)
		return
	}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile(fieldImageFile)
		switch {
		case err == nil:
			defer func() { _ = file.Close() }()
			name, nerr := util.SanitizeFilename(header.Filename)
			if nerr != nil {
				name = "cover"
			}
			change.Upload = &flow.Upload{Filename: name, Body: file}
		case !errors.Is(err, http.ErrMissingFile):
			h.logger.InfoContext(r.Context(), "unreadable cover upload", "error", err)
		}
	}

	out, err := edit.Submit(r.Context(), f, ed.Post, change)
	respond(w, r, h.renderer, h.logger, p, f, out, err)
}
