// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/olegiv/inkwell/internal/render"
)

// PagesHandler serves the static content pages.
type PagesHandler struct {
	renderer *render.Renderer
	about    template.HTML
	logger   *slog.Logger
}

// NewPagesHandler converts the about page Markdown once up front.
func NewPagesHandler(renderer *render.Renderer, aboutMarkdown []byte, logger *slog.Logger) (*PagesHandler, error) {
	about, err := render.Markdown(aboutMarkdown)
	if err != nil {
		return nil, fmt.Errorf("rendering about page: %w", err)
	}
	return &PagesHandler{renderer: renderer, about: about, logger: logger}, nil
}

// Home renders the landing page.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "home", render.TemplateData{})
}

// About renders the about-us page.
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, h.logger, http.StatusOK, "about", render.TemplateData{
		Title: "About us",
		Data:  h.about,
	})
}

// NotFound renders the 404 page.
func (h *PagesHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, h.renderer, h.logger, http.StatusNotFound, "Page not found")
}
