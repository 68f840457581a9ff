// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render turns page templates into HTML responses and carries
// flash notices across redirects.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/yuin/goldmark"

	"github.com/olegiv/inkwell/internal/flow"
	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/session"
)

// Session keys holding a pending flash notice.
const (
	flashKey     = "flash"
	flashTypeKey = "flash_type"
)

// Renderer renders parsed page templates.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
}

// New parses every page under pages/ together with the base layout and
// the partials.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
	}
	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("listing partials: %w", err)
	}
	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("listing pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")
		files := append([]string{"layouts/base.html"}, partials...)
		files = append(files, page)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"contains": func(list []string, v any) bool {
			return slices.Contains(list, fmt.Sprint(v))
		},
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
	}
}

// Nav is the header navigation state.
type Nav struct {
	SignedIn   bool
	ProfileURL string
	Email      string
}

// NavFor builds the header for the session in ctx. The profile link points
// at the dashboard for super admins and at the public profile otherwise.
func NavFor(ctx context.Context) Nav {
	s, ok := session.FromContext(ctx)
	if !ok {
		return Nav{}
	}
	nav := Nav{SignedIn: true, Email: s.User.Email, ProfileURL: flow.ProfilePath(s.User.Slug)}
	if s.User.IsSuperAdmin() {
		nav.ProfileURL = flow.DashboardPath(s.User.Slug)
	}
	return nav
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Form        *form.Form
	Nav         Nav
	Flash       string
	FlashType   string
	CurrentYear int
}

// Render writes the named page with status. A flash notice stored by a
// previous request is consumed and shown.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.Nav = NavFor(req.Context())
	if data.Flash == "" && r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), flashKey); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), flashTypeKey)
		}
	}
	if data.Flash != "" && data.FlashType == "" {
		data.FlashType = string(flow.NoticeInfo)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash stores a notice to show on the next rendered page.
func (r *Renderer) SetFlash(ctx context.Context, message string, kind flow.NoticeKind) {
	if r.sessionManager == nil {
		return
	}
	r.sessionManager.Put(ctx, flashKey, message)
	r.sessionManager.Put(ctx, flashTypeKey, string(kind))
}

// SetNotice stores n for the next page. A nil notice is ignored.
func (r *Renderer) SetNotice(ctx context.Context, n *flow.Notice) {
	if n != nil {
		r.SetFlash(ctx, n.Message, n.Kind)
	}
}

// Markdown converts trusted, embedded Markdown into HTML.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // embedded content only
}
