// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the home page.
	RouteRoot = "/"
	// RouteLogin is the login form.
	RouteLogin = "/login"
	// RouteRegister is the registration form.
	RouteRegister = "/register"
	// RouteLogout ends the session.
	RouteLogout = "/logout"
	// RouteAbout is the about-us page.
	RouteAbout = "/about"
	// RouteProfileEdit edits the signed-in user's profile.
	RouteProfileEdit = "/profile/edit"
	// RoutePasswordStrength scores a password for live feedback.
	RoutePasswordStrength = "/password/strength"
	// RouteHealth is the health check.
	RouteHealth = "/health"
	// RouteMetrics exposes Prometheus metrics.
	RouteMetrics = "/metrics"
	// RouteStatic serves embedded assets.
	RouteStatic = "/static/*"

	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
	// RouteUser is the public profile route pattern.
	RouteUser = "/user" + RouteParamSlug
	// RouteDashboard is the super-admin dashboard route pattern.
	RouteDashboard = "/dashboard" + RouteParamSlug
	// RoutePost is the post route pattern.
	RoutePost = "/blog" + RouteParamSlug
	// RouteSuffixEdit is the suffix for edit routes.
	RouteSuffixEdit = "/edit"
	// RoutePostEdit is the post edit route pattern.
	RoutePostEdit = RoutePost + RouteSuffixEdit
)

const (
	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"

	paramSlug = "slug"

	// maxFormBytes bounds url-encoded form bodies.
	maxFormBytes = 64 << 10
	// multipartOverhead is added to the upload limit for the other fields.
	multipartOverhead = 1 << 20
)
