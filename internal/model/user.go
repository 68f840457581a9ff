// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types exchanged with the blog API
// including User, SessionUser, Post and Tag.
package model

// Role is the account role assigned by the blog API.
type Role string

// Roles recognised by the front-end.
const (
	RoleUser       Role = "USER"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// AccountStatusApproved is sent with every self-registration.
const AccountStatusApproved = "APPROVED"

// Known reports whether the role is one the front-end can route.
func (r Role) Known() bool {
	return r == RoleUser || r == RoleSuperAdmin
}

// User represents a community member as returned by the profile endpoints.
type User struct {
	ID       ID     `json:"id,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Location string `json:"location,omitempty"`
	Position string `json:"position"`
}

// SessionUser is the minimal user projection stored next to the auth token.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Slug  string `json:"slug"`
	Role  Role   `json:"role"`
}

// Complete reports whether every field of the projection is present.
func (u SessionUser) Complete() bool {
	return u.ID != "" && u.Email != "" && u.Slug != "" && u.Role != ""
}

// IsSuperAdmin returns true if the user has the super-admin role.
func (u SessionUser) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
