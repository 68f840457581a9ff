// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package flow

import (
	"github.com/olegiv/inkwell/internal/form"
	"github.com/olegiv/inkwell/internal/validation"
)

// Form field names.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldUsername        = "username"
	FieldFullName        = "fullName"
	FieldContact         = "contact"
	FieldLocation        = "location"
	FieldPosition        = "position"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldTagIDs          = "tagIds"
	FieldImage           = "image"
)

// ContactMinLength is the minimum length of a contact number.
const ContactMinLength = 10

// LoginSchema validates the sign-in form.
func LoginSchema() *validation.Schema {
	s := validation.New()
	s.Field(FieldEmail).Email(validation.MsgEmailInvalid)
	s.Field(FieldPassword).Password()
	return s
}

// RegisterSchema validates the sign-up form.
func RegisterSchema() *validation.Schema {
	s := validation.New()
	s.Field(FieldUsername).Required("Username is required")
	s.Field(FieldFullName).Required("Full name is required")
	s.Field(FieldEmail).Email(validation.MsgEmailInvalid)
	s.Field(FieldPassword).Password()
	s.Field(FieldConfirmPassword).EqualsField(FieldPassword, validation.MsgPasswordsMismatch)
	s.Field(FieldContact).MinLen(ContactMinLength, "Contact must be at least 10 digits")
	s.Field(FieldLocation).Required("Location is required")
	return s
}

// ProfileSchema validates the edit-profile form.
func ProfileSchema() *validation.Schema {
	s := validation.New()
	s.Field(FieldFullName).MinLen(2, "Name too short")
	s.Field(FieldUsername).MinLen(2, "Username too short")
	s.Field(FieldEmail).Email("Invalid email")
	s.Field(FieldPosition).MinLen(2, "Position too short")
	return s
}

// PostSchema validates the edit-post form.
func PostSchema() *validation.Schema {
	s := validation.New()
	s.Field(FieldTitle).Required("Title is required")
	s.Field(FieldDescription).Required("Description is required")
	s.Field(FieldTagIDs).MinItems(1, "At least one tag is required")
	return s
}

// NewLoginForm creates a sign-in form instance.
func NewLoginForm() *form.Form {
	return form.New(LoginSchema(), form.WithRawFields(FieldPassword))
}

// NewRegisterForm creates a sign-up form instance.
func NewRegisterForm() *form.Form {
	return form.New(RegisterSchema(), form.WithRawFields(FieldPassword, FieldConfirmPassword))
}

// NewProfileForm creates an edit-profile form instance.
func NewProfileForm() *form.Form {
	return form.New(ProfileSchema())
}

// NewPostForm creates an edit-post form instance. The description holds
// HTML from the rich-text editor and is kept as submitted.
func NewPostForm() *form.Form {
	return form.New(PostSchema(), form.WithRawFields(FieldDescription))
}
