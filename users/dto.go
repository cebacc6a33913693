package users

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/user/postboard-go/auth"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9$_*]+$`)

// UpdateUserRequest is the payload for self-service account edits. Every
// field is optional, but at least one must be provided; present fields are
// held to the same rules as registration.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" example:"newname"`
	Email    *string `json:"email,omitempty" example:"new@example.com"`
	Password *string `json:"password,omitempty" example:"newstrongpass1"`
}

// Normalize trims and lowercases the username and email when present. It
// must run before Validate.
func (r *UpdateUserRequest) Normalize() {
	if r.Username != nil {
		u := strings.ToLower(strings.TrimSpace(*r.Username))
		r.Username = &u
	}
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &e
	}
}

// HasChanges reports whether any field is present.
func (r UpdateUserRequest) HasChanges() bool {
	return r.Username != nil || r.Email != nil || r.Password != nil
}

// Validate checks the present fields against the account field rules.
func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Length(2, 20),
			validation.Match(usernamePattern).Error("can only contain letters, numbers, $, * and _"),
		),
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Password, validation.Length(8, 20)),
	)
}

// UserEnvelope wraps a user projection in the response data shape.
type UserEnvelope struct {
	User auth.UserResponse `json:"user"`
}

// DeletedUser identifies a removed account.
type DeletedUser struct {
	ID int `json:"id"`
}

// DeleteEnvelope is the response data shape for account deletion.
type DeleteEnvelope struct {
	User DeletedUser `json:"user"`
}
