package auth

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9$_*]+$`)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" example:"newuser"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"strongpass1"`
}

// Normalize trims surrounding whitespace and lowercases the username and
// email so uniqueness is case-insensitive. It must run before Validate.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate checks the registration payload against the account field rules.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(2, 20),
			validation.Match(usernamePattern).Error("can only contain letters, numbers, $, * and _"),
		),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 20)),
	)
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" example:"newuser"`
	Password string `json:"password" example:"strongpass1"`
}

// Normalize trims surrounding whitespace and lowercases the username so the
// lookup matches how registration stored it.
func (r *LoginRequest) Normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
}

// Validate only requires both fields to be present; credential checks never
// reveal which field was wrong.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// UserResponse is the public projection of a user, returned by
// registration, login and user edits. It never carries the password hash.
type UserResponse struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse projects a User onto its public fields.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RegisterResponse is the data payload of a successful registration.
type RegisterResponse struct {
	User UserResponse `json:"user"`
}

// LoginResponse is the data payload of a successful login. The refresh
// token travels only in the HTTP-only cookie, never in the body.
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// RefreshResponse is the body of a successful token refresh.
type RefreshResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// MessageResponse is a plain status/message body, used by logout.
type MessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Logged out successfully"`
}
