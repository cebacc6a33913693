package posts

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	maxTitleLength = 300
	maxBodyLength  = 40000
)

// CreatePostRequest is the payload for creating a post. Body is optional.
type CreatePostRequest struct {
	Title string  `json:"title" example:"My first post"`
	Body  *string `json:"body,omitempty" example:"Hello, world."`
}

// Normalize trims surrounding whitespace from the title and body. It must
// run before Validate.
func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Body != nil {
		trimmed := strings.TrimSpace(*r.Body)
		r.Body = &trimmed
	}
}

// Validate checks the create payload against the post field rules.
func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&r.Body, validation.Length(0, maxBodyLength)),
	)
}

// EditPostRequest is the payload for editing a post. Only the body may be
// changed; titles are immutable after creation. Omitting the body leaves
// the stored body as it is.
type EditPostRequest struct {
	Body *string `json:"body,omitempty" example:"Updated body."`
}

// Normalize trims surrounding whitespace from the body when present.
func (r *EditPostRequest) Normalize() {
	if r.Body != nil {
		trimmed := strings.TrimSpace(*r.Body)
		r.Body = &trimmed
	}
}

// Validate checks the edit payload against the post field rules.
func (r EditPostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Length(0, maxBodyLength)),
	)
}
