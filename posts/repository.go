package posts

import "context"

// Repository is the persistence boundary for posts. Implementations
// translate storage-level conditions into apperror kinds: a missing row is
// a NotFoundError, anything else a DatabaseError.
type Repository interface {
	// Create inserts a post and returns it with its generated ID and
	// creation time filled in.
	Create(ctx context.Context, post *Post) (*Post, error)
	// GetByID returns the raw post row, used for authorization checks.
	GetByID(ctx context.Context, id int) (*Post, error)
	// GetWithAuthor returns the post joined with its author summary.
	GetWithAuthor(ctx context.Context, id int) (*PostWithAuthor, error)
	// UpdateBody replaces the post's body and returns the updated row.
	UpdateBody(ctx context.Context, id int, body *string) (*Post, error)
	// Delete removes the post and returns the deleted row.
	Delete(ctx context.Context, id int) (*Post, error)
	// List returns all posts newest-first with author summaries.
	List(ctx context.Context) ([]PostWithAuthor, error)
	// ListByAuthor returns the author's posts newest-first; an unknown
	// author simply yields an empty slice.
	ListByAuthor(ctx context.Context, authorID int) ([]PostWithAuthor, error)
}
