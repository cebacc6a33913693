package users

import (
	"context"

	"github.com/user/postboard-go/auth"
)

// Update carries the column changes for an account update. Nil fields are
// left untouched; Password must already be hashed.
type Update struct {
	Username *string
	Email    *string
	Password *string
}

// Repository is the persistence boundary for account management.
// Implementations translate storage-level conditions into apperror kinds: a
// missing row is a NotFoundError, a unique violation a ConflictError.
type Repository interface {
	// Update applies the non-nil fields and returns the updated user.
	Update(ctx context.Context, id int, upd Update) (*auth.User, error)
	// Delete removes the account. Owned posts are removed with it by the
	// schema's cascade rule.
	Delete(ctx context.Context, id int) error
}
