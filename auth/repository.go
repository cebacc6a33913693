package auth

import "context"

// UserRepository is the persistence boundary for user accounts during
// registration and login. Implementations translate storage-level
// conditions (no rows, unique violations) into apperror kinds so callers
// never inspect driver errors.
type UserRepository interface {
	// Create inserts a new user and returns it with its generated ID,
	// role and creation time filled in. A duplicate username or email
	// yields a ConflictError.
	Create(ctx context.Context, user *User) (*User, error)
	// GetByUsername returns the user with the given (lowercased) username,
	// or a NotFoundError.
	GetByUsername(ctx context.Context, username string) (*User, error)
}
