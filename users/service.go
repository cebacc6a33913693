// Package users implements self-service account management. The acting
// identity may only change or delete its own account.
package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/auth"
)

const bcryptCost = 10

// Service is the account management business logic.
type Service interface {
	// Update applies the requested changes to the user's own account.
	Update(ctx context.Context, userID int, req UpdateUserRequest) (*auth.User, error)
	// Delete removes the user's own account along with its posts.
	Delete(ctx context.Context, userID int) error
}

type userService struct {
	repo Repository
}

// NewService creates the account Service.
func NewService(repo Repository) Service {
	return &userService{repo: repo}
}

func (s *userService) Update(ctx context.Context, userID int, req UpdateUserRequest) (*auth.User, error) {
	upd := Update{
		Username: req.Username,
		Email:    req.Email,
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		h := string(hashed)
		upd.Password = &h
	}
	return s.repo.Update(ctx, userID, upd)
}

func (s *userService) Delete(ctx context.Context, userID int) error {
	return s.repo.Delete(ctx, userID)
}
