// Package posts implements post CRUD with ownership-based authorization:
// a post may be edited or deleted by its author or by an admin, and by no
// one else. Reads are public.
package posts

import (
	"context"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/auth"
)

// Service is the posts business logic consumed by the HTTP handlers.
// Mutating operations take the acting identity's claims; read operations
// are unauthenticated.
type Service interface {
	Create(ctx context.Context, actor *auth.Claims, req CreatePostRequest) (*Post, error)
	Edit(ctx context.Context, actor *auth.Claims, postID int, req EditPostRequest) (*Post, error)
	Delete(ctx context.Context, actor *auth.Claims, postID int) (*Post, error)
	GetByID(ctx context.Context, postID int) (*PostWithAuthor, error)
	List(ctx context.Context) ([]PostWithAuthor, error)
	ListByAuthor(ctx context.Context, authorID int) ([]PostWithAuthor, error)
}

type postService struct {
	repo Repository
}

// NewService creates the posts Service.
func NewService(repo Repository) Service {
	return &postService{repo: repo}
}

// Create persists a new post owned by the acting identity. The author is
// taken from the verified claims, never from the payload.
func (s *postService) Create(ctx context.Context, actor *auth.Claims, req CreatePostRequest) (*Post, error) {
	post := &Post{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: actor.UserID,
	}
	return s.repo.Create(ctx, post)
}

// Edit replaces the post's body if the actor is its author or an admin. An
// omitted body leaves the stored body unchanged.
func (s *postService) Edit(ctx context.Context, actor *auth.Claims, postID int, req EditPostRequest) (*Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, post); err != nil {
		return nil, err
	}
	if req.Body == nil {
		return post, nil
	}
	return s.repo.UpdateBody(ctx, postID, req.Body)
}

// Delete removes the post if the actor is its author or an admin, returning
// the deleted row.
func (s *postService) Delete(ctx context.Context, actor *auth.Claims, postID int) (*Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, post); err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, postID)
}

func (s *postService) GetByID(ctx context.Context, postID int) (*PostWithAuthor, error) {
	return s.repo.GetWithAuthor(ctx, postID)
}

func (s *postService) List(ctx context.Context) ([]PostWithAuthor, error) {
	return s.repo.List(ctx)
}

// ListByAuthor returns the author's posts newest-first. An empty result is
// a NotFoundError; list-all deliberately behaves differently and returns an
// empty list (see DESIGN.md).
func (s *postService) ListByAuthor(ctx context.Context, authorID int) ([]PostWithAuthor, error) {
	result, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, apperror.NewNotFoundError("no posts found", nil)
	}
	return result, nil
}

// authorize permits the mutation when the actor is an admin or the post's
// author.
func authorize(actor *auth.Claims, post *Post) error {
	if actor.Role == auth.RoleAdmin || post.AuthorID == actor.UserID {
		return nil
	}
	return apperror.NewForbiddenError("you are not allowed to modify this post", nil)
}
