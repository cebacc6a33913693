package posts

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/auth"
)

// Handlers exposes the posts endpoints over HTTP.
type Handlers struct {
	service Service
}

// NewHandlers creates the posts HTTP handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate godoc
// @Summary Create a post
// @Description Creates a post owned by the authenticated user.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postBody body posts.CreatePostRequest true "Post contents"
// @Success 201 {object} posts.Post "Post created"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /posts [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("not authenticated", nil))
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		req.Normalize()
		if err := req.Validate(); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid post payload", err))
			return
		}

		post, err := h.service.Create(r.Context(), actor, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteSuccess(w, http.StatusCreated, post)
	}
}

// HandleEdit godoc
// @Summary Edit a post
// @Description Replaces the body of a post; omitting the body leaves it unchanged. Only the author or an admin may edit.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postID path int true "Post ID"
// @Param postBody body posts.EditPostRequest true "New body"
// @Success 200 {object} posts.Post "Post updated"
// @Failure 400 {object} apperror.ErrorResponse "Invalid ID or payload"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 403 {object} apperror.ErrorResponse "Not the author and not an admin"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /posts/{postID} [patch]
func (h *Handlers) HandleEdit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("not authenticated", nil))
			return
		}

		postID, err := postIDParam(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		var req EditPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		req.Normalize()
		if err := req.Validate(); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid post payload", err))
			return
		}

		post, err := h.service.Edit(r.Context(), actor, postID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteSuccess(w, http.StatusOK, post)
	}
}

// HandleDelete godoc
// @Summary Delete a post
// @Description Deletes a post and returns the deleted row. Only the author or an admin may delete.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postID path int true "Post ID"
// @Success 200 {object} posts.Post "Post deleted"
// @Failure 400 {object} apperror.ErrorResponse "Invalid ID"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 403 {object} apperror.ErrorResponse "Not the author and not an admin"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /posts/{postID} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("not authenticated", nil))
			return
		}

		postID, err := postIDParam(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		post, err := h.service.Delete(r.Context(), actor, postID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteSuccess(w, http.StatusOK, post)
	}
}

// HandleGet godoc
// @Summary Get a post
// @Description Returns a post with its author summary.
// @Tags posts
// @Produce json
// @Param postID path int true "Post ID"
// @Success 200 {object} posts.PostWithAuthor "Post"
// @Failure 400 {object} apperror.ErrorResponse "Invalid ID"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /posts/{postID} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := postIDParam(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		post, err := h.service.GetByID(r.Context(), postID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteSuccess(w, http.StatusOK, post)
	}
}

// HandleList godoc
// @Summary List posts
// @Description Returns all posts newest-first. An empty list is a valid result.
// @Tags posts
// @Produce json
// @Success 200 {array} posts.PostWithAuthor "Posts"
// @Router /posts [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteSuccess(w, http.StatusOK, result)
	}
}

// HandleListByAuthor godoc
// @Summary List posts by author
// @Description Returns the author's posts newest-first; 404 when the author has none.
// @Tags posts
// @Produce json
// @Param authorID path int true "Author ID"
// @Success 200 {array} posts.PostWithAuthor "Posts"
// @Failure 400 {object} apperror.ErrorResponse "Invalid ID"
// @Failure 404 {object} apperror.ErrorResponse "No posts found"
// @Router /posts/author/{authorID} [get]
func (h *Handlers) HandleListByAuthor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID, err := intParam(r, "authorID", "invalid author id")
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		result, err := h.service.ListByAuthor(r.Context(), authorID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteSuccess(w, http.StatusOK, result)
	}
}

func postIDParam(r *http.Request) (int, error) {
	return intParam(r, "postID", "invalid post id")
}

func intParam(r *http.Request, name, message string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, apperror.NewBadRequestError(message, nil)
	}
	return value, nil
}
