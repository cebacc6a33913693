package users

import (
	"encoding/json"
	"net/http"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/auth"
)

// Handlers exposes the account management endpoints over HTTP.
type Handlers struct {
	service Service
}

// NewHandlers creates the account HTTP handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// HandleUpdate godoc
// @Summary Update own account
// @Description Applies a partial update to the authenticated user's account. At least one field must be provided.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userBody body users.UpdateUserRequest true "Fields to change"
// @Success 200 {object} users.UserEnvelope "Updated user"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure or taken username/email"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /users [patch]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("not authenticated", nil))
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		req.Normalize()
		if !req.HasChanges() {
			auth.WriteError(w, r, apperror.NewBadRequestError("no fields provided for update", nil))
			return
		}
		if err := req.Validate(); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid user payload", err))
			return
		}

		user, err := h.service.Update(r.Context(), actor.UserID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteSuccess(w, http.StatusOK, UserEnvelope{User: auth.NewUserResponse(user)})
	}
}

// HandleDelete godoc
// @Summary Delete own account
// @Description Deletes the authenticated user's account and all posts they authored.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.DeleteEnvelope "Deleted user ID"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /users [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.ClaimsFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("not authenticated", nil))
			return
		}

		if err := h.service.Delete(r.Context(), actor.UserID); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteSuccess(w, http.StatusOK, DeleteEnvelope{User: DeletedUser{ID: actor.UserID}})
	}
}
