package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/config"
)

// Cookie names used for session transport. The refresh cookie is scoped to
// /auth so it only travels to the refresh and logout endpoints.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

const refreshCookiePath = "/auth"

// Handlers exposes the auth endpoints over HTTP.
type Handlers struct {
	service Service
	cfg     config.AuthConfig
}

// NewHandlers creates the auth HTTP handlers.
func NewHandlers(service Service, cfg config.AuthConfig) *Handlers {
	return &Handlers{service: service, cfg: cfg}
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user account.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.RegisterResponse "User created"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure or credentials already in use"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		req.Normalize()
		if err := req.Validate(); err != nil {
			WriteError(w, r, apperror.NewValidationError("invalid registration payload", err))
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteSuccess(w, http.StatusCreated, RegisterResponse{User: NewUserResponse(user)})
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Authenticates a user; returns an access token in the body and sets the refresh cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.LoginResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		req.Normalize()
		if err := req.Validate(); err != nil {
			WriteError(w, r, apperror.NewValidationError("username and password are required", err))
			return
		}

		result, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		h.setRefreshCookie(w, result.Tokens.RefreshToken, result.Tokens.RefreshExpiresAt)
		WriteSuccess(w, http.StatusOK, LoginResponse{
			User:        NewUserResponse(result.User),
			AccessToken: result.Tokens.AccessToken,
		})
	}
}

// HandleLogout godoc
// @Summary User Logout
// @Description Clears the refresh cookie. Stateless and idempotent.
// @Tags auth
// @Produce json
// @Success 200 {object} auth.MessageResponse "Logged out"
// @Router /auth/logout [post]
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.clearRefreshCookie(w)
		WriteJSON(w, http.StatusOK, MessageResponse{
			Status:  "success",
			Message: "Logged out successfully",
		})
	}
}

// HandleRefresh godoc
// @Summary Refresh Access Token
// @Description Rotates the token pair using the refresh cookie: a new access token is returned and a new refresh cookie is set.
// @Tags auth
// @Produce json
// @Success 200 {object} auth.RefreshResponse "Tokens rotated"
// @Failure 401 {object} apperror.ErrorResponse "Missing, invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *Handlers) HandleRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(RefreshCookieName)
		if err != nil || cookie.Value == "" {
			WriteError(w, r, apperror.NewAuthError("no refresh token provided", nil))
			return
		}

		tokens, err := h.service.Refresh(cookie.Value)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		h.setRefreshCookie(w, tokens.RefreshToken, tokens.RefreshExpiresAt)
		WriteJSON(w, http.StatusOK, RefreshResponse{AccessToken: tokens.AccessToken})
	}
}

func (h *Handlers) setRefreshCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// SuccessResponse is the envelope wrapping every successful data-bearing
// response body.
type SuccessResponse struct {
	Status string      `json:"status" example:"success"`
	Data   interface{} `json:"data"`
}

// WriteJSON serializes v to the response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteSuccess wraps data in the success envelope and writes it.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, SuccessResponse{Status: "success", Data: data})
}

// WriteError maps any error onto the apperror response format. Errors that
// are not *AppError values are treated as unexpected internal failures and
// reported with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
