package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/config"
)

type fakeAuthService struct {
	registerResult *User
	registerErr    error
	loginResult    *LoginResult
	loginErr       error
	loginInput     LoginRequest
	refreshResult  *TokenPair
	refreshErr     error
	refreshInput   string
}

func (f *fakeAuthService) Register(_ context.Context, _ RegisterRequest) (*User, error) {
	return f.registerResult, f.registerErr
}

func (f *fakeAuthService) Login(_ context.Context, req LoginRequest) (*LoginResult, error) {
	f.loginInput = req
	return f.loginResult, f.loginErr
}

func (f *fakeAuthService) Refresh(refreshToken string) (*TokenPair, error) {
	f.refreshInput = refreshToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshResult, nil
}

func handlerTestUser() *User {
	return &User{
		ID:             1,
		Username:       "newuser",
		Email:          "user@example.com",
		HashedPassword: "$2a$10$secret",
		Role:           RoleUser,
		CreatedAt:      time.Now(),
	}
}

func findCookie(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHandleRegisterCreated(t *testing.T) {
	svc := &fakeAuthService{registerResult: handlerTestUser()}
	h := NewHandlers(svc, config.AuthConfig{})

	body := `{"username":"newuser","email":"user@example.com","password":"strongpass1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister()(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			User map[string]interface{} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "newuser", resp.Data.User["username"])
	assert.NotContains(t, rec.Body.String(), "$2a$10$")
	assert.NotContains(t, resp.Data.User, "password")
}

func TestHandleRegisterValidationFailure(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewHandlers(svc, config.AuthConfig{})

	body := `{"username":"x","email":"bad","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister()(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperror.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.Contains(t, resp.Fields, "username")
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "password")
}

func TestHandleRegisterConflict(t *testing.T) {
	svc := &fakeAuthService{registerErr: apperror.NewConflictError("username already taken", nil)}
	h := NewHandlers(svc, config.AuthConfig{})

	body := `{"username":"newuser","email":"user@example.com","password":"strongpass1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already taken")
}

func TestHandleLoginSetsRefreshCookie(t *testing.T) {
	expires := time.Now().Add(168 * time.Hour)
	svc := &fakeAuthService{loginResult: &LoginResult{
		User: handlerTestUser(),
		Tokens: TokenPair{
			AccessToken:      "access-token-value",
			RefreshToken:     "refresh-token-value",
			RefreshExpiresAt: expires,
		},
	}}
	h := NewHandlers(svc, config.AuthConfig{SecureCookies: true})

	body := `{"username":"newuser","password":"strongpass1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleLogin()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec.Result(), RefreshCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "refresh-token-value", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/auth", cookie.Path)

	assert.Contains(t, rec.Body.String(), "access-token-value")
	assert.NotContains(t, rec.Body.String(), "refresh-token-value")
}

func TestHandleLoginNormalizesUsername(t *testing.T) {
	svc := &fakeAuthService{loginResult: &LoginResult{
		User:   handlerTestUser(),
		Tokens: TokenPair{AccessToken: "a", RefreshToken: "r", RefreshExpiresAt: time.Now().Add(time.Hour)},
	}}
	h := NewHandlers(svc, config.AuthConfig{})

	// Registration lowercases usernames before storing, so login must look
	// up the same form regardless of the casing typed.
	body := `{"username":"  NewUser  ","password":"strongpass1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleLogin()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "newuser", svc.loginInput.Username)
	assert.Equal(t, "strongpass1", svc.loginInput.Password)
}

func TestHandleLoginInvalidCredentials(t *testing.T) {
	svc := &fakeAuthService{loginErr: apperror.NewAuthError("invalid credentials", nil)}
	h := NewHandlers(svc, config.AuthConfig{})

	body := `{"username":"newuser","password":"wrongpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleLogin()(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
	assert.Nil(t, findCookie(t, rec.Result(), RefreshCookieName))
}

func TestHandleLogoutClearsCookie(t *testing.T) {
	h := NewHandlers(&fakeAuthService{}, config.AuthConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.HandleLogout()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(t, rec.Result(), RefreshCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Logged out successfully", resp.Message)
}

func TestHandleRefreshWithoutCookie(t *testing.T) {
	h := NewHandlers(&fakeAuthService{}, config.AuthConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()
	h.HandleRefresh()(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no refresh token provided")
}

func TestHandleRefreshRotatesCookie(t *testing.T) {
	svc := &fakeAuthService{refreshResult: &TokenPair{
		AccessToken:      "new-access-token",
		RefreshToken:     "new-refresh-token",
		RefreshExpiresAt: time.Now().Add(168 * time.Hour),
	}}
	h := NewHandlers(svc, config.AuthConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "old-refresh-token"})
	rec := httptest.NewRecorder()
	h.HandleRefresh()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "old-refresh-token", svc.refreshInput)

	cookie := findCookie(t, rec.Result(), RefreshCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "new-refresh-token", cookie.Value)

	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new-access-token", resp.AccessToken)
}

func TestHandleRefreshInvalidToken(t *testing.T) {
	svc := &fakeAuthService{refreshErr: apperror.NewAuthError("invalid or expired refresh token", nil)}
	h := NewHandlers(svc, config.AuthConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "stale"})
	rec := httptest.NewRecorder()
	h.HandleRefresh()(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired refresh token")
}
