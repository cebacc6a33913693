package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/auth"
	"github.com/user/postboard-go/config"
)

type fakeService struct {
	updateResult *auth.User
	updateErr    error
	deleteErr    error
	updatedID    int
	deletedID    int
}

func (f *fakeService) Update(_ context.Context, userID int, _ UpdateUserRequest) (*auth.User, error) {
	f.updatedID = userID
	return f.updateResult, f.updateErr
}

func (f *fakeService) Delete(_ context.Context, userID int) error {
	f.deletedID = userID
	return f.deleteErr
}

func usersTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    168 * time.Hour,
	}
}

func testRouter(svc Service, cfg *config.AuthConfig) http.Handler {
	h := NewHandlers(svc)
	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg))
		r.Patch("/", h.HandleUpdate())
		r.Delete("/", h.HandleDelete())
	})
	return r
}

func bearerToken(t *testing.T, cfg *config.AuthConfig, userID int) string {
	t.Helper()
	token, _, err := auth.GenerateToken(userID, auth.RoleUser, auth.TokenTypeAccess, []byte(cfg.AccessSecret), cfg.AccessTTL)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHandleUpdateRequiresAuth(t *testing.T) {
	router := testRouter(&fakeService{}, usersTestConfig())

	req := httptest.NewRequest(http.MethodPatch, "/users", strings.NewReader(`{"username":"renamed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleUpdateSelfScoped(t *testing.T) {
	cfg := usersTestConfig()
	svc := &fakeService{updateResult: &auth.User{ID: 8, Username: "renamed", Email: "u@e.co", Role: auth.RoleUser}}
	router := testRouter(svc, cfg)

	req := httptest.NewRequest(http.MethodPatch, "/users", strings.NewReader(`{"username":"Renamed"}`))
	req.Header.Set("Authorization", bearerToken(t, cfg, 8))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, svc.updatedID)

	var resp struct {
		Status string       `json:"status"`
		Data   UserEnvelope `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "renamed", resp.Data.User.Username)
}

func TestHandleUpdateNoFields(t *testing.T) {
	cfg := usersTestConfig()
	router := testRouter(&fakeService{}, cfg)

	req := httptest.NewRequest(http.MethodPatch, "/users", strings.NewReader(`{}`))
	req.Header.Set("Authorization", bearerToken(t, cfg, 8))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no fields provided for update")
}

func TestHandleUpdateValidationFailure(t *testing.T) {
	cfg := usersTestConfig()
	router := testRouter(&fakeService{}, cfg)

	req := httptest.NewRequest(http.MethodPatch, "/users", strings.NewReader(`{"username":"a","password":"short"}`))
	req.Header.Set("Authorization", bearerToken(t, cfg, 8))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperror.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "username")
	assert.Contains(t, resp.Fields, "password")
}

func TestHandleUpdateConflict(t *testing.T) {
	cfg := usersTestConfig()
	svc := &fakeService{updateErr: apperror.NewConflictError("email already taken", nil)}
	router := testRouter(svc, cfg)

	req := httptest.NewRequest(http.MethodPatch, "/users", strings.NewReader(`{"email":"taken@example.com"}`))
	req.Header.Set("Authorization", bearerToken(t, cfg, 8))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already taken")
}

func TestHandleDeleteSelfScoped(t *testing.T) {
	cfg := usersTestConfig()
	svc := &fakeService{}
	router := testRouter(svc, cfg)

	req := httptest.NewRequest(http.MethodDelete, "/users", nil)
	req.Header.Set("Authorization", bearerToken(t, cfg, 8))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, svc.deletedID)

	var resp struct {
		Status string         `json:"status"`
		Data   DeleteEnvelope `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Data.User.ID)
}

func TestHandleDeleteRequiresAuth(t *testing.T) {
	router := testRouter(&fakeService{}, usersTestConfig())

	req := httptest.NewRequest(http.MethodDelete, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
