package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/postboard-go/config"
)

func middlewareTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    168 * time.Hour,
	}
}

func claimsEcho(t *testing.T, gotClaims **Claims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		*gotClaims = claims
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddlewareBearerHeader(t *testing.T) {
	cfg := middlewareTestConfig()
	token, _, err := GenerateToken(5, RoleUser, TokenTypeAccess, []byte(cfg.AccessSecret), cfg.AccessTTL)
	require.NoError(t, err)

	var gotClaims *Claims
	handler := JWTMiddleware(cfg)(claimsEcho(t, &gotClaims))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, 5, gotClaims.UserID)
	assert.Equal(t, RoleUser, gotClaims.Role)
}

func TestJWTMiddlewareCookieFallback(t *testing.T) {
	cfg := middlewareTestConfig()
	token, _, err := GenerateToken(5, RoleUser, TokenTypeAccess, []byte(cfg.AccessSecret), cfg.AccessTTL)
	require.NoError(t, err)

	var gotClaims *Claims
	handler := JWTMiddleware(cfg)(claimsEcho(t, &gotClaims))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, 5, gotClaims.UserID)
}

func TestJWTMiddlewareRejections(t *testing.T) {
	cfg := middlewareTestConfig()

	expired, _, err := GenerateToken(5, RoleUser, TokenTypeAccess, []byte(cfg.AccessSecret), -time.Minute)
	require.NoError(t, err)
	refresh, _, err := GenerateToken(5, RoleUser, TokenTypeRefresh, []byte(cfg.AccessSecret), cfg.RefreshTTL)
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(*http.Request)
	}{
		{"no token", func(r *http.Request) {}},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer") }},
		{"not a token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") }},
		{"expired token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) }},
		{"refresh token in place of access", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+refresh) }},
		{"empty cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: ""}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := JWTMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not be reached")
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestJWTMiddlewareHeaderWinsOverCookie(t *testing.T) {
	cfg := middlewareTestConfig()
	headerToken, _, err := GenerateToken(1, RoleUser, TokenTypeAccess, []byte(cfg.AccessSecret), cfg.AccessTTL)
	require.NoError(t, err)
	cookieToken, _, err := GenerateToken(2, RoleUser, TokenTypeAccess, []byte(cfg.AccessSecret), cfg.AccessTTL)
	require.NoError(t, err)

	var gotClaims *Claims
	handler := JWTMiddleware(cfg)(claimsEcho(t, &gotClaims))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+headerToken)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: cookieToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, 1, gotClaims.UserID)
}
