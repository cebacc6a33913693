package auth

import (
	"net/http"
	"strings"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/config"
)

// JWTMiddleware returns middleware that authenticates requests with an
// access token. The token is taken from the Authorization header
// ("Bearer {token}") or, failing that, from the access_token cookie. Any
// missing, malformed, expired or mistyped token short-circuits the request
// with 401; on success the decoded claims become the request identity and
// no storage lookup is performed.
func JWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := extractToken(r)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			claims, err := VerifyToken(tokenString, TokenTypeAccess, []byte(cfg.AccessSecret))
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid or expired token", err))
				return
			}

			ctx := NewContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the raw access token from the request. The bearer
// header wins over the cookie when both are present.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", apperror.NewAuthError("authorization header format must be Bearer {token}", nil)
		}
		return parts[1], nil
	}

	if cookie, err := r.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", apperror.NewAuthError("no token provided", nil)
}
