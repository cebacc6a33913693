// Package auth handles registration, login, token issuance and refresh,
// and request authentication. Session state lives entirely in the signed
// tokens: there is no server-side session store and no revocation list, so
// a token remains valid until its expiry or until the client discards it.
package auth

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/postboard-go/apperror"
	"github.com/user/postboard-go/config"
)

// bcryptCost is the adaptive hashing cost factor for stored credentials.
const bcryptCost = 10

// TokenPair is a freshly minted access/refresh pair. RefreshExpiresAt
// drives the refresh cookie's expiry.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// LoginResult carries the authenticated user and their session tokens.
type LoginResult struct {
	User   *User
	Tokens TokenPair
}

// Service is the authentication business logic consumed by the HTTP
// handlers. Logout is absent: it is purely a cookie operation with no
// server-side state to touch.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Refresh(refreshToken string) (*TokenPair, error)
}

type authService struct {
	repo UserRepository
	cfg  config.AuthConfig
}

// NewService creates the auth Service from its injected dependencies.
func NewService(repo UserRepository, cfg config.AuthConfig) Service {
	return &authService{repo: repo, cfg: cfg}
}

// Register hashes the password and persists a new user. The caller is
// expected to have normalized and validated the request; uniqueness races
// are resolved by the database and surface as ConflictError.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hashed),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies the credentials and issues a token pair. An unknown
// username and a wrong password produce the same generic error so the
// response does not reveal which check failed.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("invalid credentials", nil)
		}
		log.Printf("login: failed to look up user: %v", err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError("invalid credentials", nil)
	}

	tokens, err := s.generateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// Refresh validates a refresh token and mints a new access/refresh pair
// (rotation). The role embedded in the old refresh token is propagated
// without a storage lookup, so role changes take effect only at re-login.
// The old refresh token is not invalidated server-side; there is no
// revocation store.
func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := VerifyToken(refreshToken, TokenTypeRefresh, []byte(s.cfg.RefreshSecret))
	if err != nil {
		return nil, apperror.NewAuthError("invalid or expired refresh token", err)
	}

	tokens, err := s.generateTokenPair(claims.UserID, claims.Role)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (s *authService) generateTokenPair(userID int, role Role) (TokenPair, error) {
	access, _, err := GenerateToken(userID, role, TokenTypeAccess, []byte(s.cfg.AccessSecret), s.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, apperror.NewInternalError("failed to generate access token", err)
	}

	refresh, refreshExpiresAt, err := GenerateToken(userID, role, TokenTypeRefresh, []byte(s.cfg.RefreshSecret), s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, apperror.NewInternalError("failed to generate refresh token", err)
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}
