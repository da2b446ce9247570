package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/remoteauth"
	"github.com/opencourse/lms-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
)

// Claims extends JWT standard claims with app-specific fields. Subject holds
// the account ID. Role is fixed at issue time; a role change on the account
// does not affect already-issued sessions.
type Claims struct {
	jwt.RegisteredClaims
	Role              model.Role `json:"role"`
	RemoteAccessToken string     `json:"remote_access_token,omitempty"`
}

// UserStore is the account lookup surface the authenticator needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// RemoteAuthenticator bridges to the hosted auth service's independent
// identity store. Implementations must honor the context deadline.
type RemoteAuthenticator interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string, role model.Role) (string, error)
}

// AuthService handles credential authentication, JWT sessions, and the
// best-effort bridge to the remote identity store.
type AuthService struct {
	cfg    *config.Config
	users  UserStore
	remote RemoteAuthenticator
	log    zerolog.Logger
}

// NewAuthService creates a new AuthService. remote may be nil when no remote
// auth service is configured; authentication then proceeds purely locally.
func NewAuthService(cfg *config.Config, users UserStore, remote RemoteAuthenticator, log zerolog.Logger) *AuthService {
	return &AuthService{cfg: cfg, users: users, remote: remote, log: log}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Authenticate exchanges an email/password pair for an authorized identity.
// The local account is authoritative: an unknown email and a wrong password
// both yield ErrInvalidCredentials, and no remote failure of any kind can
// fail the authentication — the remote token is simply absent.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.Identity, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if err := s.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &model.Identity{
		ID:                user.ID,
		Email:             user.Email,
		FullName:          user.FullName,
		Role:              user.Role,
		RemoteAccessToken: s.reconcileRemote(ctx, email, password, user.Role),
	}, nil
}

// reconcileRemote mirrors the just-verified credentials into the remote
// identity store and returns its access token, or "" when the remote is
// unreachable, rejects us, or is not configured. Failures are logged only.
func (s *AuthService) reconcileRemote(ctx context.Context, email, password string, role model.Role) string {
	if s.remote == nil {
		return ""
	}

	token, err := s.remote.SignIn(ctx, email, password)
	if err == nil {
		return token
	}

	if errors.Is(err, remoteauth.ErrAccountNotFound) {
		token, err = s.remote.SignUp(ctx, email, password, role)
		if err == nil {
			return token
		}
		s.log.Warn().Err(err).Str("email", email).Msg("Remote auth degraded: sign-up failed")
		return ""
	}

	s.log.Warn().Err(err).Str("email", email).Msg("Remote auth degraded: sign-in failed")
	return ""
}

// Register creates a new local student account.
func (s *AuthService) Register(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         model.RoleStudent,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return user, nil
}

// GetProfile returns the account backing an authenticated session.
func (s *AuthService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// RemoteSession exchanges an authenticated local session for a remote access
// token using the configured fallback password, creating the remote identity
// on first use. Unlike login-time reconciliation, failures here surface to
// the caller — the remote token is the whole point of the call.
func (s *AuthService) RemoteSession(ctx context.Context, user *model.User) (string, error) {
	if s.remote == nil {
		return "", remoteauth.ErrUnavailable
	}

	token, err := s.remote.SignIn(ctx, user.Email, s.cfg.RemoteFallbackPassword)
	if err == nil {
		return token, nil
	}
	if errors.Is(err, remoteauth.ErrAccountNotFound) {
		return s.remote.SignUp(ctx, user.Email, s.cfg.RemoteFallbackPassword, user.Role)
	}
	return "", err
}

// GenerateToken creates a signed session JWT for an identity. The remote
// access token rides inside the claims when present.
func (s *AuthService) GenerateToken(identity *model.Identity) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Role:              identity.Role,
		RemoteAccessToken: identity.RemoteAccessToken,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and validates a session JWT, returning the claims.
// Expired or tampered tokens fail; there is no refresh flow.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
