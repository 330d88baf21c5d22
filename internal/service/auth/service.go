package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"legato/internal/domain"
	tokenrepo "legato/internal/repository/token"
	userrepo "legato/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match an admin.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// DefaultTokenTTL is how long an admin session lasts.
const DefaultTokenTTL = 12 * time.Hour

// Service handles admin login and bearer token validation.
type Service struct {
	users       userrepo.Repository
	tokens      *tokenManager
	tokenTTL    time.Duration
	passwordMin int
}

// New creates a Service. A non-positive ttl uses DefaultTokenTTL.
func New(users userrepo.Repository, tokens tokenrepo.Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		users:       users,
		tokens:      newTokenManager(tokens),
		tokenTTL:    ttl,
		passwordMin: 8,
	}
}

// Login checks the credentials of an admin account and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if u.Role != domain.RoleAdmin {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, u.ID, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	_, _ = s.PurgeExpired(ctx)
	return u, token, nil
}

// PurgeExpired drops every expired token and reports how many were removed.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.repo.DeleteExpired(ctx, s.tokens.now())
}

// Authenticate returns the admin bound to a valid token.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if u.Role != domain.RoleAdmin {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// Logout revokes token. Revoking an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// EnsureAdmin creates an admin account unless one with that email exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, domain.NewValidationError("email", "Email is required")
	}
	if existing, err := s.users.GetByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         name,
		Role:         domain.RoleAdmin,
		PasswordHash: string(hashed),
	})
}

// TokenTTLSeconds exposes the token lifetime in seconds.
func (s *Service) TokenTTLSeconds() int {
	return int(s.tokenTTL.Seconds())
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return domain.NewValidationError("password", fmt.Sprintf("Password must be at least %d characters", min))
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.NewValidationError("password", "Password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
