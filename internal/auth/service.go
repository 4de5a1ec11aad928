package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
)

const (
	// Issuer is stamped on every admin token
	Issuer = "travel-type-quiz"

	// RoleAdmin is the only role the dashboard knows about
	RoleAdmin = "admin"

	DefaultTokenTTL = 12 * time.Hour
)

// Claims are the admin token claims
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service authenticates the single dashboard operator and issues HS256 tokens
type Service struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTokenTTL overrides the token lifetime
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewService creates the admin auth service. An empty passwordHash disables login.
func NewService(username, passwordHash, secret string, opts ...Option) (*Service, error) {
	if secret == "" {
		return nil, apperrors.NewConfigurationError("JWT secret must not be empty", nil)
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, apperrors.NewConfigurationError("admin password hash is not a bcrypt hash", err)
		}
	}

	s := &Service{
		username:     username,
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          DefaultTokenTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Enabled reports whether an admin password is configured
func (s *Service) Enabled() bool {
	return len(s.passwordHash) > 0
}

// Login checks credentials and returns a signed token with its expiry
func (s *Service) Login(username, password string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, apperrors.NewUnauthorizedError("Admin login is disabled")
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", time.Time{}, apperrors.NewUnauthorizedError("Invalid credentials")
	}

	return s.IssueToken(username)
}

// IssueToken signs an admin token for subject
func (s *Service) IssueToken(subject string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError("failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken parses and validates an admin token
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewUnauthorizedError("Token expired")
		}
		return nil, apperrors.NewUnauthorizedError("Invalid token")
	}

	if !token.Valid || claims.Role != RoleAdmin {
		return nil, apperrors.NewUnauthorizedError("Invalid token")
	}
	return claims, nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", apperrors.NewValidationError("password must not be empty")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
