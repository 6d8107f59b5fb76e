// Package auth verifies credentials and issues and resolves bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"erms/models"
	"erms/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInvalidToken is returned for missing, malformed, expired or badly signed
	// tokens, and for tokens whose subject no longer exists.
	ErrInvalidToken = errors.New("could not validate credentials")
	ErrForbidden    = errors.New("manager role required")
)

// UserLookup is the subset of the user store the service needs.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Claims struct {
	UserID uint        `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type Options struct {
	Secret     string
	Expiration time.Duration
	BcryptCost int
}

type Service struct {
	users      UserLookup
	secret     []byte
	expiration time.Duration
	cost       int
	now        func() time.Time
}

func NewService(users UserLookup, opts Options) *Service {
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		secret:     []byte(opts.Secret),
		expiration: opts.Expiration,
		cost:       cost,
		now:        time.Now,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Authenticate returns the user owning email when password matches its hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs an HS256 token whose subject is the user's email.
func (s *Service) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ResolveCurrentUser maps a bearer token to the stored user it names.
func (s *Service) ResolveCurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// RequireManager resolves the token and rejects principals that are not managers.
func (s *Service) RequireManager(ctx context.Context, tokenString string) (*models.User, error) {
	user, err := s.ResolveCurrentUser(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if !user.IsManager() {
		return nil, ErrForbidden
	}
	return user, nil
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
