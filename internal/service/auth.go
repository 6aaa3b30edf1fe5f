// Package service contains application services for authentication,
// telemetry and reports.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/hacknova/airwatch/internal/crypto"
	"github.com/hacknova/airwatch/internal/errs"
	"github.com/hacknova/airwatch/internal/model"
	"github.com/hacknova/airwatch/internal/repository"
)

// AuthService defines the credential store operations.
type AuthService interface {
	// Register creates a new user with secure password hashing.
	Register(ctx context.Context, email, password, name string) (userID uuid.UUID, err error)
	// Login authenticates the user and issues a session token.
	Login(ctx context.Context, email, password string) (tokens model.Tokens, user model.User, err error)
	// Verify validates a session token and returns the bound user id.
	Verify(token string) (uuid.UUID, error)
	// GetUser loads the account behind a verified token.
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL}
}

// Register creates a new user record with a per-user salt. The plaintext
// password never reaches the repository.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, name string) (uuid.UUID, error) {
	if email == "" || password == "" {
		return uuid.Nil, errors.New("empty email/password")
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}
	salt, err := pkgcrypto.NewSalt()
	if err != nil {
		return uuid.Nil, err
	}

	u := &model.User{
		ID:       uid,
		Email:    email,
		Name:     name,
		PwdHash:  pkgcrypto.HashPassword([]byte(password), salt),
		SaltAuth: salt,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return uuid.Nil, err
	}
	return uid, nil
}

// Login authenticates by email and password. A missing account surfaces as
// ErrNotFound and a hash mismatch as ErrUnauthorized; callers that face the
// network are expected to collapse both into one response.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (model.Tokens, model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Tokens{}, model.User{}, errs.ErrNotFound
		}
		return model.Tokens{}, model.User{}, err
	}
	if !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		return model.Tokens{}, model.User{}, errs.ErrUnauthorized
	}

	access, exp, err := s.issueAccessToken(u.ID)
	if err != nil {
		return model.Tokens{}, model.User{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, *u, nil
}

// issueAccessToken creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) issueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	return signed, exp, err
}

// Verify parses and validates a session token. Any defect — bad signature,
// wrong algorithm, expiry, malformed subject — maps to ErrInvalidToken.
func (s *AuthServiceImpl) Verify(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errs.ErrInvalidToken
		}
		return s.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, errs.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, errs.ErrInvalidToken
	}
	uid, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.ErrInvalidToken
	}
	return uid, nil
}

// GetUser loads a user by id.
func (s *AuthServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	return *u, nil
}
