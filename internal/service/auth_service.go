package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/config"
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/repository"
)

// AuthService handles user registration, login and session token handling.
// Tokens are fernet tokens carrying the user ID, verified with a TTL; the
// rest of the backend only ever sees the already-verified user ID.
type AuthService struct {
	userRepo *repository.UserRepository
	keys     []*fernet.Key
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService. When no token key is configured,
// a fresh key is generated, which invalidates outstanding sessions on
// restart.
func NewAuthService(userRepo *repository.UserRepository, cfg config.AuthConfig) (*AuthService, error) {
	var keys []*fernet.Key

	if cfg.TokenKey == "" {
		key := &fernet.Key{}
		if err := key.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate token key: %w", err)
		}
		keys = []*fernet.Key{key}
	} else {
		decoded, err := fernet.DecodeKeys(cfg.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode token key: %w", err)
		}
		keys = decoded
	}

	return &AuthService{
		userRepo: userRepo,
		keys:     keys,
		tokenTTL: cfg.TokenTTL,
	}, nil
}

// Register creates a new user with a bcrypt-hashed password.
// Returns apperrors.ErrDuplicateUser if the username or email is taken.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.InsertUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a session token.
// Returns apperrors.ErrInvalidCredentials on unknown username or wrong
// password, without distinguishing the two.
func (s *AuthService) Login(_ context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := fernet.EncryptAndSign([]byte(user.ID), s.keys[0])
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return string(token), &user, nil
}

// VerifyToken validates a session token and returns the user ID it carries.
// Expired or tampered tokens fail with apperrors.ErrInvalidCredentials.
func (s *AuthService) VerifyToken(token string) (string, error) {
	payload := fernet.VerifyAndDecrypt([]byte(token), s.tokenTTL, s.keys)
	if payload == nil {
		return "", apperrors.ErrInvalidCredentials
	}
	return string(payload), nil
}
