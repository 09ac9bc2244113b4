package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/brokersim/backend/internal/apperrors"
	"github.com/brokersim/backend/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// InsertUser stores a new user. A unique constraint violation on username or
// email is reported as apperrors.ErrDuplicateUser.
func (r *UserRepository) InsertUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO user (id, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.ErrDuplicateUser
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves a user by username.
// Returns apperrors.ErrUserNotFound if no such user exists.
func (r *UserRepository) GetUserByUsername(username string) (model.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM user
		WHERE username = ?
	`

	return r.scanUser(r.db.QueryRow(query, username))
}

// GetUserByID retrieves a user by ID.
// Returns apperrors.ErrUserNotFound if no such user exists.
func (r *UserRepository) GetUserByID(userID string) (model.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM user
		WHERE id = ?
	`

	return r.scanUser(r.db.QueryRow(query, userID))
}

func (r *UserRepository) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var createdAtStr string

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user row: %w", err)
	}

	u.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.User{}, err
	}

	return u, nil
}
