package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
)

// UserRepository provides the account lookups used by login.
type UserRepository struct {
	db *database.Client
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *database.Client) *UserRepository {
	return &UserRepository{db: db}
}

// FindActiveByLogin returns the active user whose username or email equals login.
func (r *UserRepository) FindActiveByLogin(ctx context.Context, login string) (*models.User, error) {
	const query = `SELECT user_id, username, email, password_hash, full_name, role, is_active, auth_provider_required, last_login
		FROM users WHERE (username = $1 OR email = $1) AND is_active = TRUE LIMIT 1`
	var user models.User
	if err := r.db.Get(ctx, &user, query, login); err != nil {
		if errors.Is(err, database.ErrNoResult) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return &user, nil
}

// UpdateLastLogin stamps the user's last_login with the database clock.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	const query = `UPDATE users SET last_login = NOW() WHERE user_id = $1`
	if _, err := r.db.Execute(ctx, query, userID); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
