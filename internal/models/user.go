package models

import (
	"database/sql"
	"time"
)

// AuthProviderGoogle marks accounts that must sign in through Google.
const AuthProviderGoogle = "google"

// User mirrors a row of the users table.
type User struct {
	UserID               int64          `db:"user_id" json:"userId"`
	Username             string         `db:"username" json:"username"`
	Email                string         `db:"email" json:"email"`
	PasswordHash         string         `db:"password_hash" json:"-"`
	FullName             string         `db:"full_name" json:"fullName"`
	Role                 string         `db:"role" json:"role"`
	IsActive             bool           `db:"is_active" json:"isActive"`
	AuthProviderRequired sql.NullString `db:"auth_provider_required" json:"-"`
	LastLogin            *time.Time     `db:"last_login" json:"lastLogin,omitempty"`
}

// RequiresProvider reports whether the account is pinned to the named external provider.
func (u *User) RequiresProvider(provider string) bool {
	return u.AuthProviderRequired.Valid && u.AuthProviderRequired.String == provider
}
