package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role names recognised by the platform. Matching is exact and case-sensitive.
const (
	RoleStudent  = "student"
	RoleObserver = "observer"
	RoleAdmin    = "admin"
	RoleRoot     = "root"
)

// AdminRoles are the roles allowed on the admin endpoints.
var AdminRoles = []string{RoleAdmin, RoleRoot}

// Claims is the decoded session token payload.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest holds credentials; Username may also carry the account email.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse is returned after a successful password login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserInfo  `json:"user"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}
