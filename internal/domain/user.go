package domain

import (
	"strings"
	"time"
)

// Role is the access level of a user
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleVendeur Role = "VENDEUR"
	RoleClient  Role = "CLIENT"
)

// ParseRole normalises a role name; unknown names are returned as-is, upper-cased.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// CanCreateSale reports whether a user with the given role may record sales.
func CanCreateSale(role Role) bool {
	switch role {
	case RoleAdmin, RoleVendeur:
		return true
	default:
		return false
	}
}

// User represents an account of the platform
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
