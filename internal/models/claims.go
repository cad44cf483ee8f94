package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload attached to every authenticated request.
// Role gates privileged operations; the core services receive the acting
// principal explicitly and never read global auth state.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// IsAdmin reports whether the claims carry full admin privileges.
func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsStaffLevel reports whether the claims allow admin-portal access.
func (c *UserClaims) IsStaffLevel() bool {
	return c.Role == RoleAdmin || c.Role == RoleStaff
}
