package auth

import "printhub/internal/errors"

var (
	// ErrInvalidCredentials deliberately does not distinguish a missing
	// account from a wrong password.
	ErrInvalidCredentials = errors.Unauthorized("INVALID_CREDENTIALS",
		"invalid credentials")
	ErrInvalidRefreshToken = errors.Unauthorized("INVALID_REFRESH_TOKEN",
		"invalid or expired refresh token")
	ErrAccountBlocked = errors.Unauthorized("ACCOUNT_BLOCKED",
		"account is blocked")

	ErrEmailTaken = errors.StateConflict("EMAIL_TAKEN",
		"email is already registered")
	ErrPhoneTaken = errors.StateConflict("PHONE_TAKEN",
		"phone number is already registered")
)
