// Package services implements the account directory, the access-token
// issuer, and the refresh-token registry on top of the document store.
package services

import "errors"

var (
	// ErrDuplicateAccount is returned when a signup email is already taken,
	// including by a soft-deleted account.
	ErrDuplicateAccount = errors.New("an account with this email already exists")

	// ErrInvalidCredentials is returned on login when email or password is
	// wrong. It never reveals which of the two failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when a presented token fails signature
	// verification or names a signing algorithm other than the configured
	// one.
	ErrInvalidToken = errors.New("invalid token")
)
