package store

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound reports that no document matched. It is a valid outcome,
	// not a backend failure, and callers can branch on it with errors.Is.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable reports a transport or backend failure. It is always
	// surfaced to the caller; the store never retries.
	ErrUnavailable = errors.New("store unavailable")
)

// wrapErr maps driver errors onto the store taxonomy.
func wrapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
