package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/harentsoaR/clinic-auth/internal/store"
)

// refreshTokenStore is the slice of the account directory the registry
// needs: a projection read of the token set and the two atomic array
// deltas.
type refreshTokenStore interface {
	RefreshTokensByID(ctx context.Context, userID string) ([]string, error)
	SwapRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error)
	RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error)
}

// RefreshTokenRegistry owns the per-user set of valid refresh tokens. A
// refresh token has no identity of its own; it is valid exactly while it
// sits in the owning user's set.
type RefreshTokenRegistry struct {
	store refreshTokenStore
}

func NewRefreshTokenRegistry(store refreshTokenStore) *RefreshTokenRegistry {
	return &RefreshTokenRegistry{store: store}
}

// Rotate registers newToken for the user, retiring oldToken when one is
// supplied. A fresh login passes an empty oldToken and appends; other
// outstanding tokens are preserved either way. The whole delta runs as one
// atomic document update, so concurrent rotations for the same user cannot
// drop each other's tokens.
func (r *RefreshTokenRegistry) Rotate(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	if newToken == "" {
		return false, fmt.Errorf("refresh token must not be empty")
	}
	return r.store.SwapRefreshToken(ctx, userID, oldToken, newToken)
}

// Revoke removes token from the user's set. Revoking a token that is
// already gone, or for a user that no longer exists, is a successful
// idempotent no-op.
func (r *RefreshTokenRegistry) Revoke(ctx context.Context, userID, token string) (bool, error) {
	existing, err := r.store.RefreshTokensByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	if !slices.Contains(existing, token) {
		return true, nil
	}
	return r.store.RemoveRefreshToken(ctx, userID, token)
}

// IsRegistered reports whether token is currently valid for the user.
func (r *RefreshTokenRegistry) IsRegistered(ctx context.Context, userID, token string) (bool, error) {
	existing, err := r.store.RefreshTokensByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return slices.Contains(existing, token), nil
}
