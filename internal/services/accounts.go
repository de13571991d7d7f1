package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/clinic-auth/internal/models"
	"github.com/harentsoaR/clinic-auth/internal/store"
)

const refreshTokensField = "refreshTokens"

// AccountService is the domain-typed facade over the user collection.
// Every email crossing this boundary is normalized, so uniqueness and
// lookups are case-insensitive end to end.
type AccountService struct {
	users *store.Collection[models.User]
}

func NewAccountService(users *store.Collection[models.User]) *AccountService {
	return &AccountService{users: users}
}

// normalizeEmail lowers and trims an address. Stored emails and lookup
// filters both go through here.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Exists reports whether any account, soft-deleted ones included, holds
// the email. A deleted account keeps its address reserved; reuse requires
// an explicit administrative decision, not a fresh signup.
func (s *AccountService) Exists(ctx context.Context, email string) (bool, error) {
	return s.users.Any(ctx, bson.M{"email": normalizeEmail(email)}, store.IncludeDeleted)
}

// FindByEmail returns the live account holding the email.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetOne(ctx, bson.M{"email": normalizeEmail(email)})
}

// FindByID returns the live account with the given hex identifier. A
// malformed identifier reads as not found.
func (s *AccountService) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	return s.users.GetOne(ctx, bson.M{"_id": oid})
}

// Create inserts a new account and returns its identifier. The duplicate
// check belongs to the caller so it can reject before any write happens.
func (s *AccountService) Create(ctx context.Context, user *models.User) (string, error) {
	user.Email = normalizeEmail(user.Email)
	return s.users.AddOne(ctx, user, user.Email)
}

// RefreshTokensOf returns the registered refresh tokens of the live
// account holding the email, without transferring the rest of the record.
func (s *AccountService) RefreshTokensOf(ctx context.Context, email string) ([]string, error) {
	return store.ProjectOne[[]string](ctx, s.users, bson.M{"email": normalizeEmail(email)}, refreshTokensField)
}

// RefreshTokensByID is RefreshTokensOf keyed by identifier.
func (s *AccountService) RefreshTokensByID(ctx context.Context, userID string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, store.ErrNotFound
	}
	return store.ProjectOne[[]string](ctx, s.users, bson.M{"_id": oid}, refreshTokensField)
}

// SwapRefreshToken atomically replaces oldToken with newToken in the
// user's registered set. An empty oldToken appends.
func (s *AccountService) SwapRefreshToken(ctx context.Context, userID, oldToken, newToken string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, store.ErrNotFound
	}
	return s.users.SwapArrayValue(ctx, bson.M{"_id": oid}, refreshTokensField, oldToken, newToken, userID)
}

// RemoveRefreshToken removes token from the user's registered set.
// Removing an absent token still succeeds.
func (s *AccountService) RemoveRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, store.ErrNotFound
	}
	return s.users.PullArrayValue(ctx, bson.M{"_id": oid}, refreshTokensField, token, userID)
}

// List returns every live account.
func (s *AccountService) List(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx, bson.M{})
}

// Count returns how many live accounts exist.
func (s *AccountService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx, bson.M{}, store.Live)
}

// UpdateProfileField sets one profile field on the account, stamping the
// modification with the acting user.
func (s *AccountService) UpdateProfileField(ctx context.Context, userID, field string, value any) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, store.ErrNotFound
	}
	return s.users.UpdateField(ctx, bson.M{"_id": oid}, field, value, userID)
}

// Deactivate soft-deletes the account. The record stays behind its
// deletion markers and its email stays reserved.
func (s *AccountService) Deactivate(ctx context.Context, userID, actor string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, store.ErrNotFound
	}
	return s.users.SoftDeleteOne(ctx, bson.M{"_id": oid}, actor)
}
