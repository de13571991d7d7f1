// Package handlers is the thin HTTP layer over the account directory, the
// token issuer, and the refresh-token registry. Handlers translate typed
// domain outcomes to status codes and stable, non-leaking messages; no
// correctness logic lives here.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/harentsoaR/clinic-auth/internal/models"
	"github.com/harentsoaR/clinic-auth/internal/services"
	"github.com/harentsoaR/clinic-auth/internal/store"
)

// AccountDirectory is the slice of the account service the handlers use.
type AccountDirectory interface {
	Exists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (string, error)
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfileField(ctx context.Context, userID, field string, value any) (bool, error)
	Deactivate(ctx context.Context, userID, actor string) (bool, error)
}

// TokenIssuer mints access/refresh tokens and reads claims from expired
// access tokens during the refresh exchange.
type TokenIssuer interface {
	IssueAccessToken(p services.Principal) (string, error)
	IssueRefreshToken() (string, error)
	ParseExpiredAccessToken(token string) (services.Principal, error)
}

// TokenRegistry tracks which refresh tokens are outstanding per user.
type TokenRegistry interface {
	Rotate(ctx context.Context, userID, oldToken, newToken string) (bool, error)
	Revoke(ctx context.Context, userID, token string) (bool, error)
	IsRegistered(ctx context.Context, userID, token string) (bool, error)
}

type Handler struct {
	Accounts AccountDirectory
	Tokens   TokenIssuer
	Registry TokenRegistry
}

func NewHandler(accounts AccountDirectory, tokens TokenIssuer, registry TokenRegistry) *Handler {
	return &Handler{
		Accounts: accounts,
		Tokens:   tokens,
		Registry: registry,
	}
}

// storeStatus maps a store failure to its HTTP status. Backend outages are
// 503 so clients can tell them from bugs.
func storeStatus(err error) int {
	if errors.Is(err, store.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
