package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/clinic-auth/internal/models"
	"github.com/harentsoaR/clinic-auth/internal/services"
	"github.com/harentsoaR/clinic-auth/internal/store"
)

func TestMe(t *testing.T) {
	principal := services.Principal{ID: testUserID, Role: models.UserTypeDoctor}

	t.Run("returns the caller's profile without secrets", func(t *testing.T) {
		user := testUser(t, "password123")
		dir := &mockDirectory{
			FindByIDFunc: func(id string) (*models.User, error) {
				assert.Equal(t, testUserID, id)
				return user, nil
			},
		}
		h := NewHandler(dir, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodGet, "/api/me", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "jane@clinic.test", resp["email"])
		assert.NotContains(t, w.Body.String(), user.PasswordHash,
			"password digest must never leave the service")
	})

	t.Run("deactivated account reads as missing", func(t *testing.T) {
		dir := &mockDirectory{
			FindByIDFunc: func(id string) (*models.User, error) { return nil, store.ErrNotFound },
		}
		h := NewHandler(dir, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodGet, "/api/me", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateMe(t *testing.T) {
	principal := services.Principal{ID: testUserID, Role: models.UserTypeDoctor}

	t.Run("updates only the fields present", func(t *testing.T) {
		updated := map[string]any{}
		dir := &mockDirectory{
			UpdateProfileFieldFunc: func(userID, field string, value any) (bool, error) {
				assert.Equal(t, testUserID, userID)
				updated[field] = value
				return true, nil
			},
		}
		h := NewHandler(dir, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodPut, "/api/me", map[string]any{
			"phone": "555-0199",
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"phone": "555-0199"}, updated)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		h := NewHandler(&mockDirectory{}, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodPut, "/api/me", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing account is 404", func(t *testing.T) {
		dir := &mockDirectory{
			UpdateProfileFieldFunc: func(userID, field string, value any) (bool, error) {
				return false, nil
			},
		}
		h := NewHandler(dir, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodPut, "/api/me", map[string]any{"phone": "555-0199"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListUsers(t *testing.T) {
	principal := services.Principal{ID: testUserID, Role: models.UserTypeAdmin}

	t.Run("returns live users with total", func(t *testing.T) {
		user := testUser(t, "password123")
		dir := &mockDirectory{
			ListFunc:  func() ([]models.User, error) { return []models.User{*user}, nil },
			CountFunc: func() (int64, error) { return 1, nil },
		}
		h := NewHandler(dir, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodGet, "/api/users", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Users []models.User `json:"users"`
			Total int64         `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Users, 1)
		assert.Equal(t, int64(1), resp.Total)
	})

	t.Run("no accounts yields an empty list, not null", func(t *testing.T) {
		h := NewHandler(&mockDirectory{}, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodGet, "/api/users", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"users":[]`)
	})

	t.Run("store outage is 503", func(t *testing.T) {
		dir := &mockDirectory{
			ListFunc: func() ([]models.User, error) { return nil, store.ErrUnavailable },
		}
		h := NewHandler(dir, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodGet, "/api/users", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestDeactivateUser(t *testing.T) {
	principal := services.Principal{ID: testUserID, Role: models.UserTypeAdmin}

	t.Run("soft-deletes and records the acting admin", func(t *testing.T) {
		var gotID, gotActor string
		dir := &mockDirectory{
			DeactivateFunc: func(userID, actor string) (bool, error) {
				gotID, gotActor = userID, actor
				return true, nil
			},
		}
		h := NewHandler(dir, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodDelete, "/api/users/64b0c1f2a1b2c3d4e5f60799", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "64b0c1f2a1b2c3d4e5f60799", gotID)
		assert.Equal(t, testUserID, gotActor)
	})

	t.Run("already-deleted or unknown user is 404", func(t *testing.T) {
		dir := &mockDirectory{
			DeactivateFunc: func(userID, actor string) (bool, error) { return false, nil },
		}
		h := NewHandler(dir, &mockIssuer{}, &mockRegistry{})
		r := setupRouter(h, &principal)

		w := doJSON(t, r, http.MethodDelete, "/api/users/64b0c1f2a1b2c3d4e5f60799", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
