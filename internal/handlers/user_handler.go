package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-auth/internal/middleware"
	"github.com/harentsoaR/clinic-auth/internal/store"
)

// Me returns the profile of the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.Accounts.FindByID(c.Request.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(storeStatus(err), gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe lets a user change their own profile fields. Only the fields
// present in the request are touched.
func (h *Handler) UpdateMe(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Phone     *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["lastName"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No update fields provided"})
		return
	}

	for field, value := range updates {
		matched, err := h.Accounts.UpdateProfileField(c.Request.Context(), principal.ID, field, value)
		if err != nil {
			c.JSON(storeStatus(err), gin.H{"error": "Failed to update profile"})
			return
		}
		if !matched {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// ListUsers returns every live account with a total count. Admin only;
// the route guards with middleware.RequireAdmin.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Accounts.List(c.Request.Context())
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "Failed to list users"})
		return
	}
	total, err := h.Accounts.Count(c.Request.Context())
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// DeactivateUser soft-deletes an account. The record stays behind its
// deletion markers and disappears from all live reads.
func (h *Handler) DeactivateUser(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	matched, err := h.Accounts.Deactivate(c.Request.Context(), c.Param("id"), principal.ID)
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "Failed to deactivate user"})
		return
	}
	if !matched {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}
