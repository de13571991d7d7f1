package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-auth/internal/middleware"
	"github.com/harentsoaR/clinic-auth/internal/models"
	"github.com/harentsoaR/clinic-auth/internal/services"
	"github.com/harentsoaR/clinic-auth/internal/store"
	"github.com/harentsoaR/clinic-auth/internal/utils"
)

type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
	// Role is accepted but ignored: self-signup accounts are always
	// created as doctors, never with a client-chosen role.
	Role string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Token        string `json:"token" binding:"required"`
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Signup registers a new doctor account. The duplicate check runs before
// any write so a taken email never produces a partial record.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.Accounts.Exists(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "Failed to create user"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrDuplicateAccount.Error()})
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		Type:         models.UserTypeDoctor,
	}

	id, err := h.Accounts.Create(c.Request.Context(), user)
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Login verifies credentials and returns a fresh access/refresh pair. The
// failure message never reveals whether the email or the password was
// wrong.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.Accounts.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidCredentials.Error()})
			return
		}
		c.JSON(storeStatus(err), gin.H{"error": "Login failed"})
		return
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidCredentials.Error()})
		return
	}

	// Fresh login: no old token to retire, the new one is appended
	// alongside any outstanding sessions.
	h.issueTokenPair(c, user, "")
}

// Refresh exchanges an expired access token plus a still-registered
// refresh token for a new pair, rotating the refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	principal, err := h.Tokens.ParseExpiredAccessToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidToken.Error()})
		return
	}

	registered, err := h.Registry.IsRegistered(c.Request.Context(), principal.ID, req.RefreshToken)
	if err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "Refresh failed"})
		return
	}
	if !registered {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidToken.Error()})
		return
	}

	// Re-read the account so rotated claims reflect current state, not the
	// stale token payload.
	user, err := h.Accounts.FindByID(c.Request.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidToken.Error()})
			return
		}
		c.JSON(storeStatus(err), gin.H{"error": "Refresh failed"})
		return
	}

	h.issueTokenPair(c, user, req.RefreshToken)
}

// Logout revokes the presented refresh token for the authenticated user.
// Revoking a token that is already gone still succeeds.
func (h *Handler) Logout(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, err := h.Registry.Revoke(c.Request.Context(), principal.ID, req.RefreshToken); err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// issueTokenPair mints an access/refresh pair for the user and registers
// the refresh token, retiring oldRefreshToken when one was presented.
func (h *Handler) issueTokenPair(c *gin.Context, user *models.User, oldRefreshToken string) {
	principal := services.Principal{
		ID:    user.ID.Hex(),
		Name:  user.FullName(),
		Email: user.Email,
		Role:  user.Type,
	}

	accessToken, err := h.Tokens.IssueAccessToken(principal)
	if err != nil {
		log.Printf("issue access token for %s: %v", principal.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refreshToken, err := h.Tokens.IssueRefreshToken()
	if err != nil {
		log.Printf("issue refresh token for %s: %v", principal.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	if _, err := h.Registry.Rotate(c.Request.Context(), principal.ID, oldRefreshToken, refreshToken); err != nil {
		c.JSON(storeStatus(err), gin.H{"error": "Could not register token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":        accessToken,
		"refreshToken": refreshToken,
	})
}
