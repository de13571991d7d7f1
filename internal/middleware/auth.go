package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-auth/internal/models"
	"github.com/harentsoaR/clinic-auth/internal/services"
)

// AccessTokenParser validates a presented bearer token with full claim
// validation, lifetime included.
type AccessTokenParser interface {
	ParseAccessToken(token string) (services.Principal, error)
}

const principalKey = "principal"

// Auth validates the Authorization bearer token and stores the typed
// principal in the request context for handlers to read.
func Auth(tokens AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		principal, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// SetPrincipal attaches the authenticated principal to the request
// context. Auth calls it after validating a token.
func SetPrincipal(c *gin.Context, p services.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the authenticated principal stored by Auth.
func PrincipalFrom(c *gin.Context) (services.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return services.Principal{}, false
	}
	p, ok := v.(services.Principal)
	return p, ok
}

// RequireAdmin rejects requests whose principal is not an administrator.
// It must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || (p.Role != models.UserTypeAdmin && p.Role != models.UserTypeSuperAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
			return
		}
		c.Next()
	}
}
