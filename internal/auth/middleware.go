package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxIdentity = "auth_identity"

// RequireAuth validates the bearer token and stores the caller's identity in
// the request context. Requests without a valid token are rejected with 401.
func RequireAuth(ts *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		ident, err := ts.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxIdentity, ident)
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid token is present but never
// rejects the request. Used on read endpoints that are open to anyone.
func OptionalAuth(ts *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if ident, err := ts.Validate(token); err == nil {
				c.Set(ctxIdentity, ident)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated identity, or nil for anonymous
// requests.
func CurrentUser(c *gin.Context) *Identity {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return nil
	}
	ident, ok := v.(*Identity)
	if !ok {
		return nil
	}
	return ident
}

// Owns is the single ownership predicate applied before every mutation:
// the caller must be authenticated and match the resource's owning user.
func Owns(ident *Identity, ownerID int64) bool {
	return ident != nil && ident.UserID == ownerID
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
