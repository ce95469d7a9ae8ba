package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/skybooking/internal/identity"
	"github.com/gin-gonic/gin"
)

const accountIDKey = "account_id"

// RequireAuth rejects requests without a resolvable bearer token.
func RequireAuth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := resolveAccount(c, resolver)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "not authorized"})
			return
		}
		c.Set(accountIDKey, id)
		c.Next()
	}
}

// OptionalAuth resolves the account when a token is present and lets the
// request through either way. Unauthenticated callers get neutral pricing.
func OptionalAuth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := resolveAccount(c, resolver); ok {
			c.Set(accountIDKey, id)
		}
		c.Next()
	}
}

func resolveAccount(c *gin.Context, resolver identity.Resolver) (int64, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return 0, false
	}
	id, err := resolver.Resolve(c.Request.Context(), parts[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

func accountID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(accountIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
