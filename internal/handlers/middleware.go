package handlers

import (
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

type TokenParser interface {
	Parse(token string) (*services.UserIdentity, error)
}

// AuthMiddleware validates the bearer token and stores the identity in the
// gin context.
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing bearer token",
				"kind":  apperr.KindUnauthorized.String(),
			})
			return
		}
		identity, err := parser.Parse(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		identity := currentUser(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if _, ok := allowed[identity.Role]; !ok && len(allowed) > 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *services.UserIdentity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*services.UserIdentity)
	return identity
}
