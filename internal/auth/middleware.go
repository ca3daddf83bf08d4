package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ojlab/judged/internal/store"
)

const ctxKey = "user"

// Middleware verifies the bearer token and sets the resolved user in the
// request context. Guarded handlers never run without one.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := v.Verify(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenMissing):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is missing!"})
			case errors.Is(err, ErrTokenInvalid):
				log.Printf("auth: rejected token: %v", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is invalid!"})
			default:
				log.Printf("auth: lookup error: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.Set(ctxKey, user)
		c.Next()
	}
}

// FromContext retrieves the authenticated user from the Gin context.
func FromContext(c *gin.Context) *store.User {
	u, _ := c.Get(ctxKey)
	user, _ := u.(*store.User)
	return user
}
