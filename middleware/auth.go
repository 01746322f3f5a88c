package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	auth "github.com/phillip/eventmate-go/auth"
)

const identityKey = "identity"

// Auth requires a "Bearer <credential>" Authorization header, decodes it
// and stores the resulting identity on the request context.
func Auth(decoder auth.Decoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		ident, err := decoder.Decode(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by Auth, or false when the
// route ran without it.
func CurrentIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	ident, ok := v.(*auth.Identity)
	return ident, ok
}
