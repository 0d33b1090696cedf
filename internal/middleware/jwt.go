package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/internal-hackathon-7/int-hack-7/internal/auth"
)

// IdentityKey is where authenticated handlers find the *auth.Identity.
const IdentityKey = "identity"

// SessionAuth validates the session token on HTTP routes. The token comes
// from the Authorization header or, for browser requests, the
// session_token cookie the OAuth callback sets.
func SessionAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Not logged in",
			})
			return
		}

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid session",
			})
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// BearerToken extracts the session token from a request, preferring the
// Authorization header over the session cookie.
func BearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie("session_token"); err == nil {
		return cookie
	}
	return ""
}

// CallerIdentity pulls the verified identity a SessionAuth middleware
// stored on the context.
func CallerIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok
}
