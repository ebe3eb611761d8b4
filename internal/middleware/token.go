package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stockdesk/internal/apiclient"
)

// TokenCookie moves the caller's bearer token into the request context so
// services can forward it upstream. The token comes from the named cookie, or
// from an Authorization header for non-browser clients. Requests without one
// are rejected before any upstream call.
func TokenCookie(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			token = bearer(c.GetHeader("Authorization"))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "authentication required"},
			})
			return
		}
		c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), token))
		c.Next()
	}
}

func bearer(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
