package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trip-api/utils"
)

// SessionCookieName is the HTTP-only cookie set by POST /auth/verify.
const SessionCookieName = "trip_session"

// RequireSession rejects requests without a valid session cookie.
// There are no users or roles: the cookie only proves the household PIN
// was entered on this browser within the last 30 days.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if err := utils.ValidateSessionToken(token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
