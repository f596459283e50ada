// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elibest/inventory-backend/internal/services"
)

// AuthRequired gates every protected view. The check is the full gate,
// not just token parsing: a valid token whose principal has dropped off
// the allow-list is revoked by CheckSession before the 401 goes out.
func AuthRequired(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := auth.CheckSession(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
			})
			c.Abort()
			return
		}

		// Set principal info in context
		c.Set("account_id", claims.AccountID)
		c.Set("email", claims.Email)
		c.Set("token", token)
		c.Next()
	}
}

// extractToken reads "Authorization: Bearer <token>", falling back to a
// token query parameter for EventSource clients, which cannot set
// request headers.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

func GetTokenFromContext(c *gin.Context) (string, bool) {
	if token, exists := c.Get("token"); exists {
		if tokenStr, ok := token.(string); ok {
			return tokenStr, true
		}
	}
	return "", false
}
