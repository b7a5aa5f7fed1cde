package middleware

import (
	"net/http"
	"strings"

	"finzo/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware verifies bearer tokens issued by the identity service and
// stores the subject under utils.ContextUserIDKey. With an empty secret every
// request passes through untouched.
func JWTAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractSubject(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(utils.ContextUserIDKey, userID)
		c.Next()
	}
}
