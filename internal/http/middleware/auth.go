package middleware

import (
	"net/http"
	"strings"

	"todo_store/internal/service"

	"github.com/gin-gonic/gin"
)

const SubjectKey = "token_subject"

// RequireToken checks the bearer token on the request. A nil issuer lets
// every request through.
func RequireToken(issuer *service.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if issuer == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		sub, err := issuer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(SubjectKey, sub)
		c.Next()
	}
}
