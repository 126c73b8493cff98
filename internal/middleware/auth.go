package middleware

import (
	"net/http"
	"strings"

	"github.com/aman-churiwal/root-panel/internal/handler"
	"github.com/aman-churiwal/root-panel/internal/service"
	"github.com/gin-gonic/gin"
)

// Validates the root JWT and requires authentication. The token is read from
// the Authorization header (with or without a Bearer prefix) or, failing
// that, from the panel cookie.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			handler.RespondError(c, http.StatusUnauthorized, "Authorization required")
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			handler.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Store root info in context
		c.Set("root_id", claims["root_id"])
		c.Set("email", claims["email"])

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		scheme, token, found := strings.Cut(authHeader, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return authHeader
	}

	if cookie, err := c.Cookie(handler.AuthCookie); err == nil {
		return cookie
	}

	return ""
}
