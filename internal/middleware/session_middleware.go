package middleware

import (
	"strings"

	"wavechat/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Cookie names and lifetimes for the session pair.
const (
	AccessTokenCookie  = "sb-access-token"
	RefreshTokenCookie = "sb-refresh-token"

	AccessTokenMaxAge  = 7 * 24 * 60 * 60
	RefreshTokenMaxAge = 30 * 24 * 60 * 60
)

// SessionMiddleware resolves the session once per request and attaches
// (user, session) to the request context. A failed lookup means "no
// session", never a failed request; guards downstream decide whether
// absence is fatal for their route.
func SessionMiddleware(service *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := service.ParseAccessToken(token)
		if err != nil {
			c.Next()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}
		sessionID, err := uuid.Parse(claims.SessionID)
		if err != nil {
			c.Next()
			return
		}

		if _, err := service.ValidateSession(c.Request.Context(), sessionID, userID); err != nil {
			c.Next()
			return
		}

		ctx := services.WithUserSession(c.Request.Context(), userID, sessionID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// sessionToken prefers the auth cookie and falls back to a bearer header.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	return extractBearer(c)
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
