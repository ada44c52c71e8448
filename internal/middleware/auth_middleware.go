package middleware

import (
	"net/http"
	"net/url"

	wave_errors "wavechat/pkg/errors"
	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects API requests without a resolved session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := services.UserIDFromContext(c.Request.Context()); !ok {
			err := wave_errors.ErrUnauthorized
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				httpdto.NewErrorResponse(err.Error(), wave_errors.Code(err)))
			return
		}
		c.Next()
	}
}

// RequireAuthPage guards full page loads: anonymous visitors are sent to
// the login page with the original path preserved so they land back
// where they started after signing in.
func RequireAuthPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := services.UserIDFromContext(c.Request.Context()); !ok {
			params := url.Values{}
			params.Set("error", "Please log in to continue")
			params.Set("redirectTo", c.Request.URL.Path)
			c.Redirect(http.StatusFound, "/auth/login?"+params.Encode())
			c.Abort()
			return
		}
		c.Next()
	}
}
