package middleware

import (
	"net/http"
	"strconv"

	"wavechat/internal/redis"
	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// APIRateLimitMiddleware limits versioned-API calls per principal.
// Must run after the auth middleware that attaches the principal: an
// API-key caller gets one window per key, a session caller one per
// user. Without a principal the window keys on the client IP.
func APIRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.ClientIP()
		if p, ok := services.PrincipalFromContext(c.Request.Context()); ok {
			if p.APIKeyID.Valid {
				subject = p.APIKeyID.UUID.String()
			} else {
				subject = p.UserID.String()
			}
		}

		result, err := limiter.AllowAPICall(c.Request.Context(), subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.APIError{
				Message: "rate limit error",
				Code:    "INTERNAL_ERROR",
			})
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, httpdto.APIError{
				Message: "rate limit exceeded",
				Code:    "RATE_LIMITED",
			})
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}
