package middleware

import (
	"context"

	wave_errors "wavechat/pkg/errors"
	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware authenticates programmatic requests with a bearer API
// key, enforces the given scope, and records one usage row per request
// after the response is written. Usage tracking must never change the
// outcome of the request it records.
func APIKeyMiddleware(keys *services.APIKeyService, analytics *services.AnalyticsService, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractBearer(c)
		if raw == "" {
			abortV1(c, wave_errors.ErrUnauthorized)
			return
		}

		principal, err := keys.Resolve(c.Request.Context(), raw)
		if err != nil {
			abortV1(c, err)
			return
		}
		if !services.HasScope(principal, scope) {
			abortV1(c, wave_errors.ErrForbidden)
			return
		}

		ctx := services.WithPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		trackCtx := context.WithoutCancel(c.Request.Context())
		analytics.TrackAPIUsage(trackCtx, principal, c.FullPath(), c.Request.Method, c.Writer.Status())
	}
}

// APIKeyOrSession accepts either auth mode on the same route: a bearer
// header selects the API-key path with its scope check, otherwise a
// browser session resolved upstream is enough. Both modes converge on a
// Principal so handlers never branch on how the caller authenticated.
func APIKeyOrSession(keys *services.APIKeyService, analytics *services.AnalyticsService, scope string) gin.HandlerFunc {
	apiKey := APIKeyMiddleware(keys, analytics, scope)
	return func(c *gin.Context) {
		if extractBearer(c) != "" {
			apiKey(c)
			return
		}

		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			abortV1(c, wave_errors.ErrUnauthorized)
			return
		}

		ctx := services.WithPrincipal(c.Request.Context(), services.Principal{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortV1(c *gin.Context, err error) {
	c.AbortWithStatusJSON(wave_errors.HTTPStatus(err), httpdto.APIError{
		Message: err.Error(),
		Code:    wave_errors.Code(err),
	})
}
