package handler

import (
	"strconv"

	wave_errors "wavechat/pkg/errors"
	"wavechat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// fail writes an error on the session-scoped /api surface.
func fail(c *gin.Context, err error) {
	c.JSON(wave_errors.HTTPStatus(err), httpdto.NewErrorResponse(err.Error(), wave_errors.Code(err)))
}

// failV1 writes an error on the versioned /api/v1 surface.
func failV1(c *gin.Context, err error) {
	c.JSON(wave_errors.HTTPStatus(err), httpdto.APIError{
		Message: err.Error(),
		Code:    wave_errors.Code(err),
	})
}

// pageParams reads limit/offset query values, clamped to the same
// bounds the services enforce so list responses echo the page that was
// actually served.
func pageParams(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
