package handler

import (
	"net/http"
	"time"

	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"
	wave_errors "wavechat/pkg/errors"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service *services.AnalyticsService
}

func NewAnalyticsHandler(service *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Get dispatches on the type query parameter: dashboard, api, storage
// or activity. Unknown types are an invalid request.
func (h *AnalyticsHandler) Get(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	switch c.Query("type") {
	case "dashboard":
		stats, err := h.service.Dashboard(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(stats))

	case "api":
		from, to, err := dateWindow(c)
		if err != nil {
			fail(c, wave_errors.ErrInvalidInput)
			return
		}
		limit, offset := pageParams(c)
		items, total, err := h.service.APIUsage(c.Request.Context(), userID, from, to, limit, offset)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
			"usage": httpdto.FromUsageRecordSlice(items),
			"total": total,
		}))

	case "storage":
		stats, err := h.service.Storage(c.Request.Context(), userID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(stats))

	case "activity":
		limit, offset := pageParams(c)
		items, total, err := h.service.Activity(c.Request.Context(), userID, limit, offset)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
			"activity": httpdto.FromActivityRecordSlice(items),
			"total":    total,
		}))

	default:
		fail(c, wave_errors.ErrInvalidInput)
	}
}

// dateWindow parses start_date/end_date (YYYY-MM-DD) with a default of
// the trailing 30 days. end_date is inclusive.
func dateWindow(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}
