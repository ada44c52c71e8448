package handler

import (
	"net/http"

	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"
	wave_errors "wavechat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PageHandler assembles the data bags behind full page loads. The
// rendering layer lives elsewhere; these endpoints return everything a
// page needs in one round trip.
type PageHandler struct {
	chats     *services.ChatService
	outputs   *services.OutputService
	analytics *services.AnalyticsService
}

func NewPageHandler(chats *services.ChatService, outputs *services.OutputService, analytics *services.AnalyticsService) *PageHandler {
	return &PageHandler{chats: chats, outputs: outputs, analytics: analytics}
}

func (h *PageHandler) Dashboard(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	stats, err := h.analytics.Dashboard(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	recent, _, err := h.chats.List(c.Request.Context(), userID, 10, 0)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{
		"stats":        stats,
		"recent_chats": httpdto.FromChatSlice(recent),
	}))
}

func (h *PageHandler) ChatPage(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, wave_errors.ErrNotFound)
		return
	}

	details, err := h.chats.Details(c.Request.Context(), chatID, userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ChatDetailsResponse{
		Chat:     httpdto.FromChat(details.Chat),
		Messages: httpdto.FromMessageSlice(details.Messages),
		Files:    httpdto.FromFileSlice(details.Files),
	}))
}

// DeveloperSchemas lists the user's structured outputs with a validity
// flag per schema.
func (h *PageHandler) DeveloperSchemas(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	outputs, err := h.outputs.List(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	type schemaEntry struct {
		httpdto.OutputResponse
		SchemaValid bool `json:"schema_valid"`
	}

	entries := make([]schemaEntry, 0, len(outputs))
	for _, o := range outputs {
		entries = append(entries, schemaEntry{
			OutputResponse: httpdto.FromOutput(o),
			SchemaValid:    services.SchemaLooksValid(o.Schema),
		})
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"schemas": entries}))
}
