package handler

import (
	"net/http"

	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"
	wave_errors "wavechat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	service   *services.ChatService
	analytics *services.AnalyticsService
}

func NewChatHandler(service *services.ChatService, analytics *services.AnalyticsService) *ChatHandler {
	return &ChatHandler{service: service, analytics: analytics}
}

func (h *ChatHandler) Create(c *gin.Context) {
	var req httpdto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	ownerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	res, err := h.service.Create(c.Request.Context(), services.CreateChatInput{
		OwnerID:      ownerID,
		Title:        req.Title,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.analytics.TrackActivity(c.Request.Context(), ownerID, "chat.created", "chat", res.ID.String(), "")
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromChat(res)))
}

func (h *ChatHandler) List(c *gin.Context) {
	ownerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	limit, offset := pageParams(c)
	items, total, err := h.service.List(c.Request.Context(), ownerID, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ListChatsResponse{
		Chats: httpdto.FromChatSlice(items),
		Total: total,
	}))
}

func (h *ChatHandler) GetByID(c *gin.Context) {
	chatID, ownerID, ok := h.chatAndOwner(c)
	if !ok {
		return
	}

	item, err := h.service.GetOwned(c.Request.Context(), chatID, ownerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromChat(item)))
}

func (h *ChatHandler) Update(c *gin.Context) {
	chatID, ownerID, ok := h.chatAndOwner(c)
	if !ok {
		return
	}

	var req httpdto.UpdateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	item, err := h.service.Update(c.Request.Context(), chatID, ownerID, services.UpdateChatInput{
		Title:        req.Title,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromChat(item)))
}

func (h *ChatHandler) Delete(c *gin.Context) {
	chatID, ownerID, ok := h.chatAndOwner(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), chatID, ownerID); err != nil {
		fail(c, err)
		return
	}

	h.analytics.TrackActivity(c.Request.Context(), ownerID, "chat.deleted", "chat", chatID.String(), "")
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *ChatHandler) AppendMessage(c *gin.Context) {
	chatID, ownerID, ok := h.chatAndOwner(c)
	if !ok {
		return
	}

	var req httpdto.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	msg, err := h.service.AppendMessage(c.Request.Context(), chatID, ownerID, services.AppendMessageInput{
		Role:       req.Role,
		Content:    req.Content,
		Model:      req.Model,
		TokenCount: req.TokenCount,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	chatID, ownerID, ok := h.chatAndOwner(c)
	if !ok {
		return
	}

	items, err := h.service.ListMessages(c.Request.Context(), chatID, ownerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessageSlice(items)))
}

func (h *ChatHandler) ListFiles(c *gin.Context) {
	chatID, ownerID, ok := h.chatAndOwner(c)
	if !ok {
		return
	}

	items, err := h.service.ListFiles(c.Request.Context(), chatID, ownerID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromFileSlice(items)))
}

func (h *ChatHandler) Details(c *gin.Context) {
	chatID, ownerID, ok := h.chatAndOwner(c)
	if !ok {
		return
	}

	details, err := h.service.Details(c.Request.Context(), chatID, ownerID)
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

func (h *ChatHandler) chatAndOwner(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, wave_errors.ErrNotFound)
		return uuid.Nil, uuid.Nil, false
	}
	return chatID, ownerID, true
}
