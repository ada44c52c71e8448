package handler

import (
	"net/http"

	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"
	wave_errors "wavechat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type APIKeyHandler struct {
	service *services.APIKeyService
}

func NewAPIKeyHandler(service *services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{service: service}
}

type createKeyRequest struct {
	Name   string   `json:"name"`
	Scopes []string `json:"scopes"`
}

type createKeyResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Key    string   `json:"key"`
	Scopes []string `json:"scopes"`
}

// Create issues a new API key. The raw key appears in this response and
// nowhere else; only its hash is stored.
func (h *APIKeyHandler) Create(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	var req createKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	key, raw, err := h.service.Generate(c.Request.Context(), userID, req.Name, req.Scopes)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(createKeyResponse{
		ID:     key.ID.String(),
		Name:   key.Name,
		Key:    raw,
		Scopes: req.Scopes,
	}))
}

func (h *APIKeyHandler) Revoke(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, wave_errors.ErrNotFound)
		return
	}

	if err := h.service.Revoke(c.Request.Context(), userID, keyID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
