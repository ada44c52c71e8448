package handler

import (
	"net/http"

	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"
	wave_errors "wavechat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FileHandler struct {
	service   *services.FileService
	analytics *services.AnalyticsService
}

func NewFileHandler(service *services.FileService, analytics *services.AnalyticsService) *FileHandler {
	return &FileHandler{service: service, analytics: analytics}
}

// Upload accepts a multipart form: the file itself plus optional bucket,
// path prefix and chat association.
func (h *FileHandler) Upload(c *gin.Context) {
	ownerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		fail(c, wave_errors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}

	var chatID uuid.NullUUID
	if raw := c.PostForm("chat_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			fail(c, wave_errors.ErrInvalidInput)
			return
		}
		chatID = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	src, err := fileHeader.Open()
	if err != nil {
		fail(c, wave_errors.ErrInvalidInput)
		return
	}
	defer src.Close()

	res, err := h.service.Upload(c.Request.Context(), services.UploadInput{
		OwnerID:     ownerID,
		ChatID:      chatID,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Bucket:      c.PostForm("bucket"),
		Path:        c.PostForm("path"),
		Body:        src,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.analytics.TrackActivity(c.Request.Context(), ownerID, "file.uploaded", "file", res.ID.String(), "")
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromFile(res)))
}

// ListV1 serves GET /api/v1/files. With stats=true the response is the
// aggregate view instead of a page; aggregates ignore pagination params.
func (h *FileHandler) ListV1(c *gin.Context) {
	principal, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		failV1(c, wave_errors.ErrUnauthorized)
		return
	}

	if c.Query("stats") == "true" {
		stats, err := h.service.Stats(c.Request.Context(), principal.UserID)
		if err != nil {
			failV1(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
		return
	}

	limit, offset := pageParams(c)
	items, total, err := h.service.List(c.Request.Context(), principal.UserID, limit, offset)
	if err != nil {
		failV1(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewListEnvelope(httpdto.FromFileSlice(items), total, limit, offset))
}

func (h *FileHandler) GetV1(c *gin.Context) {
	fileID, principal, ok := h.fileAndPrincipal(c)
	if !ok {
		return
	}

	item, err := h.service.GetOwned(c.Request.Context(), fileID, principal.UserID)
	if err != nil {
		failV1(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.FromFile(item))
}

func (h *FileHandler) DeleteV1(c *gin.Context) {
	fileID, principal, ok := h.fileAndPrincipal(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), fileID, principal.UserID); err != nil {
		failV1(c, err)
		return
	}

	h.analytics.TrackActivity(c.Request.Context(), principal.UserID, "file.deleted", "file", fileID.String(), "")
	c.Status(http.StatusNoContent)
}

// ExtractV1 returns the extracted text of a processed file. Files that
// have not finished processing are an invalid-input failure, not a miss.
func (h *FileHandler) ExtractV1(c *gin.Context) {
	fileID, principal, ok := h.fileAndPrincipal(c)
	if !ok {
		return
	}

	text, err := h.service.ExtractText(c.Request.Context(), fileID, principal.UserID)
	if err != nil {
		failV1(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.ExtractResponse{ID: fileID.String(), Text: text})
}

func (h *FileHandler) fileAndPrincipal(c *gin.Context) (uuid.UUID, services.Principal, bool) {
	principal, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		failV1(c, wave_errors.ErrUnauthorized)
		return uuid.Nil, services.Principal{}, false
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failV1(c, wave_errors.ErrNotFound)
		return uuid.Nil, services.Principal{}, false
	}
	return fileID, principal, true
}
