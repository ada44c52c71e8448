package handler

import (
	"net/http"

	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"
	wave_errors "wavechat/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OutputHandler struct {
	service   *services.OutputService
	analytics *services.AnalyticsService
}

func NewOutputHandler(service *services.OutputService, analytics *services.AnalyticsService) *OutputHandler {
	return &OutputHandler{service: service, analytics: analytics}
}

func (h *OutputHandler) CreateV1(c *gin.Context) {
	principal, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		failV1(c, wave_errors.ErrUnauthorized)
		return
	}

	var req httpdto.CreateOutputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failV1(c, wave_errors.ErrInvalidInput)
		return
	}

	res, err := h.service.Create(c.Request.Context(), services.CreateOutputInput{
		OwnerID:  principal.UserID,
		Name:     req.Name,
		Schema:   req.Schema,
		Document: req.Document,
	})
	if err != nil {
		failV1(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.FromOutput(res))
}

func (h *OutputHandler) GetV1(c *gin.Context) {
	outputID, principal, ok := h.outputAndPrincipal(c)
	if !ok {
		return
	}

	item, err := h.service.GetOwned(c.Request.Context(), outputID, principal.UserID)
	if err != nil {
		failV1(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.FromOutput(item))
}

func (h *OutputHandler) ListVersionsV1(c *gin.Context) {
	outputID, principal, ok := h.outputAndPrincipal(c)
	if !ok {
		return
	}

	items, err := h.service.ListVersions(c.Request.Context(), outputID, principal.UserID)
	if err != nil {
		failV1(c, err)
		return
	}

	versions := make([]httpdto.VersionResponse, 0, len(items))
	for _, v := range items {
		versions = append(versions, httpdto.FromVersion(v))
	}
	c.JSON(http.StatusOK, httpdto.NewListEnvelope(versions, int64(len(versions)), len(versions), 0))
}

// RestoreV1 re-instates a historical version as the new head. Reachable
// with either an API key carrying the write scope or a browser session;
// the result is the same whichever path authorized it.
func (h *OutputHandler) RestoreV1(c *gin.Context) {
	outputID, principal, ok := h.outputAndPrincipal(c)
	if !ok {
		return
	}

	var req httpdto.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failV1(c, wave_errors.ErrInvalidInput)
		return
	}

	version, err := h.service.Restore(c.Request.Context(), outputID, principal.UserID, req.Version)
	if err != nil {
		failV1(c, err)
		return
	}

	h.analytics.TrackActivity(c.Request.Context(), principal.UserID, "output.restored", "structured_output", outputID.String(), "")
	c.JSON(http.StatusOK, httpdto.FromVersion(version))
}

func (h *OutputHandler) outputAndPrincipal(c *gin.Context) (uuid.UUID, services.Principal, bool) {
	principal, ok := services.PrincipalFromContext(c.Request.Context())
	if !ok {
		failV1(c, wave_errors.ErrUnauthorized)
		return uuid.Nil, services.Principal{}, false
	}
	outputID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		failV1(c, wave_errors.ErrNotFound)
		return uuid.Nil, services.Principal{}, false
	}
	return outputID, principal, true
}
