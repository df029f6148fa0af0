package targeting

import (
	"context"
	"net/http"

	"github.com/aipress24/aipress24-sub001/platform/httpkit"
	"github.com/aipress24/aipress24-sub001/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// NoticeGuard checks that a notice exists and belongs to the actor.
// Implemented by the newsroom notice service.
type NoticeGuard interface {
	AssertOwner(ctx context.Context, noticeID, actorID uuid.UUID) error
}

// Handler handles HTTP requests for the targeting screen.
type Handler struct {
	svc   *Service
	guard NoticeGuard
	val   *validator.Validator
}

// NewHandler creates a targeting handler.
func NewHandler(svc *Service, guard NoticeGuard, val *validator.Validator) *Handler {
	return &Handler{svc: svc, guard: guard, val: val}
}

// RegisterRoutes registers the targeting routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notices/:id/targeting", h.View)
	rg.PUT("/notices/:id/targeting/filters", h.UpdateFilters)
	rg.POST("/notices/:id/targeting/selection", h.Select)
	rg.POST("/notices/:id/targeting/deselection", h.Deselect)
	rg.DELETE("/notices/:id/targeting", h.Clear)
}

// authorize parses the notice ID and checks the actor owns the notice.
func (h *Handler) authorize(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.UUID{}, false
	}

	if err := h.guard.AssertOwner(c.Request.Context(), id, identity.UserID()); err != nil {
		httpkit.HandleError(c, err)
		return uuid.UUID{}, false
	}
	return id, true
}

// View handles GET /api/v1/notices/:id/targeting
func (h *Handler) View(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	view, err := h.svc.View(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, viewResponse(view))
}

// UpdateFilters handles PUT /api/v1/notices/:id/targeting/filters
func (h *Handler) UpdateFilters(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	var req UpdateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	view, err := h.svc.UpdateFilters(c.Request.Context(), id, req.Facets)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, viewResponse(view))
}

// Select handles POST /api/v1/notices/:id/targeting/selection
func (h *Handler) Select(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	view, err := h.svc.Select(c.Request.Context(), id, req.ExpertIDs)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, viewResponse(view))
}

// Deselect handles POST /api/v1/notices/:id/targeting/deselection
func (h *Handler) Deselect(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	view, err := h.svc.Deselect(c.Request.Context(), id, req.ExpertIDs)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, viewResponse(view))
}

// Clear handles DELETE /api/v1/notices/:id/targeting
func (h *Handler) Clear(c *gin.Context) {
	id, ok := h.authorize(c)
	if !ok {
		return
	}

	if err := h.svc.Clear(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}
