// Package handler exposes the newsroom module over HTTP.
package handler

import (
	"net/http"

	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/service"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/transport"
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

// Handler handles HTTP requests for notices and contacts.
type Handler struct {
	notices     *service.NoticeService
	negotiation *service.Negotiation
	outreach    *service.Outreach
	val         *validator.Validator
}

// New creates a newsroom handler.
func New(notices *service.NoticeService, negotiation *service.Negotiation, outreach *service.Outreach, val *validator.Validator) *Handler {
	return &Handler{notices: notices, negotiation: negotiation, outreach: outreach, val: val}
}

// RegisterRoutes registers the newsroom routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notices", h.CreateNotice)
	rg.GET("/notices", h.ListNotices)
	rg.GET("/notices/:id", h.GetNotice)
	rg.PUT("/notices/:id", h.UpdateNotice)
	rg.POST("/notices/:id/publish", h.PublishNotice)
	rg.POST("/notices/:id/outreach", h.RunOutreach)
	rg.GET("/notices/:id/contacts", h.ListContacts)
	rg.GET("/notices/:id/contacts/active", h.ListActiveContacts)

	rg.GET("/contacts/:id", h.GetContact)
	rg.POST("/contacts/:id/respond", h.Respond)
	rg.POST("/contacts/:id/rdv/propose", h.ProposeRDV)
	rg.POST("/contacts/:id/rdv/accept", h.AcceptRDV)
	rg.POST("/contacts/:id/rdv/confirm", h.ConfirmRDV)
	rg.POST("/contacts/:id/rdv/cancel", h.CancelRDV)
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// CreateNotice handles POST /api/v1/notices
func (h *Handler) CreateNotice(c *gin.Context) {
	var req transport.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	notice, err := h.notices.Create(c.Request.Context(), identity.UserID(), req.Input())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.NoticeFromDomain(notice))
}

// ListNotices handles GET /api/v1/notices
func (h *Handler) ListNotices(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	notices, err := h.notices.List(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NoticesFromDomain(notices))
}

// GetNotice handles GET /api/v1/notices/:id
func (h *Handler) GetNotice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	notice, err := h.notices.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NoticeFromDomain(notice))
}

// UpdateNotice handles PUT /api/v1/notices/:id
func (h *Handler) UpdateNotice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transport.NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	notice, err := h.notices.Update(c.Request.Context(), id, identity.UserID(), req.Input())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NoticeFromDomain(notice))
}

// PublishNotice handles POST /api/v1/notices/:id/publish
func (h *Handler) PublishNotice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	notice, err := h.notices.Publish(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.NoticeFromDomain(notice))
}

// RunOutreach handles POST /api/v1/notices/:id/outreach
func (h *Handler) RunOutreach(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	created, err := h.outreach.Run(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.ContactsFromDomain(created))
}

// ListContacts handles GET /api/v1/notices/:id/contacts
func (h *Handler) ListContacts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.notices.AssertOwner(c.Request.Context(), id, identity.UserID()); httpkit.HandleError(c, err) {
		return
	}

	contacts, err := h.negotiation.ListContacts(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactsFromDomain(contacts))
}

// ListActiveContacts handles GET /api/v1/notices/:id/contacts/active
func (h *Handler) ListActiveContacts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.notices.AssertOwner(c.Request.Context(), id, identity.UserID()); httpkit.HandleError(c, err) {
		return
	}

	contacts, err := h.negotiation.ListActiveContacts(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactsFromDomain(contacts))
}

// GetContact handles GET /api/v1/contacts/:id
func (h *Handler) GetContact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	contact, err := h.negotiation.GetContact(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactFromDomain(contact))
}

// Respond handles POST /api/v1/contacts/:id/respond
func (h *Handler) Respond(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transport.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	contact, err := h.negotiation.Respond(c.Request.Context(), id, identity.UserID(), *req.Accepted, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactFromDomain(contact))
}

// ProposeRDV handles POST /api/v1/contacts/:id/rdv/propose
func (h *Handler) ProposeRDV(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transport.ProposeRDVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	contact, err := h.negotiation.Propose(c.Request.Context(), id, identity.UserID(), req.Proposal())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactFromDomain(contact))
}

// AcceptRDV handles POST /api/v1/contacts/:id/rdv/accept
func (h *Handler) AcceptRDV(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req transport.AcceptRDVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !req.Decline && req.Slot == nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, "either a slot or decline is required")
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	choice := domain.DeclineSlots()
	if !req.Decline {
		choice = domain.ChooseSlot(*req.Slot)
	}

	contact, err := h.negotiation.Accept(c.Request.Context(), id, identity.UserID(), choice)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactFromDomain(contact))
}

// ConfirmRDV handles POST /api/v1/contacts/:id/rdv/confirm
func (h *Handler) ConfirmRDV(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	contact, err := h.negotiation.Confirm(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactFromDomain(contact))
}

// CancelRDV handles POST /api/v1/contacts/:id/rdv/cancel
func (h *Handler) CancelRDV(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	contact, err := h.negotiation.Cancel(c.Request.Context(), id, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ContactFromDomain(contact))
}
