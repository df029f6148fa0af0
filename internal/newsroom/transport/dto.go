// Package transport defines the HTTP request and response shapes for the
// newsroom module.
package transport

import (
	"time"

	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/service"

	"github.com/google/uuid"
)

// NoticeRequest carries the editable notice fields.
type NoticeRequest struct {
	Title               string     `json:"title" validate:"required,max=200"`
	OrgID               *uuid.UUID `json:"orgId"`
	Brief               string     `json:"brief" validate:"max=5000"`
	InquiryStart        time.Time  `json:"inquiryStart" validate:"required"`
	InquiryEnd          time.Time  `json:"inquiryEnd" validate:"required"`
	CopyDeadline        time.Time  `json:"copyDeadline" validate:"required"`
	ExpectedPublication time.Time  `json:"expectedPublication" validate:"required"`
}

// Input converts the request to a service input.
func (r NoticeRequest) Input() service.NoticeInput {
	return service.NoticeInput{
		Title:               r.Title,
		OrgID:               r.OrgID,
		Brief:               r.Brief,
		InquiryStart:        r.InquiryStart,
		InquiryEnd:          r.InquiryEnd,
		CopyDeadline:        r.CopyDeadline,
		ExpectedPublication: r.ExpectedPublication,
	}
}

// NoticeResponse is the wire shape of a notice.
type NoticeResponse struct {
	ID                  string    `json:"id"`
	OwnerID             string    `json:"ownerId"`
	OrgID               string    `json:"orgId,omitempty"`
	Title               string    `json:"title"`
	Brief               string    `json:"brief"`
	InquiryStart        time.Time `json:"inquiryStart"`
	InquiryEnd          time.Time `json:"inquiryEnd"`
	CopyDeadline        time.Time `json:"copyDeadline"`
	ExpectedPublication time.Time `json:"expectedPublication"`
	Published           bool      `json:"published"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// NoticeFromDomain maps a domain notice to its wire shape.
func NoticeFromDomain(n *domain.Notice) NoticeResponse {
	resp := NoticeResponse{
		ID:                  n.ID.String(),
		OwnerID:             n.OwnerID.String(),
		Title:               n.Title,
		Brief:               n.Brief,
		InquiryStart:        n.InquiryStart,
		InquiryEnd:          n.InquiryEnd,
		CopyDeadline:        n.CopyDeadline,
		ExpectedPublication: n.ExpectedPublication,
		Published:           n.Published,
		CreatedAt:           n.CreatedAt,
		UpdatedAt:           n.UpdatedAt,
	}
	if n.OrgID != nil {
		resp.OrgID = n.OrgID.String()
	}
	return resp
}

// NoticesFromDomain maps a notice slice.
func NoticesFromDomain(notices []domain.Notice) []NoticeResponse {
	out := make([]NoticeResponse, len(notices))
	for i := range notices {
		out[i] = NoticeFromDomain(&notices[i])
	}
	return out
}

// RespondRequest is the expert's answer to a contact request.
type RespondRequest struct {
	Accepted *bool  `json:"accepted" validate:"required"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// ProposeRDVRequest proposes appointment slots over one channel.
type ProposeRDVRequest struct {
	Type      string      `json:"type" validate:"required,oneof=PHONE VIDEO IN_PERSON"`
	Slots     []time.Time `json:"slots" validate:"required,min=1,max=5"`
	Phone     string      `json:"phone" validate:"max=32"`
	VideoLink string      `json:"videoLink" validate:"omitempty,url"`
	Address   string      `json:"address" validate:"max=500"`
	Notes     string      `json:"notes" validate:"max=2000"`
}

// Proposal converts the request to the domain proposal.
func (r ProposeRDVRequest) Proposal() domain.Proposal {
	return domain.Proposal{
		Type:      domain.RDVType(r.Type),
		Slots:     r.Slots,
		Phone:     r.Phone,
		VideoLink: r.VideoLink,
		Address:   r.Address,
		Notes:     r.Notes,
	}
}

// AcceptRDVRequest picks a proposed slot or declines them all.
type AcceptRDVRequest struct {
	Decline bool       `json:"decline"`
	Slot    *time.Time `json:"slot"`
}

// ContactResponse is the wire shape of a contact with its negotiation
// state.
type ContactResponse struct {
	ID              string      `json:"id"`
	NoticeID        string      `json:"noticeId"`
	ExpertID        string      `json:"expertId"`
	JournalistID    string      `json:"journalistId"`
	ResponseStatus  string      `json:"responseStatus"`
	RDVStatus       string      `json:"rdvStatus"`
	RDVType         string      `json:"rdvType,omitempty"`
	ProposedSlots   []time.Time `json:"proposedSlots,omitempty"`
	AcceptedSlot    *time.Time  `json:"acceptedSlot,omitempty"`
	RDVAt           *time.Time  `json:"rdvAt,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	VideoLink       string      `json:"videoLink,omitempty"`
	Address         string      `json:"address,omitempty"`
	JournalistNotes string      `json:"journalistNotes,omitempty"`
	ExpertNotes     string      `json:"expertNotes,omitempty"`
	RespondedAt     *time.Time  `json:"respondedAt,omitempty"`
	AcceptedAt      *time.Time  `json:"acceptedAt,omitempty"`
	ConfirmedAt     *time.Time  `json:"confirmedAt,omitempty"`
	CancelledAt     *time.Time  `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ContactFromDomain maps a domain contact to its wire shape.
func ContactFromDomain(c *domain.Contact) ContactResponse {
	return ContactResponse{
		ID:              c.ID.String(),
		NoticeID:        c.NoticeID.String(),
		ExpertID:        c.ExpertID.String(),
		JournalistID:    c.JournalistID.String(),
		ResponseStatus:  string(c.ResponseStatus),
		RDVStatus:       string(c.RDVStatus),
		RDVType:         string(c.RDVType),
		ProposedSlots:   c.ProposedSlots,
		AcceptedSlot:    c.AcceptedSlot,
		RDVAt:           c.RDVAt,
		Phone:           c.Phone,
		VideoLink:       c.VideoLink,
		Address:         c.Address,
		JournalistNotes: c.JournalistNotes,
		ExpertNotes:     c.ExpertNotes,
		RespondedAt:     c.RespondedAt,
		AcceptedAt:      c.AcceptedAt,
		ConfirmedAt:     c.ConfirmedAt,
		CancelledAt:     c.CancelledAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ContactsFromDomain maps a contact slice.
func ContactsFromDomain(contacts []domain.Contact) []ContactResponse {
	out := make([]ContactResponse, len(contacts))
	for i := range contacts {
		out[i] = ContactFromDomain(&contacts[i])
	}
	return out
}
