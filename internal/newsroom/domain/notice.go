// Package domain holds the newsroom business objects and rules:
// investigation notices, expert contacts, and the appointment (RDV)
// negotiation state machine. Everything here is pure; persistence and
// notifications live in the service layer.
package domain

import (
	"time"

	"github.com/aipress24/aipress24-sub001/platform/apperr"

	"github.com/google/uuid"
)

// Notice is an investigation notice (avis d'enquête) published by a
// journalist to recruit experts.
type Notice struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	// OrgID references the sponsoring media organization, when any.
	OrgID *uuid.UUID
	Title string
	Brief string

	// Editorial calendar.
	InquiryStart        time.Time
	InquiryEnd          time.Time
	CopyDeadline        time.Time
	ExpectedPublication time.Time

	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDates checks the editorial calendar ordering: the inquiry window
// must close before copy deadline, which precedes publication.
func (n *Notice) ValidateDates() error {
	if n.InquiryEnd.Before(n.InquiryStart) {
		return apperr.Validation("inquiry end precedes inquiry start")
	}
	if n.CopyDeadline.Before(n.InquiryEnd) {
		return apperr.Validation("copy deadline precedes inquiry end")
	}
	if n.ExpectedPublication.Before(n.CopyDeadline) {
		return apperr.Validation("expected publication precedes copy deadline")
	}
	return nil
}

// Publish marks the notice live. Publishing twice is a conflict.
func (n *Notice) Publish() error {
	if n.Published {
		return apperr.Conflict("notice is already published")
	}
	if err := n.ValidateDates(); err != nil {
		return err
	}
	n.Published = true
	return nil
}
