package domain

import (
	"time"

	"github.com/aipress24/aipress24-sub001/platform/apperr"

	"github.com/google/uuid"
)

// ResponseStatus is the expert's answer to a contact request.
type ResponseStatus string

const (
	ResponsePending  ResponseStatus = "EN_ATTENTE"
	ResponseAccepted ResponseStatus = "ACCEPTE"
	ResponseRejected ResponseStatus = "REFUSE"
)

// RDVStatus is the appointment negotiation state.
type RDVStatus string

const (
	RDVNone      RDVStatus = "NO_RDV"
	RDVProposed  RDVStatus = "PROPOSED"
	RDVAccepted  RDVStatus = "ACCEPTED"
	RDVConfirmed RDVStatus = "CONFIRMED"
)

// RDVType is the appointment channel.
type RDVType string

const (
	RDVPhone    RDVType = "PHONE"
	RDVVideo    RDVType = "VIDEO"
	RDVInPerson RDVType = "IN_PERSON"
)

// ValidRDVType reports whether t is a known appointment channel.
func ValidRDVType(t RDVType) bool {
	switch t {
	case RDVPhone, RDVVideo, RDVInPerson:
		return true
	}
	return false
}

// Contact links one expert to one notice and carries the full negotiation
// state. One expert never has two contacts for the same notice.
type Contact struct {
	ID           uuid.UUID
	NoticeID     uuid.UUID
	ExpertID     uuid.UUID
	JournalistID uuid.UUID

	ResponseStatus ResponseStatus

	RDVStatus     RDVStatus
	RDVType       RDVType
	ProposedSlots []time.Time
	AcceptedSlot  *time.Time
	RDVAt         *time.Time

	// Channel coordinates; exactly one is relevant per RDVType.
	Phone     string
	VideoLink string
	Address   string

	JournalistNotes string
	ExpertNotes     string

	// Transition timestamps. RespondedAt covers the contact request;
	// the others each cover one negotiation step and are cleared when a
	// new proposal round starts.
	RespondedAt *time.Time
	AcceptedAt  *time.Time
	ConfirmedAt *time.Time
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewContact creates a pending contact for an expert on a notice.
func NewContact(noticeID, expertID, journalistID uuid.UUID) *Contact {
	now := time.Now()
	return &Contact{
		ID:             uuid.New(),
		NoticeID:       noticeID,
		ExpertID:       expertID,
		JournalistID:   journalistID,
		ResponseStatus: ResponsePending,
		RDVStatus:      RDVNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Respond records the expert's answer to the contact request. Answering
// twice is a conflict.
func (c *Contact) Respond(accepted bool) error {
	if c.ResponseStatus != ResponsePending {
		return apperr.Conflict("contact request already answered")
	}
	if accepted {
		c.ResponseStatus = ResponseAccepted
	} else {
		c.ResponseStatus = ResponseRejected
	}
	now := time.Now()
	c.RespondedAt = &now
	return nil
}
