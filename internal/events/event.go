// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"github.com/aipress24/aipress24-sub001/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Newsroom Domain Events
// =============================================================================

// NoticePublished is published when an investigation notice goes live.
type NoticePublished struct {
	BaseEvent
	NoticeID uuid.UUID `json:"noticeId"`
	OwnerID  uuid.UUID `json:"ownerId"`
	Title    string    `json:"title"`
}

func (e NoticePublished) EventName() string { return "newsroom.notice.published" }

// ExpertContacted is published when outreach creates a contact for an expert.
type ExpertContacted struct {
	BaseEvent
	ContactID    uuid.UUID `json:"contactId"`
	NoticeID     uuid.UUID `json:"noticeId"`
	ExpertID     uuid.UUID `json:"expertId"`
	JournalistID uuid.UUID `json:"journalistId"`
	NoticeTitle  string    `json:"noticeTitle"`
}

func (e ExpertContacted) EventName() string { return "newsroom.expert.contacted" }

// ContactResponded is published when an expert accepts or rejects a contact
// request.
type ContactResponded struct {
	BaseEvent
	ContactID    uuid.UUID `json:"contactId"`
	NoticeID     uuid.UUID `json:"noticeId"`
	ExpertID     uuid.UUID `json:"expertId"`
	JournalistID uuid.UUID `json:"journalistId"`
	Accepted     bool      `json:"accepted"`
}

func (e ContactResponded) EventName() string { return "newsroom.contact.responded" }

// =============================================================================
// RDV Negotiation Events
// =============================================================================

// RDVProposed is published when a journalist proposes appointment slots.
type RDVProposed struct {
	BaseEvent
	ContactID    uuid.UUID   `json:"contactId"`
	NoticeID     uuid.UUID   `json:"noticeId"`
	ExpertID     uuid.UUID   `json:"expertId"`
	JournalistID uuid.UUID   `json:"journalistId"`
	RDVType      string      `json:"rdvType"`
	Slots        []time.Time `json:"slots"`
}

func (e RDVProposed) EventName() string { return "newsroom.rdv.proposed" }

// RDVAccepted is published when an expert picks one of the proposed slots.
type RDVAccepted struct {
	BaseEvent
	ContactID    uuid.UUID `json:"contactId"`
	NoticeID     uuid.UUID `json:"noticeId"`
	ExpertID     uuid.UUID `json:"expertId"`
	JournalistID uuid.UUID `json:"journalistId"`
	Slot         time.Time `json:"slot"`
}

func (e RDVAccepted) EventName() string { return "newsroom.rdv.accepted" }

// RDVDeclined is published when an expert declines all proposed slots.
type RDVDeclined struct {
	BaseEvent
	ContactID    uuid.UUID `json:"contactId"`
	NoticeID     uuid.UUID `json:"noticeId"`
	ExpertID     uuid.UUID `json:"expertId"`
	JournalistID uuid.UUID `json:"journalistId"`
}

func (e RDVDeclined) EventName() string { return "newsroom.rdv.declined" }

// RDVConfirmed is published when the journalist confirms the accepted slot.
type RDVConfirmed struct {
	BaseEvent
	ContactID    uuid.UUID `json:"contactId"`
	NoticeID     uuid.UUID `json:"noticeId"`
	ExpertID     uuid.UUID `json:"expertId"`
	JournalistID uuid.UUID `json:"journalistId"`
	RDVType      string    `json:"rdvType"`
	At           time.Time `json:"at"`
}

func (e RDVConfirmed) EventName() string { return "newsroom.rdv.confirmed" }

// RDVReminderDue is published by the scheduler worker when a confirmed
// RDV is approaching.
type RDVReminderDue struct {
	BaseEvent
	ContactID    uuid.UUID `json:"contactId"`
	NoticeID     uuid.UUID `json:"noticeId"`
	ExpertID     uuid.UUID `json:"expertId"`
	JournalistID uuid.UUID `json:"journalistId"`
	RDVType      string    `json:"rdvType"`
	At           time.Time `json:"at"`
}

func (e RDVReminderDue) EventName() string { return "newsroom.rdv.reminder_due" }

// RDVCancelled is published when either party cancels an active negotiation.
type RDVCancelled struct {
	BaseEvent
	ContactID    uuid.UUID `json:"contactId"`
	NoticeID     uuid.UUID `json:"noticeId"`
	ExpertID     uuid.UUID `json:"expertId"`
	JournalistID uuid.UUID `json:"journalistId"`
	// FromStatus is the negotiation status the RDV was cancelled from.
	FromStatus string `json:"fromStatus"`
}

func (e RDVCancelled) EventName() string { return "newsroom.rdv.cancelled" }
