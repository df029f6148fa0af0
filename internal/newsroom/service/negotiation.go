package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aipress24/aipress24-sub001/internal/events"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/platform/apperr"
	"github.com/aipress24/aipress24-sub001/platform/logger"
	"github.com/aipress24/aipress24-sub001/platform/phone"
	"github.com/aipress24/aipress24-sub001/platform/sanitize"

	"github.com/google/uuid"
)

// ContactStore is the persistence port for contacts.
type ContactStore interface {
	CreateContact(ctx context.Context, c *domain.Contact) error
	GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	ListContacts(ctx context.Context, noticeID uuid.UUID) ([]domain.Contact, error)
	ListActiveContacts(ctx context.Context, noticeID uuid.UUID) ([]domain.Contact, error)
	ContactedExpertIDs(ctx context.Context, noticeID uuid.UUID) ([]uuid.UUID, error)
	UpdateResponse(ctx context.Context, c *domain.Contact) error
	UpdateNegotiation(ctx context.Context, c *domain.Contact, from domain.RDVStatus) error
}

// ReminderScheduler schedules RDV reminders. Implementations are best
// effort; a nil scheduler disables reminders.
type ReminderScheduler interface {
	ScheduleRDVReminder(ctx context.Context, contactID uuid.UUID, rdvAt time.Time) error
	CancelRDVReminder(ctx context.Context, contactID uuid.UUID) error
}

// Negotiation is the appointment negotiation façade. Each operation loads
// the contact, runs the domain transition (guards fail without side
// effects), persists optimistically, then notifies.
type Negotiation struct {
	contacts  ContactStore
	bus       events.Bus
	reminders ReminderScheduler
	log       *logger.Logger
}

// NewNegotiation creates the negotiation service.
func NewNegotiation(contacts ContactStore, bus events.Bus, reminders ReminderScheduler, log *logger.Logger) *Negotiation {
	return &Negotiation{contacts: contacts, bus: bus, reminders: reminders, log: log}
}

// GetContact returns one contact, scoped to its two parties. Anyone else
// gets a not-found, never a hint that the id exists.
func (s *Negotiation) GetContact(ctx context.Context, id, actorID uuid.UUID) (*domain.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.JournalistID != actorID && contact.ExpertID != actorID {
		return nil, apperr.NotFound(fmt.Sprintf("contact not found: %s", id))
	}
	return contact, nil
}

// ListContacts returns a notice's contacts.
func (s *Negotiation) ListContacts(ctx context.Context, noticeID uuid.UUID) ([]domain.Contact, error) {
	return s.contacts.ListContacts(ctx, noticeID)
}

// ListActiveContacts returns the contacts whose expert accepted.
func (s *Negotiation) ListActiveContacts(ctx context.Context, noticeID uuid.UUID) ([]domain.Contact, error) {
	return s.contacts.ListActiveContacts(ctx, noticeID)
}

// Respond records the expert's answer to the contact request.
func (s *Negotiation) Respond(ctx context.Context, contactID, expertID uuid.UUID, accepted bool, notes string) (*domain.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.ExpertID != expertID {
		return nil, apperr.Forbidden("only the contacted expert may answer")
	}

	if err := contact.Respond(accepted); err != nil {
		return nil, err
	}
	if notes != "" {
		contact.ExpertNotes = sanitize.Text(notes)
	}
	contact.UpdatedAt = time.Now()

	if err := s.contacts.UpdateResponse(ctx, contact); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.ContactResponded{
		BaseEvent:    events.NewBaseEvent(),
		ContactID:    contact.ID,
		NoticeID:     contact.NoticeID,
		ExpertID:     contact.ExpertID,
		JournalistID: contact.JournalistID,
		Accepted:     accepted,
	})

	return contact, nil
}

// Propose starts or replaces an RDV proposal. Phone proposals are
// normalized to E.164 and rejected when the number does not parse.
func (s *Negotiation) Propose(ctx context.Context, contactID, journalistID uuid.UUID, p domain.Proposal) (*domain.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.JournalistID != journalistID {
		return nil, apperr.Forbidden("only the contacting journalist may propose an RDV")
	}

	if p.Type == domain.RDVPhone && p.Phone != "" {
		if !phone.IsValid(p.Phone) {
			return nil, apperr.Validation("invalid phone number")
		}
		p.Phone = phone.NormalizeE164(p.Phone)
	}
	p.Notes = sanitize.Text(p.Notes)

	from := contact.RDVStatus
	if err := contact.ProposeRDV(p); err != nil {
		return nil, err
	}
	contact.UpdatedAt = time.Now()

	if err := s.contacts.UpdateNegotiation(ctx, contact, from); err != nil {
		return nil, err
	}

	s.log.RDVEvent("proposed", contact.ID.String(), string(contact.RDVStatus))
	s.bus.Publish(ctx, events.RDVProposed{
		BaseEvent:    events.NewBaseEvent(),
		ContactID:    contact.ID,
		NoticeID:     contact.NoticeID,
		ExpertID:     contact.ExpertID,
		JournalistID: contact.JournalistID,
		RDVType:      string(contact.RDVType),
		Slots:        contact.ProposedSlots,
	})

	return contact, nil
}

// Accept records the expert's slot choice; declining every slot returns
// the contact to NO_RDV.
func (s *Negotiation) Accept(ctx context.Context, contactID, expertID uuid.UUID, choice domain.SlotChoice) (*domain.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.ExpertID != expertID {
		return nil, apperr.Forbidden("only the contacted expert may answer a proposal")
	}

	from := contact.RDVStatus
	if err := contact.AcceptRDV(choice); err != nil {
		return nil, err
	}
	contact.UpdatedAt = time.Now()

	if err := s.contacts.UpdateNegotiation(ctx, contact, from); err != nil {
		return nil, err
	}

	if choice.Declined() {
		s.log.RDVEvent("declined", contact.ID.String(), string(contact.RDVStatus))
		s.bus.Publish(ctx, events.RDVDeclined{
			BaseEvent:    events.NewBaseEvent(),
			ContactID:    contact.ID,
			NoticeID:     contact.NoticeID,
			ExpertID:     contact.ExpertID,
			JournalistID: contact.JournalistID,
		})
	} else {
		s.log.RDVEvent("accepted", contact.ID.String(), string(contact.RDVStatus))
		s.bus.Publish(ctx, events.RDVAccepted{
			BaseEvent:    events.NewBaseEvent(),
			ContactID:    contact.ID,
			NoticeID:     contact.NoticeID,
			ExpertID:     contact.ExpertID,
			JournalistID: contact.JournalistID,
			Slot:         choice.At(),
		})
	}

	return contact, nil
}

// Confirm finalizes the accepted slot and schedules the reminder.
func (s *Negotiation) Confirm(ctx context.Context, contactID, journalistID uuid.UUID) (*domain.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.JournalistID != journalistID {
		return nil, apperr.Forbidden("only the contacting journalist may confirm an RDV")
	}

	from := contact.RDVStatus
	if err := contact.ConfirmRDV(); err != nil {
		return nil, err
	}
	contact.UpdatedAt = time.Now()

	if err := s.contacts.UpdateNegotiation(ctx, contact, from); err != nil {
		return nil, err
	}

	s.log.RDVEvent("confirmed", contact.ID.String(), string(contact.RDVStatus))
	s.bus.Publish(ctx, events.RDVConfirmed{
		BaseEvent:    events.NewBaseEvent(),
		ContactID:    contact.ID,
		NoticeID:     contact.NoticeID,
		ExpertID:     contact.ExpertID,
		JournalistID: contact.JournalistID,
		RDVType:      string(contact.RDVType),
		At:           *contact.RDVAt,
	})

	if s.reminders != nil {
		if err := s.reminders.ScheduleRDVReminder(ctx, contact.ID, *contact.RDVAt); err != nil {
			s.log.NotifyError("reminder", contact.ID.String(), err)
		}
	}

	return contact, nil
}

// Cancel aborts the negotiation from any active state. Cancelling a
// contact with no RDV engaged is a successful no-op.
func (s *Negotiation) Cancel(ctx context.Context, contactID, actorID uuid.UUID) (*domain.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.JournalistID != actorID && contact.ExpertID != actorID {
		return nil, apperr.Forbidden("only a negotiation party may cancel")
	}

	from := contact.RDVStatus
	if !contact.CancelRDV() {
		return contact, nil
	}
	contact.UpdatedAt = time.Now()

	if err := s.contacts.UpdateNegotiation(ctx, contact, from); err != nil {
		return nil, err
	}

	s.log.RDVEvent("cancelled", contact.ID.String(), string(contact.RDVStatus))
	s.bus.Publish(ctx, events.RDVCancelled{
		BaseEvent:    events.NewBaseEvent(),
		ContactID:    contact.ID,
		NoticeID:     contact.NoticeID,
		ExpertID:     contact.ExpertID,
		JournalistID: contact.JournalistID,
		FromStatus:   string(from),
	})

	if s.reminders != nil {
		if err := s.reminders.CancelRDVReminder(ctx, contact.ID); err != nil {
			s.log.NotifyError("reminder", contact.ID.String(), err)
		}
	}

	return contact, nil
}
