package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/aipress24/aipress24-sub001/platform/apperr"
)

// MaxProposedSlots caps one proposal round.
const MaxProposedSlots = 5

// Proposal is the journalist's side of the negotiation: a channel, its
// coordinates, and one to five time slots.
type Proposal struct {
	Type      RDVType
	Slots     []time.Time
	Phone     string
	VideoLink string
	Address   string
	Notes     string
}

// SlotChoice is the expert's answer to a proposal: either one of the
// proposed slots, or a decline of all of them.
type SlotChoice struct {
	declined bool
	at       time.Time
}

// ChooseSlot picks a proposed slot.
func ChooseSlot(at time.Time) SlotChoice {
	return SlotChoice{at: at}
}

// DeclineSlots rejects every proposed slot.
func DeclineSlots() SlotChoice {
	return SlotChoice{declined: true}
}

// Declined reports whether the choice rejects the proposal.
func (s SlotChoice) Declined() bool { return s.declined }

// At returns the chosen slot; zero when declined.
func (s SlotChoice) At() time.Time { return s.at }

// ProposeRDV starts or restarts the negotiation. Guards fail without
// touching the contact:
//   - the expert must have accepted the contact request;
//   - an accepted or confirmed RDV must be cancelled first;
//   - the proposal needs one to five slots, a phone number for a phone
//     RDV and an address for an in-person one; a video link may be left
//     blank for the expert to fill in.
//
// Re-proposing over a pending proposal replaces it entirely.
func (c *Contact) ProposeRDV(p Proposal) error {
	if c.ResponseStatus != ResponseAccepted {
		return apperr.Conflict("expert has not accepted")
	}
	if c.RDVStatus == RDVAccepted || c.RDVStatus == RDVConfirmed {
		return apperr.Conflict("RDV already accepted or confirmed")
	}
	if err := validateProposal(p); err != nil {
		return err
	}

	c.RDVStatus = RDVProposed
	c.RDVType = p.Type
	c.ProposedSlots = normalizeSlots(p.Slots)
	c.Phone = p.Phone
	c.VideoLink = p.VideoLink
	c.Address = p.Address
	if p.Notes != "" {
		c.JournalistNotes = p.Notes
	}
	c.AcceptedSlot = nil
	c.RDVAt = nil
	c.AcceptedAt = nil
	c.ConfirmedAt = nil
	c.CancelledAt = nil
	return nil
}

// AcceptRDV records the expert's slot choice. Declining returns the
// contact to NO_RDV exactly as if nothing had been proposed.
func (c *Contact) AcceptRDV(choice SlotChoice) error {
	if c.RDVStatus != RDVProposed {
		return apperr.Conflict("no RDV has been proposed")
	}

	if choice.Declined() {
		c.resetRDV()
		return nil
	}

	if !c.slotProposed(choice.At()) {
		return apperr.Validation("slot was not proposed")
	}

	at := choice.At()
	now := time.Now()
	c.RDVStatus = RDVAccepted
	c.AcceptedSlot = &at
	c.AcceptedAt = &now
	return nil
}

// ConfirmRDV finalizes the accepted slot as the appointment date.
func (c *Contact) ConfirmRDV() error {
	if c.RDVStatus != RDVAccepted {
		return apperr.Conflict("no accepted RDV to confirm")
	}

	at := *c.AcceptedSlot
	now := time.Now()
	c.RDVStatus = RDVConfirmed
	c.RDVAt = &at
	c.ConfirmedAt = &now
	return nil
}

// CancelRDV aborts the negotiation from any active state. Cancelling when
// nothing is engaged is a no-op; the first return value reports whether a
// negotiation was actually cancelled.
func (c *Contact) CancelRDV() bool {
	if c.RDVStatus == RDVNone {
		return false
	}
	c.resetRDV()
	now := time.Now()
	c.CancelledAt = &now
	return true
}

func (c *Contact) resetRDV() {
	c.RDVStatus = RDVNone
	c.RDVType = ""
	c.ProposedSlots = nil
	c.AcceptedSlot = nil
	c.RDVAt = nil
	c.Phone = ""
	c.VideoLink = ""
	c.Address = ""
	c.AcceptedAt = nil
	c.ConfirmedAt = nil
}

func (c *Contact) slotProposed(at time.Time) bool {
	for _, s := range c.ProposedSlots {
		if s.Equal(at) {
			return true
		}
	}
	return false
}

func validateProposal(p Proposal) error {
	if !ValidRDVType(p.Type) {
		return apperr.Validation("unknown RDV type")
	}
	if len(p.Slots) == 0 {
		return apperr.Validation("at least one slot is required")
	}
	if len(p.Slots) > MaxProposedSlots {
		return apperr.Validation(fmt.Sprintf("at most %d slots may be proposed", MaxProposedSlots))
	}

	switch p.Type {
	case RDVPhone:
		if p.Phone == "" {
			return apperr.Validation("a phone number is required for a phone RDV")
		}
	case RDVInPerson:
		if p.Address == "" {
			return apperr.Validation("an address is required for an in-person RDV")
		}
	}
	return nil
}

// normalizeSlots sorts ascending and drops duplicate instants.
func normalizeSlots(slots []time.Time) []time.Time {
	out := append([]time.Time(nil), slots...)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	dedup := out[:0]
	for i, s := range out {
		if i > 0 && s.Equal(out[i-1]) {
			continue
		}
		dedup = append(dedup, s)
	}
	return dedup
}
