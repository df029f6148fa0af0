package domain

import (
	"testing"
	"time"

	"github.com/aipress24/aipress24-sub001/platform/apperr"

	"github.com/google/uuid"
)

func acceptedContact() *Contact {
	c := NewContact(uuid.New(), uuid.New(), uuid.New())
	c.ResponseStatus = ResponseAccepted
	return c
}

func slot(day int) time.Time {
	return time.Date(2026, 9, day, 10, 0, 0, 0, time.UTC)
}

func phoneProposal(slots ...time.Time) Proposal {
	return Proposal{Type: RDVPhone, Slots: slots, Phone: "+33612345678"}
}

func mustStep(err error) {
	if err != nil {
		panic(err)
	}
}

func TestProposeRDVGuards(t *testing.T) {
	cases := []struct {
		name     string
		contact  func() *Contact
		proposal Proposal
		wantKind apperr.Kind
	}{
		{
			name: "expert has not accepted",
			contact: func() *Contact {
				return NewContact(uuid.New(), uuid.New(), uuid.New())
			},
			proposal: phoneProposal(slot(1)),
			wantKind: apperr.KindConflict,
		},
		{
			name: "expert rejected the request",
			contact: func() *Contact {
				c := NewContact(uuid.New(), uuid.New(), uuid.New())
				c.ResponseStatus = ResponseRejected
				return c
			},
			proposal: phoneProposal(slot(1)),
			wantKind: apperr.KindConflict,
		},
		{
			name: "already accepted",
			contact: func() *Contact {
				c := acceptedContact()
				mustStep(c.ProposeRDV(phoneProposal(slot(1))))
				mustStep(c.AcceptRDV(ChooseSlot(slot(1))))
				return c
			},
			proposal: phoneProposal(slot(2)),
			wantKind: apperr.KindConflict,
		},
		{
			name:     "no slots",
			contact:  acceptedContact,
			proposal: Proposal{Type: RDVPhone, Phone: "+33612345678"},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "unknown type",
			contact:  acceptedContact,
			proposal: Proposal{Type: "CARRIER_PIGEON", Slots: []time.Time{slot(1)}},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "phone RDV without phone",
			contact:  acceptedContact,
			proposal: Proposal{Type: RDVPhone, Slots: []time.Time{slot(1)}},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "more than five slots",
			contact:  acceptedContact,
			proposal: phoneProposal(slot(1), slot(2), slot(3), slot(4), slot(5), slot(6)),
			wantKind: apperr.KindValidation,
		},
		{
			name:     "in-person RDV without address",
			contact:  acceptedContact,
			proposal: Proposal{Type: RDVInPerson, Slots: []time.Time{slot(1)}},
			wantKind: apperr.KindValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.contact()
			before := c.RDVStatus

			err := c.ProposeRDV(tc.proposal)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !apperr.Is(err, tc.wantKind) {
				t.Errorf("error kind = %v, want %v (%v)", apperr.GetKind(err), tc.wantKind, err)
			}
			if c.RDVStatus != before {
				t.Errorf("guard failure changed RDVStatus to %s", c.RDVStatus)
			}
		})
	}
}

func TestProposeRDVNormalizesSlots(t *testing.T) {
	c := acceptedContact()

	if err := c.ProposeRDV(phoneProposal(slot(3), slot(1), slot(3), slot(2))); err != nil {
		t.Fatal(err)
	}

	if c.RDVStatus != RDVProposed {
		t.Fatalf("RDVStatus = %s, want %s", c.RDVStatus, RDVProposed)
	}
	want := []time.Time{slot(1), slot(2), slot(3)}
	if len(c.ProposedSlots) != len(want) {
		t.Fatalf("got %d slots, want %d", len(c.ProposedSlots), len(want))
	}
	for i := range want {
		if !c.ProposedSlots[i].Equal(want[i]) {
			t.Errorf("slot[%d] = %v, want %v", i, c.ProposedSlots[i], want[i])
		}
	}
}

func TestProposeRDVVideoLinkOptional(t *testing.T) {
	c := acceptedContact()

	// The journalist may leave the link blank and let the expert fill it in.
	if err := c.ProposeRDV(Proposal{Type: RDVVideo, Slots: []time.Time{slot(1)}}); err != nil {
		t.Fatalf("blank video link rejected: %v", err)
	}
	if c.RDVStatus != RDVProposed {
		t.Errorf("RDVStatus = %s, want %s", c.RDVStatus, RDVProposed)
	}
	if c.VideoLink != "" {
		t.Errorf("VideoLink = %q, want empty", c.VideoLink)
	}
}

func TestProposeRDVAcceptsFiveSlots(t *testing.T) {
	c := acceptedContact()

	if err := c.ProposeRDV(phoneProposal(slot(1), slot(2), slot(3), slot(4), slot(5))); err != nil {
		t.Fatalf("five slots rejected: %v", err)
	}
	if len(c.ProposedSlots) != MaxProposedSlots {
		t.Errorf("got %d slots, want %d", len(c.ProposedSlots), MaxProposedSlots)
	}
}

func TestReproposeReplacesPendingProposal(t *testing.T) {
	c := acceptedContact()
	if err := c.ProposeRDV(phoneProposal(slot(1))); err != nil {
		t.Fatal(err)
	}

	p := Proposal{Type: RDVVideo, Slots: []time.Time{slot(5)}, VideoLink: "https://meet.example/x"}
	if err := c.ProposeRDV(p); err != nil {
		t.Fatal(err)
	}

	if c.RDVType != RDVVideo {
		t.Errorf("RDVType = %s, want %s", c.RDVType, RDVVideo)
	}
	if len(c.ProposedSlots) != 1 || !c.ProposedSlots[0].Equal(slot(5)) {
		t.Errorf("slots not replaced: %v", c.ProposedSlots)
	}
	if c.Phone != "" {
		t.Errorf("stale phone kept: %q", c.Phone)
	}
}

func TestAcceptRDV(t *testing.T) {
	t.Run("requires a proposal", func(t *testing.T) {
		c := acceptedContact()
		err := c.AcceptRDV(ChooseSlot(slot(1)))
		if !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("error = %v, want conflict", err)
		}
	})

	t.Run("rejects a slot that was not proposed", func(t *testing.T) {
		c := acceptedContact()
		if err := c.ProposeRDV(phoneProposal(slot(1), slot(2))); err != nil {
			t.Fatal(err)
		}

		err := c.AcceptRDV(ChooseSlot(slot(9)))
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("error = %v, want validation", err)
		}
		if c.RDVStatus != RDVProposed {
			t.Errorf("RDVStatus = %s, want %s", c.RDVStatus, RDVProposed)
		}
	})

	t.Run("records the chosen slot", func(t *testing.T) {
		c := acceptedContact()
		if err := c.ProposeRDV(phoneProposal(slot(1), slot(2))); err != nil {
			t.Fatal(err)
		}

		if err := c.AcceptRDV(ChooseSlot(slot(2))); err != nil {
			t.Fatal(err)
		}
		if c.RDVStatus != RDVAccepted {
			t.Errorf("RDVStatus = %s, want %s", c.RDVStatus, RDVAccepted)
		}
		if c.AcceptedSlot == nil || !c.AcceptedSlot.Equal(slot(2)) {
			t.Errorf("AcceptedSlot = %v, want %v", c.AcceptedSlot, slot(2))
		}
	})

	t.Run("decline returns to NO_RDV", func(t *testing.T) {
		c := acceptedContact()
		if err := c.ProposeRDV(phoneProposal(slot(1))); err != nil {
			t.Fatal(err)
		}

		if err := c.AcceptRDV(DeclineSlots()); err != nil {
			t.Fatal(err)
		}
		if c.RDVStatus != RDVNone {
			t.Errorf("RDVStatus = %s, want %s", c.RDVStatus, RDVNone)
		}
		if len(c.ProposedSlots) != 0 || c.Phone != "" || c.RDVType != "" {
			t.Error("decline did not clear the RDV block")
		}
	})
}

func TestConfirmRDV(t *testing.T) {
	t.Run("requires an accepted slot", func(t *testing.T) {
		c := acceptedContact()
		if err := c.ProposeRDV(phoneProposal(slot(1))); err != nil {
			t.Fatal(err)
		}

		err := c.ConfirmRDV()
		if !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("error = %v, want conflict", err)
		}
	})

	t.Run("sets the appointment date", func(t *testing.T) {
		c := acceptedContact()
		if err := c.ProposeRDV(phoneProposal(slot(1))); err != nil {
			t.Fatal(err)
		}
		if err := c.AcceptRDV(ChooseSlot(slot(1))); err != nil {
			t.Fatal(err)
		}

		if err := c.ConfirmRDV(); err != nil {
			t.Fatal(err)
		}
		if c.RDVStatus != RDVConfirmed {
			t.Errorf("RDVStatus = %s, want %s", c.RDVStatus, RDVConfirmed)
		}
		if c.RDVAt == nil || !c.RDVAt.Equal(slot(1)) {
			t.Errorf("RDVAt = %v, want %v", c.RDVAt, slot(1))
		}
	})
}

func TestCancelRDV(t *testing.T) {
	t.Run("no-op when nothing is engaged", func(t *testing.T) {
		c := acceptedContact()
		if cancelled := c.CancelRDV(); cancelled {
			t.Error("CancelRDV() = true on NO_RDV, want false")
		}
	})

	for _, advance := range []struct {
		name string
		to   func(c *Contact) error
	}{
		{"from proposed", func(c *Contact) error {
			return c.ProposeRDV(phoneProposal(slot(1)))
		}},
		{"from accepted", func(c *Contact) error {
			if err := c.ProposeRDV(phoneProposal(slot(1))); err != nil {
				return err
			}
			return c.AcceptRDV(ChooseSlot(slot(1)))
		}},
		{"from confirmed", func(c *Contact) error {
			if err := c.ProposeRDV(phoneProposal(slot(1))); err != nil {
				return err
			}
			if err := c.AcceptRDV(ChooseSlot(slot(1))); err != nil {
				return err
			}
			return c.ConfirmRDV()
		}},
	} {
		t.Run(advance.name, func(t *testing.T) {
			c := acceptedContact()
			if err := advance.to(c); err != nil {
				t.Fatal(err)
			}

			if cancelled := c.CancelRDV(); !cancelled {
				t.Fatal("CancelRDV() = false, want true")
			}
			if c.RDVStatus != RDVNone {
				t.Errorf("RDVStatus = %s, want %s", c.RDVStatus, RDVNone)
			}
			if c.RDVAt != nil || c.AcceptedSlot != nil || len(c.ProposedSlots) != 0 {
				t.Error("cancel did not clear the RDV block")
			}
		})
	}
}

func TestNegotiationTimestamps(t *testing.T) {
	c := acceptedContact()

	mustStep(c.ProposeRDV(phoneProposal(slot(1))))
	mustStep(c.AcceptRDV(ChooseSlot(slot(1))))
	if c.AcceptedAt == nil {
		t.Error("AcceptedAt not set on accept")
	}
	mustStep(c.ConfirmRDV())
	if c.ConfirmedAt == nil {
		t.Error("ConfirmedAt not set on confirm")
	}

	if !c.CancelRDV() {
		t.Fatal("expected cancellation")
	}
	if c.CancelledAt == nil {
		t.Error("CancelledAt not set on cancel")
	}
	if c.AcceptedAt != nil || c.ConfirmedAt != nil {
		t.Error("cancel must clear the step timestamps")
	}

	// A new proposal round starts with a clean slate.
	mustStep(c.ProposeRDV(phoneProposal(slot(2))))
	if c.AcceptedAt != nil || c.ConfirmedAt != nil || c.CancelledAt != nil {
		t.Error("new proposal must clear prior step timestamps")
	}
}

func TestFullNegotiationRoundTrip(t *testing.T) {
	c := acceptedContact()

	if err := c.ProposeRDV(phoneProposal(slot(1), slot(2))); err != nil {
		t.Fatal(err)
	}
	if err := c.AcceptRDV(ChooseSlot(slot(1))); err != nil {
		t.Fatal(err)
	}
	if err := c.ConfirmRDV(); err != nil {
		t.Fatal(err)
	}
	if !c.CancelRDV() {
		t.Fatal("expected cancellation of confirmed RDV")
	}

	// After cancel the negotiation restarts from scratch.
	if err := c.ProposeRDV(phoneProposal(slot(5))); err != nil {
		t.Fatalf("re-propose after cancel: %v", err)
	}
	if c.RDVStatus != RDVProposed {
		t.Errorf("RDVStatus = %s, want %s", c.RDVStatus, RDVProposed)
	}
}

func TestRespond(t *testing.T) {
	c := NewContact(uuid.New(), uuid.New(), uuid.New())

	if err := c.Respond(true); err != nil {
		t.Fatal(err)
	}
	if c.ResponseStatus != ResponseAccepted {
		t.Errorf("ResponseStatus = %s, want %s", c.ResponseStatus, ResponseAccepted)
	}
	if c.RespondedAt == nil {
		t.Error("RespondedAt not set")
	}

	err := c.Respond(false)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("second answer: error = %v, want conflict", err)
	}
}

func TestNoticeDates(t *testing.T) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	notice := &Notice{
		ID:                  uuid.New(),
		OwnerID:             uuid.New(),
		Title:               "Enquête cybersécurité",
		InquiryStart:        base,
		InquiryEnd:          base.AddDate(0, 0, 14),
		CopyDeadline:        base.AddDate(0, 0, 21),
		ExpectedPublication: base.AddDate(0, 0, 30),
	}

	if err := notice.ValidateDates(); err != nil {
		t.Fatalf("valid calendar rejected: %v", err)
	}

	if err := notice.Publish(); err != nil {
		t.Fatal(err)
	}
	if err := notice.Publish(); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("second publish: error = %v, want conflict", err)
	}

	notice.CopyDeadline = base.AddDate(0, 0, 7)
	if err := notice.ValidateDates(); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("bad calendar: error = %v, want validation", err)
	}
}
