package service

import (
	"context"
	"sync"

	"github.com/aipress24/aipress24-sub001/internal/directory"
	"github.com/aipress24/aipress24-sub001/internal/events"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/platform/apperr"
	"github.com/aipress24/aipress24-sub001/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// outreachConcurrency bounds parallel contact creation during fan-out.
const outreachConcurrency = 8

// SelectionSource exposes the targeting shortlist to outreach.
type SelectionSource interface {
	Selection(ctx context.Context, noticeID uuid.UUID) ([]directory.Candidate, error)
	Clear(ctx context.Context, noticeID uuid.UUID) error
}

// Outreach turns the targeting shortlist into contacts: one pending
// contact per newly selected expert, experts with an existing contact
// skipped, and one ExpertContacted event per created contact.
type Outreach struct {
	notices   NoticeStore
	contacts  ContactStore
	selection SelectionSource
	bus       events.Bus
	log       *logger.Logger
}

// NewOutreach creates the outreach coordinator.
func NewOutreach(notices NoticeStore, contacts ContactStore, selection SelectionSource, bus events.Bus, log *logger.Logger) *Outreach {
	return &Outreach{
		notices:   notices,
		contacts:  contacts,
		selection: selection,
		bus:       bus,
		log:       log,
	}
}

// Run executes outreach for a notice and returns the contacts it created.
// Only the notice owner may run it, and only on a published notice. The
// operation is idempotent per expert: rerunning never contacts anyone
// twice.
func (o *Outreach) Run(ctx context.Context, noticeID, actorID uuid.UUID) ([]domain.Contact, error) {
	notice, err := o.notices.GetNotice(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	if notice.OwnerID != actorID {
		return nil, apperr.Forbidden("only the notice owner may contact experts")
	}
	if !notice.Published {
		return nil, apperr.Conflict("notice must be published before contacting experts")
	}

	selected, err := o.selection.Selection(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, nil
	}

	fresh, err := o.filterKnownExperts(ctx, noticeID, selected)
	if err != nil {
		return nil, err
	}

	created := o.createContacts(ctx, notice, fresh)

	// Contacts are stored; everything past this point is best effort.
	for _, contact := range created {
		o.bus.Publish(ctx, events.ExpertContacted{
			BaseEvent:    events.NewBaseEvent(),
			ContactID:    contact.ID,
			NoticeID:     contact.NoticeID,
			ExpertID:     contact.ExpertID,
			JournalistID: contact.JournalistID,
			NoticeTitle:  notice.Title,
		})
	}

	if err := o.selection.Clear(ctx, noticeID); err != nil {
		o.log.Warn("failed to clear targeting session after outreach",
			"notice_id", noticeID.String(), "error", err.Error())
	}

	return created, nil
}

// filterKnownExperts drops candidates that already have a contact for the
// notice.
func (o *Outreach) filterKnownExperts(ctx context.Context, noticeID uuid.UUID, selected []directory.Candidate) ([]directory.Candidate, error) {
	known, err := o.contacts.ContactedExpertIDs(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	knownSet := make(map[uuid.UUID]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}

	fresh := make([]directory.Candidate, 0, len(selected))
	for _, c := range selected {
		if _, ok := knownSet[c.ID]; ok {
			continue
		}
		fresh = append(fresh, c)
	}
	return fresh, nil
}

// createContacts fans out one insert per expert. A failed insert never
// stops the others: the expert is logged and left uncontacted, and the
// next outreach run picks them up again. A duplicate-key conflict means a
// concurrent run already created the contact, so it is skipped quietly.
func (o *Outreach) createContacts(ctx context.Context, notice *domain.Notice, experts []directory.Candidate) []domain.Contact {
	var (
		mu      sync.Mutex
		created []domain.Contact
	)

	g := &errgroup.Group{}
	g.SetLimit(outreachConcurrency)

	for _, expert := range experts {
		g.Go(func() error {
			contact := domain.NewContact(notice.ID, expert.ID, notice.OwnerID)
			if err := o.contacts.CreateContact(ctx, contact); err != nil {
				if !apperr.Is(err, apperr.KindConflict) {
					o.log.Warn("failed to create contact",
						"notice_id", notice.ID.String(),
						"expert_id", expert.ID.String(),
						"error", err.Error())
				}
				return nil
			}

			mu.Lock()
			created = append(created, *contact)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return created
}
