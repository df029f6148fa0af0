// Package service implements the newsroom use cases: notice lifecycle,
// outreach from the targeting shortlist, and the RDV negotiation façade.
// Every mutation follows persist-first, notify-after: events go out only
// once the write landed, and their failure never fails the operation.
package service

import (
	"context"
	"time"

	"github.com/aipress24/aipress24-sub001/internal/events"
	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/platform/apperr"
	"github.com/aipress24/aipress24-sub001/platform/logger"
	"github.com/aipress24/aipress24-sub001/platform/sanitize"

	"github.com/google/uuid"
)

// NoticeStore is the persistence port for notices.
type NoticeStore interface {
	CreateNotice(ctx context.Context, n *domain.Notice) error
	GetNotice(ctx context.Context, id uuid.UUID) (*domain.Notice, error)
	ListNoticesByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Notice, error)
	UpdateNotice(ctx context.Context, n *domain.Notice) error
}

// ContactLedger reports which experts already hold a contact for a
// notice. The notice service uses it to lock the editorial calendar once
// outreach has happened.
type ContactLedger interface {
	ContactedExpertIDs(ctx context.Context, noticeID uuid.UUID) ([]uuid.UUID, error)
}

// NoticeInput carries the editable notice fields.
type NoticeInput struct {
	Title               string
	Brief               string
	OrgID               *uuid.UUID
	InquiryStart        time.Time
	InquiryEnd          time.Time
	CopyDeadline        time.Time
	ExpectedPublication time.Time
}

// NoticeService manages the investigation notice lifecycle.
type NoticeService struct {
	store    NoticeStore
	contacts ContactLedger
	bus      events.Bus
	log      *logger.Logger
}

// NewNoticeService creates the notice service.
func NewNoticeService(store NoticeStore, contacts ContactLedger, bus events.Bus, log *logger.Logger) *NoticeService {
	return &NoticeService{store: store, contacts: contacts, bus: bus, log: log}
}

// Create registers a new draft notice owned by the journalist.
func (s *NoticeService) Create(ctx context.Context, ownerID uuid.UUID, in NoticeInput) (*domain.Notice, error) {
	now := time.Now()
	notice := &domain.Notice{
		ID:                  uuid.New(),
		OwnerID:             ownerID,
		OrgID:               in.OrgID,
		Title:               sanitize.Text(in.Title),
		Brief:               sanitize.Text(in.Brief),
		InquiryStart:        in.InquiryStart,
		InquiryEnd:          in.InquiryEnd,
		CopyDeadline:        in.CopyDeadline,
		ExpectedPublication: in.ExpectedPublication,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := notice.ValidateDates(); err != nil {
		return nil, err
	}
	if err := s.store.CreateNotice(ctx, notice); err != nil {
		return nil, err
	}

	return notice, nil
}

// Get returns a notice by ID.
func (s *NoticeService) Get(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	return s.store.GetNotice(ctx, id)
}

// List returns the journalist's notices.
func (s *NoticeService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Notice, error) {
	return s.store.ListNoticesByOwner(ctx, ownerID)
}

// AssertOwner checks that the actor owns the notice. Used by modules
// that act on a notice without going through this service.
func (s *NoticeService) AssertOwner(ctx context.Context, id, actorID uuid.UUID) error {
	notice, err := s.store.GetNotice(ctx, id)
	if err != nil {
		return err
	}
	if notice.OwnerID != actorID {
		return apperr.Forbidden("notice does not belong to the current user")
	}
	return nil
}

// Update rewrites the editable fields. Only the owner may update, and the
// inquiry window and copy deadline freeze once experts have been
// contacted: the negotiation slots were proposed against those dates.
func (s *NoticeService) Update(ctx context.Context, id, actorID uuid.UUID, in NoticeInput) (*domain.Notice, error) {
	notice, err := s.store.GetNotice(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice.OwnerID != actorID {
		return nil, apperr.Forbidden("only the notice owner may update it")
	}

	if calendarChanged(notice, in) {
		contacted, err := s.contacts.ContactedExpertIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(contacted) > 0 {
			return nil, apperr.Conflict("inquiry window and deadline are locked once experts have been contacted")
		}
	}

	notice.Title = sanitize.Text(in.Title)
	notice.Brief = sanitize.Text(in.Brief)
	notice.OrgID = in.OrgID
	notice.InquiryStart = in.InquiryStart
	notice.InquiryEnd = in.InquiryEnd
	notice.CopyDeadline = in.CopyDeadline
	notice.ExpectedPublication = in.ExpectedPublication
	notice.UpdatedAt = time.Now()

	if err := notice.ValidateDates(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateNotice(ctx, notice); err != nil {
		return nil, err
	}

	return notice, nil
}

func calendarChanged(n *domain.Notice, in NoticeInput) bool {
	return !n.InquiryStart.Equal(in.InquiryStart) ||
		!n.InquiryEnd.Equal(in.InquiryEnd) ||
		!n.CopyDeadline.Equal(in.CopyDeadline)
}

// Publish puts the notice live and announces it.
func (s *NoticeService) Publish(ctx context.Context, id, actorID uuid.UUID) (*domain.Notice, error) {
	notice, err := s.store.GetNotice(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice.OwnerID != actorID {
		return nil, apperr.Forbidden("only the notice owner may publish it")
	}

	if err := notice.Publish(); err != nil {
		return nil, err
	}
	notice.UpdatedAt = time.Now()

	if err := s.store.UpdateNotice(ctx, notice); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.NoticePublished{
		BaseEvent: events.NewBaseEvent(),
		NoticeID:  notice.ID,
		OwnerID:   notice.OwnerID,
		Title:     notice.Title,
	})

	return notice, nil
}
