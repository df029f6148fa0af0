package targeting

import (
	"context"
	"fmt"
	"sort"

	"github.com/aipress24/aipress24-sub001/internal/directory"

	"github.com/google/uuid"
)

// ContactedLister reports which experts already have a contact for a
// notice. Implemented by the newsroom contact repository; experts on that
// list never reappear in the candidate listing.
type ContactedLister interface {
	ContactedExpertIDs(ctx context.Context, noticeID uuid.UUID) ([]uuid.UUID, error)
}

// FacetView is one facet with its options and current selection.
type FacetView struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Scalar   bool     `json:"scalar"`
	Options  []Option `json:"options"`
	Selected []string `json:"selected"`
}

// View is the full targeting screen for a notice.
type View struct {
	NoticeID   uuid.UUID             `json:"noticeId"`
	Facets     []FacetView           `json:"facets"`
	Candidates []directory.Candidate `json:"candidates"`
	Selected   []directory.Candidate `json:"selected"`
}

// Service drives the targeting workflow for one notice at a time: load
// session, mutate, persist, and render the view.
type Service struct {
	dir       directory.Directory
	store     Store
	registry  *Registry
	contacted ContactedLister
}

// NewService creates the targeting service.
func NewService(dir directory.Directory, store Store, contacted ContactedLister) *Service {
	return &Service{
		dir:       dir,
		store:     store,
		registry:  NewRegistry(),
		contacted: contacted,
	}
}

// View renders the targeting screen without mutating anything.
func (s *Service) View(ctx context.Context, noticeID uuid.UUID) (*View, error) {
	session, pool, err := s.load(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, session, pool)
}

// UpdateFilters replaces the facet selection and returns the new view.
// Facets absent from the update are cleared.
func (s *Service) UpdateFilters(ctx context.Context, noticeID uuid.UUID, update map[string][]string) (*View, error) {
	session, pool, err := s.load(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	session.ApplyUpdate(s.registry, pool, update)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.render(ctx, session, pool)
}

// Select adds experts to the shortlist.
func (s *Service) Select(ctx context.Context, noticeID uuid.UUID, ids []uuid.UUID) (*View, error) {
	session, pool, err := s.load(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	if err := session.Select(ids...); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.render(ctx, session, pool)
}

// Deselect removes experts from the shortlist.
func (s *Service) Deselect(ctx context.Context, noticeID uuid.UUID, ids []uuid.UUID) (*View, error) {
	session, pool, err := s.load(ctx, noticeID)
	if err != nil {
		return nil, err
	}

	session.Deselect(ids...)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.render(ctx, session, pool)
}

// Clear drops the whole session: filters and shortlist.
func (s *Service) Clear(ctx context.Context, noticeID uuid.UUID) error {
	return s.store.Delete(ctx, noticeID)
}

// Selection returns the shortlisted candidates, hydrated from the
// directory. Used by outreach when contacts are created.
func (s *Service) Selection(ctx context.Context, noticeID uuid.UUID) ([]directory.Candidate, error) {
	session, pool, err := s.load(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	return hydrate(session.Selected, pool), nil
}

func (s *Service) load(ctx context.Context, noticeID uuid.UUID) (*Session, []directory.Candidate, error) {
	session, err := s.store.Get(ctx, noticeID)
	if err != nil {
		return nil, nil, err
	}

	pool, err := s.dir.ListExperts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}
	return session, pool, nil
}

func (s *Service) render(ctx context.Context, session *Session, pool []directory.Candidate) (*View, error) {
	facets := make([]FacetView, 0, len(s.registry.Ordered()))
	for _, sel := range s.registry.Ordered() {
		facets = append(facets, FacetView{
			ID:       sel.ID(),
			Label:    sel.Label(),
			Scalar:   sel.Scalar(),
			Options:  sel.Options(pool, session.Facets),
			Selected: append([]string(nil), session.Facets[sel.ID()]...),
		})
	}

	candidates, err := s.candidates(ctx, session, pool)
	if err != nil {
		return nil, err
	}

	return &View{
		NoticeID:   session.NoticeID,
		Facets:     facets,
		Candidates: candidates,
		Selected:   hydrate(session.Selected, pool),
	}, nil
}

// candidates applies every facet (AND across facets), drops shortlisted
// and already-contacted experts, orders accent-insensitively by
// (last name, first name) and caps the listing at MaxSelectable.
func (s *Service) candidates(ctx context.Context, session *Session, pool []directory.Candidate) ([]directory.Candidate, error) {
	filtered := pool
	for _, sel := range s.registry.Ordered() {
		filtered = sel.Apply(filtered, session.Facets[sel.ID()])
	}

	exclude := session.selectionSet()
	if s.contacted != nil {
		contacted, err := s.contacted.ContactedExpertIDs(ctx, session.NoticeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load contacted experts: %w", err)
		}
		for _, id := range contacted {
			exclude[id] = struct{}{}
		}
	}

	out := make([]directory.Candidate, 0, len(filtered))
	for _, c := range filtered {
		if _, ok := exclude[c.ID]; ok {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return foldLess(out[i].LastName, out[j].LastName)
		}
		return foldLess(out[i].FirstName, out[j].FirstName)
	})

	if len(out) > MaxSelectable {
		out = out[:MaxSelectable]
	}
	return out, nil
}

func hydrate(ids []uuid.UUID, pool []directory.Candidate) []directory.Candidate {
	byID := make(map[uuid.UUID]directory.Candidate, len(pool))
	for _, c := range pool {
		byID[c.ID] = c
	}

	out := make([]directory.Candidate, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
