package targeting

import (
	"fmt"
	"strings"

	"github.com/aipress24/aipress24-sub001/internal/directory"
	"github.com/aipress24/aipress24-sub001/platform/apperr"

	"github.com/google/uuid"
)

// Session is the per-notice targeting state: the facet selection plus the
// shortlisted expert IDs. It is persisted as a JSON blob in the session
// store and rebuilt from scratch on every filter update.
type Session struct {
	NoticeID uuid.UUID   `json:"noticeId"`
	Facets   State       `json:"facets"`
	Selected []uuid.UUID `json:"selected"`
}

// NewSession creates an empty session for a notice.
func NewSession(noticeID uuid.UUID) *Session {
	return &Session{
		NoticeID: noticeID,
		Facets:   make(State),
	}
}

// ApplyUpdate replaces the facet selection with the update. Facets absent
// from the update are cleared; unknown facet IDs are dropped; values that
// are not currently offered by the facet are dropped. Selectors are walked
// in cascade order, so a changed country invalidates department and city
// values in the same pass.
func (s *Session) ApplyUpdate(reg *Registry, pool []directory.Candidate, update map[string][]string) {
	state := make(State, len(update))

	for _, sel := range reg.Ordered() {
		raw, ok := update[sel.ID()]
		if !ok {
			continue
		}

		values := cleanValues(raw)
		if sel.Scalar() && len(values) > 1 {
			values = values[:1]
		}

		valid := sel.Values(pool, state)
		kept := values[:0]
		for _, v := range values {
			if _, ok := valid[v]; ok {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			state[sel.ID()] = kept
		}
	}

	s.Facets = state
}

// Select adds expert IDs to the shortlist, ignoring duplicates. Exceeding
// MaxSelectable is a validation error and leaves the shortlist unchanged.
func (s *Session) Select(ids ...uuid.UUID) error {
	merged := append([]uuid.UUID(nil), s.Selected...)
	have := s.selectionSet()
	for _, id := range ids {
		if _, ok := have[id]; ok {
			continue
		}
		have[id] = struct{}{}
		merged = append(merged, id)
	}

	if len(merged) > MaxSelectable {
		return apperr.Validation(fmt.Sprintf("selection cannot exceed %d experts", MaxSelectable))
	}

	s.Selected = merged
	return nil
}

// Deselect removes expert IDs from the shortlist. Unknown IDs are ignored.
func (s *Session) Deselect(ids ...uuid.UUID) {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := s.Selected[:0]
	for _, id := range s.Selected {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	s.Selected = kept
}

// IsSelected reports whether the expert is on the shortlist.
func (s *Session) IsSelected(id uuid.UUID) bool {
	_, ok := s.selectionSet()[id]
	return ok
}

func (s *Session) selectionSet() map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(s.Selected))
	for _, id := range s.Selected {
		set[id] = struct{}{}
	}
	return set
}

func cleanValues(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
