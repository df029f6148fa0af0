// Package targeting implements the faceted candidate-targeting engine:
// cascading facet selectors over the expert directory, per-notice filter
// sessions, and the shortlist capped at MaxSelectable.
package targeting

import (
	"sort"

	"github.com/aipress24/aipress24-sub001/internal/directory"
)

const (
	// MaxSelectable caps the shortlist and the candidate listing.
	MaxSelectable = 50
	// MaxOptions caps the option list of a single facet.
	MaxOptions = 100
)

// Facet IDs, stable across API and session storage.
const (
	FacetSector     = "secteur"
	FacetProfession = "metier"
	FacetFunction   = "fonction"
	FacetOrgType    = "type_organisation"
	FacetOrgSize    = "taille_organisation"
	FacetCountry    = "pays"
	FacetDepartment = "departement"
	FacetCity       = "ville"
	FacetLanguage   = "langues"
)

// Option is one selectable facet value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// State is the per-notice facet selection, facet ID to selected values.
type State map[string][]string

// Selector extracts a facet's options from the pool and filters the pool
// by a selection. Implementations are stateless.
type Selector interface {
	ID() string
	Label() string
	// Scalar reports whether the facet holds at most one value.
	Scalar() bool
	// Options returns the selectable values for the current state, capped
	// at MaxOptions for display. Parent-dependent selectors return nothing
	// until their parent has a value.
	Options(pool []directory.Candidate, state State) []Option
	// Values returns every value the facet holds for the current state,
	// without the MaxOptions cap. Selection validation uses this set so a
	// value sorting past the display cap can still be selected.
	Values(pool []directory.Candidate, state State) map[string]struct{}
	// Apply filters the pool by the selected values; an empty selection
	// leaves the pool untouched. Values within one facet combine with OR.
	Apply(pool []directory.Candidate, selected []string) []directory.Candidate
}

// multiSelector is a facet over a multi-valued candidate attribute.
type multiSelector struct {
	id    string
	label string
	attr  func(directory.Candidate) []string
}

func (s *multiSelector) ID() string    { return s.id }
func (s *multiSelector) Label() string { return s.label }
func (s *multiSelector) Scalar() bool  { return false }

func (s *multiSelector) Options(pool []directory.Candidate, state State) []Option {
	return buildOptions(s.Values(pool, state), nil)
}

func (s *multiSelector) Values(pool []directory.Candidate, _ State) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, c := range pool {
		for _, v := range s.attr(c) {
			if v != "" {
				seen[v] = struct{}{}
			}
		}
	}
	return seen
}

func (s *multiSelector) Apply(pool []directory.Candidate, selected []string) []directory.Candidate {
	if len(selected) == 0 {
		return pool
	}
	want := toSet(selected)
	out := pool[:0:0]
	for _, c := range pool {
		for _, v := range s.attr(c) {
			if _, ok := want[v]; ok {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// scalarSelector is a facet over a single-valued candidate attribute,
// optionally narrowed by a parent facet (pays -> departement -> ville).
type scalarSelector struct {
	id       string
	label    string
	attr     func(directory.Candidate) string
	parent   *scalarSelector
	labelFor func(string) string
}

func (s *scalarSelector) ID() string    { return s.id }
func (s *scalarSelector) Label() string { return s.label }
func (s *scalarSelector) Scalar() bool  { return true }

func (s *scalarSelector) Options(pool []directory.Candidate, state State) []Option {
	return buildOptions(s.Values(pool, state), s.labelFor)
}

func (s *scalarSelector) Values(pool []directory.Candidate, state State) map[string]struct{} {
	// Walk up the chain: no parent selection means no values at all.
	for p := s.parent; p != nil; p = p.parent {
		sel := state[p.id]
		if len(sel) == 0 {
			return nil
		}
		pool = p.Apply(pool, sel)
	}

	seen := make(map[string]struct{})
	for _, c := range pool {
		if v := s.attr(c); v != "" {
			seen[v] = struct{}{}
		}
	}
	return seen
}

func (s *scalarSelector) Apply(pool []directory.Candidate, selected []string) []directory.Candidate {
	if len(selected) == 0 {
		return pool
	}
	want := toSet(selected)
	out := pool[:0:0]
	for _, c := range pool {
		if _, ok := want[s.attr(c)]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Registry holds the standard facets in cascade order: a parent always
// precedes its children.
type Registry struct {
	ordered []Selector
	byID    map[string]Selector
}

// NewRegistry builds the standard facet set.
func NewRegistry() *Registry {
	country := &scalarSelector{
		id:       FacetCountry,
		label:    "Pays",
		attr:     func(c directory.Candidate) string { return c.CountryCode },
		labelFor: countryLabel,
	}
	department := &scalarSelector{
		id:     FacetDepartment,
		label:  "Département",
		attr:   func(c directory.Candidate) string { return c.DepartmentCode },
		parent: country,
	}
	city := &scalarSelector{
		id:     FacetCity,
		label:  "Ville",
		attr:   func(c directory.Candidate) string { return c.City },
		parent: department,
	}

	selectors := []Selector{
		&multiSelector{id: FacetSector, label: "Secteur", attr: func(c directory.Candidate) []string { return c.Sectors }},
		&multiSelector{id: FacetProfession, label: "Métier", attr: func(c directory.Candidate) []string { return c.Professions }},
		&multiSelector{id: FacetFunction, label: "Fonction", attr: func(c directory.Candidate) []string { return c.Functions }},
		&multiSelector{id: FacetOrgType, label: "Type d'organisation", attr: func(c directory.Candidate) []string { return c.OrgTypes }},
		&scalarSelector{
			id:       FacetOrgSize,
			label:    "Taille d'organisation",
			attr:     func(c directory.Candidate) string { return c.OrgSize },
			labelFor: orgSizeLabel,
		},
		country,
		department,
		city,
		&multiSelector{id: FacetLanguage, label: "Langues", attr: func(c directory.Candidate) []string { return c.Languages }},
	}

	byID := make(map[string]Selector, len(selectors))
	for _, s := range selectors {
		byID[s.ID()] = s
	}
	return &Registry{ordered: selectors, byID: byID}
}

// Ordered returns the selectors in cascade order.
func (r *Registry) Ordered() []Selector {
	return r.ordered
}

// Get returns the selector for a facet ID.
func (r *Registry) Get(id string) (Selector, bool) {
	s, ok := r.byID[id]
	return s, ok
}

func buildOptions(seen map[string]struct{}, labelFor func(string) string) []Option {
	opts := make([]Option, 0, len(seen))
	for v := range seen {
		label := v
		if labelFor != nil {
			label = labelFor(v)
		}
		opts = append(opts, Option{Value: v, Label: label})
	}
	sort.Slice(opts, func(i, j int) bool {
		return foldLess(opts[i].Label, opts[j].Label)
	})
	if len(opts) > MaxOptions {
		opts = opts[:MaxOptions]
	}
	return opts
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
