package targeting

import (
	"github.com/aipress24/aipress24-sub001/internal/directory"

	"github.com/google/uuid"
)

// UpdateFiltersRequest replaces the whole facet selection. Facets absent
// from the map are cleared.
type UpdateFiltersRequest struct {
	Facets map[string][]string `json:"facets" validate:"required"`
}

// SelectionRequest adds or removes experts from the shortlist.
type SelectionRequest struct {
	ExpertIDs []uuid.UUID `json:"expertIds" validate:"required,min=1,max=50"`
}

// CandidateResponse is the expert card shown on the targeting screen.
type CandidateResponse struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	FullName   string    `json:"fullName"`
	Sectors    []string  `json:"sectors"`
	City       string    `json:"city,omitempty"`
	Department string    `json:"department,omitempty"`
	Country    string    `json:"country,omitempty"`
}

// ViewResponse is the full targeting screen.
type ViewResponse struct {
	NoticeID   uuid.UUID           `json:"noticeId"`
	Facets     []FacetView         `json:"facets"`
	Candidates []CandidateResponse `json:"candidates"`
	Selected   []CandidateResponse `json:"selected"`
}

func candidateResponse(c directory.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:         c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		FullName:   c.FullName(),
		Sectors:    c.Sectors,
		City:       c.City,
		Department: c.DepartmentCode,
		Country:    c.CountryCode,
	}
}

func candidateResponses(cs []directory.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, len(cs))
	for i, c := range cs {
		out[i] = candidateResponse(c)
	}
	return out
}

func viewResponse(v *View) ViewResponse {
	return ViewResponse{
		NoticeID:   v.NoticeID,
		Facets:     v.Facets,
		Candidates: candidateResponses(v.Candidates),
		Selected:   candidateResponses(v.Selected),
	}
}
