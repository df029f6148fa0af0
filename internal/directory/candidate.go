// Package directory exposes a read-only view over the platform's expert
// profiles. The targeting engine consumes it as its candidate pool; nothing
// here is written by this service.
package directory

import (
	"context"

	"github.com/google/uuid"
)

// Candidate is one expert profile as seen by the targeting engine.
// Facet attributes are denormalized so filtering happens in memory over a
// single fetch.
type Candidate struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string

	// Multi-valued facet attributes.
	Sectors     []string
	Professions []string
	Functions   []string
	OrgTypes    []string
	Languages   []string

	// Scalar facet attributes. Country and department are ISO/INSEE codes;
	// display labels are resolved by the targeting layer.
	OrgSize        string
	CountryCode    string
	DepartmentCode string
	City           string
}

// FullName returns "First Last" for notification copy.
func (c Candidate) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}

// Directory is the candidate pool port.
type Directory interface {
	// ListExperts returns every candidate visible to targeting.
	ListExperts(ctx context.Context) ([]Candidate, error)
	// GetExpert returns a single candidate by ID.
	GetExpert(ctx context.Context, id uuid.UUID) (*Candidate, error)
}
