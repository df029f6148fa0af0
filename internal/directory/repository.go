package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/aipress24/aipress24-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads candidates from the directory_members projection table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a directory repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const candidateColumns = `
	id, first_name, last_name, email,
	sectors, professions, functions, org_types, languages,
	org_size, country_code, department_code, city`

// ListExperts returns all candidates, unordered. Ordering and truncation
// are targeting concerns.
func (r *Repository) ListExperts(ctx context.Context) ([]Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM directory_members`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list experts: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read experts: %w", err)
	}

	return candidates, nil
}

// GetExpert returns a single candidate by ID.
func (r *Repository) GetExpert(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM directory_members WHERE id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("expert not found: %s", id))
		}
		return nil, err
	}

	return &c, nil
}

func scanCandidate(row pgx.Row) (Candidate, error) {
	var c Candidate
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email,
		&c.Sectors, &c.Professions, &c.Functions, &c.OrgTypes, &c.Languages,
		&c.OrgSize, &c.CountryCode, &c.DepartmentCode, &c.City,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Candidate{}, err
		}
		return Candidate{}, fmt.Errorf("failed to scan expert: %w", err)
	}
	return c, nil
}
