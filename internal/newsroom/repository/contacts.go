package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for a unique constraint violation.
const uniqueViolation = "23505"

const contactColumns = `
	id, notice_id, expert_id, journalist_id,
	response_status, rdv_status, rdv_type, proposed_slots, accepted_slot, rdv_at,
	rdv_phone, rdv_video_link, rdv_address,
	journalist_notes, expert_notes,
	responded_at, accepted_at, confirmed_at, cancelled_at,
	created_at, updated_at`

// CreateContact inserts a new contact. A duplicate (notice, expert) pair
// violates the unique constraint and surfaces as a conflict.
func (r *Repository) CreateContact(ctx context.Context, c *domain.Contact) error {
	query := `
		INSERT INTO contacts (
			id, notice_id, expert_id, journalist_id,
			response_status, rdv_status, rdv_type, proposed_slots, accepted_slot, rdv_at,
			rdv_phone, rdv_video_link, rdv_address,
			journalist_notes, expert_notes,
			responded_at, accepted_at, confirmed_at, cancelled_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.NoticeID, c.ExpertID, c.JournalistID,
		string(c.ResponseStatus), string(c.RDVStatus), string(c.RDVType),
		c.ProposedSlots, c.AcceptedSlot, c.RDVAt,
		c.Phone, c.VideoLink, c.Address,
		c.JournalistNotes, c.ExpertNotes,
		c.RespondedAt, c.AcceptedAt, c.ConfirmedAt, c.CancelledAt,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict(fmt.Sprintf("contact already exists for expert %s", c.ExpertID))
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetContact retrieves a contact by ID.
func (r *Repository) GetContact(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	c, err := scanContact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("contact not found: %s", id))
		}
		return nil, err
	}

	return c, nil
}

// ListContacts returns every contact of a notice, oldest first.
func (r *Repository) ListContacts(ctx context.Context, noticeID uuid.UUID) ([]domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE notice_id = $1 ORDER BY created_at ASC`
	return r.listContacts(ctx, query, noticeID)
}

// ListActiveContacts returns the contacts whose expert accepted the
// request, oldest first.
func (r *Repository) ListActiveContacts(ctx context.Context, noticeID uuid.UUID) ([]domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE notice_id = $1 AND response_status = $2 ORDER BY created_at ASC`
	return r.listContacts(ctx, query, noticeID, string(domain.ResponseAccepted))
}

func (r *Repository) listContacts(ctx context.Context, query string, args ...any) ([]domain.Contact, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}

	return contacts, nil
}

// ContactedExpertIDs returns the experts that already have a contact for
// the notice. Used by targeting to keep them out of the candidate listing.
func (r *Repository) ContactedExpertIDs(ctx context.Context, noticeID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT expert_id FROM contacts WHERE notice_id = $1`

	rows, err := r.pool.Query(ctx, query, noticeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacted experts: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expert id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacted experts: %w", err)
	}

	return ids, nil
}

// UpdateResponse persists the expert's answer to the contact request.
func (r *Repository) UpdateResponse(ctx context.Context, c *domain.Contact) error {
	query := `UPDATE contacts SET response_status = $2, expert_notes = $3, responded_at = $4, updated_at = $5 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, c.ID, string(c.ResponseStatus), c.ExpertNotes, c.RespondedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update contact response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("contact not found: %s", c.ID))
	}

	return nil
}

// UpdateNegotiation persists an RDV transition. The write is optimistic:
// it only lands if the stored rdv_status still matches the status the
// transition started from, so concurrent transitions cannot interleave.
func (r *Repository) UpdateNegotiation(ctx context.Context, c *domain.Contact, from domain.RDVStatus) error {
	query := `
		UPDATE contacts SET
			rdv_status = $2, rdv_type = $3, proposed_slots = $4, accepted_slot = $5, rdv_at = $6,
			rdv_phone = $7, rdv_video_link = $8, rdv_address = $9,
			journalist_notes = $10, expert_notes = $11,
			accepted_at = $12, confirmed_at = $13, cancelled_at = $14, updated_at = $15
		WHERE id = $1 AND rdv_status = $16`

	tag, err := r.pool.Exec(ctx, query,
		c.ID, string(c.RDVStatus), string(c.RDVType), c.ProposedSlots, c.AcceptedSlot, c.RDVAt,
		c.Phone, c.VideoLink, c.Address,
		c.JournalistNotes, c.ExpertNotes,
		c.AcceptedAt, c.ConfirmedAt, c.CancelledAt, c.UpdatedAt,
		string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update negotiation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("negotiation state changed, reload and retry")
	}

	return nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	var responseStatus, rdvStatus, rdvType string

	err := row.Scan(
		&c.ID, &c.NoticeID, &c.ExpertID, &c.JournalistID,
		&responseStatus, &rdvStatus, &rdvType, &c.ProposedSlots, &c.AcceptedSlot, &c.RDVAt,
		&c.Phone, &c.VideoLink, &c.Address,
		&c.JournalistNotes, &c.ExpertNotes,
		&c.RespondedAt, &c.AcceptedAt, &c.ConfirmedAt, &c.CancelledAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}

	c.ResponseStatus = domain.ResponseStatus(responseStatus)
	c.RDVStatus = domain.RDVStatus(rdvStatus)
	c.RDVType = domain.RDVType(rdvType)
	return &c, nil
}
