// Package repository provides database operations for the newsroom module.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aipress24/aipress24-sub001/internal/newsroom/domain"
	"github.com/aipress24/aipress24-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for notices and contacts.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a newsroom repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const noticeColumns = `
	id, owner_id, org_id, title, brief,
	inquiry_start, inquiry_end, copy_deadline, expected_publication,
	published, created_at, updated_at`

// CreateNotice inserts a new investigation notice.
func (r *Repository) CreateNotice(ctx context.Context, n *domain.Notice) error {
	query := `
		INSERT INTO notices (
			id, owner_id, org_id, title, brief,
			inquiry_start, inquiry_end, copy_deadline, expected_publication,
			published, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		n.ID, n.OwnerID, n.OrgID, n.Title, n.Brief,
		n.InquiryStart, n.InquiryEnd, n.CopyDeadline, n.ExpectedPublication,
		n.Published, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notice: %w", err)
	}

	return nil
}

// GetNotice retrieves a notice by ID.
func (r *Repository) GetNotice(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE id = $1`

	var n domain.Notice
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.OwnerID, &n.OrgID, &n.Title, &n.Brief,
		&n.InquiryStart, &n.InquiryEnd, &n.CopyDeadline, &n.ExpectedPublication,
		&n.Published, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(fmt.Sprintf("notice not found: %s", id))
		}
		return nil, fmt.Errorf("failed to get notice: %w", err)
	}

	return &n, nil
}

// ListNoticesByOwner returns a journalist's notices, newest first.
func (r *Repository) ListNoticesByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}
	defer rows.Close()

	var notices []domain.Notice
	for rows.Next() {
		var n domain.Notice
		if err := rows.Scan(
			&n.ID, &n.OwnerID, &n.OrgID, &n.Title, &n.Brief,
			&n.InquiryStart, &n.InquiryEnd, &n.CopyDeadline, &n.ExpectedPublication,
			&n.Published, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notice: %w", err)
		}
		notices = append(notices, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notices: %w", err)
	}

	return notices, nil
}

// UpdateNotice persists changes to a notice.
func (r *Repository) UpdateNotice(ctx context.Context, n *domain.Notice) error {
	query := `
		UPDATE notices SET
			org_id = $2, title = $3, brief = $4,
			inquiry_start = $5, inquiry_end = $6, copy_deadline = $7, expected_publication = $8,
			published = $9, updated_at = $10
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		n.ID, n.OrgID, n.Title, n.Brief,
		n.InquiryStart, n.InquiryEnd, n.CopyDeadline, n.ExpectedPublication,
		n.Published, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("notice not found: %s", n.ID))
	}

	return nil
}
