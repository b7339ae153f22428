package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/certify/internal/database"
	apperrors "github.com/allisson/certify/internal/errors"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

// PostgreSQLEventRepository implements event persistence for PostgreSQL databases.
type PostgreSQLEventRepository struct {
	db *sql.DB
}

// Create inserts a new event. A taken reference or sequence yields ErrReferenceConflict.
func (p *PostgreSQLEventRepository) Create(ctx context.Context, event *issuanceDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO events (id, reference_id, sequence, organizer_reference_id, title, location,
			  event_date, participant_count, approved, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := querier.ExecContext(
		ctx,
		query,
		event.ID,
		event.ReferenceID,
		event.Sequence,
		event.OrganizerReferenceID,
		event.Title,
		event.Location,
		event.EventDate,
		event.ParticipantCount,
		event.Approved,
		event.CreatedAt,
	)
	if err != nil {
		if isPostgresUniqueViolation(err) {
			return issuanceDomain.ErrReferenceConflict
		}
		return apperrors.Wrap(err, "failed to create event")
	}
	return nil
}

// GetByReferenceID retrieves an event by its reference identifier.
func (p *PostgreSQLEventRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, reference_id, sequence, organizer_reference_id, title, location,
			  event_date, participant_count, approved, created_at
			  FROM events
			  WHERE reference_id = $1`

	var event issuanceDomain.Event
	err := querier.QueryRowContext(ctx, query, referenceID).Scan(
		&event.ID,
		&event.ReferenceID,
		&event.Sequence,
		&event.OrganizerReferenceID,
		&event.Title,
		&event.Location,
		&event.EventDate,
		&event.ParticipantCount,
		&event.Approved,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, issuanceDomain.ErrEventNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get event")
	}

	return &event, nil
}

// LatestReferenceID returns the reference with the highest sequence, or "" when none exist.
func (p *PostgreSQLEventRepository) LatestReferenceID(ctx context.Context) (string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT reference_id FROM events ORDER BY sequence DESC LIMIT 1`

	var referenceID string
	if err := querier.QueryRowContext(ctx, query).Scan(&referenceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.Wrap(err, "failed to get latest event reference")
	}
	return referenceID, nil
}

// Approve marks an event approved. Approving an approved event is a no-op.
func (p *PostgreSQLEventRepository) Approve(ctx context.Context, referenceID string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `UPDATE events SET approved = TRUE WHERE reference_id = $1`, referenceID)
	if err != nil {
		return apperrors.Wrap(err, "failed to approve event")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return issuanceDomain.ErrEventNotFound
	}
	return nil
}

// Count returns the number of logged events.
func (p *PostgreSQLEventRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count events")
	}
	return count, nil
}

// CountApproved returns the number of approved events.
func (p *PostgreSQLEventRepository) CountApproved(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE approved = TRUE`).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count approved events")
	}
	return count, nil
}

// NewPostgreSQLEventRepository creates a new PostgreSQL event repository instance.
func NewPostgreSQLEventRepository(db *sql.DB) *PostgreSQLEventRepository {
	return &PostgreSQLEventRepository{db: db}
}
