package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/certify/internal/database"
	apperrors "github.com/allisson/certify/internal/errors"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

// MySQLEventRepository implements event persistence for MySQL databases.
type MySQLEventRepository struct {
	db *sql.DB
}

// Create inserts a new event. A taken reference or sequence yields ErrReferenceConflict.
func (m *MySQLEventRepository) Create(ctx context.Context, event *issuanceDomain.Event) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO events (id, reference_id, sequence, organizer_reference_id, title, location,
			  event_date, participant_count, approved, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := event.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
		if isMySQLDuplicateEntry(err) {
			return issuanceDomain.ErrReferenceConflict
		}
		return apperrors.Wrap(err, "failed to create event")
	}
	return nil
}

// GetByReferenceID retrieves an event by its reference identifier.
func (m *MySQLEventRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Event, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, reference_id, sequence, organizer_reference_id, title, location,
			  event_date, participant_count, approved, created_at
			  FROM events
			  WHERE reference_id = ?`

	var event issuanceDomain.Event
	var id []byte
	err := querier.QueryRowContext(ctx, query, referenceID).Scan(
		&id,
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

	if event.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal event id")
	}
	return &event, nil
}

// LatestReferenceID returns the reference with the highest sequence, or "" when none exist.
func (m *MySQLEventRepository) LatestReferenceID(ctx context.Context) (string, error) {
	querier := database.GetTx(ctx, m.db)

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

// Approve marks an event approved.
//
// MySQL reports matched rather than changed rows only with CLIENT_FOUND_ROWS, so an
// already approved event is checked for existence instead of trusting RowsAffected.
func (m *MySQLEventRepository) Approve(ctx context.Context, referenceID string) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `UPDATE events SET approved = TRUE WHERE reference_id = ?`, referenceID)
	if err != nil {
		return apperrors.Wrap(err, "failed to approve event")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows > 0 {
		return nil
	}

	var exists int
	err = querier.QueryRowContext(ctx, `SELECT 1 FROM events WHERE reference_id = ?`, referenceID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return issuanceDomain.ErrEventNotFound
		}
		return apperrors.Wrap(err, "failed to check event")
	}
	return nil
}

// Count returns the number of logged events.
func (m *MySQLEventRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count events")
	}
	return count, nil
}

// CountApproved returns the number of approved events.
func (m *MySQLEventRepository) CountApproved(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE approved = TRUE`).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count approved events")
	}
	return count, nil
}

// NewMySQLEventRepository creates a new MySQL event repository instance.
func NewMySQLEventRepository(db *sql.DB) *MySQLEventRepository {
	return &MySQLEventRepository{db: db}
}
