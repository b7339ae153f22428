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

// MySQLOrganizerRepository implements organizer persistence for MySQL databases.
// IDs are stored as BINARY(16).
type MySQLOrganizerRepository struct {
	db *sql.DB
}

// Create inserts a new organizer. A taken reference or sequence yields ErrReferenceConflict.
func (m *MySQLOrganizerRepository) Create(ctx context.Context, organizer *issuanceDomain.Organizer) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO organizers (id, reference_id, sequence, name, email, phone, institution, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := organizer.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal organizer id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		organizer.ReferenceID,
		organizer.Sequence,
		organizer.Name,
		organizer.Email,
		organizer.Phone,
		organizer.Institution,
		organizer.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return issuanceDomain.ErrReferenceConflict
		}
		return apperrors.Wrap(err, "failed to create organizer")
	}
	return nil
}

// GetByReferenceID retrieves an organizer by its reference identifier.
func (m *MySQLOrganizerRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Organizer, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, reference_id, sequence, name, email, phone, institution, created_at
			  FROM organizers
			  WHERE reference_id = ?`

	var organizer issuanceDomain.Organizer
	var id []byte
	err := querier.QueryRowContext(ctx, query, referenceID).Scan(
		&id,
		&organizer.ReferenceID,
		&organizer.Sequence,
		&organizer.Name,
		&organizer.Email,
		&organizer.Phone,
		&organizer.Institution,
		&organizer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, issuanceDomain.ErrOrganizerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get organizer")
	}

	if organizer.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal organizer id")
	}
	return &organizer, nil
}

// LatestReferenceID returns the reference with the highest sequence, or "" when none exist.
func (m *MySQLOrganizerRepository) LatestReferenceID(ctx context.Context) (string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT reference_id FROM organizers ORDER BY sequence DESC LIMIT 1`

	var referenceID string
	if err := querier.QueryRowContext(ctx, query).Scan(&referenceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.Wrap(err, "failed to get latest organizer reference")
	}
	return referenceID, nil
}

// Count returns the number of registered organizers.
func (m *MySQLOrganizerRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizers`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count organizers")
	}
	return count, nil
}

// NewMySQLOrganizerRepository creates a new MySQL organizer repository instance.
func NewMySQLOrganizerRepository(db *sql.DB) *MySQLOrganizerRepository {
	return &MySQLOrganizerRepository{db: db}
}
