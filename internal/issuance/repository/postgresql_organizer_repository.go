package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/certify/internal/database"
	apperrors "github.com/allisson/certify/internal/errors"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

// PostgreSQLOrganizerRepository implements organizer persistence for PostgreSQL databases.
type PostgreSQLOrganizerRepository struct {
	db *sql.DB
}

// Create inserts a new organizer. A taken reference or sequence yields ErrReferenceConflict.
func (p *PostgreSQLOrganizerRepository) Create(ctx context.Context, organizer *issuanceDomain.Organizer) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO organizers (id, reference_id, sequence, name, email, phone, institution, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		organizer.ID,
		organizer.ReferenceID,
		organizer.Sequence,
		organizer.Name,
		organizer.Email,
		organizer.Phone,
		organizer.Institution,
		organizer.CreatedAt,
	)
	if err != nil {
		if isPostgresUniqueViolation(err) {
			return issuanceDomain.ErrReferenceConflict
		}
		return apperrors.Wrap(err, "failed to create organizer")
	}
	return nil
}

// GetByReferenceID retrieves an organizer by its reference identifier.
func (p *PostgreSQLOrganizerRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Organizer, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, reference_id, sequence, name, email, phone, institution, created_at
			  FROM organizers
			  WHERE reference_id = $1`

	var organizer issuanceDomain.Organizer
	err := querier.QueryRowContext(ctx, query, referenceID).Scan(
		&organizer.ID,
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

	return &organizer, nil
}

// LatestReferenceID returns the reference with the highest sequence, or "" when none exist.
func (p *PostgreSQLOrganizerRepository) LatestReferenceID(ctx context.Context) (string, error) {
	querier := database.GetTx(ctx, p.db)

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
func (p *PostgreSQLOrganizerRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizers`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count organizers")
	}
	return count, nil
}

// NewPostgreSQLOrganizerRepository creates a new PostgreSQL organizer repository instance.
func NewPostgreSQLOrganizerRepository(db *sql.DB) *PostgreSQLOrganizerRepository {
	return &PostgreSQLOrganizerRepository{db: db}
}
