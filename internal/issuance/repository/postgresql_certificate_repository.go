package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/allisson/certify/internal/database"
	apperrors "github.com/allisson/certify/internal/errors"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

// PostgreSQLCertificateRepository implements certificate persistence for PostgreSQL databases.
type PostgreSQLCertificateRepository struct {
	db *sql.DB
}

// Create inserts a new certificate. A taken reference yields ErrReferenceConflict.
func (p *PostgreSQLCertificateRepository) Create(ctx context.Context, certificate *issuanceDomain.Certificate) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO certificates (id, reference_id, type, recipient_name, email, institution,
			  event_reference_id, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		certificate.ID,
		certificate.ReferenceID,
		certificate.Type,
		certificate.RecipientName,
		certificate.Email,
		certificate.Institution,
		certificate.EventReferenceID,
		certificate.CreatedAt,
	)
	if err != nil {
		if isPostgresUniqueViolation(err) {
			return issuanceDomain.ErrReferenceConflict
		}
		return apperrors.Wrap(err, "failed to create certificate")
	}
	return nil
}

// GetByReferenceID retrieves a certificate by its reference identifier.
func (p *PostgreSQLCertificateRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Certificate, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, reference_id, type, recipient_name, email, institution, event_reference_id, created_at
			  FROM certificates
			  WHERE reference_id = $1`

	var certificate issuanceDomain.Certificate
	err := querier.QueryRowContext(ctx, query, referenceID).Scan(
		&certificate.ID,
		&certificate.ReferenceID,
		&certificate.Type,
		&certificate.RecipientName,
		&certificate.Email,
		&certificate.Institution,
		&certificate.EventReferenceID,
		&certificate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, issuanceDomain.ErrCertificateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get certificate")
	}

	return &certificate, nil
}

// Count returns the number of issued certificates.
func (p *PostgreSQLCertificateRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count certificates")
	}
	return count, nil
}

// NewPostgreSQLCertificateRepository creates a new PostgreSQL certificate repository instance.
func NewPostgreSQLCertificateRepository(db *sql.DB) *PostgreSQLCertificateRepository {
	return &PostgreSQLCertificateRepository{db: db}
}
