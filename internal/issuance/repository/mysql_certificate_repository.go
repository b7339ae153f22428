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

// MySQLCertificateRepository implements certificate persistence for MySQL databases.
type MySQLCertificateRepository struct {
	db *sql.DB
}

// Create inserts a new certificate. A taken reference yields ErrReferenceConflict.
func (m *MySQLCertificateRepository) Create(ctx context.Context, certificate *issuanceDomain.Certificate) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO certificates (id, reference_id, type, recipient_name, email, institution,
			  event_reference_id, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := certificate.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal certificate id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		certificate.ReferenceID,
		certificate.Type,
		certificate.RecipientName,
		certificate.Email,
		certificate.Institution,
		certificate.EventReferenceID,
		certificate.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return issuanceDomain.ErrReferenceConflict
		}
		return apperrors.Wrap(err, "failed to create certificate")
	}
	return nil
}

// GetByReferenceID retrieves a certificate by its reference identifier.
func (m *MySQLCertificateRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Certificate, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, reference_id, type, recipient_name, email, institution, event_reference_id, created_at
			  FROM certificates
			  WHERE reference_id = ?`

	var certificate issuanceDomain.Certificate
	var id []byte
	err := querier.QueryRowContext(ctx, query, referenceID).Scan(
		&id,
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

	if certificate.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal certificate id")
	}
	return &certificate, nil
}

// Count returns the number of issued certificates.
func (m *MySQLCertificateRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM certificates`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count certificates")
	}
	return count, nil
}

// NewMySQLCertificateRepository creates a new MySQL certificate repository instance.
func NewMySQLCertificateRepository(db *sql.DB) *MySQLCertificateRepository {
	return &MySQLCertificateRepository{db: db}
}
