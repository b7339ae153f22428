package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/certify/internal/database"
	apperrors "github.com/allisson/certify/internal/errors"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

const refPrefix = "DST-PRG-2024-OFF1-OFF2-"

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPostgreSQLOrganizerRepository_Create(t *testing.T) {
	ctx := context.Background()
	organizer := &issuanceDomain.Organizer{
		ID:          uuid.Must(uuid.NewV7()),
		ReferenceID: refPrefix + "ORGANIZER-00001",
		Sequence:    1,
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "+15551234567",
		Institution: "Acme College",
		CreatedAt:   time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO organizers").
			WithArgs(
				organizer.ID, organizer.ReferenceID, organizer.Sequence, organizer.Name,
				organizer.Email, organizer.Phone, organizer.Institution, organizer.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewPostgreSQLOrganizerRepository(db).Create(ctx, organizer)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_UniqueViolationIsConflict", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO organizers").WillReturnError(&pq.Error{Code: "23505"})

		err := NewPostgreSQLOrganizerRepository(db).Create(ctx, organizer)

		assert.ErrorIs(t, err, issuanceDomain.ErrReferenceConflict)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Error_OtherFailure", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO organizers").WillReturnError(&pq.Error{Code: "23503"})

		err := NewPostgreSQLOrganizerRepository(db).Create(ctx, organizer)

		require.Error(t, err)
		assert.NotErrorIs(t, err, issuanceDomain.ErrReferenceConflict)
		assert.Contains(t, err.Error(), "failed to create organizer")
	})

	t.Run("Success_UsesTransactionFromContext", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO organizers").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		txManager := database.NewTxManager(db)
		err := txManager.WithTx(ctx, func(txCtx context.Context) error {
			return NewPostgreSQLOrganizerRepository(db).Create(txCtx, organizer)
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLOrganizerRepository_GetByReferenceID(t *testing.T) {
	ctx := context.Background()
	referenceID := refPrefix + "ORGANIZER-00001"
	columns := []string{"id", "reference_id", "sequence", "name", "email", "phone", "institution", "created_at"}

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		id := uuid.Must(uuid.NewV7())
		createdAt := time.Now().UTC()
		mock.ExpectQuery("SELECT (.+) FROM organizers").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id.String(), referenceID, 1, "Jane Doe", "jane@example.com", "+15551234567", "Acme", createdAt))

		organizer, err := NewPostgreSQLOrganizerRepository(db).GetByReferenceID(ctx, referenceID)

		require.NoError(t, err)
		assert.Equal(t, id, organizer.ID)
		assert.Equal(t, referenceID, organizer.ReferenceID)
		assert.Equal(t, 1, organizer.Sequence)
		assert.Equal(t, createdAt, organizer.CreatedAt)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM organizers").WithArgs(referenceID).WillReturnError(sql.ErrNoRows)

		organizer, err := NewPostgreSQLOrganizerRepository(db).GetByReferenceID(ctx, referenceID)

		assert.Nil(t, organizer)
		assert.ErrorIs(t, err, issuanceDomain.ErrOrganizerNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLOrganizerRepository_LatestReferenceID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Empty", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery("SELECT reference_id FROM organizers ORDER BY sequence DESC LIMIT 1").
			WillReturnRows(sqlmock.NewRows([]string{"reference_id"}))

		latest, err := NewPostgreSQLOrganizerRepository(db).LatestReferenceID(ctx)

		require.NoError(t, err)
		assert.Empty(t, latest)
	})

	t.Run("Success_Latest", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery("SELECT reference_id FROM organizers").
			WillReturnRows(sqlmock.NewRows([]string{"reference_id"}).AddRow(refPrefix + "ORGANIZER-00007"))

		latest, err := NewPostgreSQLOrganizerRepository(db).LatestReferenceID(ctx)

		require.NoError(t, err)
		assert.Equal(t, refPrefix+"ORGANIZER-00007", latest)
	})

	t.Run("Error_QueryFailure", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery("SELECT reference_id FROM organizers").WillReturnError(errors.New("boom"))

		_, err := NewPostgreSQLOrganizerRepository(db).LatestReferenceID(ctx)

		assert.ErrorContains(t, err, "failed to get latest organizer reference")
	})
}

func TestPostgreSQLEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	event := &issuanceDomain.Event{
		ID:                   uuid.Must(uuid.NewV7()),
		ReferenceID:          refPrefix + "EVT-00001",
		Sequence:             1,
		OrganizerReferenceID: refPrefix + "ORGANIZER-00001",
		Title:                "Outreach",
		Location:             "Town Hall",
		EventDate:            time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		ParticipantCount:     80,
		CreatedAt:            time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO events").
			WithArgs(
				event.ID, event.ReferenceID, event.Sequence, event.OrganizerReferenceID, event.Title,
				event.Location, event.EventDate, event.ParticipantCount, false, event.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLEventRepository(db).Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_UniqueViolationIsConflict", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO events").WillReturnError(&pq.Error{Code: "23505"})

		err := NewPostgreSQLEventRepository(db).Create(ctx, event)

		assert.ErrorIs(t, err, issuanceDomain.ErrReferenceConflict)
	})
}

func TestPostgreSQLEventRepository_Approve(t *testing.T) {
	ctx := context.Background()
	referenceID := refPrefix + "EVT-00001"

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("UPDATE events SET approved = TRUE").
			WithArgs(referenceID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLEventRepository(db).Approve(ctx, referenceID))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("UPDATE events SET approved = TRUE").
			WithArgs(referenceID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPostgreSQLEventRepository(db).Approve(ctx, referenceID)

		assert.ErrorIs(t, err, issuanceDomain.ErrEventNotFound)
	})
}

func TestPostgreSQLEventRepository_Counts(t *testing.T) {
	ctx := context.Background()
	db, mock := newSQLMock(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events WHERE approved = TRUE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	repo := NewPostgreSQLEventRepository(db)
	total, err := repo.Count(ctx)
	require.NoError(t, err)
	approved, err := repo.CountApproved(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(12), total)
	assert.Equal(t, int64(5), approved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCertificateRepository_Create(t *testing.T) {
	ctx := context.Background()
	eventReferenceID := refPrefix + "EVT-00001"
	certificate := &issuanceDomain.Certificate{
		ID:               uuid.Must(uuid.NewV7()),
		ReferenceID:      refPrefix + "PARTICIPANT-12345",
		Type:             issuanceDomain.CertificateParticipant,
		RecipientName:    "John Smith",
		Email:            "john@example.com",
		Institution:      "Acme",
		EventReferenceID: &eventReferenceID,
		CreatedAt:        time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO certificates").
			WithArgs(
				certificate.ID, certificate.ReferenceID, "participant", certificate.RecipientName,
				certificate.Email, certificate.Institution, eventReferenceID, certificate.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewPostgreSQLCertificateRepository(db).Create(ctx, certificate))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_UniqueViolationIsConflict", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO certificates").WillReturnError(&pq.Error{Code: "23505"})

		err := NewPostgreSQLCertificateRepository(db).Create(ctx, certificate)

		assert.ErrorIs(t, err, issuanceDomain.ErrReferenceConflict)
	})
}

func TestPostgreSQLCertificateRepository_GetByReferenceID(t *testing.T) {
	ctx := context.Background()
	referenceID := refPrefix + "MERIT-54321"
	columns := []string{
		"id", "reference_id", "type", "recipient_name", "email", "institution", "event_reference_id", "created_at",
	}

	t.Run("Success_WithoutEvent", func(t *testing.T) {
		db, mock := newSQLMock(t)
		id := uuid.Must(uuid.NewV7())
		mock.ExpectQuery("SELECT (.+) FROM certificates").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id.String(), referenceID, "merit", "John Smith", "john@example.com", "Acme", nil, time.Now().UTC()))

		certificate, err := NewPostgreSQLCertificateRepository(db).GetByReferenceID(ctx, referenceID)

		require.NoError(t, err)
		assert.Equal(t, id, certificate.ID)
		assert.Equal(t, issuanceDomain.CertificateMerit, certificate.Type)
		assert.Nil(t, certificate.EventReferenceID)
	})

	t.Run("Success_WithEvent", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM certificates").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				uuid.Must(uuid.NewV7()).String(), referenceID, "merit", "John Smith", "john@example.com", "Acme",
				refPrefix+"EVT-00001", time.Now().UTC(),
			))

		certificate, err := NewPostgreSQLCertificateRepository(db).GetByReferenceID(ctx, referenceID)

		require.NoError(t, err)
		require.NotNil(t, certificate.EventReferenceID)
		assert.Equal(t, refPrefix+"EVT-00001", *certificate.EventReferenceID)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM certificates").WithArgs(referenceID).WillReturnError(sql.ErrNoRows)

		certificate, err := NewPostgreSQLCertificateRepository(db).GetByReferenceID(ctx, referenceID)

		assert.Nil(t, certificate)
		assert.ErrorIs(t, err, issuanceDomain.ErrCertificateNotFound)
	})
}
