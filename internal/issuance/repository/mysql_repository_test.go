package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/certify/internal/database"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

func TestMySQLOrganizerRepository_Create(t *testing.T) {
	ctx := context.Background()
	organizer := &issuanceDomain.Organizer{
		ID:          uuid.Must(uuid.NewV7()),
		ReferenceID: refPrefix + "ORGANIZER-00002",
		Sequence:    2,
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "+15551234567",
		Institution: "Acme College",
		CreatedAt:   time.Now().UTC(),
	}

	t.Run("Success_StoresBinaryID", func(t *testing.T) {
		db, mock := newSQLMock(t)
		id, err := organizer.ID.MarshalBinary()
		require.NoError(t, err)
		mock.ExpectExec("INSERT INTO organizers").
			WithArgs(
				id, organizer.ReferenceID, organizer.Sequence, organizer.Name,
				organizer.Email, organizer.Phone, organizer.Institution, organizer.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLOrganizerRepository(db).Create(ctx, organizer))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_DuplicateEntryIsConflict", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO organizers").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		err := NewMySQLOrganizerRepository(db).Create(ctx, organizer)

		assert.ErrorIs(t, err, issuanceDomain.ErrReferenceConflict)
	})
}

func TestMySQLOrganizerRepository_GetByReferenceID(t *testing.T) {
	ctx := context.Background()
	referenceID := refPrefix + "ORGANIZER-00002"
	columns := []string{"id", "reference_id", "sequence", "name", "email", "phone", "institution", "created_at"}

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		id := uuid.Must(uuid.NewV7())
		mock.ExpectQuery("SELECT (.+) FROM organizers").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id[:], referenceID, 2, "Jane Doe", "jane@example.com", "+15551234567", "Acme", time.Now().UTC()))

		organizer, err := NewMySQLOrganizerRepository(db).GetByReferenceID(ctx, referenceID)

		require.NoError(t, err)
		assert.Equal(t, id, organizer.ID)
		assert.Equal(t, 2, organizer.Sequence)
	})

	t.Run("Error_MalformedID", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM organizers").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow([]byte{1, 2, 3}, referenceID, 2, "Jane Doe", "jane@example.com", "+1555", "Acme", time.Now().UTC()))

		organizer, err := NewMySQLOrganizerRepository(db).GetByReferenceID(ctx, referenceID)

		assert.Nil(t, organizer)
		assert.ErrorContains(t, err, "failed to unmarshal organizer id")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery("SELECT (.+) FROM organizers").WithArgs(referenceID).WillReturnError(sql.ErrNoRows)

		_, err := NewMySQLOrganizerRepository(db).GetByReferenceID(ctx, referenceID)

		assert.ErrorIs(t, err, issuanceDomain.ErrOrganizerNotFound)
	})
}

func TestMySQLEventRepository_Approve(t *testing.T) {
	ctx := context.Background()
	referenceID := refPrefix + "EVT-00003"

	t.Run("Success_Changed", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("UPDATE events SET approved = TRUE").
			WithArgs(referenceID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLEventRepository(db).Approve(ctx, referenceID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_AlreadyApproved", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("UPDATE events SET approved = TRUE").
			WithArgs(referenceID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM events").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

		require.NoError(t, NewMySQLEventRepository(db).Approve(ctx, referenceID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("UPDATE events SET approved = TRUE").
			WithArgs(referenceID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM events").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))

		err := NewMySQLEventRepository(db).Approve(ctx, referenceID)

		assert.ErrorIs(t, err, issuanceDomain.ErrEventNotFound)
	})

	t.Run("Transaction_CheckRunsInSameTx", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE events SET approved = TRUE").
			WithArgs(referenceID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM events").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
		mock.ExpectCommit()

		repo := NewMySQLEventRepository(db)
		err := database.NewTxManager(db).WithTx(ctx, func(ctx context.Context) error {
			return repo.Approve(ctx, referenceID)
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Transaction_NotFoundRollsBack", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE events SET approved = TRUE").
			WithArgs(referenceID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM events").
			WithArgs(referenceID).
			WillReturnRows(sqlmock.NewRows([]string{"1"}))
		mock.ExpectRollback()

		repo := NewMySQLEventRepository(db)
		err := database.NewTxManager(db).WithTx(ctx, func(ctx context.Context) error {
			return repo.Approve(ctx, referenceID)
		})

		assert.ErrorIs(t, err, issuanceDomain.ErrEventNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLEventRepository_GetByReferenceID(t *testing.T) {
	ctx := context.Background()
	referenceID := refPrefix + "EVT-00003"
	id := uuid.Must(uuid.NewV7())
	eventDate := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	db, mock := newSQLMock(t)
	mock.ExpectQuery("SELECT (.+) FROM events").
		WithArgs(referenceID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reference_id", "sequence", "organizer_reference_id", "title", "location",
			"event_date", "participant_count", "approved", "created_at",
		}).AddRow(
			id[:], referenceID, 3, refPrefix+"ORGANIZER-00001", "Outreach", "Town Hall",
			eventDate, 80, true, time.Now().UTC(),
		))

	event, err := NewMySQLEventRepository(db).GetByReferenceID(ctx, referenceID)

	require.NoError(t, err)
	assert.Equal(t, id, event.ID)
	assert.True(t, event.Approved)
	assert.Equal(t, eventDate, event.EventDate)
	assert.Equal(t, 80, event.ParticipantCount)
}

func TestMySQLCertificateRepository(t *testing.T) {
	ctx := context.Background()
	certificate := &issuanceDomain.Certificate{
		ID:            uuid.Must(uuid.NewV7()),
		ReferenceID:   refPrefix + "ORGANIZER-10001",
		Type:          issuanceDomain.CertificateOrganizer,
		RecipientName: "Jane Doe",
		Email:         "jane@example.com",
		Institution:   "Acme",
		CreatedAt:     time.Now().UTC(),
	}

	t.Run("Create_NullEvent", func(t *testing.T) {
		db, mock := newSQLMock(t)
		id, err := certificate.ID.MarshalBinary()
		require.NoError(t, err)
		mock.ExpectExec("INSERT INTO certificates").
			WithArgs(
				id, certificate.ReferenceID, "organizer", certificate.RecipientName,
				certificate.Email, certificate.Institution, nil, certificate.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewMySQLCertificateRepository(db).Create(ctx, certificate))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Create_DuplicateEntryIsConflict", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectExec("INSERT INTO certificates").WillReturnError(&mysql.MySQLError{Number: 1062})

		err := NewMySQLCertificateRepository(db).Create(ctx, certificate)

		assert.ErrorIs(t, err, issuanceDomain.ErrReferenceConflict)
	})

	t.Run("Count", func(t *testing.T) {
		db, mock := newSQLMock(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM certificates`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := NewMySQLCertificateRepository(db).Count(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(42), count)
	})
}
