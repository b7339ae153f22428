package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/certify/internal/database"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
	refidDomain "github.com/allisson/certify/internal/refid/domain"
)

// eventUseCase implements EventUseCase.
type eventUseCase struct {
	eventRepo     EventRepository
	organizerRepo OrganizerRepository
	codec         *refidDomain.Codec
	issuer        *Issuer
	stats         StatsUseCase
	txManager     database.TxManager
}

// NewEventUseCase creates a new EventUseCase.
func NewEventUseCase(
	eventRepo EventRepository,
	organizerRepo OrganizerRepository,
	codec *refidDomain.Codec,
	issuer *Issuer,
	stats StatsUseCase,
	txManager database.TxManager,
) EventUseCase {
	return &eventUseCase{
		eventRepo:     eventRepo,
		organizerRepo: organizerRepo,
		codec:         codec,
		issuer:        issuer,
		stats:         stats,
		txManager:     txManager,
	}
}

// Create logs an event under the next EVT sequence number.
// Returns ErrOrganizerNotFound when the organizer reference is unknown.
func (e *eventUseCase) Create(
	ctx context.Context,
	input *issuanceDomain.CreateEventInput,
) (*issuanceDomain.Event, error) {
	if _, err := e.organizerRepo.GetByReferenceID(ctx, input.OrganizerReferenceID); err != nil {
		return nil, err
	}

	event := &issuanceDomain.Event{
		ID:                   uuid.Must(uuid.NewV7()),
		OrganizerReferenceID: input.OrganizerReferenceID,
		Title:                input.Title,
		Location:             input.Location,
		EventDate:            input.EventDate,
		ParticipantCount:     input.ParticipantCount,
	}

	derive := sequentialDerive(e.codec, refidDomain.KindEvent, e.eventRepo.LatestReferenceID)
	insert := func(ctx context.Context, c Candidate) error {
		event.ReferenceID = c.ReferenceID
		event.Sequence = c.Number
		event.CreatedAt = time.Now().UTC()
		return e.eventRepo.Create(ctx, event)
	}

	if _, err := e.issuer.Issue(ctx, refidDomain.KindEvent, derive, insert); err != nil {
		return nil, err
	}

	e.stats.Invalidate(ctx)
	return event, nil
}

// Get retrieves an event by reference.
func (e *eventUseCase) Get(ctx context.Context, referenceID string) (*issuanceDomain.Event, error) {
	return e.eventRepo.GetByReferenceID(ctx, referenceID)
}

// Approve marks an event approved so certificates may link to it.
// The update and the existence check behind it share one transaction.
func (e *eventUseCase) Approve(ctx context.Context, referenceID string) error {
	err := e.txManager.WithTx(ctx, func(ctx context.Context) error {
		return e.eventRepo.Approve(ctx, referenceID)
	})
	if err != nil {
		return err
	}
	e.stats.Invalidate(ctx)
	return nil
}
