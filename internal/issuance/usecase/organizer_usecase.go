package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
	refidDomain "github.com/allisson/certify/internal/refid/domain"
)

// organizerUseCase implements OrganizerUseCase.
type organizerUseCase struct {
	organizerRepo OrganizerRepository
	codec         *refidDomain.Codec
	issuer        *Issuer
	stats         StatsUseCase
}

// NewOrganizerUseCase creates a new OrganizerUseCase.
func NewOrganizerUseCase(
	organizerRepo OrganizerRepository,
	codec *refidDomain.Codec,
	issuer *Issuer,
	stats StatsUseCase,
) OrganizerUseCase {
	return &organizerUseCase{
		organizerRepo: organizerRepo,
		codec:         codec,
		issuer:        issuer,
		stats:         stats,
	}
}

// Create registers an organizer under the next ORGANIZER sequence number.
func (o *organizerUseCase) Create(
	ctx context.Context,
	input *issuanceDomain.CreateOrganizerInput,
) (*issuanceDomain.Organizer, error) {
	organizer := &issuanceDomain.Organizer{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Institution: input.Institution,
	}

	derive := sequentialDerive(o.codec, refidDomain.KindOrganizer, o.organizerRepo.LatestReferenceID)
	insert := func(ctx context.Context, c Candidate) error {
		organizer.ReferenceID = c.ReferenceID
		organizer.Sequence = c.Number
		organizer.CreatedAt = time.Now().UTC()
		return o.organizerRepo.Create(ctx, organizer)
	}

	if _, err := o.issuer.Issue(ctx, refidDomain.KindOrganizer, derive, insert); err != nil {
		return nil, err
	}

	o.stats.Invalidate(ctx)
	return organizer, nil
}

// Get retrieves an organizer by reference.
func (o *organizerUseCase) Get(ctx context.Context, referenceID string) (*issuanceDomain.Organizer, error) {
	return o.organizerRepo.GetByReferenceID(ctx, referenceID)
}
