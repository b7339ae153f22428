package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	capabilityService "github.com/allisson/certify/internal/capability/service"
	apperrors "github.com/allisson/certify/internal/errors"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
	refidDomain "github.com/allisson/certify/internal/refid/domain"
	refidService "github.com/allisson/certify/internal/refid/service"
)

// Warning messages returned alongside an issued certificate.
const (
	WarningEventNotFound    = "event reference not found; certificate issued without event link"
	WarningEventNotApproved = "event not approved; certificate issued without event link"
)

// certificateUseCase implements CertificateUseCase.
type certificateUseCase struct {
	certificateRepo CertificateRepository
	eventRepo       EventRepository
	codec           *refidDomain.Codec
	numbers         refidService.NumberSource
	signer          capabilityService.Signer
	issuer          *Issuer
	stats           StatsUseCase
	logger          *slog.Logger
}

// NewCertificateUseCase creates a new CertificateUseCase.
func NewCertificateUseCase(
	certificateRepo CertificateRepository,
	eventRepo EventRepository,
	codec *refidDomain.Codec,
	numbers refidService.NumberSource,
	signer capabilityService.Signer,
	issuer *Issuer,
	stats StatsUseCase,
	logger *slog.Logger,
) CertificateUseCase {
	return &certificateUseCase{
		certificateRepo: certificateRepo,
		eventRepo:       eventRepo,
		codec:           codec,
		numbers:         numbers,
		signer:          signer,
		issuer:          issuer,
		stats:           stats,
		logger:          logger,
	}
}

// resolveEvent returns the reference to store and an optional warning.
// Unknown or unapproved events are dropped rather than failing issuance.
func (c *certificateUseCase) resolveEvent(ctx context.Context, referenceID string) (*string, string, error) {
	if referenceID == "" {
		return nil, "", nil
	}

	event, err := c.eventRepo.GetByReferenceID(ctx, referenceID)
	if err != nil {
		if apperrors.Is(err, issuanceDomain.ErrEventNotFound) {
			c.logger.Warn("dropping unknown event reference", slog.String("event_reference_id", referenceID))
			return nil, WarningEventNotFound, nil
		}
		return nil, "", err
	}

	if !event.Approved {
		c.logger.Warn("dropping unapproved event reference", slog.String("event_reference_id", referenceID))
		return nil, WarningEventNotApproved, nil
	}

	return &event.ReferenceID, "", nil
}

// Issue creates a certificate under a random number and signs a download token for it.
func (c *certificateUseCase) Issue(
	ctx context.Context,
	input *issuanceDomain.IssueCertificateInput,
) (*issuanceDomain.IssuedCertificate, error) {
	if err := input.Type.Validate(); err != nil {
		return nil, err
	}

	eventReferenceID, warning, err := c.resolveEvent(ctx, input.EventReferenceID)
	if err != nil {
		return nil, err
	}

	certificate := &issuanceDomain.Certificate{
		ID:               uuid.Must(uuid.NewV7()),
		Type:             input.Type,
		RecipientName:    input.RecipientName,
		Email:            input.Email,
		Institution:      input.Institution,
		EventReferenceID: eventReferenceID,
	}

	kind := input.Type.Kind()
	derive := randomDerive(c.codec, kind, c.numbers)
	insert := func(ctx context.Context, cand Candidate) error {
		certificate.ReferenceID = cand.ReferenceID
		certificate.CreatedAt = time.Now().UTC()
		return c.certificateRepo.Create(ctx, certificate)
	}

	if _, err := c.issuer.Issue(ctx, kind, derive, insert); err != nil {
		return nil, err
	}
	c.stats.Invalidate(ctx)

	token, err := c.signer.Sign(certificate.ReferenceID)
	if err != nil {
		return nil, err
	}

	issued := &issuanceDomain.IssuedCertificate{Certificate: certificate, Token: token}
	if warning != "" {
		issued.Warnings = []string{warning}
	}
	return issued, nil
}

// Get loads a certificate and signs a fresh download token for it.
func (c *certificateUseCase) Get(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.IssuedCertificate, error) {
	certificate, err := c.certificateRepo.GetByReferenceID(ctx, referenceID)
	if err != nil {
		return nil, err
	}

	token, err := c.signer.Sign(certificate.ReferenceID)
	if err != nil {
		return nil, err
	}

	return &issuanceDomain.IssuedCertificate{Certificate: certificate, Token: token}, nil
}

// Download checks the capability before touching persistence.
func (c *certificateUseCase) Download(
	ctx context.Context,
	referenceID, token string,
) (*issuanceDomain.Certificate, error) {
	if _, err := c.signer.Verify(referenceID, token); err != nil {
		return nil, err
	}
	return c.certificateRepo.GetByReferenceID(ctx, referenceID)
}
