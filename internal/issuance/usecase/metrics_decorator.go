package usecase

import (
	"context"
	"time"

	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
	"github.com/allisson/certify/internal/metrics"
)

func recordOperation(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	m.RecordOperation(ctx, metrics.DomainIssuance, operation, status)
	m.RecordDuration(ctx, metrics.DomainIssuance, operation, time.Since(start), status)
}

// organizerUseCaseWithMetrics decorates OrganizerUseCase with metrics instrumentation.
type organizerUseCaseWithMetrics struct {
	next    OrganizerUseCase
	metrics metrics.BusinessMetrics
}

// NewOrganizerUseCaseWithMetrics wraps an OrganizerUseCase with metrics recording.
func NewOrganizerUseCaseWithMetrics(useCase OrganizerUseCase, m metrics.BusinessMetrics) OrganizerUseCase {
	return &organizerUseCaseWithMetrics{next: useCase, metrics: m}
}

// Create records metrics for organizer registration.
func (o *organizerUseCaseWithMetrics) Create(
	ctx context.Context,
	input *issuanceDomain.CreateOrganizerInput,
) (*issuanceDomain.Organizer, error) {
	start := time.Now()
	organizer, err := o.next.Create(ctx, input)
	recordOperation(ctx, o.metrics, "organizer_create", start, err)
	return organizer, err
}

// Get records metrics for organizer retrieval.
func (o *organizerUseCaseWithMetrics) Get(ctx context.Context, referenceID string) (*issuanceDomain.Organizer, error) {
	start := time.Now()
	organizer, err := o.next.Get(ctx, referenceID)
	recordOperation(ctx, o.metrics, "organizer_get", start, err)
	return organizer, err
}

// eventUseCaseWithMetrics decorates EventUseCase with metrics instrumentation.
type eventUseCaseWithMetrics struct {
	next    EventUseCase
	metrics metrics.BusinessMetrics
}

// NewEventUseCaseWithMetrics wraps an EventUseCase with metrics recording.
func NewEventUseCaseWithMetrics(useCase EventUseCase, m metrics.BusinessMetrics) EventUseCase {
	return &eventUseCaseWithMetrics{next: useCase, metrics: m}
}

// Create records metrics for event logging.
func (e *eventUseCaseWithMetrics) Create(
	ctx context.Context,
	input *issuanceDomain.CreateEventInput,
) (*issuanceDomain.Event, error) {
	start := time.Now()
	event, err := e.next.Create(ctx, input)
	recordOperation(ctx, e.metrics, "event_create", start, err)
	return event, err
}

// Get records metrics for event retrieval.
func (e *eventUseCaseWithMetrics) Get(ctx context.Context, referenceID string) (*issuanceDomain.Event, error) {
	start := time.Now()
	event, err := e.next.Get(ctx, referenceID)
	recordOperation(ctx, e.metrics, "event_get", start, err)
	return event, err
}

// Approve records metrics for event approval.
func (e *eventUseCaseWithMetrics) Approve(ctx context.Context, referenceID string) error {
	start := time.Now()
	err := e.next.Approve(ctx, referenceID)
	recordOperation(ctx, e.metrics, "event_approve", start, err)
	return err
}

// certificateUseCaseWithMetrics decorates CertificateUseCase with metrics instrumentation.
type certificateUseCaseWithMetrics struct {
	next    CertificateUseCase
	metrics metrics.BusinessMetrics
}

// NewCertificateUseCaseWithMetrics wraps a CertificateUseCase with metrics recording.
func NewCertificateUseCaseWithMetrics(useCase CertificateUseCase, m metrics.BusinessMetrics) CertificateUseCase {
	return &certificateUseCaseWithMetrics{next: useCase, metrics: m}
}

// Issue records metrics for certificate issuance.
func (c *certificateUseCaseWithMetrics) Issue(
	ctx context.Context,
	input *issuanceDomain.IssueCertificateInput,
) (*issuanceDomain.IssuedCertificate, error) {
	start := time.Now()
	issued, err := c.next.Issue(ctx, input)
	recordOperation(ctx, c.metrics, "certificate_issue", start, err)
	return issued, err
}

// Get records metrics for certificate retrieval.
func (c *certificateUseCaseWithMetrics) Get(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.IssuedCertificate, error) {
	start := time.Now()
	issued, err := c.next.Get(ctx, referenceID)
	recordOperation(ctx, c.metrics, "certificate_get", start, err)
	return issued, err
}

// Download records metrics for certificate downloads.
func (c *certificateUseCaseWithMetrics) Download(
	ctx context.Context,
	referenceID, token string,
) (*issuanceDomain.Certificate, error) {
	start := time.Now()
	certificate, err := c.next.Download(ctx, referenceID, token)
	recordOperation(ctx, c.metrics, "certificate_download", start, err)
	return certificate, err
}
