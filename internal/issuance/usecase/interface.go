// Package usecase implements issuance of organizers, events and certificates.
//
// Creation runs through the Issuer, which derives a candidate reference identifier,
// attempts a unique insert and retries with a fresh candidate on collision.
package usecase

import (
	"context"

	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

// OrganizerRepository defines the interface for organizer persistence operations.
type OrganizerRepository interface {
	// Create inserts organizer. Returns ErrReferenceConflict when the reference is taken.
	Create(ctx context.Context, organizer *issuanceDomain.Organizer) error
	GetByReferenceID(ctx context.Context, referenceID string) (*issuanceDomain.Organizer, error)
	// LatestReferenceID returns the reference with the highest sequence, or "" when empty.
	LatestReferenceID(ctx context.Context) (string, error)
	Count(ctx context.Context) (int64, error)
}

// EventRepository defines the interface for event persistence operations.
type EventRepository interface {
	// Create inserts event. Returns ErrReferenceConflict when the reference is taken.
	Create(ctx context.Context, event *issuanceDomain.Event) error
	GetByReferenceID(ctx context.Context, referenceID string) (*issuanceDomain.Event, error)
	// LatestReferenceID returns the reference with the highest sequence, or "" when empty.
	LatestReferenceID(ctx context.Context) (string, error)
	// Approve marks the event approved. Returns ErrEventNotFound for unknown references.
	Approve(ctx context.Context, referenceID string) error
	Count(ctx context.Context) (int64, error)
	CountApproved(ctx context.Context) (int64, error)
}

// CertificateRepository defines the interface for certificate persistence operations.
type CertificateRepository interface {
	// Create inserts certificate. Returns ErrReferenceConflict when the reference is taken.
	Create(ctx context.Context, certificate *issuanceDomain.Certificate) error
	GetByReferenceID(ctx context.Context, referenceID string) (*issuanceDomain.Certificate, error)
	Count(ctx context.Context) (int64, error)
}

// OrganizerUseCase defines the interface for organizer registration.
type OrganizerUseCase interface {
	Create(ctx context.Context, input *issuanceDomain.CreateOrganizerInput) (*issuanceDomain.Organizer, error)
	Get(ctx context.Context, referenceID string) (*issuanceDomain.Organizer, error)
}

// EventUseCase defines the interface for event logging and approval.
type EventUseCase interface {
	// Create logs an event for an existing organizer. The event starts unapproved.
	Create(ctx context.Context, input *issuanceDomain.CreateEventInput) (*issuanceDomain.Event, error)
	Get(ctx context.Context, referenceID string) (*issuanceDomain.Event, error)
	Approve(ctx context.Context, referenceID string) error
}

// CertificateUseCase defines the interface for certificate issuance and download.
type CertificateUseCase interface {
	// Issue creates a certificate and signs a download token for it.
	Issue(ctx context.Context, input *issuanceDomain.IssueCertificateInput) (*issuanceDomain.IssuedCertificate, error)
	// Get loads a certificate and signs a fresh download token for it.
	Get(ctx context.Context, referenceID string) (*issuanceDomain.IssuedCertificate, error)
	// Download verifies token against referenceID before loading the certificate.
	Download(ctx context.Context, referenceID, token string) (*issuanceDomain.Certificate, error)
}

// StatsUseCase defines the interface for aggregate issuance counts.
type StatsUseCase interface {
	Get(ctx context.Context) (*issuanceDomain.Stats, error)
	// Invalidate drops any cached stats.
	Invalidate(ctx context.Context)
}
