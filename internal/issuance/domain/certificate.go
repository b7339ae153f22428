package domain

import (
	"time"

	"github.com/google/uuid"

	capabilityDomain "github.com/allisson/certify/internal/capability/domain"
	refidDomain "github.com/allisson/certify/internal/refid/domain"
)

// CertificateType selects the certificate template and identifier tag.
type CertificateType string

const (
	CertificateParticipant CertificateType = "participant"
	CertificateMerit       CertificateType = "merit"
	CertificateOrganizer   CertificateType = "organizer"
)

// Validate checks if the certificate type is known.
func (t CertificateType) Validate() error {
	switch t {
	case CertificateParticipant, CertificateMerit, CertificateOrganizer:
		return nil
	default:
		return ErrInvalidCertificateType
	}
}

// Kind maps the certificate type to its identifier kind.
func (t CertificateType) Kind() refidDomain.Kind {
	switch t {
	case CertificateMerit:
		return refidDomain.KindMerit
	case CertificateOrganizer:
		return refidDomain.KindOrganizerCertificate
	default:
		return refidDomain.KindParticipant
	}
}

// Certificate is an issued certificate record.
type Certificate struct {
	ID               uuid.UUID
	ReferenceID      string
	Type             CertificateType
	RecipientName    string
	Email            string
	Institution      string
	EventReferenceID *string
	CreatedAt        time.Time
}

// IssueCertificateInput holds the caller-supplied certificate fields.
type IssueCertificateInput struct {
	Type             CertificateType
	RecipientName    string
	Email            string
	Institution      string
	EventReferenceID string
}

// IssuedCertificate is a certificate together with a download capability.
// Warnings lists non-fatal problems, such as a dropped event link.
type IssuedCertificate struct {
	Certificate *Certificate
	Token       capabilityDomain.Token
	Warnings    []string
}

// Stats are aggregate issuance counts.
type Stats struct {
	Organizers     int64
	Events         int64
	ApprovedEvents int64
	Certificates   int64
	GeneratedAt    time.Time
}
