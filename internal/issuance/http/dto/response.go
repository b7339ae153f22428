package dto

import (
	"time"

	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

// OrganizerResponse represents an organizer in API responses.
type OrganizerResponse struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Institution string    `json:"institution"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapOrganizerToResponse converts a domain organizer to an API response.
func MapOrganizerToResponse(organizer *issuanceDomain.Organizer) OrganizerResponse {
	return OrganizerResponse{
		ID:          organizer.ID.String(),
		ReferenceID: organizer.ReferenceID,
		Name:        organizer.Name,
		Email:       organizer.Email,
		Phone:       organizer.Phone,
		Institution: organizer.Institution,
		CreatedAt:   organizer.CreatedAt,
	}
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID                   string    `json:"id"`
	ReferenceID          string    `json:"reference_id"`
	OrganizerReferenceID string    `json:"organizer_reference_id"`
	Title                string    `json:"title"`
	Location             string    `json:"location"`
	EventDate            string    `json:"event_date"`
	ParticipantCount     int       `json:"participant_count"`
	Approved             bool      `json:"approved"`
	CreatedAt            time.Time `json:"created_at"`
}

// MapEventToResponse converts a domain event to an API response.
func MapEventToResponse(event *issuanceDomain.Event) EventResponse {
	return EventResponse{
		ID:                   event.ID.String(),
		ReferenceID:          event.ReferenceID,
		OrganizerReferenceID: event.OrganizerReferenceID,
		Title:                event.Title,
		Location:             event.Location,
		EventDate:            event.EventDate.Format(EventDateLayout),
		ParticipantCount:     event.ParticipantCount,
		Approved:             event.Approved,
		CreatedAt:            event.CreatedAt,
	}
}

// CertificateResponse represents a certificate in API responses.
type CertificateResponse struct {
	ID               string    `json:"id"`
	ReferenceID      string    `json:"reference_id"`
	CertificateType  string    `json:"certificate_type"`
	RecipientName    string    `json:"recipient_name"`
	Email            string    `json:"email"`
	Institution      string    `json:"institution"`
	EventReferenceID *string   `json:"event_reference_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// MapCertificateToResponse converts a domain certificate to an API response.
func MapCertificateToResponse(certificate *issuanceDomain.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:               certificate.ID.String(),
		ReferenceID:      certificate.ReferenceID,
		CertificateType:  string(certificate.Type),
		RecipientName:    certificate.RecipientName,
		Email:            certificate.Email,
		Institution:      certificate.Institution,
		EventReferenceID: certificate.EventReferenceID,
		CreatedAt:        certificate.CreatedAt,
	}
}

// IssuedCertificateResponse carries a certificate with a download capability.
// Warnings is always present so clients can rely on the field.
type IssuedCertificateResponse struct {
	Certificate    CertificateResponse `json:"certificate"`
	DownloadToken  string              `json:"download_token"`
	TokenExpiresAt time.Time           `json:"token_expires_at"`
	Warnings       []string            `json:"warnings"`
}

// MapIssuedCertificateToResponse converts an issued certificate to an API response.
func MapIssuedCertificateToResponse(issued *issuanceDomain.IssuedCertificate) IssuedCertificateResponse {
	warnings := issued.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return IssuedCertificateResponse{
		Certificate:    MapCertificateToResponse(issued.Certificate),
		DownloadToken:  issued.Token.Value,
		TokenExpiresAt: issued.Token.ExpiresAt,
		Warnings:       warnings,
	}
}

// StatsResponse represents aggregate issuance counts.
type StatsResponse struct {
	Organizers     int64     `json:"organizers"`
	Events         int64     `json:"events"`
	ApprovedEvents int64     `json:"approved_events"`
	Certificates   int64     `json:"certificates"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// MapStatsToResponse converts domain stats to an API response.
func MapStatsToResponse(stats *issuanceDomain.Stats) StatsResponse {
	return StatsResponse{
		Organizers:     stats.Organizers,
		Events:         stats.Events,
		ApprovedEvents: stats.ApprovedEvents,
		Certificates:   stats.Certificates,
		GeneratedAt:    stats.GeneratedAt,
	}
}
