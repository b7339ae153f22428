// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
	customValidation "github.com/allisson/certify/internal/validation"
)

// EventDateLayout is the accepted event_date format.
const EventDateLayout = "2006-01-02"

// CreateOrganizerRequest contains the parameters for registering an organizer.
type CreateOrganizerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

// Validate checks if the create organizer request is valid.
func (r *CreateOrganizerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
			validation.Length(1, 255),
		),
		validation.Field(&r.Phone,
			validation.Required,
			customValidation.Phone,
		),
		validation.Field(&r.Institution,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// ToDomain converts the request into use case input, trimming surrounding whitespace.
func (r *CreateOrganizerRequest) ToDomain() *issuanceDomain.CreateOrganizerInput {
	return &issuanceDomain.CreateOrganizerInput{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Phone:       r.Phone,
		Institution: strings.TrimSpace(r.Institution),
	}
}

// CreateEventRequest contains the parameters for logging an event.
type CreateEventRequest struct {
	OrganizerReferenceID string `json:"organizer_reference_id"`
	Title                string `json:"title"`
	Location             string `json:"location"`
	EventDate            string `json:"event_date"`
	ParticipantCount     int    `json:"participant_count"`
}

// Validate checks if the create event request is valid.
func (r *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrganizerReferenceID,
			validation.Required,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Title,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Location,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.EventDate,
			validation.Required,
			validation.Date(EventDateLayout),
		),
		validation.Field(&r.ParticipantCount,
			validation.Required,
			validation.Min(1),
		),
	)
}

// ToDomain converts the request into use case input. Validate must succeed first.
func (r *CreateEventRequest) ToDomain() (*issuanceDomain.CreateEventInput, error) {
	eventDate, err := time.Parse(EventDateLayout, r.EventDate)
	if err != nil {
		return nil, err
	}

	return &issuanceDomain.CreateEventInput{
		OrganizerReferenceID: r.OrganizerReferenceID,
		Title:                strings.TrimSpace(r.Title),
		Location:             strings.TrimSpace(r.Location),
		EventDate:            eventDate,
		ParticipantCount:     r.ParticipantCount,
	}, nil
}

// IssueCertificateRequest contains the parameters for issuing a certificate.
// EventReferenceID is optional.
type IssueCertificateRequest struct {
	CertificateType  string `json:"certificate_type"`
	RecipientName    string `json:"recipient_name"`
	Email            string `json:"email"`
	Institution      string `json:"institution"`
	EventReferenceID string `json:"event_reference_id"`
}

// Validate checks if the issue certificate request is valid.
func (r *IssueCertificateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CertificateType,
			validation.Required,
			validation.In(
				string(issuanceDomain.CertificateParticipant),
				string(issuanceDomain.CertificateMerit),
				string(issuanceDomain.CertificateOrganizer),
			),
		),
		validation.Field(&r.RecipientName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
		),
		validation.Field(&r.Institution,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.EventReferenceID,
			customValidation.NoWhitespace,
		),
	)
}

// ToDomain converts the request into use case input.
func (r *IssueCertificateRequest) ToDomain() *issuanceDomain.IssueCertificateInput {
	return &issuanceDomain.IssueCertificateInput{
		Type:             issuanceDomain.CertificateType(r.CertificateType),
		RecipientName:    strings.TrimSpace(r.RecipientName),
		Email:            strings.TrimSpace(r.Email),
		Institution:      strings.TrimSpace(r.Institution),
		EventReferenceID: r.EventReferenceID,
	}
}
