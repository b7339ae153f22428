// Package domain defines the records issued by the campaign: organizers, events and certificates.
//
// Every record carries an immutable, unique reference identifier minted at creation.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organizer is a registered event organizer.
type Organizer struct {
	ID          uuid.UUID
	ReferenceID string
	Sequence    int
	Name        string
	Email       string
	Phone       string
	Institution string
	CreatedAt   time.Time
}

// CreateOrganizerInput holds the caller-supplied organizer fields.
type CreateOrganizerInput struct {
	Name        string
	Email       string
	Phone       string
	Institution string
}
