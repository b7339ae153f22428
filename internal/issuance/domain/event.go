package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a campaign event logged by an organizer.
// Events start unapproved; only approved events may be linked from certificates.
type Event struct {
	ID                   uuid.UUID
	ReferenceID          string
	Sequence             int
	OrganizerReferenceID string
	Title                string
	Location             string
	EventDate            time.Time
	ParticipantCount     int
	Approved             bool
	CreatedAt            time.Time
}

// CreateEventInput holds the caller-supplied event fields.
type CreateEventInput struct {
	OrganizerReferenceID string
	Title                string
	Location             string
	EventDate            time.Time
	ParticipantCount     int
}
