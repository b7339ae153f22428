package domain

import (
	"github.com/allisson/certify/internal/errors"
)

var (
	// ErrOrganizerNotFound indicates no organizer has the requested reference.
	ErrOrganizerNotFound = errors.Wrap(errors.ErrNotFound, "organizer not found")

	// ErrEventNotFound indicates no event has the requested reference.
	ErrEventNotFound = errors.Wrap(errors.ErrNotFound, "event not found")

	// ErrCertificateNotFound indicates no certificate has the requested reference.
	ErrCertificateNotFound = errors.Wrap(errors.ErrNotFound, "certificate not found")

	// ErrReferenceConflict indicates the candidate reference identifier is already taken.
	// The issuer retries with a fresh candidate.
	ErrReferenceConflict = errors.Wrap(errors.ErrConflict, "reference id already exists")

	// ErrIssuanceExhausted indicates every attempt collided with an existing identifier.
	ErrIssuanceExhausted = errors.Wrap(errors.ErrRetryable, "could not allocate a unique reference id")

	// ErrInvalidCertificateType indicates an unknown certificate type.
	ErrInvalidCertificateType = errors.Wrap(errors.ErrInvalidInput, "invalid certificate type")
)
