package domain

import (
	"github.com/allisson/certify/internal/errors"
)

var (
	// ErrInvalidKind indicates an unknown identifier kind.
	ErrInvalidKind = errors.Wrap(errors.ErrInvalidInput, "invalid identifier kind")

	// ErrRangeExceeded indicates a number outside the range allowed for its kind.
	// For sequential kinds this means the sequence is exhausted.
	ErrRangeExceeded = errors.Wrap(errors.ErrLimitReached, "sequence out of range")

	// ErrMalformedIdentifier indicates an identifier that doesn't carry the expected tag and sequence.
	ErrMalformedIdentifier = errors.Wrap(errors.ErrInvalidInput, "malformed identifier")

	// ErrInvalidCampaign indicates the campaign constants can't form unambiguous identifiers.
	ErrInvalidCampaign = errors.Wrap(errors.ErrInvalidInput, "invalid campaign configuration")
)
