package domain

import (
	"github.com/allisson/certify/internal/errors"
)

var (
	// ErrInvalidToken indicates a token that is malformed or whose signature doesn't match.
	ErrInvalidToken = errors.Wrap(errors.ErrForbidden, "invalid token")

	// ErrTokenExpired indicates an authentic token whose expiry has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrForbidden, "token expired")

	// ErrSecretTooShort indicates the signing secret is below MinSecretLength.
	ErrSecretTooShort = errors.Wrap(errors.ErrInvalidInput, "signing secret too short")

	// ErrEmptyReferenceID indicates an attempt to sign an empty identifier.
	ErrEmptyReferenceID = errors.Wrap(errors.ErrInvalidInput, "reference id is required")
)
