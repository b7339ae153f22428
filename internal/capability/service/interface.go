// Package service signs and verifies download capability tokens and loads their signing secret.
package service

import (
	"context"

	capabilityDomain "github.com/allisson/certify/internal/capability/domain"
)

// Signer mints and checks capability tokens.
type Signer interface {
	// Sign returns a token granting access to referenceID until now plus the configured TTL.
	Sign(referenceID string) (capabilityDomain.Token, error)

	// Verify checks token was minted for referenceID and has not expired.
	// Returns ErrInvalidToken or ErrTokenExpired, both of which wrap ErrForbidden.
	Verify(referenceID, token string) (*capabilityDomain.Claims, error)
}

// KMSService opens keepers for KMS-encrypted signing secrets.
type KMSService interface {
	// OpenKeeper opens a keeper for the given key URI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
	OpenKeeper(ctx context.Context, keyURI string) (capabilityDomain.KMSKeeper, error)
}
