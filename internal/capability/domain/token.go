// Package domain defines download capability tokens.
//
// A capability token binds a certificate reference identifier to an expiry time.
// Holding a valid token is the only authorization needed to download the certificate.
package domain

import (
	"context"
	"time"
)

const (
	// MinSecretLength is the minimum accepted signing secret size in bytes.
	MinSecretLength = 32

	// DefaultTokenTTL is the lifetime applied when none is configured.
	DefaultTokenTTL = 15 * time.Minute
)

// Token is a signed capability for a single reference identifier.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims are the facts established by a successfully verified token.
type Claims struct {
	ReferenceID string
	ExpiresAt   time.Time
}

// KMSKeeper decrypts and encrypts secret material. *secrets.Keeper satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
