package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	capabilityDomain "github.com/allisson/certify/internal/capability/domain"
)

// LoadSecret decodes the configured signing secret.
//
// Without a keyURI, encoded is the base64 secret itself. With a keyURI, encoded is the
// base64 KMS ciphertext of the secret and is decrypted through the keeper.
func LoadSecret(ctx context.Context, kms KMSService, encoded, keyURI string) ([]byte, error) {
	if encoded == "" {
		return nil, errors.New("CAPABILITY_SECRET is not set")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode capability secret: %w", err)
	}

	if keyURI != "" {
		keeper, err := kms.OpenKeeper(ctx, keyURI)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = keeper.Close()
		}()

		raw, err = keeper.Decrypt(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt capability secret: %w", err)
		}
	}

	if len(raw) < capabilityDomain.MinSecretLength {
		return nil, capabilityDomain.ErrSecretTooShort
	}

	return raw, nil
}

// GenerateSecret returns a new random secret, base64 encoded. When keyURI is set the
// secret is encrypted with the KMS keeper first so the output can be stored as-is.
func GenerateSecret(ctx context.Context, kms KMSService, keyURI string, random func([]byte) (int, error)) (string, error) {
	secret := make([]byte, capabilityDomain.MinSecretLength)
	if _, err := random(secret); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	defer zero(secret)

	out := secret
	if keyURI != "" {
		keeper, err := kms.OpenKeeper(ctx, keyURI)
		if err != nil {
			return "", err
		}
		defer func() {
			_ = keeper.Close()
		}()

		out, err = keeper.Encrypt(ctx, secret)
		if err != nil {
			return "", fmt.Errorf("failed to encrypt secret: %w", err)
		}
	}

	return base64.StdEncoding.EncodeToString(out), nil
}

// zero overwrites sensitive data in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
