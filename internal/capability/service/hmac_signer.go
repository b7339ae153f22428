package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	capabilityDomain "github.com/allisson/certify/internal/capability/domain"
)

const signingKeyInfo = "certificate-download-capability-v1"

type hmacSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// SignerOption configures an HMAC signer.
type SignerOption func(*hmacSigner)

// WithClock overrides the time source used for expiry computation and checks.
func WithClock(now func() time.Time) SignerOption {
	return func(s *hmacSigner) {
		s.now = now
	}
}

// NewHMACSigner creates a Signer using HKDF-SHA256 for key derivation and
// HMAC-SHA256 over the identifier and expiry. The token wire form is
// "<expiry-unix>.<base64url(mac)>".
func NewHMACSigner(secret []byte, ttl time.Duration, opts ...SignerOption) (Signer, error) {
	if len(secret) < capabilityDomain.MinSecretLength {
		return nil, capabilityDomain.ErrSecretTooShort
	}
	if ttl <= 0 {
		ttl = capabilityDomain.DefaultTokenTTL
	}

	key, err := deriveSigningKey(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	s := &hmacSigner{key: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the configured secret.
func deriveSigningKey(secret []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, secret, nil, []byte(signingKeyInfo))

	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// canonicalize encodes referenceID || expiry.
// The identifier is length-prefixed so distinct (id, expiry) pairs never share an encoding.
func canonicalize(referenceID string, expiry int64) []byte {
	buf := make([]byte, 0, 4+len(referenceID)+8)
	buf = appendLengthPrefixed(buf, []byte(referenceID))

	expiryBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(expiryBytes, uint64(expiry)) //nolint:gosec // expiry is a positive unix timestamp
	return append(buf, expiryBytes...)
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data))) //nolint:gosec // identifiers are short
	buf = append(buf, length...)
	return append(buf, data...)
}

func (s *hmacSigner) mac(referenceID string, expiry int64) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(canonicalize(referenceID, expiry))
	return mac.Sum(nil)
}

// Sign mints a token for referenceID.
func (s *hmacSigner) Sign(referenceID string) (capabilityDomain.Token, error) {
	if referenceID == "" {
		return capabilityDomain.Token{}, capabilityDomain.ErrEmptyReferenceID
	}

	expiry := s.now().Add(s.ttl).Unix()
	value := strconv.FormatInt(expiry, 10) + "." +
		base64.RawURLEncoding.EncodeToString(s.mac(referenceID, expiry))

	return capabilityDomain.Token{
		Value:     value,
		ExpiresAt: time.Unix(expiry, 0).UTC(),
	}, nil
}

// Verify recomputes the MAC in constant time before looking at the expiry.
func (s *hmacSigner) Verify(referenceID, token string) (*capabilityDomain.Claims, error) {
	expiryPart, macPart, ok := strings.Cut(token, ".")
	if !ok || referenceID == "" {
		return nil, capabilityDomain.ErrInvalidToken
	}

	// Only the canonical decimal form is accepted, so each capability has one encoding.
	expiry, err := strconv.ParseInt(expiryPart, 10, 64)
	if err != nil || expiry <= 0 || strconv.FormatInt(expiry, 10) != expiryPart {
		return nil, capabilityDomain.ErrInvalidToken
	}

	provided, err := base64.RawURLEncoding.DecodeString(macPart)
	if err != nil {
		return nil, capabilityDomain.ErrInvalidToken
	}

	if !hmac.Equal(provided, s.mac(referenceID, expiry)) {
		return nil, capabilityDomain.ErrInvalidToken
	}

	expiresAt := time.Unix(expiry, 0).UTC()
	if s.now().After(expiresAt) {
		return nil, capabilityDomain.ErrTokenExpired
	}

	return &capabilityDomain.Claims{ReferenceID: referenceID, ExpiresAt: expiresAt}, nil
}
