package domain

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/allisson/certify/internal/errors"
)

// Codec encodes and decodes reference identifiers for a single campaign.
// It is pure and safe for concurrent use.
type Codec struct {
	campaign Campaign
	trailers map[string]*regexp.Regexp
}

// NewCodec creates a codec for the given campaign. The campaign must be valid.
func NewCodec(campaign Campaign) (*Codec, error) {
	if err := campaign.Validate(); err != nil {
		return nil, err
	}

	trailers := make(map[string]*regexp.Regexp)
	for _, k := range []Kind{KindOrganizer, KindEvent, KindParticipant, KindMerit, KindOrganizerCertificate} {
		tag := k.Tag()
		if _, ok := trailers[tag]; !ok {
			trailers[tag] = regexp.MustCompile(`(?:^|-)` + regexp.QuoteMeta(tag) + `-(\d+)$`)
		}
	}

	return &Codec{campaign: campaign, trailers: trailers}, nil
}

// Encode renders the identifier for kind and number.
// Numbers outside the kind's range return ErrRangeExceeded.
func (c *Codec) Encode(kind Kind, n int) (string, error) {
	if err := kind.Validate(); err != nil {
		return "", err
	}

	minimum, maximum := kind.Bounds()
	if n < minimum || n > maximum {
		return "", errors.Wrapf(ErrRangeExceeded, "%s number %d", kind, n)
	}

	return fmt.Sprintf("%s-%s-%0*d", c.campaign.Prefix(), kind.Tag(), SequenceWidth, n), nil
}

// DecodeSequence extracts the trailing number of an identifier of the given kind.
func (c *Codec) DecodeSequence(identifier string, kind Kind) (int, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}

	match := c.trailers[kind.Tag()].FindStringSubmatch(identifier)
	if match == nil {
		return 0, errors.Wrapf(ErrMalformedIdentifier, "%q has no %s sequence", identifier, kind.Tag())
	}

	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedIdentifier, "%q sequence is not a number", identifier)
	}

	return n, nil
}

// NextSequence returns the number following latest for a sequential kind.
// An empty latest means nothing was issued yet and yields MinSequence.
func (c *Codec) NextSequence(latest string, kind Kind) (int, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	if !kind.IsSequential() {
		return 0, errors.Wrapf(ErrInvalidKind, "%s is not sequential", kind)
	}

	if latest == "" {
		return MinSequence, nil
	}

	n, err := c.DecodeSequence(latest, kind)
	if err != nil {
		return 0, err
	}

	next := n + 1
	if next > MaxSequence {
		return 0, errors.Wrapf(ErrRangeExceeded, "%s sequence exhausted at %d", kind, n)
	}

	return next, nil
}
