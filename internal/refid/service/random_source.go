package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

type randomSource struct{}

// NewRandomSource creates a NumberSource backed by crypto/rand.
func NewRandomSource() NumberSource {
	return &randomSource{}
}

// Draw returns a uniformly distributed number in [minimum, maximum].
func (s *randomSource) Draw(minimum, maximum int) (int, error) {
	if maximum < minimum {
		return 0, errors.New("maximum must not be less than minimum")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(maximum-minimum)+1))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random number: %w", err)
	}

	return minimum + int(n.Int64()), nil
}
