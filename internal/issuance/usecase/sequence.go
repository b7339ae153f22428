package usecase

import (
	"context"

	refidDomain "github.com/allisson/certify/internal/refid/domain"
	refidService "github.com/allisson/certify/internal/refid/service"
)

// sequentialDerive re-reads the latest persisted identifier on every call so a retry
// after a collision observes the row that won the race.
func sequentialDerive(
	codec *refidDomain.Codec,
	kind refidDomain.Kind,
	latest func(ctx context.Context) (string, error),
) DeriveFunc {
	return func(ctx context.Context) (Candidate, error) {
		last, err := latest(ctx)
		if err != nil {
			return Candidate{}, err
		}

		n, err := codec.NextSequence(last, kind)
		if err != nil {
			return Candidate{}, err
		}

		referenceID, err := codec.Encode(kind, n)
		if err != nil {
			return Candidate{}, err
		}
		return Candidate{ReferenceID: referenceID, Number: n}, nil
	}
}

// randomDerive draws a fresh number in the kind's range on every call.
func randomDerive(
	codec *refidDomain.Codec,
	kind refidDomain.Kind,
	numbers refidService.NumberSource,
) DeriveFunc {
	return func(_ context.Context) (Candidate, error) {
		n, err := numbers.Draw(kind.Bounds())
		if err != nil {
			return Candidate{}, err
		}

		referenceID, err := codec.Encode(kind, n)
		if err != nil {
			return Candidate{}, err
		}
		return Candidate{ReferenceID: referenceID, Number: n}, nil
	}
}
