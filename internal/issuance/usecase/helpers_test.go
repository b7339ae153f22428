package usecase

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/certify/internal/issuance/usecase/mocks"
	"github.com/allisson/certify/internal/metrics"
	refidDomain "github.com/allisson/certify/internal/refid/domain"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// fixedSource returns numbers from a fixed list, in order.
type fixedSource struct {
	numbers []int
	calls   int
}

func (f *fixedSource) Draw(_, _ int) (int, error) {
	n := f.numbers[f.calls%len(f.numbers)]
	f.calls++
	return n, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testCodec(t *testing.T) *refidDomain.Codec {
	t.Helper()
	codec, err := refidDomain.NewCodec(refidDomain.Campaign{
		District: "DST",
		Program:  "PRG",
		Year:     "2024",
		Officer1: "OFF1",
		Officer2: "OFF2",
	})
	require.NoError(t, err)
	return codec
}

func testIssuer() *Issuer {
	return NewIssuer(
		IssuerConfig{MaxAttempts: 5, MinBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond},
		testLogger(),
		metrics.NewNoOpBusinessMetrics(),
	)
}

// passThroughTx runs every unit of work directly with the caller's ctx.
func passThroughTx() *mocks.MockTxManager {
	txManager := &mocks.MockTxManager{}
	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	return txManager
}
