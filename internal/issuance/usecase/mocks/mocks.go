// Package mocks provides mock implementations of the issuance interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

// MockOrganizerRepository is a mock implementation of OrganizerRepository.
type MockOrganizerRepository struct {
	mock.Mock
}

func (m *MockOrganizerRepository) Create(ctx context.Context, organizer *issuanceDomain.Organizer) error {
	args := m.Called(ctx, organizer)
	return args.Error(0)
}

func (m *MockOrganizerRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Organizer, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Organizer), args.Error(1)
}

func (m *MockOrganizerRepository) LatestReferenceID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockOrganizerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *issuanceDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Event, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Event), args.Error(1)
}

func (m *MockEventRepository) LatestReferenceID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockEventRepository) Approve(ctx context.Context, referenceID string) error {
	args := m.Called(ctx, referenceID)
	return args.Error(0)
}

func (m *MockEventRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) CountApproved(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockCertificateRepository is a mock implementation of CertificateRepository.
type MockCertificateRepository struct {
	mock.Mock
}

func (m *MockCertificateRepository) Create(ctx context.Context, certificate *issuanceDomain.Certificate) error {
	args := m.Called(ctx, certificate)
	return args.Error(0)
}

func (m *MockCertificateRepository) GetByReferenceID(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.Certificate, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrganizerUseCase is a mock implementation of OrganizerUseCase.
type MockOrganizerUseCase struct {
	mock.Mock
}

func (m *MockOrganizerUseCase) Create(
	ctx context.Context,
	input *issuanceDomain.CreateOrganizerInput,
) (*issuanceDomain.Organizer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Organizer), args.Error(1)
}

func (m *MockOrganizerUseCase) Get(ctx context.Context, referenceID string) (*issuanceDomain.Organizer, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Organizer), args.Error(1)
}

// MockEventUseCase is a mock implementation of EventUseCase.
type MockEventUseCase struct {
	mock.Mock
}

func (m *MockEventUseCase) Create(
	ctx context.Context,
	input *issuanceDomain.CreateEventInput,
) (*issuanceDomain.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Event), args.Error(1)
}

func (m *MockEventUseCase) Get(ctx context.Context, referenceID string) (*issuanceDomain.Event, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Event), args.Error(1)
}

func (m *MockEventUseCase) Approve(ctx context.Context, referenceID string) error {
	args := m.Called(ctx, referenceID)
	return args.Error(0)
}

// MockCertificateUseCase is a mock implementation of CertificateUseCase.
type MockCertificateUseCase struct {
	mock.Mock
}

func (m *MockCertificateUseCase) Issue(
	ctx context.Context,
	input *issuanceDomain.IssueCertificateInput,
) (*issuanceDomain.IssuedCertificate, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.IssuedCertificate), args.Error(1)
}

func (m *MockCertificateUseCase) Get(
	ctx context.Context,
	referenceID string,
) (*issuanceDomain.IssuedCertificate, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.IssuedCertificate), args.Error(1)
}

func (m *MockCertificateUseCase) Download(
	ctx context.Context,
	referenceID, token string,
) (*issuanceDomain.Certificate, error) {
	args := m.Called(ctx, referenceID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Certificate), args.Error(1)
}

// MockStatsUseCase is a mock implementation of StatsUseCase.
type MockStatsUseCase struct {
	mock.Mock
}

func (m *MockStatsUseCase) Get(ctx context.Context) (*issuanceDomain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*issuanceDomain.Stats), args.Error(1)
}

func (m *MockStatsUseCase) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// MockTxManager is a mock implementation of database.TxManager. Unless an error is
// configured, fn runs with the caller's ctx.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
