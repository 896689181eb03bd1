package repository

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReservationRepository is a mock of repository.ReservationRepository.
type MockReservationRepository struct {
	mock.Mock
}

// NewMockReservationRepository creates the mock and asserts its expectations on cleanup.
func NewMockReservationRepository(t mock.TestingT) *MockReservationRepository {
	m := &MockReservationRepository{}
	m.Test(t)
	registerCleanup(t, &m.Mock)

	return m
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	return m.Called(ctx, reservation).Error(0)
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, id)
	reservation, _ := args.Get(0).(*entity.Reservation)

	return reservation, args.Error(1)
}

func (m *MockReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, id)
	reservation, _ := args.Get(0).(*entity.Reservation)

	return reservation, args.Error(1)
}

func (m *MockReservationRepository) FindActiveByBook(ctx context.Context, bookID uuid.UUID) (*entity.Reservation, error) {
	args := m.Called(ctx, bookID)
	reservation, _ := args.Get(0).(*entity.Reservation)

	return reservation, args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, reservation *entity.Reservation) error {
	return m.Called(ctx, reservation).Error(0)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error) {
	args := m.Called(ctx, userID)
	details, _ := args.Get(0).([]*entity.ReservationDetail)

	return details, args.Error(1)
}

func (m *MockReservationRepository) ListLoanedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error) {
	args := m.Called(ctx, userID)
	details, _ := args.Get(0).([]*entity.ReservationDetail)

	return details, args.Error(1)
}
