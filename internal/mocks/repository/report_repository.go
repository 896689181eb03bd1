package repository

import (
	"context"

	"library/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockReportRepository is a mock of repository.ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

// NewMockReportRepository creates the mock and asserts its expectations on cleanup.
func NewMockReportRepository(t mock.TestingT) *MockReportRepository {
	m := &MockReportRepository{}
	m.Test(t)
	registerCleanup(t, &m.Mock)

	return m
}

func (m *MockReportRepository) TopBooksByReservations(ctx context.Context, limit int) ([]entity.ReportEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]entity.ReportEntry)

	return entries, args.Error(1)
}

func (m *MockReportRepository) TopUsersByReservations(ctx context.Context, limit int) ([]entity.ReportEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]entity.ReportEntry)

	return entries, args.Error(1)
}

func (m *MockReportRepository) TopBooksByRating(ctx context.Context, limit int) ([]entity.ReportEntry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]entity.ReportEntry)

	return entries, args.Error(1)
}
