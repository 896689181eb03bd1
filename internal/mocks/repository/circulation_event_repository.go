package repository

import (
	"context"

	"library/internal/domain/entity"

	"github.com/stretchr/testify/mock"
)

// MockCirculationEventRepository is a mock of repository.CirculationEventRepository.
type MockCirculationEventRepository struct {
	mock.Mock
}

// NewMockCirculationEventRepository creates the mock and asserts its expectations on cleanup.
func NewMockCirculationEventRepository(t mock.TestingT) *MockCirculationEventRepository {
	m := &MockCirculationEventRepository{}
	m.Test(t)
	registerCleanup(t, &m.Mock)

	return m
}

func (m *MockCirculationEventRepository) Record(ctx context.Context, event *entity.CirculationEvent) (bool, error) {
	args := m.Called(ctx, event)

	return args.Bool(0), args.Error(1)
}
