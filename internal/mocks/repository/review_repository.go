package repository

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository is a mock of repository.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

// NewMockReviewRepository creates the mock and asserts its expectations on cleanup.
func NewMockReviewRepository(t mock.TestingT) *MockReviewRepository {
	m := &MockReviewRepository{}
	m.Test(t)
	registerCleanup(t, &m.Mock)

	return m
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	review, _ := args.Get(0).(*entity.Review)

	return review, args.Error(1)
}

func (m *MockReviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*entity.Review, error) {
	args := m.Called(ctx, bookID)
	reviews, _ := args.Get(0).([]*entity.Review)

	return reviews, args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
