package repository

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockBookRepository is a mock of repository.BookRepository.
type MockBookRepository struct {
	mock.Mock
}

// NewMockBookRepository creates the mock and asserts its expectations on cleanup.
func NewMockBookRepository(t mock.TestingT) *MockBookRepository {
	m := &MockBookRepository{}
	m.Test(t)
	registerCleanup(t, &m.Mock)

	return m
}

func (m *MockBookRepository) Create(ctx context.Context, book *entity.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	args := m.Called(ctx, id)
	book, _ := args.Get(0).(*entity.Book)

	return book, args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context) ([]*entity.Book, error) {
	args := m.Called(ctx)
	books, _ := args.Get(0).([]*entity.Book)

	return books, args.Error(1)
}

func (m *MockBookRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Book, error) {
	args := m.Called(ctx, limit)
	books, _ := args.Get(0).([]*entity.Book)

	return books, args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, book *entity.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
