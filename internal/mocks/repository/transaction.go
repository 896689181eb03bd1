// Package repository provides testify mocks of the domain repository interfaces.
package repository

import (
	"context"

	"library/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager is a mock of repository.TransactionManager.
type MockTransactionManager struct {
	mock.Mock
}

// NewMockTransactionManager creates the mock and asserts its expectations on cleanup.
func NewMockTransactionManager(t mock.TestingT) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Test(t)
	registerCleanup(t, &m.Mock)

	return m
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return m.Called(ctx, fn).Error(0)
}

// PassthroughTransactionManager runs the callback immediately with a fixed factory.
type PassthroughTransactionManager struct {
	Factory repository.RepositoryFactory
}

// NewPassthroughTransactionManager wraps factory.
func NewPassthroughTransactionManager(factory repository.RepositoryFactory) *PassthroughTransactionManager {
	return &PassthroughTransactionManager{Factory: factory}
}

func (m *PassthroughTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.Factory)
}

// StaticRepositoryFactory hands out the same repositories for every transaction.
type StaticRepositoryFactory struct {
	Users        repository.UserRepository
	Books        repository.BookRepository
	Reservations repository.ReservationRepository
	Reviews      repository.ReviewRepository
}

func (f *StaticRepositoryFactory) NewUserRepository() repository.UserRepository {
	return f.Users
}

func (f *StaticRepositoryFactory) NewBookRepository() repository.BookRepository {
	return f.Books
}

func (f *StaticRepositoryFactory) NewReservationRepository() repository.ReservationRepository {
	return f.Reservations
}

func (f *StaticRepositoryFactory) NewReviewRepository() repository.ReviewRepository {
	return f.Reviews
}

type cleanupT interface {
	Cleanup(func())
}

func registerCleanup(t mock.TestingT, m *mock.Mock) {
	if c, ok := t.(cleanupT); ok {
		c.Cleanup(func() { m.AssertExpectations(t) })
	}
}
