package postgres

import (
	"context"
	"testing"

	"library/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_Commit(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := tm.Execute(context.Background(), func(factory repository.RepositoryFactory) error {
		assert.NotNil(t, factory.NewUserRepository())
		assert.NotNil(t, factory.NewBookRepository())
		assert.NotNil(t, factory.NewReservationRepository())
		assert.NotNil(t, factory.NewReviewRepository())

		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollbackKeepsBusinessError(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManager(db)
	businessErr := errors.New("book already reserved")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.Execute(context.Background(), func(repository.RepositoryFactory) error {
		return businessErr
	})

	assert.Equal(t, businessErr, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = tm.Execute(context.Background(), func(repository.RepositoryFactory) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
