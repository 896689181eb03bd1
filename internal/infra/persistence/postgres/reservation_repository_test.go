package postgres

import (
	"context"
	"testing"
	"time"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservationColumns = []string{"id", "book_id", "user_id", "status", "reserved_at", "loaned_at", "returned_at"}

func TestReservationRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	reservationID := uuid.New()

	mock.ExpectQuery(`INSERT INTO "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(reservationID.String()))

	reservation := &entity.Reservation{
		BookID:     uuid.New(),
		UserID:     uuid.New(),
		Status:     entity.ReservationStatusReserved,
		ReservedAt: time.Now(),
	}
	err := repo.Create(context.Background(), reservation)

	require.NoError(t, err)
	assert.Equal(t, reservationID, reservation.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_Create_ActiveReservationExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)

	mock.ExpectQuery(`INSERT INTO "reservations"`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "reservations_active_book_idx"})

	err := repo.Create(context.Background(), &entity.Reservation{
		BookID:     uuid.New(),
		UserID:     uuid.New(),
		Status:     entity.ReservationStatusReserved,
		ReservedAt: time.Now(),
	})

	assert.True(t, errors.Is(err, domainerrors.ErrBookUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_FindByIDForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	reservationID := uuid.New()
	loanedAt := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(reservationColumns).
			AddRow(reservationID.String(), uuid.NewString(), uuid.NewString(), "Loaned", loanedAt, loanedAt, nil))

	reservation, err := repo.FindByIDForUpdate(context.Background(), reservationID)

	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusLoaned, reservation.Status)
	require.NotNil(t, reservation.LoanedAt)
	assert.Nil(t, reservation.ReturnedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_FindActiveByBook_None(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	bookID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE book_id = \$1 AND status IN \(\$2,\$3\)`).
		WithArgs(bookID.String(), "Reserved", "Loaned", 1).
		WillReturnRows(sqlmock.NewRows(reservationColumns))

	reservation, err := repo.FindActiveByBook(context.Background(), bookID)

	assert.Nil(t, reservation)
	assert.True(t, errors.Is(err, repository.ErrReservationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	now := time.Now()

	mock.ExpectExec(`UPDATE "reservations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), &entity.Reservation{
		ID:       uuid.New(),
		Status:   entity.ReservationStatusLoaned,
		LoanedAt: &now,
	})

	assert.True(t, errors.Is(err, repository.ErrReservationNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_UpdateStatus_Reactivation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	now := time.Now()

	mock.ExpectExec(`UPDATE "reservations" SET`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "reservations_active_book_idx"})

	err := repo.UpdateStatus(context.Background(), &entity.Reservation{
		ID:       uuid.New(),
		Status:   entity.ReservationStatusLoaned,
		LoanedAt: &now,
	})

	assert.True(t, errors.Is(err, domainerrors.ErrBookUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_ListLoanedByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	userID := uuid.New()
	bookID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "reservations" WHERE user_id = \$1 AND status = \$2`).
		WithArgs(userID.String(), "Loaned").
		WillReturnRows(sqlmock.NewRows(reservationColumns).
			AddRow(uuid.NewString(), bookID.String(), userID.String(), "Loaned", now, now, nil))
	mock.ExpectQuery(`SELECT "id","title","isbn" FROM "books"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "isbn"}).
			AddRow(bookID.String(), "Dom Casmurro", "9788535910663"))
	mock.ExpectQuery(`SELECT "id","full_name","national_id" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "national_id"}).
			AddRow(userID.String(), "Ana Souza", "12345678900"))

	history, err := repo.ListLoanedByUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Book)
	require.NotNil(t, history[0].User)
	assert.Equal(t, "Dom Casmurro", history[0].Book.Title)
	assert.Equal(t, "9788535910663", history[0].Book.ISBN)
	assert.Equal(t, "Ana Souza", history[0].User.FullName)
	assert.Equal(t, "12345678900", history[0].User.NationalID)
	assert.Empty(t, history[0].User.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
