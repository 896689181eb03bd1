package repository

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrReservationNotFound is returned when a reservation does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepository defines the persistence operations of the reservation lifecycle.
type ReservationRepository interface {
	// Create inserts a reservation. An insert that would give the book a second active
	// reservation fails with domainerrors.ErrBookUnavailable.
	Create(ctx context.Context, reservation *entity.Reservation) error

	// FindByID retrieves a reservation by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)

	// FindByIDForUpdate retrieves a reservation and locks its row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)

	// FindActiveByBook returns the Reserved or Loaned reservation of a book,
	// or ErrReservationNotFound when the book is available.
	FindActiveByBook(ctx context.Context, bookID uuid.UUID) (*entity.Reservation, error)

	// UpdateStatus persists status, loanedAt and returnedAt.
	UpdateStatus(ctx context.Context, reservation *entity.Reservation) error

	// ListByUser returns all reservations of a user joined with the full book and user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error)

	// ListLoanedByUser returns the user's Loaned reservations joined with the book title and ISBN
	// and the user's full name and national ID.
	ListLoanedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error)
}
