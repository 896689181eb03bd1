package usecase

import (
	"context"

	"library/internal/domain/entity"

	"github.com/google/uuid"
)

// ReservationUsecase drives the Reserved, Loaned, Returned lifecycle.
type ReservationUsecase interface {
	Reserve(ctx context.Context, bookID, userID uuid.UUID) (*entity.Reservation, error)
	Loan(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error)
	Return(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error)
	LoanHistory(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error)

	// PickupQR renders a PNG QR code for the reservation owner to show at the desk.
	PickupQR(ctx context.Context, reservationID, requesterID uuid.UUID) ([]byte, error)
}
