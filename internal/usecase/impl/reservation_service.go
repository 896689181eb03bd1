package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/lifecycle"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reservationService implements the ReservationUsecase interface.
type reservationService struct {
	txManager       repository.TransactionManager
	reservationRepo repository.ReservationRepository
	qrCodeService   service.QRCodeService
	publisher       service.EventPublisher
	now             func() time.Time
	events          sync.WaitGroup
	logger          *slog.Logger
}

// ReservationServiceParams holds dependencies for ReservationService, injected by Fx.
type ReservationServiceParams struct {
	fx.In

	Lc              fx.Lifecycle `optional:"true"`
	TxManager       repository.TransactionManager
	ReservationRepo repository.ReservationRepository
	QRCodeService   service.QRCodeService
	Publisher       service.EventPublisher
	Logger          *slog.Logger
}

// NewReservationService is the constructor for reservationService.
func NewReservationService(params ReservationServiceParams) usecase.ReservationUsecase {
	srv := &reservationService{
		txManager:       params.TxManager,
		reservationRepo: params.ReservationRepo,
		qrCodeService:   params.QRCodeService,
		publisher:       params.Publisher,
		now:             time.Now,
		logger:          params.Logger,
	}

	if params.Lc != nil {
		params.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return waitWithContext(ctx, &srv.events)
			},
		})
	}

	return srv
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *reservationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Reserve places a hold on a book that has no Reserved or Loaned reservation.
func (srv *reservationService) Reserve(ctx context.Context, bookID, userID uuid.UUID) (*entity.Reservation, error) {
	var reservation *entity.Reservation

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		bookRepo := repoFactory.NewBookRepository()
		reservationRepo := repoFactory.NewReservationRepository()

		if _, err := bookRepo.FindByID(ctx, bookID); err != nil {
			if errors.Is(err, repository.ErrBookNotFound) {
				return domainerrors.ErrBookNotFound
			}

			return errors.Wrap(err, "failed to find book")
		}

		active, err := reservationRepo.FindActiveByBook(ctx, bookID)
		if err != nil && !errors.Is(err, repository.ErrReservationNotFound) {
			return errors.Wrap(err, "failed to check active reservation")
		}
		if active != nil {
			return domainerrors.ErrBookUnavailable
		}

		reservation = &entity.Reservation{
			BookID:     bookID,
			UserID:     userID,
			Status:     entity.ReservationStatusReserved,
			ReservedAt: srv.now(),
		}

		// The partial unique index turns a concurrent winner into ErrBookUnavailable here.
		return reservationRepo.Create(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Book reserved",
		slog.String("reservationID", reservation.ID.String()),
		slog.String("bookID", bookID.String()),
		slog.String("userID", userID.String()),
	)
	srv.publish(ctx, service.EventReservationReserved, reservation)

	return reservation, nil
}

// Loan marks the reservation as Loaned regardless of its current status.
func (srv *reservationService) Loan(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error) {
	reservation, err := srv.transition(ctx, reservationID, func(reservation *entity.Reservation) error {
		reservation.MarkLoaned(srv.now())

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Reservation loaned", slog.String("reservationID", reservationID.String()))
	srv.publish(ctx, service.EventReservationLoaned, reservation)

	return reservation, nil
}

// Return closes a Loaned reservation.
func (srv *reservationService) Return(ctx context.Context, reservationID uuid.UUID) (*entity.Reservation, error) {
	reservation, err := srv.transition(ctx, reservationID, func(reservation *entity.Reservation) error {
		current := reservation.Status
		if !reservation.MarkReturned(srv.now()) {
			return domainerrors.ErrInvalidReservationState.WithDetails("only loaned reservations can be returned, current status is " + string(current))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Reservation returned", slog.String("reservationID", reservationID.String()))
	srv.publish(ctx, service.EventReservationReturned, reservation)

	return reservation, nil
}

// transition locks the reservation row, applies change and saves the new status.
func (srv *reservationService) transition(ctx context.Context, reservationID uuid.UUID, change func(*entity.Reservation) error) (*entity.Reservation, error) {
	var reservation *entity.Reservation

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reservationRepo := repoFactory.NewReservationRepository()

		found, err := reservationRepo.FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			if errors.Is(err, repository.ErrReservationNotFound) {
				return domainerrors.ErrReservationNotFound
			}

			return errors.Wrap(err, "failed to find reservation")
		}

		if err := change(found); err != nil {
			return err
		}

		if err := reservationRepo.UpdateStatus(ctx, found); err != nil {
			if errors.Is(err, repository.ErrReservationNotFound) {
				return domainerrors.ErrReservationNotFound
			}

			return err
		}

		reservation = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// ListByUser returns every reservation of the user with book and user details.
func (srv *reservationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error) {
	reservations, err := srv.reservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reservations")
	}

	return reservations, nil
}

// LoanHistory returns the user's Loaned reservations.
func (srv *reservationService) LoanHistory(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error) {
	history, err := srv.reservationRepo.ListLoanedByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list loan history")
	}

	return history, nil
}

// PickupQR renders the pickup QR code of a reservation owned by the requester.
func (srv *reservationService) PickupQR(ctx context.Context, reservationID, requesterID uuid.UUID) ([]byte, error) {
	reservation, err := srv.reservationRepo.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, domainerrors.ErrReservationNotFound
		}

		return nil, errors.Wrap(err, "failed to find reservation")
	}

	if reservation.UserID != requesterID {
		return nil, domainerrors.ErrForbidden.WithDetails("reservation belongs to another user")
	}

	png, err := srv.qrCodeService.GeneratePickupQR(reservation.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pickup QR code")
	}

	return png, nil
}

// publish emits the event in the background. A failed publish is logged and dropped.
func (srv *reservationService) publish(ctx context.Context, eventType string, reservation *entity.Reservation) {
	event := &service.ReservationEvent{
		RequestID:     deliverycontext.GetRequestIDFromContext(ctx),
		Type:          eventType,
		ReservationID: reservation.ID.String(),
		BookID:        reservation.BookID.String(),
		UserID:        reservation.UserID.String(),
		Status:        string(reservation.Status),
		OccurredAt:    srv.now().UTC(),
	}

	logger := srv.log(ctx)
	bgCtx := context.WithoutCancel(ctx)

	srv.events.Add(1)
	go func() {
		defer srv.events.Done()

		publishCtx, cancel := context.WithTimeout(bgCtx, lifecycle.DefaultTimeout)
		defer cancel()

		if err := srv.publisher.PublishReservationEvent(publishCtx, event); err != nil {
			logger.Warn("Failed to publish reservation event",
				slog.String("type", eventType),
				slog.String("reservationID", event.ReservationID),
				slog.Any("error", err),
			)
		}
	}()
}
