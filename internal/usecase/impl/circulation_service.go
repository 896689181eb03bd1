package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// eventStatuses maps each event type to the reservation status it announces.
var eventStatuses = map[string]entity.ReservationStatus{
	service.EventReservationReserved: entity.ReservationStatusReserved,
	service.EventReservationLoaned:   entity.ReservationStatusLoaned,
	service.EventReservationReturned: entity.ReservationStatusReturned,
}

// circulationService implements the CirculationUsecase interface.
type circulationService struct {
	eventRepo repository.CirculationEventRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewCirculationService is the constructor for circulationService.
func NewCirculationService(eventRepo repository.CirculationEventRepository, logger *slog.Logger) usecase.CirculationUsecase {
	return &circulationService{
		eventRepo: eventRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (srv *circulationService) Record(ctx context.Context, messageID string, event *service.ReservationEvent) (bool, error) {
	logger := deliverycontext.GetLoggerOrDefault(ctx, srv.logger)

	record, err := srv.toCirculationEvent(messageID, event)
	if err != nil {
		return false, err
	}

	inserted, err := srv.eventRepo.Record(ctx, record)
	if err != nil {
		return false, errors.Wrap(err, "failed to record circulation event")
	}

	if !inserted {
		logger.Info("Duplicate circulation event skipped",
			slog.String("message_id", messageID),
			slog.String("type", record.Type),
		)

		return false, nil
	}

	logger.Info("Circulation event recorded",
		slog.String("message_id", messageID),
		slog.String("type", record.Type),
		slog.String("reservation_id", record.ReservationID.String()),
	)

	return true, nil
}

func (srv *circulationService) toCirculationEvent(messageID string, event *service.ReservationEvent) (*entity.CirculationEvent, error) {
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("message id is required")
	}
	if event == nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("event payload is required")
	}

	status, ok := eventStatuses[event.Type]
	if !ok {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown event type: " + event.Type)
	}
	if event.Status != "" && entity.ReservationStatus(event.Status) != status {
		return nil, domainerrors.ErrValidationFailed.WithDetails("status " + event.Status + " does not match event " + event.Type)
	}

	reservationID, err := uuid.Parse(event.ReservationID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid reservation id")
	}
	bookID, err := uuid.Parse(event.BookID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid book id")
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid user id")
	}

	receivedAt := srv.now().UTC()
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = receivedAt
	}

	return &entity.CirculationEvent{
		MessageID:     messageID,
		Type:          event.Type,
		ReservationID: reservationID,
		BookID:        bookID,
		UserID:        userID,
		Status:        status,
		RequestID:     boundRequestID(event.RequestID),
		OccurredAt:    occurredAt,
		ReceivedAt:    receivedAt,
	}, nil
}

// boundRequestID keeps at most entity.MaxRequestIDLength characters of id.
func boundRequestID(id string) string {
	id = strings.TrimSpace(id)
	if utf8.RuneCountInString(id) <= entity.MaxRequestIDLength {
		return id
	}

	return string([]rune(id)[:entity.MaxRequestIDLength])
}
