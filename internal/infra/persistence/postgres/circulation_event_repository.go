package postgres

import (
	"context"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// circulationEventRepository implements the repository.CirculationEventRepository interface.
type circulationEventRepository struct {
	db *gorm.DB
}

// NewCirculationEventRepository is the constructor for circulationEventRepository.
func NewCirculationEventRepository(db *gorm.DB) repository.CirculationEventRepository {
	return &circulationEventRepository{
		db: db,
	}
}

// Record inserts the event, skipping message IDs that are already stored.
func (repo *circulationEventRepository) Record(ctx context.Context, event *entity.CirculationEvent) (bool, error) {
	eventM := &model.CirculationEventModel{
		MessageID:     event.MessageID,
		Type:          event.Type,
		ReservationID: event.ReservationID,
		BookID:        event.BookID,
		UserID:        event.UserID,
		Status:        string(event.Status),
		RequestID:     event.RequestID,
		OccurredAt:    event.OccurredAt,
		ReceivedAt:    event.ReceivedAt,
	}

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(eventM)
	if result.Error != nil {
		if isStringTooLong(result.Error) {
			return false, domainerrors.ErrValidationFailed.WithDetails("circulation event field exceeds column length")
		}

		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to record circulation event")
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	event.ID = eventM.ID

	return true, nil
}
