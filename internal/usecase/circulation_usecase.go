package usecase

import (
	"context"

	"library/internal/domain/service"
)

// CirculationUsecase records delivered reservation events in the circulation audit trail.
type CirculationUsecase interface {
	// Record stores the event delivered under messageID and reports whether it was new.
	// Malformed events fail with a client error and must not be redelivered.
	Record(ctx context.Context, messageID string, event *service.ReservationEvent) (bool, error)
}
