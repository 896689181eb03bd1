package repository

import (
	"context"

	"library/internal/domain/entity"
)

// CirculationEventRepository stores the circulation audit trail.
type CirculationEventRepository interface {
	// Record stores the event unless its MessageID was already recorded.
	// It reports whether a row was inserted.
	Record(ctx context.Context, event *entity.CirculationEvent) (bool, error)
}
