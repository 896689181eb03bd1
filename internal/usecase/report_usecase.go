package usecase

import (
	"context"

	"library/internal/domain/entity"
)

// ReportUsecase defines the administrative rankings.
type ReportUsecase interface {
	TopBooks(ctx context.Context) ([]entity.ReportEntry, error)
	TopUsers(ctx context.Context) ([]entity.ReportEntry, error)
	TopRated(ctx context.Context) ([]entity.ReportEntry, error)
}
