package repository

import (
	"context"

	"library/internal/domain/entity"
)

// ReportRepository runs the read-only aggregations behind the admin dashboard.
type ReportRepository interface {
	// TopBooksByReservations groups reservations by book title.
	TopBooksByReservations(ctx context.Context, limit int) ([]entity.ReportEntry, error)

	// TopUsersByReservations groups reservations by username.
	TopUsersByReservations(ctx context.Context, limit int) ([]entity.ReportEntry, error)

	// TopBooksByRating averages review ratings per book title.
	TopBooksByRating(ctx context.Context, limit int) ([]entity.ReportEntry, error)
}
