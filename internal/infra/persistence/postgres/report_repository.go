package postgres

import (
	"context"

	"library/internal/domain/entity"
	"library/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reportRepository implements the repository.ReportRepository interface with SQL aggregates.
// Reservations whose book or user was deleted are left out of the rankings.
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository is the constructor for reportRepository.
func NewReportRepository(db *gorm.DB) repository.ReportRepository {
	return &reportRepository{
		db: db,
	}
}

// TopBooksByReservations counts reservations per book title.
func (repo *reportRepository) TopBooksByReservations(ctx context.Context, limit int) ([]entity.ReportEntry, error) {
	var entries []entity.ReportEntry

	if err := repo.db.WithContext(ctx).
		Table("reservations").
		Select("books.title AS name, COUNT(*) AS count").
		Joins("JOIN books ON books.id = reservations.book_id").
		Group("books.title").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate reservations by book")
	}

	return entries, nil
}

// TopUsersByReservations counts reservations per username.
func (repo *reportRepository) TopUsersByReservations(ctx context.Context, limit int) ([]entity.ReportEntry, error) {
	var entries []entity.ReportEntry

	if err := repo.db.WithContext(ctx).
		Table("reservations").
		Select("users.username AS name, COUNT(*) AS count").
		Joins("JOIN users ON users.id = reservations.user_id").
		Where("users.username IS NOT NULL").
		Group("users.username").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate reservations by user")
	}

	return entries, nil
}

// TopBooksByRating averages review ratings per book title, rounded to two decimals.
func (repo *reportRepository) TopBooksByRating(ctx context.Context, limit int) ([]entity.ReportEntry, error) {
	var entries []entity.ReportEntry

	if err := repo.db.WithContext(ctx).
		Table("reviews").
		Select("books.title AS name, ROUND(AVG(reviews.rating)::numeric, 2)::float8 AS count").
		Joins("JOIN books ON books.id = reviews.book_id").
		Group("books.title").
		Order("count DESC, name ASC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to aggregate ratings by book")
	}

	return entries, nil
}
