package postgres

import (
	"context"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reservationRepository implements the repository.ReservationRepository interface.
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository is the constructor for reservationRepository.
func NewReservationRepository(db *gorm.DB) repository.ReservationRepository {
	return &reservationRepository{
		db: db,
	}
}

// Create inserts a reservation. The partial unique index on active reservations
// rejects a second Reserved or Loaned row for the same book.
func (repo *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	reservationM := fromReservationDomain(reservation)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(reservationM).Error; err != nil {
		return mapReservationWriteError(err, "failed to create reservation")
	}

	reservation.ID = reservationM.ID

	return nil
}

// FindByID retrieves a reservation by its unique ID.
func (repo *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return repo.findByID(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a reservation with SELECT ... FOR UPDATE.
func (repo *reservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return repo.findByID(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

func (repo *reservationRepository) findByID(query *gorm.DB, id uuid.UUID) (*entity.Reservation, error) {
	var reservationM model.ReservationModel

	if err := query.
		Where("id = ?", id).
		First(&reservationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReservationNotFound
		}

		return nil, errors.Wrap(err, "failed to find reservation by ID")
	}

	return toReservationDomain(&reservationM), nil
}

// FindActiveByBook returns the Reserved or Loaned reservation of a book.
func (repo *reservationRepository) FindActiveByBook(ctx context.Context, bookID uuid.UUID) (*entity.Reservation, error) {
	var reservationM model.ReservationModel

	if err := repo.db.WithContext(ctx).
		Where("book_id = ? AND status IN ?", bookID, activeStatuses()).
		First(&reservationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReservationNotFound
		}

		return nil, errors.Wrap(err, "failed to find active reservation")
	}

	return toReservationDomain(&reservationM), nil
}

// UpdateStatus persists status, loaned_at and returned_at.
func (repo *reservationRepository) UpdateStatus(ctx context.Context, reservation *entity.Reservation) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReservationModel{}).
		Where("id = ?", reservation.ID).
		Updates(map[string]any{
			"status":      string(reservation.Status),
			"loaned_at":   reservation.LoanedAt,
			"returned_at": reservation.ReturnedAt,
		})
	if result.Error != nil {
		return mapReservationWriteError(result.Error, "failed to update reservation")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReservationNotFound
	}

	return nil
}

// ListByUser returns all reservations of a user with the full book and user preloaded.
func (repo *reservationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error) {
	var reservationModels []*model.ReservationModel

	if err := repo.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Where("user_id = ?", userID).
		Order("reserved_at DESC").
		Find(&reservationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reservations by user")
	}

	return toReservationDetails(reservationModels), nil
}

// ListLoanedByUser returns the user's Loaned reservations with only the book title/ISBN
// and the user's full name/national ID loaded.
func (repo *reservationRepository) ListLoanedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.ReservationDetail, error) {
	var reservationModels []*model.ReservationModel

	if err := repo.db.WithContext(ctx).
		Preload("Book", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "isbn")
		}).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "national_id")
		}).
		Where("user_id = ? AND status = ?", userID, string(entity.ReservationStatusLoaned)).
		Order("loaned_at DESC").
		Find(&reservationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list loan history")
	}

	return toReservationDetails(reservationModels), nil
}

func activeStatuses() []string {
	statuses := make([]string, 0, len(entity.ActiveReservationStatuses))
	for _, status := range entity.ActiveReservationStatuses {
		statuses = append(statuses, string(status))
	}

	return statuses
}

func mapReservationWriteError(err error, details string) error {
	// reservations_active_book_idx is the only unique index besides the primary key.
	if isUniqueConstraintViolation(err) {
		return domainerrors.ErrBookUnavailable.WrapMessage(details)
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

func toReservationDomain(data *model.ReservationModel) *entity.Reservation {
	if data == nil {
		return nil
	}

	return &entity.Reservation{
		ID:         data.ID,
		BookID:     data.BookID,
		UserID:     data.UserID,
		Status:     entity.ReservationStatus(data.Status),
		ReservedAt: data.ReservedAt,
		LoanedAt:   data.LoanedAt,
		ReturnedAt: data.ReturnedAt,
	}
}

func fromReservationDomain(data *entity.Reservation) *model.ReservationModel {
	if data == nil {
		return nil
	}

	return &model.ReservationModel{
		ID:         data.ID,
		BookID:     data.BookID,
		UserID:     data.UserID,
		Status:     string(data.Status),
		ReservedAt: data.ReservedAt,
		LoanedAt:   data.LoanedAt,
		ReturnedAt: data.ReturnedAt,
	}
}

func toReservationDetails(data []*model.ReservationModel) []*entity.ReservationDetail {
	details := make([]*entity.ReservationDetail, 0, len(data))
	for _, reservationM := range data {
		details = append(details, &entity.ReservationDetail{
			Reservation: *toReservationDomain(reservationM),
			Book:        toBookDomain(reservationM.Book),
			User:        toUserDomain(reservationM.User),
		})
	}

	return details
}
