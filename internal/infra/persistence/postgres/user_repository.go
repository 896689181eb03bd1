// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a repository.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// List returns every user, oldest first.
func (repo *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var userModels []*model.UserModel

	if err := repo.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&userModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(userModels))
	for _, userM := range userModels {
		users = append(users, toUserDomain(userM))
	}

	return users, nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		return mapUserWriteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing user entity in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	// Select("*") writes zero values too, so cleared optional fields are persisted.
	result := repo.db.WithContext(ctx).
		Model(userM).
		Select("*").
		Omit("id", "created_at").
		Updates(userM)
	if result.Error != nil {
		return mapUserWriteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Delete removes a user by ID.
func (repo *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.UserModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// DeleteWithoutUsername removes users whose username is NULL or empty.
func (repo *userRepository) DeleteWithoutUsername(ctx context.Context) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("username IS NULL OR username = ''").
		Delete(&model.UserModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete users without username")
	}

	return result.RowsAffected, nil
}

// mapUserWriteError converts PostgreSQL errors to domain errors.
func mapUserWriteError(err error, details string) error {
	if isUniqueConstraintViolation(err) {
		switch violatedConstraint(err) {
		case constraintUsersEmail:
			return domainerrors.ErrEmailTaken.WrapMessage(details)
		case constraintUsersUsername:
			return domainerrors.ErrUserAlreadyExists.WithDetails("username already in use")
		case constraintUsersNationalID:
			return domainerrors.ErrUserAlreadyExists.WithDetails("national id already in use")
		default:
			return domainerrors.ErrUserAlreadyExists.WrapMessage(details)
		}
	}
	if isNotNullConstraintViolation(err) || isCheckConstraintViolation(err) {
		return domainerrors.ErrValidationFailed.WithDetails("invalid user information")
	}

	// For other database errors, return a generic database error
	return domainerrors.NewDatabaseExecuteError(err, details)
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Username:     data.Username.String,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		FullName:     data.FullName,
		BirthDate:    data.BirthDate,
		Gender:       entity.Gender(data.Gender),
		NationalID:   data.NationalID,
		Phone:        data.Phone,
		ProfileImage: data.ProfileImage,
		Role:         entity.Role(data.Role),
		Address: entity.Address{
			PostalCode: data.Address.PostalCode,
			Street:     data.Address.Street,
			Number:     data.Address.Number,
			District:   data.Address.District,
			City:       data.Address.City,
			State:      data.Address.State,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Username:     sql.NullString{String: data.Username, Valid: data.Username != ""},
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		FullName:     data.FullName,
		BirthDate:    data.BirthDate,
		Gender:       string(data.Gender),
		NationalID:   data.NationalID,
		Phone:        data.Phone,
		ProfileImage: data.ProfileImage,
		Role:         string(data.Role),
		Address: model.AddressColumns{
			PostalCode: data.Address.PostalCode,
			Street:     data.Address.Street,
			Number:     data.Address.Number,
			District:   data.Address.District,
			City:       data.Address.City,
			State:      data.Address.State,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
