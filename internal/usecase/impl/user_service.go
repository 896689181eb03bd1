package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// List returns every registered user.
func (srv *userService) List(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// Get returns a user by ID.
func (srv *userService) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// Update applies the provided fields. The password is re-hashed only when a new one is supplied.
func (srv *userService) Update(ctx context.Context, id uuid.UUID, input *usecase.UpdateUserInput) (*entity.User, error) {
	var updated *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to find user")
		}

		if err := srv.applyUpdate(user, input); err != nil {
			return err
		}

		if err := userRepo.Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to update user")
		}

		updated = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User updated", slog.String("userID", id.String()))

	return updated, nil
}

func (srv *userService) applyUpdate(user *entity.User, input *usecase.UpdateUserInput) error {
	if input.Password != nil && *input.Password != "" {
		hashedPassword, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
		}
		user.PasswordHash = hashedPassword
	}

	if input.Gender != nil {
		gender := entity.NormalizeGender(*input.Gender)
		if !gender.IsValid() {
			return domainerrors.ErrValidationFailed.WithDetails("gender must be Male, Female or Other")
		}
		user.Gender = gender
	}

	if input.Role != nil {
		role, ok := entity.ParseRole(*input.Role)
		if !ok {
			return domainerrors.ErrValidationFailed.WithDetails("role must be user or admin")
		}
		user.Role = role
	}

	if input.Address != nil {
		if input.Address.PostalCode != "" && len(input.Address.PostalCode) != entity.PostalCodeLength {
			return domainerrors.ErrInvalidPostalCode
		}
		mergeAddress(&user.Address, input.Address)
	}

	setIfPresent(&user.Username, input.Username)
	setIfPresent(&user.Email, input.Email)
	setIfPresent(&user.FullName, input.FullName)
	setIfPresent(&user.NationalID, input.NationalID)
	setIfPresent(&user.Phone, input.Phone)
	setIfPresent(&user.ProfileImage, input.ProfileImage)
	if input.BirthDate != nil && !input.BirthDate.IsZero() {
		user.BirthDate = *input.BirthDate
	}

	return nil
}

// Delete removes a user. Their reservations and reviews are kept.
func (srv *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := srv.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to delete user")
	}

	srv.log(ctx).Info("User deleted", slog.String("userID", id.String()))

	return nil
}

// PurgeWithoutUsername deletes accounts whose username is NULL or empty.
func (srv *userService) PurgeWithoutUsername(ctx context.Context) (int64, error) {
	deleted, err := srv.userRepo.DeleteWithoutUsername(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge users without username")
	}

	srv.log(ctx).Info("Purged users without username", slog.Int64("deleted", deleted))

	return deleted, nil
}

func setIfPresent(target *string, value *string) {
	if value != nil && strings.TrimSpace(*value) != "" {
		*target = strings.TrimSpace(*value)
	}
}

func mergeAddress(current *entity.Address, patch *entity.Address) {
	for _, field := range []struct {
		target *string
		value  string
	}{
		{&current.PostalCode, patch.PostalCode},
		{&current.Street, patch.Street},
		{&current.Number, patch.Number},
		{&current.District, patch.District},
		{&current.City, patch.City},
		{&current.State, patch.State},
	} {
		if field.value != "" {
			*field.target = field.value
		}
	}
}
