package usecase

import (
	"context"
	"time"

	"library/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateUserInput carries the fields an administrator changes; nil fields keep their value.
type UpdateUserInput struct {
	Username     *string
	Email        *string
	Password     *string
	FullName     *string
	BirthDate    *time.Time
	Gender       *string
	NationalID   *string
	Phone        *string
	ProfileImage *string
	Role         *string
	Address      *entity.Address
}

// UserUsecase defines the user administration operations.
type UserUsecase interface {
	List(ctx context.Context) ([]*entity.User, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// PurgeWithoutUsername deletes accounts left without a username and returns how many were removed.
	PurgeWithoutUsername(ctx context.Context) (int64, error)
}
