// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"library/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// AddressInput is the address a member types at registration. Street, district, city
// and state are filled from the postal code lookup.
type AddressInput struct {
	PostalCode string
	Number     string
}

// RegisterInput defines the data required to register a new member.
type RegisterInput struct {
	Username        string    `validate:"required,min=3,max=50"`
	Email           string    `validate:"required,email"`
	Password        string    `validate:"required,min=6"`
	ConfirmPassword string    `validate:"required"`
	FullName        string    `validate:"required"`
	BirthDate       time.Time `validate:"required"`
	Gender          string    `validate:"required"`
	NationalID      string    `validate:"required"`
	Phone           string    `validate:"required"`
	ProfileImage    string
	Address         *AddressInput
}

// LoginInput defines the data required for a member to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// LoginOutput returns the access token issued after a successful login.
type LoginOutput struct {
	Token     string
	ExpiresIn time.Duration
	User      *entity.User
}

// AuthUsecase covers registration, login and the caller's own profile.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
