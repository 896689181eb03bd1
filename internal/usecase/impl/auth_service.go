// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"library/config"
	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo      repository.UserRepository
	hasher        service.PasswordHasher
	tokenService  service.TokenService
	addressLookup service.AddressLookup
	authCfg       *config.AuthConfig
	validate      *validator.Validate
	logger        *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo      repository.UserRepository
	Hasher        service.PasswordHasher
	TokenService  service.TokenService
	AddressLookup service.AddressLookup
	Config        *config.Config
	Logger        *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	var authCfg *config.AuthConfig
	if params.Config != nil {
		authCfg = params.Config.Auth
	}

	return &authService{
		userRepo:      params.UserRepo,
		hasher:        params.Hasher,
		tokenService:  params.TokenService,
		addressLookup: params.AddressLookup,
		authCfg:       authCfg,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the profile, resolves the address from the postal code and stores the member.
// Checks run in a fixed order so that a malformed request never reaches the lookup service or the store.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domainerrors.ErrPasswordMismatch
	}

	gender := entity.NormalizeGender(input.Gender)
	input.Gender = string(gender)
	if err := srv.validate.Struct(input); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(validationDetails(err))
	}
	if !gender.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("gender must be Male, Female or Other")
	}

	if input.Address == nil || strings.TrimSpace(input.Address.PostalCode) == "" || strings.TrimSpace(input.Address.Number) == "" {
		return nil, domainerrors.ErrAddressRequired
	}
	postalCode := strings.TrimSpace(input.Address.PostalCode)
	if len(postalCode) != entity.PostalCodeLength {
		return nil, domainerrors.ErrInvalidPostalCode.WithDetails(
			fmt.Sprintf("postal code must have exactly %d characters", entity.PostalCodeLength))
	}

	_, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check email availability")
	}

	postal, err := srv.addressLookup.Lookup(ctx, postalCode)
	if err != nil {
		if errors.Is(err, service.ErrPostalCodeNotFound) {
			return nil, domainerrors.ErrInvalidPostalCode.WithDetails("postal code not found")
		}
		srv.log(ctx).Error("Address lookup failed", slog.String("postal_code", postalCode), slog.Any("error", err))

		return nil, domainerrors.ErrAddressLookupFailed.WrapMessage(err.Error())
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	role := entity.RoleUser
	if srv.authCfg.IsAdminEmail(input.Email) {
		role = entity.RoleAdmin
	}

	user := &entity.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hashedPassword,
		FullName:     input.FullName,
		BirthDate:    input.BirthDate,
		Gender:       gender,
		NationalID:   input.NationalID,
		Phone:        input.Phone,
		ProfileImage: input.ProfileImage,
		Role:         role,
		Address: entity.Address{
			PostalCode: postalCode,
			Street:     postal.Street,
			Number:     strings.TrimSpace(input.Address.Number),
			District:   postal.District,
			City:       postal.City,
			State:      postal.State,
		},
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}

	srv.log(ctx).Info("User registered", slog.String("userID", user.ID.String()), slog.String("role", role.String()))

	return user, nil
}

// Login verifies email and password and issues an access token.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrLoginUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Debug("Password mismatch", slog.String("userID", user.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.tokenService.Issue(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	return &usecase.LoginOutput{
		Token:     token,
		ExpiresIn: srv.tokenService.TTL(),
		User:      user,
	}, nil
}

// Profile returns the caller's own record.
func (srv *authService) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// validationDetails lists the failing fields of a validator error.
func validationDetails(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
	}

	return strings.Join(fields, "; ")
}
