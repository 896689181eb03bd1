package impl

import (
	"context"
	"testing"
	"time"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/domain/service"
	"library/internal/infra/auth"
	mockRepo "library/internal/mocks/repository"
	mockSvc "library/internal/mocks/service"
	"library/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service       usecase.AuthUsecase
	userRepo      *mockRepo.MockUserRepository
	hasher        *mockSvc.MockPasswordHasher
	tokenService  *mockSvc.MockTokenService
	addressLookup *mockSvc.MockAddressLookup
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	addressLookup := mockSvc.NewMockAddressLookup(t)

	srv := NewAuthService(AuthServiceParams{
		UserRepo:      userRepo,
		Hasher:        hasher,
		TokenService:  tokenService,
		AddressLookup: addressLookup,
		Config:        newTestConfig(),
		Logger:        newDiscardLogger(),
	})

	return authServiceFixtures{
		service:       srv,
		userRepo:      userRepo,
		hasher:        hasher,
		tokenService:  tokenService,
		addressLookup: addressLookup,
	}
}

func lookupAddress() *service.PostalAddress {
	return &service.PostalAddress{Street: "Praça da Sé", District: "Sé", City: "São Paulo", State: "SP"}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	input := validRegisterInput()

	fx.userRepo.On("FindByEmail", ctx, "ana@example.com").Return(nil, repository.ErrUserNotFound)
	fx.addressLookup.On("Lookup", ctx, "01001000").Return(lookupAddress(), nil)
	fx.hasher.On("Hash", "secret123").Return("hashed", nil)
	fx.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = uuid.New()
		}).
		Return(nil)

	user, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "hashed", user.PasswordHash)
	assert.Equal(t, entity.GenderFemale, user.Gender)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Equal(t, entity.Address{
		PostalCode: "01001000",
		Street:     "Praça da Sé",
		Number:     "10",
		District:   "Sé",
		City:       "São Paulo",
		State:      "SP",
	}, user.Address)
}

func TestAuthService_Register_AdminEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	input := validRegisterInput()
	input.Email = "Librarian@example.com"

	fx.userRepo.On("FindByEmail", ctx, input.Email).Return(nil, repository.ErrUserNotFound)
	fx.addressLookup.On("Lookup", ctx, "01001000").Return(lookupAddress(), nil)
	fx.hasher.On("Hash", "secret123").Return("hashed", nil)
	fx.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil)

	user, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, user.Role)
}

func TestAuthService_Register_RejectedBeforeLookup(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*usecase.RegisterInput)
		expected error
	}{
		{
			name:     "password mismatch",
			mutate:   func(in *usecase.RegisterInput) { in.ConfirmPassword = "other" },
			expected: domainerrors.ErrPasswordMismatch,
		},
		{
			name:     "invalid email",
			mutate:   func(in *usecase.RegisterInput) { in.Email = "not-an-email" },
			expected: domainerrors.ErrValidationFailed,
		},
		{
			name:     "missing birth date",
			mutate:   func(in *usecase.RegisterInput) { in.BirthDate = time.Time{} },
			expected: domainerrors.ErrValidationFailed,
		},
		{
			name:     "unknown gender",
			mutate:   func(in *usecase.RegisterInput) { in.Gender = "robot" },
			expected: domainerrors.ErrValidationFailed,
		},
		{
			name:     "missing address",
			mutate:   func(in *usecase.RegisterInput) { in.Address = nil },
			expected: domainerrors.ErrAddressRequired,
		},
		{
			name:     "missing number",
			mutate:   func(in *usecase.RegisterInput) { in.Address.Number = "" },
			expected: domainerrors.ErrAddressRequired,
		},
		{
			name:     "postal code with seven characters",
			mutate:   func(in *usecase.RegisterInput) { in.Address.PostalCode = "0100100" },
			expected: domainerrors.ErrInvalidPostalCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)
			input := validRegisterInput()
			tt.mutate(input)

			user, err := fx.service.Register(context.Background(), input)

			assert.Nil(t, user)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			fx.userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
			fx.addressLookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
			fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "ana@example.com").Return(&entity.User{ID: uuid.New()}, nil)

	_, err := fx.service.Register(ctx, validRegisterInput())

	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
	fx.addressLookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestAuthService_Register_LookupErrors(t *testing.T) {
	tests := []struct {
		name      string
		lookupErr error
		expected  error
	}{
		{name: "unknown postal code", lookupErr: service.ErrPostalCodeNotFound, expected: domainerrors.ErrInvalidPostalCode},
		{name: "upstream failure", lookupErr: errors.New("connection refused"), expected: domainerrors.ErrAddressLookupFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestAuthService(t)
			ctx := context.Background()

			fx.userRepo.On("FindByEmail", ctx, "ana@example.com").Return(nil, repository.ErrUserNotFound)
			fx.addressLookup.On("Lookup", ctx, "01001000").Return(nil, tt.lookupErr)

			_, err := fx.service.Register(ctx, validRegisterInput())

			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "ana@example.com").Return(nil, repository.ErrUserNotFound)
	fx.addressLookup.On("Lookup", ctx, "01001000").Return(lookupAddress(), nil)
	fx.hasher.On("Hash", "secret123").Return("hashed", nil)
	fx.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrUserAlreadyExists.WithDetails("username already in use"))

	_, err := fx.service.Register(ctx, validRegisterInput())

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 400, appErr.HTTPCode())
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestAuthService_Login(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: "hashed", Role: entity.RoleUser}

	t.Run("success", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()

		fx.userRepo.On("FindByEmail", ctx, "ana@example.com").Return(user, nil)
		fx.hasher.On("Check", "secret123", "hashed").Return(true)
		fx.tokenService.On("Issue", user.ID, []string{"user"}).Return("token", nil)
		fx.tokenService.On("TTL").Return(time.Hour)

		out, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ana@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, "token", out.Token)
		assert.Equal(t, time.Hour, out.ExpiresIn)
		assert.Equal(t, user, out.User)
	})

	t.Run("unknown email", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()

		fx.userRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ghost@example.com", Password: "x"})

		assert.True(t, errors.Is(err, domainerrors.ErrLoginUserNotFound))
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()

		fx.userRepo.On("FindByEmail", ctx, "ana@example.com").Return(user, nil)
		fx.hasher.On("Check", "wrong", "hashed").Return(false)

		_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ana@example.com", Password: "wrong"})

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
		fx.tokenService.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})
}

func TestAuthService_RegisterThenLogin_WithRealHasher(t *testing.T) {
	ctx := context.Background()
	userRepo := mockRepo.NewMockUserRepository(t)
	addressLookup := mockSvc.NewMockAddressLookup(t)
	tokenService := mockSvc.NewMockTokenService(t)

	srv := NewAuthService(AuthServiceParams{
		UserRepo:      userRepo,
		Hasher:        auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService:  tokenService,
		AddressLookup: addressLookup,
		Config:        newTestConfig(),
		Logger:        newDiscardLogger(),
	})

	var stored *entity.User
	userRepo.On("FindByEmail", ctx, "ana@example.com").Return(nil, repository.ErrUserNotFound).Once()
	addressLookup.On("Lookup", ctx, "01001000").Return(lookupAddress(), nil)
	userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*entity.User)
			stored.ID = uuid.New()
		}).
		Return(nil)

	_, err := srv.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash)

	userRepo.On("FindByEmail", ctx, "ana@example.com").Return(stored, nil)
	tokenService.On("Issue", stored.ID, []string{"user"}).Return("token", nil).Once()
	tokenService.On("TTL").Return(time.Hour).Once()

	out, err := srv.Login(ctx, &usecase.LoginInput{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "token", out.Token)

	_, err = srv.Login(ctx, &usecase.LoginInput{Email: "ana@example.com", Password: "secret124"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Profile(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Profile(ctx, userID)

	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
