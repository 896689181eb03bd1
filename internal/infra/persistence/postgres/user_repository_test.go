package postgres

import (
	"context"
	"testing"
	"time"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser() *entity.User {
	return &entity.User{
		Username:     "ana",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$hash",
		FullName:     "Ana Souza",
		BirthDate:    time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Gender:       entity.GenderFemale,
		NationalID:   "12345678900",
		Phone:        "11999999999",
		Role:         entity.RoleUser,
		Address: entity.Address{
			PostalCode: "01001000",
			Number:     "10",
			Street:     "Praça da Sé",
			District:   "Sé",
			City:       "São Paulo",
			State:      "SP",
		},
	}
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(`INSERT INTO "users" .*"address_postal_code"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID.String()))

	user := newTestUser()
	err := repo.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		expected   error
	}{
		{name: "email", constraint: "users_email_key", expected: domainerrors.ErrEmailTaken},
		{name: "username", constraint: "users_username_key", expected: domainerrors.ErrUserAlreadyExists},
		{name: "national id", constraint: "users_national_id_key", expected: domainerrors.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db)

			mock.ExpectQuery(`INSERT INTO "users"`).
				WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), newTestUser())

			assert.True(t, errors.Is(err, tt.expected))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByEmail(context.Background(), "missing@example.com")

	assert.Nil(t, user)
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteWithoutUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`DELETE FROM "users" WHERE .*username IS NULL OR username = ''`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteWithoutUsername(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserMappers_EmptyUsernameIsNull(t *testing.T) {
	user := newTestUser()
	user.Username = ""

	userM := fromUserDomain(user)
	assert.False(t, userM.Username.Valid)

	back := toUserDomain(userM)
	assert.Empty(t, back.Username)
	assert.Equal(t, user.Address, back.Address)
}
