package impl

import (
	"io"
	"log/slog"
	"time"

	"library/config"
	"library/internal/usecase"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:  4,
			TokenTTL:    time.Hour,
			AdminEmails: []string{"librarian@example.com"},
		},
		Upload: &config.UploadConfig{MaxCoverSize: 1024},
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	return func() time.Time { return at }
}

func validRegisterInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Username:        "ana",
		Email:           "ana@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		FullName:        "Ana Souza",
		BirthDate:       time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Gender:          "fEMALE",
		NationalID:      "12345678900",
		Phone:           "11999999999",
		Address: &usecase.AddressInput{
			PostalCode: "01001000",
			Number:     "10",
		},
	}
}
