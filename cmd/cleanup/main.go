package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"library/config"
	"library/internal/infra/auth"
	logs "library/internal/infra/log"
	"library/internal/infra/persistence/postgres"
	"library/internal/usecase"
	"library/internal/usecase/impl"
	"library/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Removes accounts that were stored without a username.
func main() {
	timeout := flag.Duration("timeout", 2*time.Minute, "Maximum time for the whole run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		userUC usecase.UserUsecase
		logger *slog.Logger
	)

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			postgres.NewUserRepository,
			postgres.NewTransactionManager,
			auth.NewBcryptHasher,
			impl.NewUserService,
		),
		fx.Populate(&userUC, &logger),
	)

	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "failed to start cleanup")
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			logger.Error("Failed to stop cleanup", slog.Any("error", err))
		}
	}()

	start := time.Now()
	removed, err := userUC.PurgeWithoutUsername(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to purge users without username")
	}

	logger.Info("Removed users without username",
		slog.Int64("count", removed),
		slog.String("elapsed", util.FormatDuration(time.Since(start))),
	)

	return nil
}
