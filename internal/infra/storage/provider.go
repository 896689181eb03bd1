// Package storage provides the cover image stores: a local directory bucket or S3.
package storage

import (
	"context"
	"io"
	"log/slog"

	"library/config"
	"library/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for CoverStorage, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewCoverStorage selects the storage provider from configuration, local by default.
func NewCoverStorage(params Params) (service.CoverStorage, error) {
	cfg := params.Config.Storage
	logger := params.Logger

	switch cfg.Provider {
	case "", config.StorageProviderLocal:
		storage, closer, err := NewLocalStorage(cfg.Local.Dir, cfg.Local.URLPrefix, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using local cover storage",
			slog.String("dir", cfg.Local.Dir),
			slog.String("url_prefix", cfg.Local.URLPrefix),
		)
		appendCloser(params.Lc, closer)

		return storage, nil

	case config.StorageProviderS3:
		storage, err := NewS3Storage(params.Ctx, cfg.S3, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using S3 cover storage", slog.String("bucket", cfg.S3.Bucket))

		return storage, nil

	default:
		return nil, errors.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}

func appendCloser(lc fx.Lifecycle, closer io.Closer) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(closer.Close())
		},
	})
}

// Module provides the cover storage FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewCoverStorage),
)
