package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"library/config"
	"library/internal/domain/lifecycle"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the pooled PostgreSQL connection.
// On start it pings, applies the embedded migrations when enabled and starts the pool monitor.
func New(params Params) (*gorm.DB, error) {
	if params.Config.Postgres == nil {
		return nil, errors.New("postgres configuration is required")
	}

	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	// multi-step writes go through TransactionManager; single statements need no implicit transaction
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	runMigrations := params.Config.Migrations != nil && params.Config.Migrations.Enabled
	monitor := &poolMonitor{logger: params.Logger, stats: sqlDB.Stats}
	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}
			if runMigrations {
				if err := RunMigrations(ctx, sqlDB, params.Logger); err != nil {
					return err
				}
			}

			go monitor.run(monitorCtx, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return errors.WithStack(sqlDB.Close())
		},
	})

	return db, nil
}

// poolMonitor reports callers that had to wait for a pooled connection
type poolMonitor struct {
	logger *slog.Logger
	stats  func() sql.DBStats
	prev   sql.DBStats
}

func (m *poolMonitor) run(ctx context.Context, interval time.Duration) {
	if m.logger == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.prev = m.stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check logs the waits since the previous check, at Warn once they add up to the threshold
func (m *poolMonitor) check(ctx context.Context) {
	cur := m.stats()
	prev := m.prev
	m.prev = cur

	waits := cur.WaitCount - prev.WaitCount
	if waits <= 0 {
		return
	}
	waited := cur.WaitDuration - prev.WaitDuration

	level := slog.LevelDebug
	if waited >= dbPoolWarnDurationThreshold {
		level = slog.LevelWarn
	}

	m.logger.LogAttrs(ctx, level, "Postgres pool wait",
		slog.Int64("wait_count", waits),
		slog.Duration("wait_duration", waited),
		slog.Duration("avg_wait", waited/time.Duration(waits)),
		slog.Int("max_open_conns", cur.MaxOpenConnections),
		slog.Int("open_conns", cur.OpenConnections),
		slog.Int("in_use_conns", cur.InUse),
		slog.Int("idle_conns", cur.Idle),
	)
}
