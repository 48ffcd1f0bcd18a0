package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultMaxAttempts     = 10
	defaultDelayBetweenTry = 2 * time.Second
)

type Retry struct {
	MaxAttempts int
	Delay       time.Duration
}

var DefaultRetry = Retry{
	MaxAttempts: defaultMaxAttempts,
	Delay:       defaultDelayBetweenTry,
}

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
		TranslateError: true,
	}
}

// Open connects and pings once.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DBDriver, err)
	}

	return db, nil
}

// ConnectWithRetry calls Open until it succeeds, the attempts run out or ctx
// is cancelled.
func ConnectWithRetry(ctx context.Context, cfg *config.Config, retry Retry) (*gorm.DB, error) {
	var err error

	for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
		var db *gorm.DB
		db, err = Open(ctx, cfg)
		if err == nil {
			return db, nil
		}

		slog.Warn("db not ready",
			"attempt", attempt,
			"max_attempts", retry.MaxAttempts,
			"error", err,
		)

		if attempt == retry.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retry.Delay):
		}
	}

	return nil, fmt.Errorf("could not connect to db after %d attempts: %w", retry.MaxAttempts, err)
}

// Migrate creates or alters the authors and books tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Author{}, &model.Book{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
