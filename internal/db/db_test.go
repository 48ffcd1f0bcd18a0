package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "catalog.db"),
	}
}

func TestConnectWithRetry_SQLiteAndMigrate(t *testing.T) {
	cfg := sqliteConfig(t)

	db, err := ConnectWithRetry(context.Background(), cfg, Retry{MaxAttempts: 1})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []any{&model.Author{}, &model.Book{}} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table for %T", table)
		}
	}
	if !db.Migrator().HasIndex(&model.Book{}, "ISBN") {
		t.Error("expected unique index on books.isbn")
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := &config.Config{DBDriver: "mysql"}

	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestConnectWithRetry_GivesUp(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "missing", "dir", "catalog.db")}

	start := time.Now()
	_, err := ConnectWithRetry(context.Background(), cfg, Retry{MaxAttempts: 2, Delay: 10 * time.Millisecond})
	if err == nil {
		t.Fatal("expected error when the database cannot be opened")
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("expected a delay between attempts")
	}
}

func TestConnectWithRetry_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{DBDriver: "mysql"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ConnectWithRetry(ctx, cfg, Retry{MaxAttempts: 5, Delay: time.Hour})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
