// Package store persists users, catalog, pickup slots and orders through gorm.
// Multi-step writes run inside a single database transaction; there is no
// in-process locking.
package store

import (
	"context"
	"fmt"
	"time"

	"surplus-food-api/config"
	"surplus-food-api/logging"
	"surplus-food-api/models"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

// Open connects to the configured database. SQLite is limited to a single
// open connection, which serializes transactions the same way row locks do
// on PostgreSQL.
func Open(cfg config.DatabaseConfig, log *logrus.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormLogger(log, cfg.LogLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Migrate creates or updates the schema and seeds the dietary restriction reference data
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.DietaryRestriction{},
		&models.User{},
		&models.Restaurant{},
		&models.Food{},
		&models.PickupSlot{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	seed := make([]models.DietaryRestriction, len(models.DefaultRestrictions))
	copy(seed, models.DefaultRestrictions)
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&seed).Error
	if err != nil {
		return fmt.Errorf("seed dietary restrictions: %w", err)
	}
	return nil
}

// Ping checks the database connection for the health endpoint
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// forUpdate adds a row lock on dialects that support one. SQLite has no row
// locks; its single connection already serializes writers.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
