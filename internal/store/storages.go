package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
)

// Storages groups every repository of the application together with the
// transactor that spans them.
type Storages struct {
	Transactor               Transactor
	UserRepository           UserRepository
	CategoryRepository       CategoryRepository
	UserToCategoryRepository UserToCategoryRepository
	ExpenseRepository        ExpenseRepository
	WeblogRepository         WeblogRepository

	db *DB
}

// NewStorages connects to the configured database, applies migrations and
// builds the repositories.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Str("driver", cfg.DB.Driver).Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewStoragesFromDB(db, logger), nil
}

// NewStoragesFromDB builds the repositories over an already opened database.
func NewStoragesFromDB(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		Transactor:               db,
		UserRepository:           NewUserRepository(db, logger),
		CategoryRepository:       NewCategoryRepository(db, logger),
		UserToCategoryRepository: NewUserToCategoryRepository(db, logger),
		ExpenseRepository:        NewExpenseRepository(db, logger),
		WeblogRepository:         NewWeblogRepository(db, logger),
		db:                       db,
	}
}

// Ping checks that the database is reachable.
func (s *Storages) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Storages) Close() error {
	return s.db.Close()
}
