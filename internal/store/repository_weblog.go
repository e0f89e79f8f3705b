package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// weblogRepository appends audit rows. It deliberately ignores any
// transaction bound to ctx: audit rows must survive a rollback.
type weblogRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewWeblogRepository(db *DB, logger *logger.Logger) WeblogRepository {
	logger.Debug().Msg("creating weblog repository")
	return &weblogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *weblogRepository) Save(ctx context.Context, entry models.Weblog) error {
	query, args, err := buildInsertWeblogQuery(r.db.builder, entry)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.translate(err))
	}

	return nil
}
