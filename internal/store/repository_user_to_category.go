package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

type userToCategoryRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewUserToCategoryRepository(db *DB, logger *logger.Logger) UserToCategoryRepository {
	logger.Debug().Msg("creating user-to-category repository")
	return &userToCategoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userToCategoryRepository) Create(ctx context.Context, link models.UserToCategory) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertUserToCategoryQuery(r.db.builder, link)
	if err != nil {
		log.Err(err).Str("func", "*userToCategoryRepository.Create").Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	id, err := r.db.insertReturningID(ctx, query, args)
	if err != nil {
		log.Err(err).
			Str("func", "*userToCategoryRepository.Create").
			Int64("user_id", link.UserID).
			Int64("category_id", link.CategoryID).
			Msg("failed to insert ownership row")
		return 0, err
	}

	return id, nil
}

// Exists reports whether userID owns categoryID.
func (r *userToCategoryRepository) Exists(ctx context.Context, userID, categoryID int64) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildExistsUserToCategoryQuery(r.db.builder, userID, categoryID)
	if err != nil {
		log.Err(err).Str("func", "*userToCategoryRepository.Exists").Msg("failed to build query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err = r.db.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*userToCategoryRepository.Exists").Msg("failed to count ownership rows")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.translate(err))
	}

	return count > 0, nil
}

func (r *userToCategoryRepository) FindByCategoryID(ctx context.Context, categoryID int64) (models.UserToCategory, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserToCategoryQuery(r.db.builder, categoryID)
	if err != nil {
		log.Err(err).Str("func", "*userToCategoryRepository.FindByCategoryID").Msg("failed to build query")
		return models.UserToCategory{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var link models.UserToCategory
	err = r.db.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&link.ID, &link.UserID, &link.CategoryID)
	if err != nil {
		if isNoRows(err) {
			return models.UserToCategory{}, ErrOwnershipNotFound
		}
		log.Err(err).Str("func", "*userToCategoryRepository.FindByCategoryID").Msg("failed to select ownership row")
		return models.UserToCategory{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.translate(err))
	}

	return link, nil
}
