package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// categoryRepository is the SQL implementation of [CategoryRepository].
type categoryRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewCategoryRepository(db *DB, logger *logger.Logger) CategoryRepository {
	logger.Debug().Msg("creating category repository")
	return &categoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category models.Category) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertCategoryQuery(r.db.builder, category)
	if err != nil {
		log.Err(err).Str("func", "*categoryRepository.Create").Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	id, err := r.db.insertReturningID(ctx, query, args)
	if err != nil {
		log.Err(err).Str("func", "*categoryRepository.Create").Msg("failed to insert category")
		return 0, err
	}

	return id, nil
}

func (r *categoryRepository) FindActiveByID(ctx context.Context, categoryID int64) (models.Category, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectActiveCategoryQuery(r.db.builder, categoryID)
	if err != nil {
		log.Err(err).Str("func", "*categoryRepository.FindActiveByID").Msg("failed to build query")
		return models.Category{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	category, err := scanCategory(r.db.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return models.Category{}, ErrCategoryNotFound
		}
		log.Err(err).Str("func", "*categoryRepository.FindActiveByID").Int64("category_id", categoryID).Msg("failed to select category")
		return models.Category{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.translate(err))
	}

	return category, nil
}

func (r *categoryRepository) FindAllActive(ctx context.Context, includeDefault bool) ([]models.Category, error) {
	query, args, err := buildSelectActiveCategoriesQuery(r.db.builder, includeDefault)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.list(ctx, "*categoryRepository.FindAllActive", query, args)
}

func (r *categoryRepository) FindAllForUser(ctx context.Context, userID int64, includeDefault bool) ([]models.Category, error) {
	query, args, err := buildSelectUserCategoriesQuery(r.db.builder, userID, includeDefault)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.list(ctx, "*categoryRepository.FindAllForUser", query, args)
}

func (r *categoryRepository) list(ctx context.Context, funcName, query string, args []any) ([]models.Category, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.translate(err))
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		category, scanErr := scanCategory(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", funcName).Msg("failed to scan category row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return categories, nil
}

// Update rewrites name and description of an active category.
func (r *categoryRepository) Update(ctx context.Context, category models.Category) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateCategoryQuery(r.db.builder, category)
	if err != nil {
		log.Err(err).Str("func", "*categoryRepository.Update").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.execAffectingOne(ctx, query, args, ErrCategoryNotFound); err != nil {
		log.Err(err).Str("func", "*categoryRepository.Update").Int64("category_id", category.CategoryID).Msg("failed to update category")
		return err
	}

	return nil
}

// Deactivate soft-deletes a category. Ownership rows are left in place.
func (r *categoryRepository) Deactivate(ctx context.Context, categoryID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeactivateCategoryQuery(r.db.builder, categoryID)
	if err != nil {
		log.Err(err).Str("func", "*categoryRepository.Deactivate").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.execAffectingOne(ctx, query, args, ErrCategoryNotFound); err != nil {
		log.Err(err).Str("func", "*categoryRepository.Deactivate").Int64("category_id", categoryID).Msg("failed to deactivate category")
		return err
	}

	return nil
}

func scanCategory(row rowScanner) (models.Category, error) {
	var category models.Category
	err := row.Scan(&category.CategoryID, &category.Name, &category.Description, &category.Active, &category.IsDefault)
	return category, err
}
