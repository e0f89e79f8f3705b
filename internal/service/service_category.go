package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/internal/validators"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// categoryService enforces who may see, create, edit and delete categories.
//
// A default category is visible to everyone and managed by administrators.
// A private category is owned through exactly one user_to_category row and
// managed by its owner or an administrator.
type categoryService struct {
	transactor   store.Transactor
	categories   store.CategoryRepository
	userCategory store.UserToCategoryRepository

	audit     AuditService
	validator validators.Validator

	logger *logger.Logger
}

func NewCategoryService(storages *store.Storages, audit AuditService, logger *logger.Logger) CategoryService {
	return &categoryService{
		transactor:   storages.Transactor,
		categories:   storages.CategoryRepository,
		userCategory: storages.UserToCategoryRepository,
		audit:        audit,
		validator:    validators.NewRequestValidator(),
		logger:       logger,
	}
}

// Create stores an active category. A private category and its ownership
// row are written in one transaction.
func (c *categoryService) Create(ctx context.Context, caller models.Identity, request models.CategoryCreate) (int64, error) {
	log := logger.FromContext(ctx)

	request = normalizeCategoryCreate(request)
	if err := c.validator.Validate(ctx, request); err != nil {
		return 0, validationError(err)
	}

	if request.IsDefault && !caller.IsAdmin() {
		log.Info().Str("func", "*categoryService.Create").Int64("user_id", caller.UserID).Msg("non-admin tried to create a default category")
		return 0, auditRejection(ctx, c.audit, caller, "category creation", request.Name,
			fmt.Errorf("%w: only administrators may create default categories", ErrForbidden))
	}

	var categoryID int64
	err := c.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := c.categories.Create(ctx, models.Category{
			Name:        request.Name,
			Description: request.Description,
			Active:      true,
			IsDefault:   request.IsDefault,
		})
		if err != nil {
			return err
		}
		categoryID = id

		if request.IsDefault {
			return nil
		}

		_, err = c.userCategory.Create(ctx, models.UserToCategory{UserID: caller.UserID, CategoryID: categoryID})
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "*categoryService.Create").Int64("user_id", caller.UserID).Msg("category creation failed")
		return 0, fmt.Errorf("category creation failed: %w", err)
	}

	c.audit.Record(ctx, auditEntry(models.LogLevelInformation, "category created", caller, strconv.FormatInt(categoryID, 10), request.Name))
	return categoryID, nil
}

// GetAll returns the caller's private categories united with the defaults.
func (c *categoryService) GetAll(ctx context.Context, caller models.Identity) ([]models.Category, error) {
	categories, err := c.categories.FindAllForUser(ctx, caller.UserID, true)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*categoryService.GetAll").Int64("user_id", caller.UserID).Msg("category listing failed")
		return nil, fmt.Errorf("category listing failed: %w", err)
	}

	return categories, nil
}

func (c *categoryService) GetAllAdmin(ctx context.Context, caller models.Identity, filter models.CategoryFilter) ([]models.Category, error) {
	if !caller.IsAdmin() {
		return nil, auditRejection(ctx, c.audit, caller, "admin category listing", "", ErrForbidden)
	}

	var (
		categories []models.Category
		err        error
	)
	if filter.UserID == nil {
		categories, err = c.categories.FindAllActive(ctx, filter.IncludeDefault)
	} else {
		categories, err = c.categories.FindAllForUser(ctx, *filter.UserID, filter.IncludeDefault)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*categoryService.GetAllAdmin").Msg("category listing failed")
		return nil, fmt.Errorf("category listing failed: %w", err)
	}

	return categories, nil
}

// Update changes name and description. Empty fields keep the stored value.
func (c *categoryService) Update(ctx context.Context, caller models.Identity, request models.CategoryUpdate) (models.Category, error) {
	log := logger.FromContext(ctx)

	request = normalizeCategoryUpdate(request)
	if err := c.validator.Validate(ctx, request); err != nil {
		return models.Category{}, validationError(err)
	}

	category, err := c.manageable(ctx, caller, request.CategoryID)
	if err != nil {
		return models.Category{}, auditRejection(ctx, c.audit, caller, "category update", strconv.FormatInt(request.CategoryID, 10), err)
	}

	if provided(request.Name) {
		category.Name = *request.Name
	}
	if provided(request.Description) {
		category.Description = *request.Description
	}

	if err = c.categories.Update(ctx, category); err != nil {
		log.Err(err).Str("func", "*categoryService.Update").Int64("category_id", category.CategoryID).Msg("category update failed")
		return models.Category{}, categoryStoreError(err)
	}

	c.audit.Record(ctx, auditEntry(models.LogLevelInformation, "category updated", caller, strconv.FormatInt(category.CategoryID, 10), category.Name))
	return category, nil
}

// Delete deactivates the category. Ownership rows are retained.
func (c *categoryService) Delete(ctx context.Context, caller models.Identity, categoryID int64) error {
	log := logger.FromContext(ctx)

	category, err := c.manageable(ctx, caller, categoryID)
	if err != nil {
		return auditRejection(ctx, c.audit, caller, "category deletion", strconv.FormatInt(categoryID, 10), err)
	}

	if err = c.categories.Deactivate(ctx, category.CategoryID); err != nil {
		log.Err(err).Str("func", "*categoryService.Delete").Int64("category_id", categoryID).Msg("category deactivation failed")
		return categoryStoreError(err)
	}

	c.audit.Record(ctx, auditEntry(models.LogLevelInformation, "category deleted", caller, strconv.FormatInt(categoryID, 10), category.Name))
	return nil
}

// ValidateCategory: id 0 is never valid; an active category is valid when it
// is a default one, when isAdmin is set, or when userID owns it.
func (c *categoryService) ValidateCategory(ctx context.Context, categoryID, userID int64, isAdmin bool) (bool, error) {
	if categoryID <= 0 {
		return false, nil
	}

	category, err := c.categories.FindActiveByID(ctx, categoryID)
	if errors.Is(err, store.ErrCategoryNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("category lookup failed: %w", err)
	}

	if category.IsDefault || isAdmin {
		return true, nil
	}

	owned, err := c.userCategory.Exists(ctx, userID, categoryID)
	if err != nil {
		return false, fmt.Errorf("category ownership lookup failed: %w", err)
	}

	return owned, nil
}

// manageable loads an active category the caller may update or delete.
func (c *categoryService) manageable(ctx context.Context, caller models.Identity, categoryID int64) (models.Category, error) {
	log := logger.FromContext(ctx)

	category, err := c.categories.FindActiveByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, store.ErrCategoryNotFound) {
			log.Err(err).Str("func", "*categoryService.manageable").Int64("category_id", categoryID).Msg("category lookup failed")
		}
		return models.Category{}, categoryStoreError(err)
	}

	if caller.IsAdmin() {
		return category, nil
	}

	if category.IsDefault {
		return models.Category{}, fmt.Errorf("%w: default categories are managed by administrators", ErrForbidden)
	}

	link, err := c.userCategory.FindByCategoryID(ctx, categoryID)
	if errors.Is(err, store.ErrOwnershipNotFound) {
		log.Warn().Str("func", "*categoryService.manageable").Int64("category_id", categoryID).Msg("private category has no owner")
		return models.Category{}, fmt.Errorf("%w: category has no owner", ErrForbidden)
	}
	if err != nil {
		log.Err(err).Str("func", "*categoryService.manageable").Int64("category_id", categoryID).Msg("ownership lookup failed")
		return models.Category{}, fmt.Errorf("category ownership lookup failed: %w", err)
	}
	if !caller.Owns(link.UserID) {
		return models.Category{}, fmt.Errorf("%w: category cannot be updated", ErrForbidden)
	}

	return category, nil
}

func categoryStoreError(err error) error {
	if errors.Is(err, store.ErrCategoryNotFound) {
		return fmt.Errorf("%w: %w", ErrCategoryNotFound, err)
	}
	return err
}
