package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/internal/validators"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// expenseService lets owners manage their expenses and administrators manage
// everyone's. Expenses the caller may not access are reported as missing.
type expenseService struct {
	expenses   store.ExpenseRepository
	categories CategoryService

	audit     AuditService
	validator validators.Validator

	now func() time.Time

	logger *logger.Logger
}

func NewExpenseService(storages *store.Storages, categories CategoryService, audit AuditService, logger *logger.Logger) ExpenseService {
	return &expenseService{
		expenses:   storages.ExpenseRepository,
		categories: categories,
		audit:      audit,
		validator:  validators.NewRequestValidator(),
		now:        time.Now,
		logger:     logger,
	}
}

// Create stores an expense owned by the caller. The creation time is always
// the server clock.
func (e *expenseService) Create(ctx context.Context, caller models.Identity, request models.ExpenseCreate) (int64, error) {
	log := logger.FromContext(ctx)

	request = normalizeExpenseCreate(request)
	if err := e.validator.Validate(ctx, request); err != nil {
		return 0, validationError(err)
	}

	valid, err := e.categories.ValidateCategory(ctx, request.CategoryID, caller.UserID, caller.IsAdmin())
	if err != nil {
		log.Err(err).Str("func", "*expenseService.Create").Int64("category_id", request.CategoryID).Msg("category validation failed")
		return 0, err
	}
	if !valid {
		return 0, auditRejection(ctx, e.audit, caller, "expense creation", strconv.FormatInt(request.CategoryID, 10), ErrCategoryDoesNotExist)
	}

	expenseID, err := e.expenses.Create(ctx, models.Expense{
		CategoryID:  request.CategoryID,
		Amount:      request.Amount,
		Description: request.Description,
		CreatedAt:   e.now().UTC(),
		UserID:      caller.UserID,
	})
	if err != nil {
		log.Err(err).Str("func", "*expenseService.Create").Int64("user_id", caller.UserID).Msg("expense creation failed")
		return 0, fmt.Errorf("expense creation failed: %w", err)
	}

	e.audit.Record(ctx, auditEntry(models.LogLevelInformation, "expense created", caller,
		strconv.FormatInt(expenseID, 10), request.Amount.String()))
	return expenseID, nil
}

func (e *expenseService) Get(ctx context.Context, caller models.Identity, expenseID int64) (models.Expense, error) {
	expense, err := e.accessible(ctx, caller, expenseID)
	if err != nil {
		return models.Expense{}, auditRejection(ctx, e.audit, caller, "expense read", strconv.FormatInt(expenseID, 10), err)
	}

	return expense, nil
}

// GetAll lists the caller's own expenses; any user filter is overridden.
func (e *expenseService) GetAll(ctx context.Context, caller models.Identity, filter models.ExpenseFilter) ([]models.Expense, error) {
	userID := caller.UserID
	filter.UserID = &userID

	return e.find(ctx, filter)
}

func (e *expenseService) GetAllAdmin(ctx context.Context, caller models.Identity, filter models.ExpenseFilter) ([]models.Expense, error) {
	if !caller.IsAdmin() {
		return nil, auditRejection(ctx, e.audit, caller, "admin expense listing", "", ErrForbidden)
	}

	return e.find(ctx, filter)
}

// Update applies a partial update. A nil or zero amount, an empty
// description and a nil or zero category id keep the stored values.
//
// A new category is validated against the expense owner, not the caller, so
// an administrator cannot move someone's expense into a private category of
// another user.
func (e *expenseService) Update(ctx context.Context, caller models.Identity, request models.ExpenseUpdate) (models.Expense, error) {
	log := logger.FromContext(ctx)

	request = normalizeExpenseUpdate(request)
	if err := e.validator.Validate(ctx, request); err != nil {
		return models.Expense{}, validationError(err)
	}

	expense, err := e.accessible(ctx, caller, request.ExpenseID)
	if err != nil {
		return models.Expense{}, auditRejection(ctx, e.audit, caller, "expense update", strconv.FormatInt(request.ExpenseID, 10), err)
	}

	if request.CategoryID != nil && *request.CategoryID != 0 && *request.CategoryID != expense.CategoryID {
		ownerIsAdmin := caller.IsAdmin() && caller.Owns(expense.UserID)

		valid, err := e.categories.ValidateCategory(ctx, *request.CategoryID, expense.UserID, ownerIsAdmin)
		if err != nil {
			log.Err(err).Str("func", "*expenseService.Update").Int64("category_id", *request.CategoryID).Msg("category validation failed")
			return models.Expense{}, err
		}
		if !valid {
			return models.Expense{}, auditRejection(ctx, e.audit, caller, "expense update", strconv.FormatInt(*request.CategoryID, 10), ErrCategoryDoesNotExist)
		}
		expense.CategoryID = *request.CategoryID
	}

	if request.Amount != nil && !request.Amount.IsZero() {
		expense.Amount = *request.Amount
	}
	if provided(request.Description) {
		expense.Description = *request.Description
	}

	if err = e.expenses.Update(ctx, expense); err != nil {
		log.Err(err).Str("func", "*expenseService.Update").Int64("expense_id", expense.ExpenseID).Msg("expense update failed")
		return models.Expense{}, expenseStoreError(err)
	}

	e.audit.Record(ctx, auditEntry(models.LogLevelInformation, "expense updated", caller,
		strconv.FormatInt(expense.ExpenseID, 10), expense.Amount.String()))
	return expense, nil
}

func (e *expenseService) Delete(ctx context.Context, caller models.Identity, expenseID int64) error {
	log := logger.FromContext(ctx)

	expense, err := e.accessible(ctx, caller, expenseID)
	if err != nil {
		return auditRejection(ctx, e.audit, caller, "expense deletion", strconv.FormatInt(expenseID, 10), err)
	}

	if err = e.expenses.Delete(ctx, expense.ExpenseID); err != nil {
		log.Err(err).Str("func", "*expenseService.Delete").Int64("expense_id", expenseID).Msg("expense deletion failed")
		return expenseStoreError(err)
	}

	e.audit.Record(ctx, auditEntry(models.LogLevelInformation, "expense deleted", caller,
		strconv.FormatInt(expense.ExpenseID, 10), expense.Amount.String()))
	return nil
}

// accessible loads an expense owned by the caller, or any expense for an
// administrator.
func (e *expenseService) accessible(ctx context.Context, caller models.Identity, expenseID int64) (models.Expense, error) {
	expense, err := e.expenses.FindByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, store.ErrExpenseNotFound) {
			logger.FromContext(ctx).Err(err).Str("func", "*expenseService.accessible").Int64("expense_id", expenseID).Msg("expense lookup failed")
		}
		return models.Expense{}, expenseStoreError(err)
	}

	if !caller.Owns(expense.UserID) && !caller.IsAdmin() {
		return models.Expense{}, ErrExpenseNotFound
	}

	return expense, nil
}

func (e *expenseService) find(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	expenses, err := e.expenses.Find(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*expenseService.find").Msg("expense listing failed")
		return nil, fmt.Errorf("expense listing failed: %w", err)
	}

	return expenses, nil
}

func expenseStoreError(err error) error {
	if errors.Is(err, store.ErrExpenseNotFound) {
		return fmt.Errorf("%w: %w", ErrExpenseNotFound, err)
	}
	return err
}
