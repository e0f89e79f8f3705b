package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// expenseRepository is the SQL implementation of [ExpenseRepository].
// Ownership checks live in the service layer; every method here addresses
// rows by id only.
type expenseRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewExpenseRepository(db *DB, logger *logger.Logger) ExpenseRepository {
	logger.Debug().Msg("creating expense repository")
	return &expenseRepository{
		db:     db,
		logger: logger,
	}
}

func (r *expenseRepository) Create(ctx context.Context, expense models.Expense) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertExpenseQuery(r.db.builder, expense)
	if err != nil {
		log.Err(err).Str("func", "*expenseRepository.Create").Msg("failed to build query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	id, err := r.db.insertReturningID(ctx, query, args)
	if err != nil {
		log.Err(err).Str("func", "*expenseRepository.Create").Int64("user_id", expense.UserID).Msg("failed to insert expense")
		return 0, err
	}

	return id, nil
}

func (r *expenseRepository) FindByID(ctx context.Context, expenseID int64) (models.Expense, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectExpenseQuery(r.db.builder, expenseID)
	if err != nil {
		log.Err(err).Str("func", "*expenseRepository.FindByID").Msg("failed to build query")
		return models.Expense{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	expense, err := scanExpense(r.db.conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return models.Expense{}, ErrExpenseNotFound
		}
		log.Err(err).Str("func", "*expenseRepository.FindByID").Int64("expense_id", expenseID).Msg("failed to select expense")
		return models.Expense{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.translate(err))
	}

	return expense, nil
}

func (r *expenseRepository) Find(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindExpensesQuery(r.db.builder, filter)
	if err != nil {
		log.Err(err).Str("func", "*expenseRepository.Find").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*expenseRepository.Find").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.translate(err))
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		expense, scanErr := scanExpense(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*expenseRepository.Find").Msg("failed to scan expense row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		expenses = append(expenses, expense)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*expenseRepository.Find").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return expenses, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense models.Expense) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateExpenseQuery(r.db.builder, expense)
	if err != nil {
		log.Err(err).Str("func", "*expenseRepository.Update").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.execAffectingOne(ctx, query, args, ErrExpenseNotFound); err != nil {
		log.Err(err).Str("func", "*expenseRepository.Update").Int64("expense_id", expense.ExpenseID).Msg("failed to update expense")
		return err
	}

	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, expenseID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteExpenseQuery(r.db.builder, expenseID)
	if err != nil {
		log.Err(err).Str("func", "*expenseRepository.Delete").Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.execAffectingOne(ctx, query, args, ErrExpenseNotFound); err != nil {
		log.Err(err).Str("func", "*expenseRepository.Delete").Int64("expense_id", expenseID).Msg("failed to delete expense")
		return err
	}

	return nil
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var expense models.Expense
	err := row.Scan(&expense.ExpenseID, &expense.CategoryID, &expense.Amount, &expense.Description, &expense.CreatedAt, &expense.UserID)
	expense.CreatedAt = expense.CreatedAt.UTC()
	return expense, err
}
