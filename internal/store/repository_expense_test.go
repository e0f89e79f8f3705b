package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

func newTestExpenseRepo(t *testing.T) (*expenseRepository, sqlmock.Sqlmock) {
	db, mock := newTestDB(t)
	return &expenseRepository{db: db, logger: logger.Nop()}, mock
}

func TestExpenseRepository_Create(t *testing.T) {
	repo, mock := newTestExpenseRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO expenses \(category_id,amount,description,created_at,user_id\)`).
		WithArgs(int64(1), sqlmock.AnyArg(), "lunch", now, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	id, err := repo.Create(context.Background(), models.Expense{
		CategoryID:  1,
		Amount:      decimal.RequireFromString("12.50"),
		Description: "lunch",
		CreatedAt:   now,
		UserID:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
}

func TestExpenseRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newTestExpenseRepo(t)
		now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		mock.ExpectQuery(`SELECT id, category_id, amount, description, created_at, user_id FROM expenses WHERE id = \$1`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(expenseColumns).AddRow(int64(9), int64(1), "-3.25", "refund", now, int64(2)))

		expense, err := repo.FindByID(context.Background(), 9)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("-3.25").Equal(expense.Amount))
		assert.Equal(t, int64(2), expense.UserID)
		assert.True(t, now.Equal(expense.CreatedAt))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newTestExpenseRepo(t)

		mock.ExpectQuery("FROM expenses").WillReturnRows(sqlmock.NewRows(expenseColumns))

		_, err := repo.FindByID(context.Background(), 9)
		require.ErrorIs(t, err, ErrExpenseNotFound)
	})
}

func TestExpenseRepository_Find(t *testing.T) {
	repo, mock := newTestExpenseRepo(t)
	userID := int64(2)

	mock.ExpectQuery(`FROM expenses WHERE user_id = \$1 ORDER BY id`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(int64(1), int64(1), "1", "a", time.Now(), userID).
			AddRow(int64(2), int64(1), "2", "b", time.Now(), userID))

	expenses, err := repo.Find(context.Background(), models.ExpenseFilter{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, int64(1), expenses[0].ExpenseID)
	assert.Equal(t, int64(2), expenses[1].ExpenseID)
}

func TestExpenseRepository_UpdateAndDelete(t *testing.T) {
	t.Run("update missing", func(t *testing.T) {
		repo, mock := newTestExpenseRepo(t)

		mock.ExpectExec(`UPDATE expenses SET category_id = \$1, amount = \$2, description = \$3 WHERE id = \$4`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), models.Expense{ExpenseID: 4})
		require.ErrorIs(t, err, ErrExpenseNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo, mock := newTestExpenseRepo(t)

		mock.ExpectExec(`DELETE FROM expenses WHERE id = \$1`).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), 4))
	})

	t.Run("delete missing", func(t *testing.T) {
		repo, mock := newTestExpenseRepo(t)

		mock.ExpectExec("DELETE FROM expenses").WillReturnResult(sqlmock.NewResult(0, 0))

		require.ErrorIs(t, repo.Delete(context.Background(), 4), ErrExpenseNotFound)
	})
}

func TestWeblogRepository_Save(t *testing.T) {
	db, mock := newTestDB(t)
	repo := &weblogRepository{db: db, logger: logger.Nop()}
	userID := int64(5)

	mock.ExpectExec(`INSERT INTO weblog \(log_time,log_level,log_message,log_info1,log_info2,stack_trace,user_id\)`).
		WithArgs(sqlmock.AnyArg(), int(models.LogLevelError), "boom", "", "", "stack", userID).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Save(context.Background(), models.Weblog{
		LogTime:    time.Now(),
		Level:      models.LogLevelError,
		Message:    "boom",
		StackTrace: "stack",
		UserID:     &userID,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
