package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-expense-tracker/models"
)

// Transactor runs fn inside a single database transaction. Repositories
// called with the ctx passed to fn take part in that transaction.
// Returning an error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository persists user accounts in the "users" table.
type UserRepository interface {
	// Create inserts the user and returns it with the generated id.
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, userID int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// FindAll returns active users ordered by id when onlyActive is set,
	// otherwise every user ordered by username.
	FindAll(ctx context.Context, onlyActive bool) ([]models.User, error)
	// Update overwrites every mutable column of the row identified by user.UserID.
	Update(ctx context.Context, user models.User) error
}

// CategoryRepository persists expense categories. Categories are never
// physically removed: Deactivate flips the active flag.
type CategoryRepository interface {
	Create(ctx context.Context, category models.Category) (int64, error)
	FindActiveByID(ctx context.Context, categoryID int64) (models.Category, error)
	// FindAllActive lists every active category, optionally without defaults.
	FindAllActive(ctx context.Context, includeDefault bool) ([]models.Category, error)
	// FindAllForUser lists the active categories owned by userID, united with
	// the active default categories when includeDefault is set.
	FindAllForUser(ctx context.Context, userID int64, includeDefault bool) ([]models.Category, error)
	Update(ctx context.Context, category models.Category) error
	Deactivate(ctx context.Context, categoryID int64) error
}

// UserToCategoryRepository persists ownership edges of private categories.
type UserToCategoryRepository interface {
	Create(ctx context.Context, link models.UserToCategory) (int64, error)
	Exists(ctx context.Context, userID, categoryID int64) (bool, error)
	FindByCategoryID(ctx context.Context, categoryID int64) (models.UserToCategory, error)
}

// ExpenseRepository persists expenses. Delete is a hard delete.
type ExpenseRepository interface {
	Create(ctx context.Context, expense models.Expense) (int64, error)
	FindByID(ctx context.Context, expenseID int64) (models.Expense, error)
	// Find returns expenses matching filter ordered by id ascending.
	Find(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
	Update(ctx context.Context, expense models.Expense) error
	Delete(ctx context.Context, expenseID int64) error
}

// WeblogRepository appends audit events to the "weblog" table.
type WeblogRepository interface {
	Save(ctx context.Context, entry models.Weblog) error
}
