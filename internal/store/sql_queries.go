package store

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-expense-tracker/models"
)

var (
	userColumns = []string{
		"id", "username", "email", "password_hash", "password_salt",
		"name", "surname", "phone", "account_type", "active", "registered_at",
		"confirmation_token", "confirmation_token_issued_at",
	}
	categoryColumns = []string{"c.id", "c.name", "c.description", "c.active", "c.is_default"}
	expenseColumns  = []string{"id", "category_id", "amount", "description", "created_at", "user_id"}
)

// ─── users ───

func buildInsertUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(models.User{}.TableName()).
		Columns(userColumns[1:]...).
		Values(
			user.Username, user.Email, user.PasswordHash, user.PasswordSalt,
			user.Name, user.Surname, user.Phone, int(user.AccountType), user.Active, user.RegisteredAt.UTC(),
			nullString(user.ConfirmationToken), nullTime(user.ConfirmationTokenIssuedAt),
		).
		Suffix("RETURNING id").
		ToSql()
}

func buildSelectUserQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(userColumns...).
		From(models.User{}.TableName()).
		Where(where).
		ToSql()
}

func buildSelectAllUsersQuery(b sq.StatementBuilderType, onlyActive bool) (string, []any, error) {
	query := b.Select(userColumns...).From(models.User{}.TableName())
	if onlyActive {
		return query.Where(sq.Eq{"active": true}).OrderBy("id").ToSql()
	}
	return query.OrderBy("username").ToSql()
}

func buildUpdateUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Update(models.User{}.TableName()).
		SetMap(map[string]any{
			"username":                     user.Username,
			"email":                        user.Email,
			"name":                         user.Name,
			"surname":                      user.Surname,
			"phone":                        user.Phone,
			"account_type":                 int(user.AccountType),
			"active":                       user.Active,
			"confirmation_token":           nullString(user.ConfirmationToken),
			"confirmation_token_issued_at": nullTime(user.ConfirmationTokenIssuedAt),
		}).
		Where(sq.Eq{"id": user.UserID}).
		ToSql()
}

// ─── categories ───

func buildInsertCategoryQuery(b sq.StatementBuilderType, category models.Category) (string, []any, error) {
	return b.Insert(models.Category{}.TableName()).
		Columns("name", "description", "active", "is_default").
		Values(category.Name, category.Description, category.Active, category.IsDefault).
		Suffix("RETURNING id").
		ToSql()
}

func buildSelectActiveCategoryQuery(b sq.StatementBuilderType, categoryID int64) (string, []any, error) {
	return b.Select(categoryColumns...).
		From(models.Category{}.TableName() + " c").
		Where(sq.Eq{"c.id": categoryID, "c.active": true}).
		ToSql()
}

func buildSelectActiveCategoriesQuery(b sq.StatementBuilderType, includeDefault bool) (string, []any, error) {
	query := b.Select(categoryColumns...).
		From(models.Category{}.TableName() + " c").
		Where(sq.Eq{"c.active": true})
	if !includeDefault {
		query = query.Where(sq.Eq{"c.is_default": false})
	}
	return query.OrderBy("c.id").ToSql()
}

// buildSelectUserCategoriesQuery selects the union of owned and default
// categories in one pass, so a category can never appear twice.
func buildSelectUserCategoriesQuery(b sq.StatementBuilderType, userID int64, includeDefault bool) (string, []any, error) {
	owned := sq.Expr(
		"EXISTS (SELECT 1 FROM "+models.UserToCategory{}.TableName()+" uc WHERE uc.category_id = c.id AND uc.user_id = ?)",
		userID,
	)

	var visible sq.Sqlizer = owned
	if includeDefault {
		visible = sq.Or{sq.Eq{"c.is_default": true}, owned}
	}

	return b.Select(categoryColumns...).
		From(models.Category{}.TableName() + " c").
		Where(sq.Eq{"c.active": true}).
		Where(visible).
		OrderBy("c.id").
		ToSql()
}

func buildUpdateCategoryQuery(b sq.StatementBuilderType, category models.Category) (string, []any, error) {
	return b.Update(models.Category{}.TableName()).
		Set("name", category.Name).
		Set("description", category.Description).
		Where(sq.Eq{"id": category.CategoryID, "active": true}).
		ToSql()
}

func buildDeactivateCategoryQuery(b sq.StatementBuilderType, categoryID int64) (string, []any, error) {
	return b.Update(models.Category{}.TableName()).
		Set("active", false).
		Where(sq.Eq{"id": categoryID, "active": true}).
		ToSql()
}

// ─── user_to_category ───

func buildInsertUserToCategoryQuery(b sq.StatementBuilderType, link models.UserToCategory) (string, []any, error) {
	return b.Insert(models.UserToCategory{}.TableName()).
		Columns("user_id", "category_id").
		Values(link.UserID, link.CategoryID).
		Suffix("RETURNING id").
		ToSql()
}

func buildExistsUserToCategoryQuery(b sq.StatementBuilderType, userID, categoryID int64) (string, []any, error) {
	return b.Select("COUNT(*)").
		From(models.UserToCategory{}.TableName()).
		Where(sq.Eq{"user_id": userID, "category_id": categoryID}).
		ToSql()
}

func buildSelectUserToCategoryQuery(b sq.StatementBuilderType, categoryID int64) (string, []any, error) {
	return b.Select("id", "user_id", "category_id").
		From(models.UserToCategory{}.TableName()).
		Where(sq.Eq{"category_id": categoryID}).
		ToSql()
}

// ─── expenses ───

func buildInsertExpenseQuery(b sq.StatementBuilderType, expense models.Expense) (string, []any, error) {
	return b.Insert(models.Expense{}.TableName()).
		Columns(expenseColumns[1:]...).
		Values(expense.CategoryID, expense.Amount, expense.Description, expense.CreatedAt.UTC(), expense.UserID).
		Suffix("RETURNING id").
		ToSql()
}

func buildSelectExpenseQuery(b sq.StatementBuilderType, expenseID int64) (string, []any, error) {
	return b.Select(expenseColumns...).
		From(models.Expense{}.TableName()).
		Where(sq.Eq{"id": expenseID}).
		ToSql()
}

func buildFindExpensesQuery(b sq.StatementBuilderType, filter models.ExpenseFilter) (string, []any, error) {
	query := b.Select(expenseColumns...).From(models.Expense{}.TableName())

	if filter.UserID != nil {
		query = query.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.CategoryID != nil {
		query = query.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.DateFrom != nil {
		query = query.Where(sq.GtOrEq{"created_at": filter.DateFrom.UTC()})
	}
	if filter.DateTo != nil {
		query = query.Where(sq.LtOrEq{"created_at": filter.DateTo.UTC()})
	}

	return query.OrderBy("id").ToSql()
}

func buildUpdateExpenseQuery(b sq.StatementBuilderType, expense models.Expense) (string, []any, error) {
	return b.Update(models.Expense{}.TableName()).
		Set("category_id", expense.CategoryID).
		Set("amount", expense.Amount).
		Set("description", expense.Description).
		Where(sq.Eq{"id": expense.ExpenseID}).
		ToSql()
}

func buildDeleteExpenseQuery(b sq.StatementBuilderType, expenseID int64) (string, []any, error) {
	return b.Delete(models.Expense{}.TableName()).
		Where(sq.Eq{"id": expenseID}).
		ToSql()
}

// ─── weblog ───

func buildInsertWeblogQuery(b sq.StatementBuilderType, entry models.Weblog) (string, []any, error) {
	var userID any
	if entry.UserID != nil {
		userID = *entry.UserID
	}

	return b.Insert(models.Weblog{}.TableName()).
		Columns("log_time", "log_level", "log_message", "log_info1", "log_info2", "stack_trace", "user_id").
		Values(entry.LogTime.UTC(), int(entry.Level), entry.Message, entry.Info1, entry.Info2, entry.StackTrace, userID).
		ToSql()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
