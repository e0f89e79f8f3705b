package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spending record owned by one user.
type Expense struct {
	ExpenseID   int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UserID      int64           `json:"user_id"`
}

func (e Expense) TableName() string {
	return "expenses"
}

// ExpenseCreate is the payload of an expense creation call. CreatedAt and the
// owner are always assigned by the server.
type ExpenseCreate struct {
	CategoryID  int64           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// ExpenseUpdate is a partial expense update.
//
// A nil or zero Amount, a nil or empty Description and a nil or zero
// CategoryID all leave the stored value untouched.
type ExpenseUpdate struct {
	ExpenseID   int64            `json:"id"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// ExpenseFilter narrows expense listings. All bounds are inclusive.
type ExpenseFilter struct {
	UserID     *int64
	CategoryID *int64
	DateFrom   *time.Time
	DateTo     *time.Time
}
