// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is a typed REST client for the expense tracker API.
//
// Non-2xx responses are mapped to the sentinel errors of this package so that
// callers can use [errors.Is] regardless of the reason text, which is kept in
// the error message.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-expense-tracker/models"
)

// ExpenseAPI mirrors the /api/v1 surface. Methods other than Register, Login,
// ConfirmEmail and Version need a token set by Login or SetToken.
type ExpenseAPI interface {
	SetToken(token string)
	Token() string

	Register(ctx context.Context, request models.RegisterRequest) (int64, error)
	// Login stores the returned session token.
	Login(ctx context.Context, request models.LoginRequest) (models.LoginResponse, error)
	// ConfirmEmail opens a confirmation link and returns the redirect target.
	ConfirmEmail(ctx context.Context, link string) (string, error)
	Version(ctx context.Context) (string, error)

	CreateCategory(ctx context.Context, request models.CategoryCreate) (int64, error)
	UpdateCategory(ctx context.Context, request models.CategoryUpdate) (models.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) error
	Categories(ctx context.Context) ([]models.Category, error)
	AdminCategories(ctx context.Context, filter models.CategoryFilter) ([]models.Category, error)

	CreateExpense(ctx context.Context, request models.ExpenseCreate) (int64, error)
	UpdateExpense(ctx context.Context, request models.ExpenseUpdate) (models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID int64) error
	Expense(ctx context.Context, expenseID int64) (models.Expense, error)
	Expenses(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
	AdminExpenses(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)

	User(ctx context.Context, userID *int64) (models.User, error)
	UpdateUser(ctx context.Context, request models.UserUpdate) (models.User, error)
	DeactivateUser(ctx context.Context, userID *int64) error
	Users(ctx context.Context, onlyActive bool) ([]models.User, error)
	ChangeAccountType(ctx context.Context, request models.AccountTypeChange) error
}
