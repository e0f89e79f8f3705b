package service

import (
	"strings"

	"github.com/MKhiriev/go-expense-tracker/models"
)

// Incoming text is trimmed before validation and persistence.

func normalizeRegisterRequest(r models.RegisterRequest) models.RegisterRequest {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.Password = strings.TrimSpace(r.Password)
	r.ConfirmPassword = strings.TrimSpace(r.ConfirmPassword)
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Phone = strings.TrimSpace(r.Phone)
	return r
}

func normalizeLoginRequest(r models.LoginRequest) models.LoginRequest {
	r.Login = strings.TrimSpace(r.Login)
	r.Password = strings.TrimSpace(r.Password)
	return r
}

func normalizeUserUpdate(u models.UserUpdate) models.UserUpdate {
	u.Username = trimmed(u.Username)
	u.Email = trimmed(u.Email)
	u.Name = trimmed(u.Name)
	u.Surname = trimmed(u.Surname)
	u.Phone = trimmed(u.Phone)
	return u
}

func normalizeCategoryCreate(c models.CategoryCreate) models.CategoryCreate {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	return c
}

func normalizeCategoryUpdate(c models.CategoryUpdate) models.CategoryUpdate {
	c.Name = trimmed(c.Name)
	c.Description = trimmed(c.Description)
	return c
}

func normalizeExpenseCreate(e models.ExpenseCreate) models.ExpenseCreate {
	e.Description = strings.TrimSpace(e.Description)
	return e
}

func normalizeExpenseUpdate(e models.ExpenseUpdate) models.ExpenseUpdate {
	e.Description = trimmed(e.Description)
	return e
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// provided reports whether an optional text field carries a new value.
func provided(s *string) bool {
	return s != nil && *s != ""
}
