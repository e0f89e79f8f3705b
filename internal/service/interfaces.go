package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-expense-tracker/models"
)

// CredentialService owns password hashing, session tokens and e-mail
// confirmation tokens. The password policy is enforced by the request
// validators.
type CredentialService interface {
	HashPassword(password string) (hash, salt []byte, err error)
	VerifyPassword(password string, hash, salt []byte) bool

	IssueToken(user models.User) (models.Token, error)
	ParseToken(tokenString string) (models.Token, error)

	// NewConfirmationToken returns a fresh random token and its issue time.
	NewConfirmationToken() (token string, issuedAt time.Time)
	// IsConfirmationTokenValid reports whether token matches the one stored on
	// user and was issued less than the confirmation window ago.
	IsConfirmationTokenValid(user models.User, token string) bool
}

// AuthService implements registration, e-mail confirmation and login.
type AuthService interface {
	Register(ctx context.Context, request models.RegisterRequest) (models.User, error)
	// ConfirmEmail activates the account and returns the URL to redirect the
	// browser to. Failures are never reported, only redirected.
	ConfirmEmail(ctx context.Context, rawUserID, token string) string
	Login(ctx context.Context, request models.LoginRequest) (models.LoginResponse, error)
	// ParseToken validates a bearer token and returns the caller as currently
	// stored. Tokens of missing or inactive accounts are invalid.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// CategoryService applies the category ownership and visibility rules.
type CategoryService interface {
	Create(ctx context.Context, caller models.Identity, request models.CategoryCreate) (int64, error)
	GetAll(ctx context.Context, caller models.Identity) ([]models.Category, error)
	GetAllAdmin(ctx context.Context, caller models.Identity, filter models.CategoryFilter) ([]models.Category, error)
	Update(ctx context.Context, caller models.Identity, request models.CategoryUpdate) (models.Category, error)
	Delete(ctx context.Context, caller models.Identity, categoryID int64) error

	// ValidateCategory reports whether an expense owned by userID may
	// reference categoryID.
	ValidateCategory(ctx context.Context, categoryID, userID int64, isAdmin bool) (bool, error)
}

// ExpenseService applies the expense ownership rules.
type ExpenseService interface {
	Create(ctx context.Context, caller models.Identity, request models.ExpenseCreate) (int64, error)
	Get(ctx context.Context, caller models.Identity, expenseID int64) (models.Expense, error)
	GetAll(ctx context.Context, caller models.Identity, filter models.ExpenseFilter) ([]models.Expense, error)
	GetAllAdmin(ctx context.Context, caller models.Identity, filter models.ExpenseFilter) ([]models.Expense, error)
	Update(ctx context.Context, caller models.Identity, request models.ExpenseUpdate) (models.Expense, error)
	Delete(ctx context.Context, caller models.Identity, expenseID int64) error
}

// UserService manages accounts after registration.
type UserService interface {
	// Get returns the caller's own account when userID is nil.
	Get(ctx context.Context, caller models.Identity, userID *int64) (models.User, error)
	List(ctx context.Context, caller models.Identity, onlyActive bool) ([]models.User, error)
	UpdateProfile(ctx context.Context, caller models.Identity, request models.UserUpdate) (models.User, error)
	// Deactivate deactivates the caller's own account when userID is nil.
	Deactivate(ctx context.Context, caller models.Identity, userID *int64) error
	ChangeAccountType(ctx context.Context, caller models.Identity, request models.AccountTypeChange) error
}

// AuditService appends events to the audit log. Record never fails: when the
// log cannot be written the event goes to the fallback logger.
type AuditService interface {
	Record(ctx context.Context, entry models.Weblog)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
