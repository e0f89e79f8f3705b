package http

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/service"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// ─────────────────────────────────────────────
// Service mocks
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerFn     func(ctx context.Context, request models.RegisterRequest) (models.User, error)
	confirmEmailFn func(ctx context.Context, rawUserID, token string) string
	loginFn        func(ctx context.Context, request models.LoginRequest) (models.LoginResponse, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) Register(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	return m.registerFn(ctx, request)
}

func (m *mockAuthService) ConfirmEmail(ctx context.Context, rawUserID, token string) string {
	return m.confirmEmailFn(ctx, rawUserID, token)
}

func (m *mockAuthService) Login(ctx context.Context, request models.LoginRequest) (models.LoginResponse, error) {
	return m.loginFn(ctx, request)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn == nil {
		return models.Token{}, service.ErrTokenIsExpiredOrInvalid
	}
	return m.parseTokenFn(ctx, tokenString)
}

type mockCategoryService struct {
	createFn      func(ctx context.Context, caller models.Identity, request models.CategoryCreate) (int64, error)
	getAllFn      func(ctx context.Context, caller models.Identity) ([]models.Category, error)
	getAllAdminFn func(ctx context.Context, caller models.Identity, filter models.CategoryFilter) ([]models.Category, error)
	updateFn      func(ctx context.Context, caller models.Identity, request models.CategoryUpdate) (models.Category, error)
	deleteFn      func(ctx context.Context, caller models.Identity, categoryID int64) error
}

func (m *mockCategoryService) Create(ctx context.Context, caller models.Identity, request models.CategoryCreate) (int64, error) {
	return m.createFn(ctx, caller, request)
}

func (m *mockCategoryService) GetAll(ctx context.Context, caller models.Identity) ([]models.Category, error) {
	return m.getAllFn(ctx, caller)
}

func (m *mockCategoryService) GetAllAdmin(ctx context.Context, caller models.Identity, filter models.CategoryFilter) ([]models.Category, error) {
	return m.getAllAdminFn(ctx, caller, filter)
}

func (m *mockCategoryService) Update(ctx context.Context, caller models.Identity, request models.CategoryUpdate) (models.Category, error) {
	return m.updateFn(ctx, caller, request)
}

func (m *mockCategoryService) Delete(ctx context.Context, caller models.Identity, categoryID int64) error {
	return m.deleteFn(ctx, caller, categoryID)
}

func (m *mockCategoryService) ValidateCategory(context.Context, int64, int64, bool) (bool, error) {
	return false, nil
}

type mockExpenseService struct {
	createFn      func(ctx context.Context, caller models.Identity, request models.ExpenseCreate) (int64, error)
	getFn         func(ctx context.Context, caller models.Identity, expenseID int64) (models.Expense, error)
	getAllFn      func(ctx context.Context, caller models.Identity, filter models.ExpenseFilter) ([]models.Expense, error)
	getAllAdminFn func(ctx context.Context, caller models.Identity, filter models.ExpenseFilter) ([]models.Expense, error)
	updateFn      func(ctx context.Context, caller models.Identity, request models.ExpenseUpdate) (models.Expense, error)
	deleteFn      func(ctx context.Context, caller models.Identity, expenseID int64) error
}

func (m *mockExpenseService) Create(ctx context.Context, caller models.Identity, request models.ExpenseCreate) (int64, error) {
	return m.createFn(ctx, caller, request)
}

func (m *mockExpenseService) Get(ctx context.Context, caller models.Identity, expenseID int64) (models.Expense, error) {
	return m.getFn(ctx, caller, expenseID)
}

func (m *mockExpenseService) GetAll(ctx context.Context, caller models.Identity, filter models.ExpenseFilter) ([]models.Expense, error) {
	return m.getAllFn(ctx, caller, filter)
}

func (m *mockExpenseService) GetAllAdmin(ctx context.Context, caller models.Identity, filter models.ExpenseFilter) ([]models.Expense, error) {
	return m.getAllAdminFn(ctx, caller, filter)
}

func (m *mockExpenseService) Update(ctx context.Context, caller models.Identity, request models.ExpenseUpdate) (models.Expense, error) {
	return m.updateFn(ctx, caller, request)
}

func (m *mockExpenseService) Delete(ctx context.Context, caller models.Identity, expenseID int64) error {
	return m.deleteFn(ctx, caller, expenseID)
}

type mockUserService struct {
	getFn               func(ctx context.Context, caller models.Identity, userID *int64) (models.User, error)
	listFn              func(ctx context.Context, caller models.Identity, onlyActive bool) ([]models.User, error)
	updateProfileFn     func(ctx context.Context, caller models.Identity, request models.UserUpdate) (models.User, error)
	deactivateFn        func(ctx context.Context, caller models.Identity, userID *int64) error
	changeAccountTypeFn func(ctx context.Context, caller models.Identity, request models.AccountTypeChange) error
}

func (m *mockUserService) Get(ctx context.Context, caller models.Identity, userID *int64) (models.User, error) {
	return m.getFn(ctx, caller, userID)
}

func (m *mockUserService) List(ctx context.Context, caller models.Identity, onlyActive bool) ([]models.User, error) {
	return m.listFn(ctx, caller, onlyActive)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, caller models.Identity, request models.UserUpdate) (models.User, error) {
	return m.updateProfileFn(ctx, caller, request)
}

func (m *mockUserService) Deactivate(ctx context.Context, caller models.Identity, userID *int64) error {
	return m.deactivateFn(ctx, caller, userID)
}

func (m *mockUserService) ChangeAccountType(ctx context.Context, caller models.Identity, request models.AccountTypeChange) error {
	return m.changeAccountTypeFn(ctx, caller, request)
}

type mockAuditService struct {
	entries []models.Weblog
}

func (m *mockAuditService) Record(_ context.Context, entry models.Weblog) {
	m.entries = append(m.entries, entry)
}

type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(context.Context) string {
	return m.version
}

// ─────────────────────────────────────────────
// Fixture
// ─────────────────────────────────────────────

var (
	bob   = models.Identity{UserID: 7, Role: models.AccountTypeUser}
	admin = models.Identity{UserID: 1, Role: models.AccountTypeAdministrator}
)

const (
	bobToken   = "bob-token"
	adminToken = "admin-token"

	// unavailableToken fails the account lookup with a transient store error.
	unavailableToken = "unavailable-token"
)

type testHandler struct {
	auth       *mockAuthService
	categories *mockCategoryService
	expenses   *mockExpenseService
	users      *mockUserService
	audit      *mockAuditService

	handler *Handler
}

// newTestHandler returns a handler whose auth service accepts bobToken and
// adminToken.
func newTestHandler() *testHandler {
	th := &testHandler{
		auth: &mockAuthService{
			parseTokenFn: func(_ context.Context, tokenString string) (models.Token, error) {
				switch tokenString {
				case bobToken:
					return models.Token{SignedString: tokenString, Identity: bob}, nil
				case adminToken:
					return models.Token{SignedString: tokenString, Identity: admin}, nil
				case unavailableToken:
					return models.Token{}, fmt.Errorf("token subject lookup failed: %w", store.ErrTemporarilyUnavailable)
				default:
					return models.Token{}, service.ErrTokenIsExpiredOrInvalid
				}
			},
		},
		categories: &mockCategoryService{},
		expenses:   &mockExpenseService{},
		users:      &mockUserService{},
		audit:      &mockAuditService{},
	}

	services := &service.Services{
		AuthService:     th.auth,
		CategoryService: th.categories,
		ExpenseService:  th.expenses,
		UserService:     th.users,
		AuditService:    th.audit,
		AppInfoService:  &mockAppInfoService{version: "1.4.2"},
	}
	th.handler = NewHandler(services, config.Server{}, logger.Nop())

	return th
}
