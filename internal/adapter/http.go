package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/utils"
	"github.com/MKhiriev/go-expense-tracker/models"
)

type httpExpenseAPI struct {
	client *utils.HTTPClient
	token  string

	logger *logger.Logger
}

// NewHTTPExpenseAPI builds a client for the API served at address, which may
// omit the scheme ("localhost:8080").
func NewHTTPExpenseAPI(address string, timeout time.Duration, logger *logger.Logger) (ExpenseAPI, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid api address: %w", err)
	}

	return &httpExpenseAPI{client: utils.NewHTTPClient(baseURL, timeout), logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpExpenseAPI) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

func (h *httpExpenseAPI) Token() string {
	return h.token
}

// ─── auth ───

func (h *httpExpenseAPI) Register(ctx context.Context, request models.RegisterRequest) (int64, error) {
	var created models.RegisterResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&created).
		Post("/api/v1/auth/register")
	if err = h.check("register", resp, err); err != nil {
		return 0, err
	}
	return created.UserID, nil
}

func (h *httpExpenseAPI) Login(ctx context.Context, request models.LoginRequest) (models.LoginResponse, error) {
	var response models.LoginResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/api/v1/auth/login")
	if err = h.check("login", resp, err); err != nil {
		return models.LoginResponse{}, err
	}

	h.SetToken(response.Token)
	return response, nil
}

// ConfirmEmail does not follow the redirect; the target is the result.
func (h *httpExpenseAPI) ConfirmEmail(ctx context.Context, link string) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get(link)
	if err != nil {
		return "", fmt.Errorf("confirm email request: %w", err)
	}
	if resp.StatusCode() != http.StatusFound {
		if err = mapHTTPError(resp); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: got %d", ErrUnexpectedRedirect, resp.StatusCode())
	}
	return resp.Header().Get("Location"), nil
}

func (h *httpExpenseAPI) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version/")
	if err = h.check("version", resp, err); err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}

// ─── categories ───

func (h *httpExpenseAPI) CreateCategory(ctx context.Context, request models.CategoryCreate) (int64, error) {
	var created models.CreatedResponse
	resp, err := h.authedRequest(ctx).SetBody(request).SetResult(&created).Post("/api/v1/categories")
	if err = h.check("create category", resp, err); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (h *httpExpenseAPI) UpdateCategory(ctx context.Context, request models.CategoryUpdate) (models.Category, error) {
	var category models.Category
	resp, err := h.authedRequest(ctx).SetBody(request).SetResult(&category).Put("/api/v1/categories")
	if err = h.check("update category", resp, err); err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (h *httpExpenseAPI) DeleteCategory(ctx context.Context, categoryID int64) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("categoryID", strconv.FormatInt(categoryID, 10)).
		Delete("/api/v1/categories/{categoryID}")
	return h.check("delete category", resp, err)
}

func (h *httpExpenseAPI) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	resp, err := h.authedRequest(ctx).SetResult(&categories).Get("/api/v1/categories")
	if err = h.check("get categories", resp, err); err != nil {
		return nil, err
	}
	return categories, nil
}

func (h *httpExpenseAPI) AdminCategories(ctx context.Context, filter models.CategoryFilter) ([]models.Category, error) {
	var categories []models.Category
	req := h.authedRequest(ctx).
		SetQueryParam("include_default", strconv.FormatBool(filter.IncludeDefault)).
		SetResult(&categories)
	if filter.UserID != nil {
		req.SetQueryParam("user_id", strconv.FormatInt(*filter.UserID, 10))
	}

	resp, err := req.Get("/api/v1/admin/categories")
	if err = h.check("get admin categories", resp, err); err != nil {
		return nil, err
	}
	return categories, nil
}

// ─── expenses ───

func (h *httpExpenseAPI) CreateExpense(ctx context.Context, request models.ExpenseCreate) (int64, error) {
	var created models.CreatedResponse
	resp, err := h.authedRequest(ctx).SetBody(request).SetResult(&created).Post("/api/v1/expenses")
	if err = h.check("create expense", resp, err); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (h *httpExpenseAPI) UpdateExpense(ctx context.Context, request models.ExpenseUpdate) (models.Expense, error) {
	var expense models.Expense
	resp, err := h.authedRequest(ctx).SetBody(request).SetResult(&expense).Put("/api/v1/expenses")
	if err = h.check("update expense", resp, err); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

func (h *httpExpenseAPI) DeleteExpense(ctx context.Context, expenseID int64) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("expenseID", strconv.FormatInt(expenseID, 10)).
		Delete("/api/v1/expenses/{expenseID}")
	return h.check("delete expense", resp, err)
}

func (h *httpExpenseAPI) Expense(ctx context.Context, expenseID int64) (models.Expense, error) {
	var expense models.Expense
	resp, err := h.authedRequest(ctx).
		SetPathParam("expenseID", strconv.FormatInt(expenseID, 10)).
		SetResult(&expense).
		Get("/api/v1/expenses/{expenseID}")
	if err = h.check("get expense", resp, err); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

func (h *httpExpenseAPI) Expenses(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	return h.listExpenses(ctx, "/api/v1/expenses", filter)
}

func (h *httpExpenseAPI) AdminExpenses(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	return h.listExpenses(ctx, "/api/v1/admin/expenses", filter)
}

func (h *httpExpenseAPI) listExpenses(ctx context.Context, path string, filter models.ExpenseFilter) ([]models.Expense, error) {
	var expenses []models.Expense
	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(expenseQuery(filter)).
		SetResult(&expenses).
		Get(path)
	if err = h.check("get expenses", resp, err); err != nil {
		return nil, err
	}
	return expenses, nil
}

func expenseQuery(filter models.ExpenseFilter) url.Values {
	query := url.Values{}
	if filter.UserID != nil {
		query.Set("user_id", strconv.FormatInt(*filter.UserID, 10))
	}
	if filter.CategoryID != nil {
		query.Set("category_id", strconv.FormatInt(*filter.CategoryID, 10))
	}
	if filter.DateFrom != nil {
		query.Set("date_from", filter.DateFrom.Format(time.RFC3339))
	}
	if filter.DateTo != nil {
		query.Set("date_to", filter.DateTo.Format(time.RFC3339))
	}
	return query
}

// ─── users ───

func (h *httpExpenseAPI) User(ctx context.Context, userID *int64) (models.User, error) {
	var user models.User
	req := h.authedRequest(ctx).SetResult(&user)
	if userID != nil {
		req.SetQueryParam("user_id", strconv.FormatInt(*userID, 10))
	}

	resp, err := req.Get("/api/v1/users")
	if err = h.check("get user", resp, err); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (h *httpExpenseAPI) UpdateUser(ctx context.Context, request models.UserUpdate) (models.User, error) {
	var user models.User
	resp, err := h.authedRequest(ctx).SetBody(request).SetResult(&user).Put("/api/v1/users")
	if err = h.check("update user", resp, err); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (h *httpExpenseAPI) DeactivateUser(ctx context.Context, userID *int64) error {
	req := h.authedRequest(ctx)
	if userID != nil {
		req.SetQueryParam("user_id", strconv.FormatInt(*userID, 10))
	}

	resp, err := req.Delete("/api/v1/users")
	return h.check("deactivate user", resp, err)
}

func (h *httpExpenseAPI) Users(ctx context.Context, onlyActive bool) ([]models.User, error) {
	var users []models.User
	resp, err := h.authedRequest(ctx).
		SetQueryParam("only_active", strconv.FormatBool(onlyActive)).
		SetResult(&users).
		Get("/api/v1/admin/users")
	if err = h.check("get users", resp, err); err != nil {
		return nil, err
	}
	return users, nil
}

func (h *httpExpenseAPI) ChangeAccountType(ctx context.Context, request models.AccountTypeChange) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("userID", strconv.FormatInt(request.UserID, 10)).
		SetBody(request).
		Put("/api/v1/admin/users/{userID}/account-type")
	return h.check("change account type", resp, err)
}

func (h *httpExpenseAPI) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// check folds a transport error and a non-2xx status into one error.
func (h *httpExpenseAPI) check(operation string, resp *resty.Response, err error) error {
	if err != nil {
		h.logger.Err(err).Str("operation", operation).Msg("request failed")
		return fmt.Errorf("%s request: %w", operation, err)
	}
	return mapHTTPError(resp)
}
