package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// ─────────────────────────────────────────────
// In-memory storage
// ─────────────────────────────────────────────

// memDB keeps every table in memory. WithinTransaction snapshots the state
// and restores it when fn fails.
type memDB struct {
	mu sync.Mutex

	users      map[int64]models.User
	categories map[int64]models.Category
	links      map[int64]models.UserToCategory
	expenses   map[int64]models.Expense
	weblog     []models.Weblog

	nextID int64

	// createUserErr is returned by the user repository Create when set.
	createUserErr error
}

func newMemDB() *memDB {
	return &memDB{
		users:      map[int64]models.User{},
		categories: map[int64]models.Category{},
		links:      map[int64]models.UserToCategory{},
		expenses:   map[int64]models.Expense{},
	}
}

func (m *memDB) storages() *store.Storages {
	return &store.Storages{
		Transactor:               m,
		UserRepository:           memUsers{m},
		CategoryRepository:       memCategories{m},
		UserToCategoryRepository: memLinks{m},
		ExpenseRepository:        memExpenses{m},
		WeblogRepository:         memWeblog{m},
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	users := cloneMap(m.users)
	categories := cloneMap(m.categories)
	links := cloneMap(m.links)
	expenses := cloneMap(m.expenses)
	m.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.mu.Lock()
		m.users, m.categories, m.links, m.expenses = users, categories, links, expenses
		m.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memDB) linkCount(categoryID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, l := range m.links {
		if l.CategoryID == categoryID {
			n++
		}
	}
	return n
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, user models.User) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.createUserErr != nil {
		return models.User{}, r.db.createUserErr
	}
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return models.User{}, store.ErrEmailAlreadyExists
		}
		if u.Username == user.Username {
			return models.User{}, store.ErrUsernameAlreadyExists
		}
	}
	user.UserID = r.db.id()
	r.db.users[user.UserID] = user
	return user, nil
}

func (r memUsers) FindByID(_ context.Context, userID int64) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return models.User{}, store.ErrNoUserWasFound
	}
	return u, nil
}

func (r memUsers) find(match func(models.User) bool) (models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, store.ErrNoUserWasFound
}

func (r memUsers) FindByUsername(_ context.Context, username string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r memUsers) FindAll(_ context.Context, onlyActive bool) ([]models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var users []models.User
	for _, u := range r.db.users {
		if onlyActive && !u.Active {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if onlyActive {
			return users[i].UserID < users[j].UserID
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r memUsers) Update(_ context.Context, user models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[user.UserID]; !ok {
		return store.ErrNoUserWasFound
	}
	for _, u := range r.db.users {
		if u.UserID == user.UserID {
			continue
		}
		if u.Email == user.Email {
			return store.ErrEmailAlreadyExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameAlreadyExists
		}
	}
	r.db.users[user.UserID] = user
	return nil
}

type memCategories struct{ db *memDB }

func (r memCategories) Create(_ context.Context, category models.Category) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	category.CategoryID = r.db.id()
	r.db.categories[category.CategoryID] = category
	return category.CategoryID, nil
}

func (r memCategories) FindActiveByID(_ context.Context, categoryID int64) (models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.categories[categoryID]
	if !ok || !c.Active {
		return models.Category{}, store.ErrCategoryNotFound
	}
	return c, nil
}

func (r memCategories) FindAllActive(_ context.Context, includeDefault bool) ([]models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.Category
	for _, c := range r.db.categories {
		if c.Active && (includeDefault || !c.IsDefault) {
			out = append(out, c)
		}
	}
	sortCategories(out)
	return out, nil
}

func (r memCategories) FindAllForUser(_ context.Context, userID int64, includeDefault bool) ([]models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	owned := map[int64]bool{}
	for _, l := range r.db.links {
		if l.UserID == userID {
			owned[l.CategoryID] = true
		}
	}

	var out []models.Category
	for _, c := range r.db.categories {
		if c.Active && ((includeDefault && c.IsDefault) || owned[c.CategoryID]) {
			out = append(out, c)
		}
	}
	sortCategories(out)
	return out, nil
}

func sortCategories(c []models.Category) {
	sort.Slice(c, func(i, j int) bool { return c[i].CategoryID < c[j].CategoryID })
}

func (r memCategories) Update(_ context.Context, category models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.categories[category.CategoryID]; !ok {
		return store.ErrCategoryNotFound
	}
	r.db.categories[category.CategoryID] = category
	return nil
}

func (r memCategories) Deactivate(_ context.Context, categoryID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.categories[categoryID]
	if !ok {
		return store.ErrCategoryNotFound
	}
	c.Active = false
	r.db.categories[categoryID] = c
	return nil
}

type memLinks struct{ db *memDB }

func (r memLinks) Create(_ context.Context, link models.UserToCategory) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	link.ID = r.db.id()
	r.db.links[link.ID] = link
	return link.ID, nil
}

func (r memLinks) Exists(_ context.Context, userID, categoryID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, l := range r.db.links {
		if l.UserID == userID && l.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r memLinks) FindByCategoryID(_ context.Context, categoryID int64) (models.UserToCategory, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, l := range r.db.links {
		if l.CategoryID == categoryID {
			return l, nil
		}
	}
	return models.UserToCategory{}, store.ErrOwnershipNotFound
}

type memExpenses struct{ db *memDB }

func (r memExpenses) Create(_ context.Context, expense models.Expense) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	expense.ExpenseID = r.db.id()
	r.db.expenses[expense.ExpenseID] = expense
	return expense.ExpenseID, nil
}

func (r memExpenses) FindByID(_ context.Context, expenseID int64) (models.Expense, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	e, ok := r.db.expenses[expenseID]
	if !ok {
		return models.Expense{}, store.ErrExpenseNotFound
	}
	return e, nil
}

func (r memExpenses) Find(_ context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var out []models.Expense
	for _, e := range r.db.expenses {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.CategoryID != nil && e.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.DateFrom != nil && e.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.CreatedAt.After(*filter.DateTo) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseID < out[j].ExpenseID })
	return out, nil
}

func (r memExpenses) Update(_ context.Context, expense models.Expense) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.expenses[expense.ExpenseID]; !ok {
		return store.ErrExpenseNotFound
	}
	r.db.expenses[expense.ExpenseID] = expense
	return nil
}

func (r memExpenses) Delete(_ context.Context, expenseID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.expenses[expenseID]; !ok {
		return store.ErrExpenseNotFound
	}
	delete(r.db.expenses, expenseID)
	return nil
}

type memWeblog struct{ db *memDB }

func (r memWeblog) Save(_ context.Context, entry models.Weblog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	entry.ID = r.db.id()
	r.db.weblog = append(r.db.weblog, entry)
	return nil
}

func (m *memDB) auditMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages := make([]string, 0, len(m.weblog))
	for _, entry := range m.weblog {
		messages = append(messages, entry.Message)
	}
	return messages
}

// auditEntryByMessage returns the last entry carrying message.
func (m *memDB) auditEntryByMessage(message string) (models.Weblog, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.weblog) - 1; i >= 0; i-- {
		if m.weblog[i].Message == message {
			return m.weblog[i], true
		}
	}
	return models.Weblog{}, false
}

// ─────────────────────────────────────────────
// Mail and fixtures
// ─────────────────────────────────────────────

type sentMail struct {
	token string
	link  string
	user  models.User
}

// recordingSender remembers every confirmation e-mail and fails with err when set.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *recordingSender) SendConfirmationEmail(_ context.Context, token, link string, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{token: token, link: link, user: user})
	return nil
}

func (s *recordingSender) last() sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent[len(s.sent)-1]
}

func testConfig() *config.StructuredConfig {
	return &config.StructuredConfig{
		App: config.App{
			TokenSignKey:  "test-sign-key",
			TokenIssuer:   "expense-tracker",
			TokenDuration: 2 * time.Hour,
			PublicURL:     "https://api.example.com",
			Version:       "1.0.0",
		},
		EmailConfirmation: config.EmailConfirmation{
			ExpirationHours: 24,
			SuccessURL:      "https://app.example.com/confirmed",
			FailURL:         "https://app.example.com/failed",
		},
	}
}

var (
	alice = models.Identity{UserID: 1001, Role: models.AccountTypeUser}
	bob   = models.Identity{UserID: 1002, Role: models.AccountTypeUser}
	admin = models.Identity{UserID: 1003, Role: models.AccountTypeAdministrator}
)

func ptr[T any](v T) *T { return &v }
