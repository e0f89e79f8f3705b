package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router. Every route is registered on the root mux so that
// [CheckHTTPMethod] sees the complete tree.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.recoverer)
	router.Use(middleware.Compress(5, "application/json", "text/plain"))
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/v1/auth/register", h.register)
		r.Post("/api/v1/auth/login", h.login)
		r.Get("/api/v1/auth/confirm-email", h.confirmEmail)
		r.Get("/api/version/", h.getServerVersion)
	})

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/v1/categories", h.createCategory)
		r.Put("/api/v1/categories", h.updateCategory)
		r.Get("/api/v1/categories", h.getCategories)
		r.Delete("/api/v1/categories/{categoryID}", h.deleteCategory)
		r.Get("/api/v1/admin/categories", h.getCategoriesAdmin)

		r.Post("/api/v1/expenses", h.createExpense)
		r.Put("/api/v1/expenses", h.updateExpense)
		r.Get("/api/v1/expenses", h.getExpenses)
		r.Get("/api/v1/expenses/{expenseID}", h.getExpense)
		r.Delete("/api/v1/expenses/{expenseID}", h.deleteExpense)
		r.Get("/api/v1/admin/expenses", h.getExpensesAdmin)

		r.Get("/api/v1/users", h.getUser)
		r.Put("/api/v1/users", h.updateUser)
		r.Delete("/api/v1/users", h.deleteUser)
		r.Get("/api/v1/admin/users", h.getUsersAdmin)
		r.Put("/api/v1/admin/users/{userID}/account-type", h.changeAccountType)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
