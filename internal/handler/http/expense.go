package http

import (
	"net/http"

	"github.com/MKhiriev/go-expense-tracker/models"
)

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var request models.ExpenseCreate
	if err = decode(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.services.ExpenseService.Create(r.Context(), caller, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.CreatedResponse{ID: id})
}

func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var request models.ExpenseUpdate
	if err = decode(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	expense, err := h.services.ExpenseService.Update(r.Context(), caller, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, expense)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := pathID(r, "expenseID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.services.ExpenseService.Delete(r.Context(), caller, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getExpense(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := pathID(r, "expenseID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	expense, err := h.services.ExpenseService.Get(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, expense)
}

func (h *Handler) getExpenses(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filter, err := expenseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	expenses, err := h.services.ExpenseService.GetAll(r.Context(), caller, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, expenses)
}

func (h *Handler) getExpensesAdmin(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	filter, err := expenseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if filter.UserID, err = queryID(r, "user_id"); err != nil {
		h.writeError(w, r, err)
		return
	}

	expenses, err := h.services.ExpenseService.GetAllAdmin(r.Context(), caller, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, expenses)
}
