package http

import (
	"net/http"

	"github.com/MKhiriev/go-expense-tracker/models"
)

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var request models.CategoryCreate
	if err = decode(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := h.services.CategoryService.Create(r.Context(), caller, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.CreatedResponse{ID: id})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var request models.CategoryUpdate
	if err = decode(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	category, err := h.services.CategoryService.Update(r.Context(), caller, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	id, err := pathID(r, "categoryID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.services.CategoryService.Delete(r.Context(), caller, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	categories, err := h.services.CategoryService.GetAll(r.Context(), caller)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, categories)
}

// getCategoriesAdmin lists categories across users. include_default
// defaults to true.
func (h *Handler) getCategoriesAdmin(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var filter models.CategoryFilter
	if filter.UserID, err = queryID(r, "user_id"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if filter.IncludeDefault, err = queryBool(r, "include_default", true); err != nil {
		h.writeError(w, r, err)
		return
	}

	categories, err := h.services.CategoryService.GetAllAdmin(r.Context(), caller, filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, categories)
}
