package http

import (
	"net/http"

	"github.com/MKhiriev/go-expense-tracker/models"
)

// getUser returns the caller's profile, or the one named by user_id.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	userID, err := queryID(r, "user_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.services.UserService.Get(r.Context(), caller, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var request models.UserUpdate
	if err = decode(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.services.UserService.UpdateProfile(r.Context(), caller, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	userID, err := queryID(r, "user_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.services.UserService.Deactivate(r.Context(), caller, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// getUsersAdmin lists accounts; only_active defaults to true.
func (h *Handler) getUsersAdmin(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	onlyActive, err := queryBool(r, "only_active", true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	users, err := h.services.UserService.List(r.Context(), caller, onlyActive)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, users)
}

func (h *Handler) changeAccountType(w http.ResponseWriter, r *http.Request) {
	caller, err := identity(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var request models.AccountTypeChange
	if err = decode(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}
	if request.UserID, err = pathID(r, "userID"); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err = h.services.UserService.ChangeAccountType(r.Context(), caller, request); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
