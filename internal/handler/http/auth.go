package http

import (
	"net/http"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var request models.RegisterRequest
	if err := decode(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.services.AuthService.Register(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, models.RegisterResponse{UserID: user.UserID})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var request models.LoginRequest
	if err := decode(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Str("login", request.Login).Msg("login attempt")

	response, err := h.services.AuthService.Login(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, r, response)
}

// confirmEmail always redirects: to the success page when the account was
// activated and to the failure page otherwise.
func (h *Handler) confirmEmail(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	target := h.services.AuthService.ConfirmEmail(r.Context(), query.Get("id"), query.Get("token"))

	http.Redirect(w, r, target, http.StatusFound)
}
