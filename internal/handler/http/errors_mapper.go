package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/service"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/internal/utils"
	"github.com/MKhiriev/go-expense-tracker/models"
)

const reasonInvalidData = "invalid data provided"

// errorResponse binds an error to the status and caller-visible reason it is
// answered with. An empty reason means the response has no body.
type errorResponse struct {
	target error
	status int
	reason string
}

// errorTable is matched top to bottom with [errors.Is]; the first hit wins.
// Unmatched errors are answered with 500 and recorded in the audit log.
var errorTable = []errorResponse{
	{service.ErrInvalidEmail, http.StatusBadRequest, "Please enter a correct e-mail address"},
	{service.ErrWeakPassword, http.StatusBadRequest, "Password must contain at least one uppercase character, one number and one special character"},
	{service.ErrPasswordsDoNotMatch, http.StatusBadRequest, "Passwords do not match"},
	{service.ErrEmailAlreadyExists, http.StatusBadRequest, "An account with this email already exists"},
	{service.ErrUsernameAlreadyExists, http.StatusBadRequest, "This user name is already taken"},
	{service.ErrWrongPassword, http.StatusBadRequest, "Incorrect password"},
	{service.ErrCategoryDoesNotExist, http.StatusBadRequest, "Such expense category does not exist"},
	{service.ErrInvalidDataProvided, http.StatusBadRequest, reasonInvalidData},
	{ErrMalformedRequest, http.StatusBadRequest, reasonInvalidData},

	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrExpenseNotFound, http.StatusNotFound, "Expense not found or you have no access to it"},
	{service.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},

	{service.ErrForbidden, http.StatusForbidden, ""},
	{service.ErrAccountNotActive, http.StatusForbidden, ""},

	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)},
	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)},
	{ErrNoIdentity, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized)},

	{store.ErrTemporarilyUnavailable, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable)},
}

// lookupError returns the table row matching err, if any.
func lookupError(err error) (errorResponse, bool) {
	for _, row := range errorTable {
		if errors.Is(err, row.target) {
			return row, true
		}
	}
	return errorResponse{}, false
}

// statusFromError reports the status code err is answered with.
func statusFromError(err error) int {
	if row, ok := lookupError(err); ok {
		return row.status
	}
	return http.StatusInternalServerError
}

// writeError answers the request according to [errorTable]. Unexpected errors
// get a generic body and their detail goes to the audit log.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	if row, ok := lookupError(err); ok {
		log.Warn().Err(err).Int("status", row.status).Msg("request rejected")
		if row.reason == "" {
			w.WriteHeader(row.status)
			return
		}
		http.Error(w, row.reason, row.status)
		return
	}

	log.Err(err).Msg("unexpected error occurred while handling request")

	entry := models.Weblog{
		Level:   models.LogLevelError,
		Message: err.Error(),
		Info1:   r.Method + " " + r.URL.Path,
	}
	if identity, ok := utils.GetIdentityFromContext(r.Context()); ok {
		entry.UserID = &identity.UserID
	}
	h.services.AuditService.Record(r.Context(), entry)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
