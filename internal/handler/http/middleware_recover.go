package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/utils"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// recoverer turns a panic in a handler into a 500 response and an audit
// entry carrying the stack trace.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			stack := string(debug.Stack())
			logger.FromRequest(r).Error().
				Str("func", "*Handler.recoverer").
				Any("panic", rec).
				Str("stack_trace", stack).
				Msg("handler panicked")

			entry := models.Weblog{
				Level:      models.LogLevelError,
				Message:    fmt.Sprint(rec),
				Info1:      r.Method + " " + r.URL.Path,
				StackTrace: stack,
			}
			if identity, ok := utils.GetIdentityFromContext(r.Context()); ok {
				entry.UserID = &identity.UserID
			}
			h.services.AuditService.Record(r.Context(), entry)

			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
