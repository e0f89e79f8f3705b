package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/utils"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// identity returns the caller attached by the auth middleware.
func identity(r *http.Request) (models.Identity, error) {
	caller, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		return models.Identity{}, ErrNoIdentity
	}
	return caller, nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedRequest, name, raw)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: %s=%q", ErrMalformedRequest, name, raw)
	}
	return &id, nil
}

// queryBool parses an optional boolean query parameter, falling back to def.
func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrMalformedRequest, name, raw)
	}
	return v, nil
}

// queryTime parses an optional RFC 3339 timestamp or YYYY-MM-DD date.
// With endOfDay a bare date is moved to its last instant so that an
// inclusive upper bound covers the whole day.
func queryTime(r *http.Request, name string, endOfDay bool) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrMalformedRequest, name, raw)
	}
	if endOfDay {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}

// expenseFilter reads the date_from, date_to and category_id query parameters.
func expenseFilter(r *http.Request) (models.ExpenseFilter, error) {
	var (
		filter models.ExpenseFilter
		err    error
	)
	if filter.DateFrom, err = queryTime(r, "date_from", false); err != nil {
		return filter, err
	}
	if filter.DateTo, err = queryTime(r, "date_to", true); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = queryID(r, "category_id"); err != nil {
		return filter, err
	}
	return filter, nil
}

// decode reads the JSON body into dst. Malformed bodies are invalid data.
func decode(r *http.Request, dst any) error {
	if err := utils.DecodeJSON(r, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	return nil
}

// writeJSON answers 200 with data, logging a failed write.
func writeJSON(w http.ResponseWriter, r *http.Request, data any) {
	if _, err := utils.WriteJSON(w, data, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}
