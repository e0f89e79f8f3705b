package service

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// auditService writes to the weblog table and falls back to a process-level
// logger when the write fails.
type auditService struct {
	weblog   store.WeblogRepository
	fallback *logger.Logger

	now func() time.Time
}

func NewAuditService(weblog store.WeblogRepository, fallback *logger.Logger) AuditService {
	return &auditService{
		weblog:   weblog,
		fallback: fallback,
		now:      time.Now,
	}
}

// Record must not be called inside a transaction: the weblog repository
// writes through the pool, which on SQLite has a single connection.
func (a *auditService) Record(ctx context.Context, entry models.Weblog) {
	entry.LogTime = a.now().UTC()
	if entry.Level == 0 {
		entry.Level = models.LogLevelInformation
	}

	// the event outlives a cancelled request
	if err := a.weblog.Save(context.WithoutCancel(ctx), entry); err != nil {
		event := a.fallback.Err(err).
			Str("func", "*auditService.Record").
			Str("log_level", entry.Level.String()).
			Str("log_message", entry.Message).
			Str("log_info1", entry.Info1).
			Str("log_info2", entry.Info2)
		if entry.UserID != nil {
			event = event.Int64("user_id", *entry.UserID)
		}
		if entry.StackTrace != "" {
			event = event.Str("stack_trace", entry.StackTrace)
		}
		event.Msg("audit event was not saved")
	}
}

func auditEntry(level models.LogLevel, message string, caller models.Identity, info ...string) models.Weblog {
	entry := models.Weblog{Level: level, Message: message}
	if caller.UserID != 0 {
		userID := caller.UserID
		entry.UserID = &userID
	}
	if len(info) > 0 {
		entry.Info1 = info[0]
	}
	if len(info) > 1 {
		entry.Info2 = info[1]
	}
	return entry
}

// auditRejection records a refused operation at Warning level when err is an
// authorization or not-found outcome, and returns err unchanged.
func auditRejection(ctx context.Context, audit AuditService, caller models.Identity, operation, subject string, err error) error {
	if err == nil || !isRejection(err) {
		return err
	}

	audit.Record(ctx, auditEntry(models.LogLevelWarning, operation+" rejected", caller, subject, err.Error()))
	return err
}

func isRejection(err error) bool {
	for _, target := range []error{
		ErrForbidden,
		ErrUserNotFound,
		ErrCategoryNotFound,
		ErrCategoryDoesNotExist,
		ErrExpenseNotFound,
		ErrAccountNotActive,
		ErrWrongPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
