package service

import (
	"fmt"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/mail"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
)

type Services struct {
	CredentialService CredentialService
	AuthService       AuthService
	CategoryService   CategoryService
	ExpenseService    ExpenseService
	UserService       UserService
	AuditService      AuditService
	AppInfoService    AppInfoService
}

// NewServices wires every service over the given storages. fallback receives
// audit events that could not be written to the database.
func NewServices(
	storages *store.Storages,
	mailer mail.Sender,
	cfg *config.StructuredConfig,
	logger *logger.Logger,
	fallback *logger.Logger,
) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	audit := NewAuditService(storages.WeblogRepository, fallback)
	credentials := NewCredentialService(cfg.App, cfg.EmailConfirmation)
	categories := NewCategoryService(storages, audit, logger)

	return &Services{
		CredentialService: credentials,
		AuthService:       NewAuthService(storages, credentials, mailer, audit, cfg, logger),
		CategoryService:   categories,
		ExpenseService:    NewExpenseService(storages, categories, audit, logger),
		UserService:       NewUserService(storages, audit, logger),
		AuditService:      audit,
		AppInfoService:    appInfo,
	}, nil
}
