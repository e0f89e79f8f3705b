package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/mail"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/internal/validators"
	"github.com/MKhiriev/go-expense-tracker/models"
)

const confirmEmailPath = "api/v1/auth/confirm-email"

// authService implements the account lifecycle up to the first login:
// registration with e-mail confirmation, activation and credential checks.
type authService struct {
	transactor     store.Transactor
	userRepository store.UserRepository

	credentials CredentialService
	mailer      mail.Sender
	audit       AuditService
	validator   validators.Validator

	// publicURL is the externally reachable base of the API that
	// confirmation links are built on.
	publicURL string

	successURL string
	failURL    string

	logger *logger.Logger
}

// NewAuthService constructs an AuthService. The returned service is safe for
// concurrent use; all state is read-only after construction.
func NewAuthService(
	storages *store.Storages,
	credentials CredentialService,
	mailer mail.Sender,
	audit AuditService,
	cfg *config.StructuredConfig,
	logger *logger.Logger,
) AuthService {
	return &authService{
		transactor:     storages.Transactor,
		userRepository: storages.UserRepository,
		credentials:    credentials,
		mailer:         mailer,
		audit:          audit,
		validator:      validators.NewRequestValidator(),
		publicURL:      cfg.App.PublicURL,
		successURL:     cfg.EmailConfirmation.SuccessURL,
		failURL:        cfg.EmailConfirmation.FailURL,
		logger:         logger,
	}
}

// Register creates an inactive account and sends the confirmation e-mail.
//
// Checks run in a fixed order so the caller always sees the first violated
// rule: request shape, e-mail syntax, password policy, password confirmation,
// e-mail uniqueness, username uniqueness.
//
// The user row is written and the mail dispatched inside one transaction;
// if the link cannot be built or the mail cannot be sent nothing is persisted.
func (a *authService) Register(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	request = normalizeRegisterRequest(request)
	if err := a.validator.Validate(ctx, request); err != nil {
		log.Debug().Err(err).Str("func", "*authService.Register").Str("username", request.Username).Msg("registration request rejected")
		return models.User{}, validationError(err)
	}

	if err := a.ensureEmailIsFree(ctx, request.Email, 0); err != nil {
		return models.User{}, err
	}
	if err := a.ensureUsernameIsFree(ctx, request.Username, 0); err != nil {
		return models.User{}, err
	}

	hash, salt, err := a.credentials.HashPassword(request.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	token, issuedAt := a.credentials.NewConfirmationToken()
	user := models.User{
		Username:                  request.Username,
		Email:                     request.Email,
		PasswordHash:              hash,
		PasswordSalt:              salt,
		Name:                      request.Name,
		Surname:                   request.Surname,
		Phone:                     request.Phone,
		AccountType:               models.AccountTypeUser,
		Active:                    false,
		RegisteredAt:              issuedAt,
		ConfirmationToken:         token,
		ConfirmationTokenIssuedAt: &issuedAt,
	}

	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := a.userRepository.Create(ctx, user)
		if err != nil {
			return userStoreError(err)
		}
		user = created

		link, err := a.confirmationLink(user.UserID, token)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConfirmationLinkFailed, err)
		}

		if err = a.mailer.SendConfirmationEmail(ctx, token, link, user); err != nil {
			return fmt.Errorf("%w: %w", ErrConfirmationLinkFailed, err)
		}

		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Str("username", request.Username).Msg("registration rolled back")
		return models.User{}, fmt.Errorf("registration failed: %w", err)
	}

	log.Info().Str("func", "*authService.Register").Int64("user_id", user.UserID).Msg("user registered, waiting for e-mail confirmation")
	a.audit.Record(ctx, auditEntry(models.LogLevelInformation, "user registered", user.Identity(), user.Username, user.Email))

	return user, nil
}

// ConfirmEmail never tells the caller why activation failed.
func (a *authService) ConfirmEmail(ctx context.Context, rawUserID, token string) string {
	log := logger.FromContext(ctx)

	if rawUserID == "" || token == "" {
		log.Debug().Str("func", "*authService.ConfirmEmail").Msg("missing user id or token")
		return a.failURL
	}

	userID, err := strconv.ParseInt(rawUserID, 10, 64)
	if err != nil || userID <= 0 {
		log.Debug().Str("func", "*authService.ConfirmEmail").Str("id", rawUserID).Msg("malformed user id")
		return a.failURL
	}

	user, err := a.userRepository.FindByID(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*authService.ConfirmEmail").Int64("user_id", userID).Msg("user lookup failed")
		return a.failURL
	}

	if !a.credentials.IsConfirmationTokenValid(user, token) {
		log.Info().Str("func", "*authService.ConfirmEmail").Int64("user_id", userID).Msg("confirmation token is expired or does not match")
		return a.failURL
	}

	user.Active = true
	user.ConfirmationToken = ""
	user.ConfirmationTokenIssuedAt = nil

	if err = a.userRepository.Update(ctx, user); err != nil {
		log.Err(err).Str("func", "*authService.ConfirmEmail").Int64("user_id", userID).Msg("activation failed")
		return a.failURL
	}

	a.audit.Record(ctx, auditEntry(models.LogLevelInformation, "e-mail confirmed", user.Identity(), user.Email))
	return a.successURL
}

// Login resolves the account by username first, then by e-mail.
func (a *authService) Login(ctx context.Context, request models.LoginRequest) (models.LoginResponse, error) {
	log := logger.FromContext(ctx)

	request = normalizeLoginRequest(request)
	if err := a.validator.Validate(ctx, request); err != nil {
		return models.LoginResponse{}, validationError(err)
	}

	user, err := a.findByLogin(ctx, request.Login)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Str("login", request.Login).Msg("user search by login failed")
		return models.LoginResponse{}, err
	}

	if !user.Active {
		log.Info().Str("func", "*authService.Login").Int64("user_id", user.UserID).Msg("login to inactive account")
		return models.LoginResponse{}, auditRejection(ctx, a.audit, user.Identity(), "login", user.Username, ErrAccountNotActive)
	}

	if !a.credentials.VerifyPassword(request.Password, user.PasswordHash, user.PasswordSalt) {
		log.Info().Str("func", "*authService.Login").Int64("user_id", user.UserID).Msg("wrong password")
		return models.LoginResponse{}, auditRejection(ctx, a.audit, user.Identity(), "login", user.Username, ErrWrongPassword)
	}

	token, err := a.credentials.IssueToken(user)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Int64("user_id", user.UserID).Msg("token creation failed")
		return models.LoginResponse{}, err
	}

	return models.LoginResponse{User: user, Token: token.String()}, nil
}

// ParseToken verifies the token and resolves its subject against the store:
// the account must still exist and be active, and the role is the stored
// account type, so demotion and deactivation apply to tokens already issued.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := a.credentials.ParseToken(tokenString)
	if err != nil {
		return models.Token{}, err
	}

	user, err := a.userRepository.FindByID(ctx, token.Identity.UserID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return models.Token{}, fmt.Errorf("%w: account no longer exists", ErrTokenIsExpiredOrInvalid)
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*authService.ParseToken").Int64("user_id", token.Identity.UserID).Msg("token subject lookup failed")
		return models.Token{}, fmt.Errorf("token subject lookup failed: %w", err)
	}
	if !user.Active {
		return models.Token{}, fmt.Errorf("%w: account is not active", ErrTokenIsExpiredOrInvalid)
	}

	token.Identity = user.Identity()
	return token, nil
}

func (a *authService) findByLogin(ctx context.Context, login string) (models.User, error) {
	user, err := a.userRepository.FindByUsername(ctx, login)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNoUserWasFound) {
		return models.User{}, fmt.Errorf("user search by username failed: %w", err)
	}

	user, err = a.userRepository.FindByEmail(ctx, login)
	if err != nil {
		return models.User{}, userStoreError(err)
	}

	return user, nil
}

// ensureEmailIsFree fails when another account than exceptUserID uses email.
func (a *authService) ensureEmailIsFree(ctx context.Context, email string, exceptUserID int64) error {
	return ensureFree(ctx, a.userRepository.FindByEmail, email, exceptUserID, ErrEmailAlreadyExists)
}

func (a *authService) ensureUsernameIsFree(ctx context.Context, username string, exceptUserID int64) error {
	return ensureFree(ctx, a.userRepository.FindByUsername, username, exceptUserID, ErrUsernameAlreadyExists)
}

func ensureFree(
	ctx context.Context,
	find func(context.Context, string) (models.User, error),
	value string,
	exceptUserID int64,
	taken error,
) error {
	existing, err := find(ctx, value)
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return nil
	case err != nil:
		return fmt.Errorf("uniqueness check failed: %w", err)
	case existing.UserID == exceptUserID:
		return nil
	default:
		return taken
	}
}

func (a *authService) confirmationLink(userID int64, token string) (string, error) {
	return buildConfirmationLink(a.publicURL, userID, token)
}

// buildConfirmationLink renders <publicURL>/api/v1/auth/confirm-email?id=&token=.
func buildConfirmationLink(publicURL string, userID int64, token string) (string, error) {
	base, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid public url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("public url %q must be absolute", publicURL)
	}
	if userID <= 0 || token == "" {
		return "", errors.New("user id and token are required")
	}

	link := base.JoinPath(confirmEmailPath)
	query := url.Values{}
	query.Set("id", strconv.FormatInt(userID, 10))
	query.Set("token", token)
	link.RawQuery = query.Encode()

	return link.String(), nil
}
