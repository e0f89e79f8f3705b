package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MKhiriev/go-expense-tracker/internal/logger"
	"github.com/MKhiriev/go-expense-tracker/internal/store"
	"github.com/MKhiriev/go-expense-tracker/internal/validators"
	"github.com/MKhiriev/go-expense-tracker/models"
)

type userService struct {
	userRepository store.UserRepository

	audit     AuditService
	validator validators.Validator

	logger *logger.Logger
}

func NewUserService(storages *store.Storages, audit AuditService, logger *logger.Logger) UserService {
	return &userService{
		userRepository: storages.UserRepository,
		audit:          audit,
		validator:      validators.NewRequestValidator(),
		logger:         logger,
	}
}

// Get returns inactive accounts too. Non-admins may only read themselves.
func (u *userService) Get(ctx context.Context, caller models.Identity, userID *int64) (models.User, error) {
	targetID, err := target(caller, userID)
	if err != nil {
		return models.User{}, auditRejection(ctx, u.audit, caller, "user read", requestedID(userID), err)
	}

	user, err := u.userRepository.FindByID(ctx, targetID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userService.Get").Int64("user_id", targetID).Msg("user lookup failed")
		return models.User{}, auditRejection(ctx, u.audit, caller, "user read", requestedID(userID), userStoreError(err))
	}

	return user, nil
}

// List returns active users ordered by id, or every user ordered by
// username when onlyActive is false.
func (u *userService) List(ctx context.Context, caller models.Identity, onlyActive bool) ([]models.User, error) {
	if !caller.IsAdmin() {
		return nil, auditRejection(ctx, u.audit, caller, "user listing", "", ErrForbidden)
	}

	users, err := u.userRepository.FindAll(ctx, onlyActive)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userService.List").Msg("user listing failed")
		return nil, fmt.Errorf("user listing failed: %w", err)
	}

	return users, nil
}

// UpdateProfile changes the caller's own profile. Empty fields keep the
// stored value; a new e-mail or username must not belong to another account.
func (u *userService) UpdateProfile(ctx context.Context, caller models.Identity, request models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	request = normalizeUserUpdate(request)
	if err := u.validator.Validate(ctx, request); err != nil {
		return models.User{}, validationError(err)
	}

	user, err := u.userRepository.FindByID(ctx, caller.UserID)
	if err != nil {
		return models.User{}, auditRejection(ctx, u.audit, caller, "profile update", "", userStoreError(err))
	}
	if !user.Active {
		return models.User{}, auditRejection(ctx, u.audit, caller, "profile update", "", ErrUserNotFound)
	}

	if provided(request.Email) && *request.Email != user.Email {
		if err = ensureFree(ctx, u.userRepository.FindByEmail, *request.Email, user.UserID, ErrEmailAlreadyExists); err != nil {
			return models.User{}, err
		}
		user.Email = *request.Email
	}
	if provided(request.Username) && *request.Username != user.Username {
		if err = ensureFree(ctx, u.userRepository.FindByUsername, *request.Username, user.UserID, ErrUsernameAlreadyExists); err != nil {
			return models.User{}, err
		}
		user.Username = *request.Username
	}
	if provided(request.Name) {
		user.Name = *request.Name
	}
	if provided(request.Surname) {
		user.Surname = *request.Surname
	}
	if provided(request.Phone) {
		user.Phone = *request.Phone
	}

	if err = u.userRepository.Update(ctx, user); err != nil {
		log.Err(err).Str("func", "*userService.UpdateProfile").Int64("user_id", user.UserID).Msg("profile update failed")
		return models.User{}, userStoreError(err)
	}

	u.audit.Record(ctx, auditEntry(models.LogLevelInformation, "profile updated", caller, user.Username, user.Email))
	return user, nil
}

// Deactivate is a soft delete. Deactivated accounts cannot log in again.
func (u *userService) Deactivate(ctx context.Context, caller models.Identity, userID *int64) error {
	log := logger.FromContext(ctx)

	targetID, err := target(caller, userID)
	if err != nil {
		return auditRejection(ctx, u.audit, caller, "user deactivation", requestedID(userID), err)
	}

	user, err := u.userRepository.FindByID(ctx, targetID)
	if err != nil {
		return auditRejection(ctx, u.audit, caller, "user deactivation", requestedID(userID), userStoreError(err))
	}

	user.Active = false
	if err = u.userRepository.Update(ctx, user); err != nil {
		log.Err(err).Str("func", "*userService.Deactivate").Int64("user_id", targetID).Msg("deactivation failed")
		return userStoreError(err)
	}

	u.audit.Record(ctx, auditEntry(models.LogLevelWarning, "user deactivated", caller, user.Username))
	return nil
}

func (u *userService) ChangeAccountType(ctx context.Context, caller models.Identity, request models.AccountTypeChange) error {
	log := logger.FromContext(ctx)

	subject := strconv.FormatInt(request.UserID, 10)
	if !caller.IsAdmin() {
		return auditRejection(ctx, u.audit, caller, "account type change", subject, ErrForbidden)
	}
	if err := u.validator.Validate(ctx, request); err != nil {
		return validationError(err)
	}

	user, err := u.userRepository.FindByID(ctx, request.UserID)
	if err != nil {
		return auditRejection(ctx, u.audit, caller, "account type change", subject, userStoreError(err))
	}
	if !user.Active {
		return auditRejection(ctx, u.audit, caller, "account type change", subject, ErrUserNotFound)
	}

	user.AccountType = request.AccountType
	if err = u.userRepository.Update(ctx, user); err != nil {
		log.Err(err).Str("func", "*userService.ChangeAccountType").Int64("user_id", user.UserID).Msg("account type change failed")
		return userStoreError(err)
	}

	u.audit.Record(ctx, auditEntry(models.LogLevelWarning, "account type changed", caller, user.Username, request.AccountType.String()))
	return nil
}

func requestedID(userID *int64) string {
	if userID == nil {
		return ""
	}
	return strconv.FormatInt(*userID, 10)
}

// target resolves the account an operation applies to: the caller by
// default, anyone for an administrator.
func target(caller models.Identity, userID *int64) (int64, error) {
	if userID == nil || *userID == 0 || caller.Owns(*userID) {
		return caller.UserID, nil
	}
	if !caller.IsAdmin() {
		return 0, ErrForbidden
	}
	return *userID, nil
}
