package validators

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-expense-tracker/internal/utils"
	"github.com/MKhiriev/go-expense-tracker/models"
)

// Field names accepted by [RequestValidator.Validate].
const (
	FieldUsername             = "username"
	FieldEmail                = "email"
	FieldPassword             = "password"
	FieldPasswordPolicy       = "password_policy"
	FieldPasswordConfirmation = "confirm_password"
	FieldPersonalData         = "personal_data"
	FieldLogin                = "login"
	FieldName                 = "name"
	FieldDescription          = "description"
	FieldID                   = "id"
	FieldAccountType          = "account_type"
)

// Length limits in runes.
const (
	usernameMinLength         = 2
	usernameMaxLength         = 15
	passwordMinLength         = 6
	passwordMaxLength         = 32
	categoryNameMinLength     = 3
	categoryNameMaxLength     = 50
	categoryDescriptionMinLen = 3
	descriptionMaxLength      = 2000
	personalNameMaxLength     = 50
	phoneMaxLength            = 20
	emailMaxLength            = 255
)

// RequestValidator validates the request DTOs of the API.
type RequestValidator struct{}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegisterRequest(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegisterRequest(*value, fields...)

	case models.LoginRequest:
		return v.validateLoginRequest(value, fields...)
	case *models.LoginRequest:
		return v.validateLoginRequest(*value, fields...)

	case models.UserUpdate:
		return v.validateUserUpdate(value, fields...)
	case *models.UserUpdate:
		return v.validateUserUpdate(*value, fields...)

	case models.AccountTypeChange:
		return v.validateAccountTypeChange(value, fields...)

	case models.CategoryCreate:
		return v.validateCategoryCreate(value, fields...)
	case *models.CategoryCreate:
		return v.validateCategoryCreate(*value, fields...)

	case models.CategoryUpdate:
		return v.validateCategoryUpdate(value, fields...)
	case *models.CategoryUpdate:
		return v.validateCategoryUpdate(*value, fields...)

	case models.ExpenseCreate:
		return v.validateExpenseCreate(value, fields...)
	case *models.ExpenseCreate:
		return v.validateExpenseCreate(*value, fields...)

	case models.ExpenseUpdate:
		return v.validateExpenseUpdate(value, fields...)
	case *models.ExpenseUpdate:
		return v.validateExpenseUpdate(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// Request-shape checks come first, then the rules that have their own
// caller-visible reason.
func (v *RequestValidator) validateRegisterRequest(r models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPassword, FieldPersonalData, FieldEmail, FieldPasswordPolicy, FieldPasswordConfirmation}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if !lengthBetween(r.Username, usernameMinLength, usernameMaxLength) {
				return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidData, usernameMinLength, usernameMaxLength)
			}
		case FieldPassword:
			if !lengthBetween(r.Password, passwordMinLength, passwordMaxLength) {
				return fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidData, passwordMinLength, passwordMaxLength)
			}
		case FieldPersonalData:
			if err := validatePersonalData(r.Name, r.Surname, r.Phone); err != nil {
				return err
			}
		case FieldEmail:
			if !IsValidEmail(r.Email) {
				return ErrInvalidEmail
			}
		case FieldPasswordPolicy:
			if !utils.IsValidPassword(r.Password) {
				return ErrWeakPassword
			}
		case FieldPasswordConfirmation:
			if r.Password != r.ConfirmPassword {
				return ErrPasswordMismatch
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateLoginRequest(r models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if r.Login == "" || utf8.RuneCountInString(r.Login) > emailMaxLength {
				return fmt.Errorf("%w: login is required", ErrInvalidData)
			}
		case FieldPassword:
			if r.Password == "" || utf8.RuneCountInString(r.Password) > passwordMaxLength {
				return fmt.Errorf("%w: password is required", ErrInvalidData)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// Empty optional fields mean "unchanged" and are not checked.
func (v *RequestValidator) validateUserUpdate(u models.UserUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldPersonalData, FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if set(u.Username) && !lengthBetween(*u.Username, usernameMinLength, usernameMaxLength) {
				return fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidData, usernameMinLength, usernameMaxLength)
			}
		case FieldPersonalData:
			if err := validatePersonalData(deref(u.Name), deref(u.Surname), deref(u.Phone)); err != nil {
				return err
			}
		case FieldEmail:
			if set(u.Email) && !IsValidEmail(*u.Email) {
				return ErrInvalidEmail
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateAccountTypeChange(c models.AccountTypeChange, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldAccountType}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if c.UserID <= 0 {
				return fmt.Errorf("%w: user id must be positive", ErrInvalidData)
			}
		case FieldAccountType:
			if c.AccountType != models.AccountTypeUser && c.AccountType != models.AccountTypeAdministrator {
				return fmt.Errorf("%w: unknown account type", ErrInvalidData)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCategoryCreate(c models.CategoryCreate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldDescription}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if !lengthBetween(c.Name, categoryNameMinLength, categoryNameMaxLength) {
				return fmt.Errorf("%w: name must be %d-%d characters", ErrInvalidData, categoryNameMinLength, categoryNameMaxLength)
			}
		case FieldDescription:
			if !lengthBetween(c.Description, categoryDescriptionMinLen, descriptionMaxLength) {
				return fmt.Errorf("%w: description must be %d-%d characters", ErrInvalidData, categoryDescriptionMinLen, descriptionMaxLength)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCategoryUpdate(c models.CategoryUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldName, FieldDescription}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if c.CategoryID <= 0 {
				return fmt.Errorf("%w: category id must be positive", ErrInvalidData)
			}
		case FieldName:
			if set(c.Name) && !lengthBetween(*c.Name, categoryNameMinLength, categoryNameMaxLength) {
				return fmt.Errorf("%w: name must be %d-%d characters", ErrInvalidData, categoryNameMinLength, categoryNameMaxLength)
			}
		case FieldDescription:
			if set(c.Description) && !lengthBetween(*c.Description, categoryDescriptionMinLen, descriptionMaxLength) {
				return fmt.Errorf("%w: description must be %d-%d characters", ErrInvalidData, categoryDescriptionMinLen, descriptionMaxLength)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateExpenseCreate(e models.ExpenseCreate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDescription}
	}

	for _, f := range fields {
		switch f {
		case FieldDescription:
			if utf8.RuneCountInString(e.Description) > descriptionMaxLength {
				return fmt.Errorf("%w: description is longer than %d characters", ErrInvalidData, descriptionMaxLength)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateExpenseUpdate(e models.ExpenseUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldDescription}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if e.ExpenseID <= 0 {
				return fmt.Errorf("%w: expense id must be positive", ErrInvalidData)
			}
		case FieldDescription:
			if set(e.Description) && utf8.RuneCountInString(*e.Description) > descriptionMaxLength {
				return fmt.Errorf("%w: description is longer than %d characters", ErrInvalidData, descriptionMaxLength)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// IsValidEmail accepts a bare RFC 5322 address without a display name.
func IsValidEmail(email string) bool {
	if email == "" || utf8.RuneCountInString(email) > emailMaxLength {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	return addr.Address == email && strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".")
}

func validatePersonalData(name, surname, phone string) error {
	if utf8.RuneCountInString(name) > personalNameMaxLength || utf8.RuneCountInString(surname) > personalNameMaxLength {
		return fmt.Errorf("%w: name and surname must be at most %d characters", ErrInvalidData, personalNameMaxLength)
	}
	if utf8.RuneCountInString(phone) > phoneMaxLength {
		return fmt.Errorf("%w: phone must be at most %d characters", ErrInvalidData, phoneMaxLength)
	}
	return nil
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func set(s *string) bool {
	return s != nil && *s != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
