package models

import (
	"fmt"
	"strings"
	"time"
)

// AccountType is the role of an account. The numeric values are persisted.
type AccountType int

const (
	AccountTypeUser          AccountType = 0
	AccountTypeAdministrator AccountType = 1
)

// String returns the role name used in token claims and JSON payloads.
func (a AccountType) String() string {
	if a == AccountTypeAdministrator {
		return "admin"
	}
	return "user"
}

// ParseAccountType converts a role name ("user" or "admin") to an [AccountType].
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return AccountTypeUser, nil
	case "admin", "administrator":
		return AccountTypeAdministrator, nil
	default:
		return AccountTypeUser, fmt.Errorf("unknown account type %q", s)
	}
}

func (a AccountType) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountType) UnmarshalText(text []byte) error {
	parsed, err := ParseAccountType(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// User is a registered account.
//
// Credentials and the e-mail confirmation token never leave the server, so
// they are excluded from JSON.
type User struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	PasswordHash []byte `json:"-"`
	PasswordSalt []byte `json:"-"`

	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
	Phone   string `json:"phone,omitempty"`

	AccountType  AccountType `json:"account_type"`
	Active       bool        `json:"active"`
	RegisteredAt time.Time   `json:"registered_at"`

	// ConfirmationToken is cleared once the account has been activated.
	ConfirmationToken         string     `json:"-"`
	ConfirmationTokenIssuedAt *time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Identity returns the caller identity this account acts as.
func (u User) Identity() Identity {
	return Identity{UserID: u.UserID, Role: u.AccountType}
}

// RegisterRequest is the payload of a registration call.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name,omitempty"`
	Surname         string `json:"surname,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// RegisterResponse carries the id of the newly created account.
type RegisterResponse struct {
	UserID int64 `json:"id"`
}

// LoginRequest authenticates by username or e-mail.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse is the user profile together with a signed session token.
type LoginResponse struct {
	User
	Token string `json:"jwt_token"`
}

// UserUpdate is a partial profile update. Nil or empty fields are left as stored.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Surname  *string `json:"surname,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// AccountTypeChange is the payload of an administrator role change.
type AccountTypeChange struct {
	UserID      int64       `json:"-"`
	AccountType AccountType `json:"account_type"`
}
