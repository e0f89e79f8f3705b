package service

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/utils"
	"github.com/MKhiriev/go-expense-tracker/models"
)

type tokenGenerator interface {
	Generate() string
}

// credentialService is stateless after construction and safe for concurrent use.
type credentialService struct {
	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	confirmationWindow time.Duration
	tokens             tokenGenerator

	now func() time.Time
}

func NewCredentialService(app config.App, confirmation config.EmailConfirmation) CredentialService {
	return &credentialService{
		tokenSignKey:       app.TokenSignKey,
		tokenIssuer:        app.TokenIssuer,
		tokenDuration:      app.TokenDuration,
		confirmationWindow: confirmation.Window(),
		tokens:             utils.NewUUIDGenerator(),
		now:                time.Now,
	}
}

func (c *credentialService) HashPassword(password string) ([]byte, []byte, error) {
	return utils.HashPassword(password)
}

func (c *credentialService) VerifyPassword(password string, hash, salt []byte) bool {
	return utils.VerifyPassword(password, hash, salt)
}

func (c *credentialService) IssueToken(user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(c.tokenIssuer, user, c.tokenDuration, c.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken folds every validation failure (signature, issuer, expiry,
// malformed claims) into ErrTokenIsExpiredOrInvalid.
func (c *credentialService) ParseToken(tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, c.tokenSignKey, c.tokenIssuer)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenIsExpiredOrInvalid, err)
	}

	return token, nil
}

func (c *credentialService) NewConfirmationToken() (string, time.Time) {
	return c.tokens.Generate(), c.now().UTC()
}

func (c *credentialService) IsConfirmationTokenValid(user models.User, token string) bool {
	if token == "" || user.ConfirmationToken == "" || user.ConfirmationTokenIssuedAt == nil {
		return false
	}

	if c.now().Sub(*user.ConfirmationTokenIssuedAt) >= c.confirmationWindow {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(user.ConfirmationToken), []byte(token)) == 1
}
