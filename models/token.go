package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set of a session token.
//
// The numeric user id travels in the standard "sub" claim.
type AccessClaims struct {
	jwt.RegisteredClaims

	Username string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Identity decodes the caller identity carried by the claims.
func (c *AccessClaims) Identity() (Identity, error) {
	subject, err := c.GetSubject()
	if err != nil {
		return Identity{}, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	role, err := ParseAccountType(c.Role)
	if err != nil {
		return Identity{}, fmt.Errorf("error reading role from token: %w", err)
	}

	return Identity{UserID: userID, Role: role}, nil
}

// Token wraps a signed session token.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// SignedString is the compact JWS representation (header.payload.signature).
	SignedString string `json:"-"`

	// Identity is the caller decoded from the claims when the token was parsed.
	Identity Identity `json:"-"`
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
