package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"regexp"
)

// passwordSaltSize is the length of the random HMAC key generated for every
// password. It matches the SHA-512 block size.
const passwordSaltSize = 64

var (
	passwordDigit     = regexp.MustCompile(`[0-9]`)
	passwordUppercase = regexp.MustCompile(`[A-Z]`)
	passwordSymbol    = regexp.MustCompile(`[!@#$%^&*()_+=\[{\]};:<>|./?,-]`)
)

// HashPassword derives a password hash keyed by a freshly generated random
// salt: hash = HMAC-SHA512(salt, password).
//
// Both values must be stored; the salt cannot be recovered from the hash.
func HashPassword(password string) (hash []byte, salt []byte, err error) {
	salt = make([]byte, passwordSaltSize)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("error generating password salt: %w", err)
	}

	return hashPassword(password, salt), salt, nil
}

// VerifyPassword recomputes the hash of password with the stored salt and
// compares it with the stored hash in constant time.
func VerifyPassword(password string, hash, salt []byte) bool {
	if len(hash) == 0 || len(salt) == 0 {
		return false
	}

	return hmac.Equal(hashPassword(password, salt), hash)
}

// IsValidPassword reports whether password contains at least one digit, one
// uppercase letter and one symbol from the accepted punctuation set.
//
// Length limits are enforced by request validation, not here.
func IsValidPassword(password string) bool {
	return passwordDigit.MatchString(password) &&
		passwordUppercase.MatchString(password) &&
		passwordSymbol.MatchString(password)
}

func hashPassword(password string, salt []byte) []byte {
	hasher := hmac.New(sha512.New, salt)
	hasher.Write([]byte(password))
	return hasher.Sum(nil)
}
