package utils

import "github.com/google/uuid"

// UUIDGenerator issues random opaque identifiers such as e-mail
// confirmation tokens.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a random (version 4) UUID string.
func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}
