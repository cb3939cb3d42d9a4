package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// passwordHashCost is the bcrypt work factor for stored passwords. The
// default keeps login latency acceptable on the rate-limited auth routes.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword derives the bcrypt hash under which a password is stored.
// Passwords longer than 72 bytes are rejected by bcrypt rather than silently
// truncated.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the password matches the stored hash.
func CheckPasswordHash(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
