package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// RefreshTokenByteLength is the raw byte length of generated refresh tokens.
const RefreshTokenByteLength = 32

// GenerateRefreshToken returns a new plaintext refresh token.
func GenerateRefreshToken() (string, error) {
	return GenerateSecureRandomString(RefreshTokenByteLength)
}

// HashRefreshToken returns the hash under which a refresh token is stored.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareRefreshTokenHash compares a plaintext refresh token against its
// stored hash in constant time.
func CompareRefreshTokenHash(token string, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashRefreshToken(token)), []byte(storedHash)) == 1
}
