package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// APIKeyByteLength is the raw byte length of generated API keys.
const APIKeyByteLength = 32

// GenerateAPIKey returns a new plaintext API key.
func GenerateAPIKey() (string, error) {
	return GenerateSecureRandomString(APIKeyByteLength)
}

// HashAPIKey returns the deterministic hash under which an API key is stored,
// so keys can be looked up by hash without keeping the plaintext.
func HashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}
