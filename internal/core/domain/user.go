package domain

import "time"

// User is an account holder of the books. The API key and refresh token are
// stored hashed; the plaintext values are only ever returned once.
type User struct {
	UserID             string       `json:"userID"` // Primary key (UUID)
	Username           string       `json:"username"`
	Name               string       `json:"name"`
	PasswordHash       string       `json:"-"`
	APIKeyHash         string       `json:"-"`
	RefreshTokenHash   string       `json:"-"`
	RefreshTokenExpiry *time.Time   `json:"-"`
	LocalCode          CurrencyCode `json:"localCode"` // the currency the books are kept in
	AuditFields
}
