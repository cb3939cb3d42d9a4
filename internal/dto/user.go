package dto

import (
	"github.com/hagglund/bokforing_backend/internal/core/domain"
)

// RegisterUserRequest creates a new user with their own set of books.
type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	LocalCode string `json:"localCode" binding:"required,currencycode"`
}

// UserResponse is a user profile as returned to clients.
type UserResponse struct {
	UserID    string `json:"userID"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	LocalCode string `json:"localCode"`
}

// RegisterUserResponse includes the plaintext API key, returned exactly once.
type RegisterUserResponse struct {
	User   UserResponse `json:"user"`
	APIKey string       `json:"apiKey"`
}

// RotateAPIKeyResponse carries the new plaintext API key, returned exactly once.
type RotateAPIKeyResponse struct {
	APIKey string `json:"apiKey"`
}

// ToUserResponse converts a domain.User to its DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		Name:      u.Name,
		LocalCode: string(u.LocalCode),
	}
}
