package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
	"github.com/hagglund/bokforing_backend/internal/middleware"
	"github.com/hagglund/bokforing_backend/internal/utils"
)

// userService manages users and their credentials.
type userService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new UserSvc.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvc {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvc = (*userService)(nil)

// RegisterUser creates the user and returns the plaintext API key exactly
// once. Only the bcrypt password hash and the API key digest are persisted.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	localCode, err := domain.ParseCurrencyCode(req.LocalCode)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if existing, err := s.userRepo.FindUserByUsername(ctx, req.Username); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return nil, "", fmt.Errorf("%w: username %q taken", apperrors.ErrDuplicate, req.Username)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate api key: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: passwordHash,
		APIKeyHash:   utils.HashAPIKey(apiKey),
		LocalCode:    localCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, "", fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, apiKey, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPassword checks a username/password pair. On any failure it returns
// ErrForbidden without revealing whether the username exists.
func (s *userService) VerifyPassword(ctx context.Context, username string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}
	return user, nil
}

// VerifyAPIKey resolves an API key to its owner via the stored digest.
func (s *userService) VerifyAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByAPIKeyHash(ctx, utils.HashAPIKey(apiKey))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid api key", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to find user by api key: %w", err)
	}
	return user, nil
}

// RotateAPIKey replaces the user's API key and returns the new plaintext key.
// The previous key stops working immediately.
func (s *userService) RotateAPIKey(ctx context.Context, userID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByID(ctx, userID); err != nil {
		return "", err
	}

	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	if err := s.userRepo.UpdateAPIKeyHash(ctx, userID, utils.HashAPIKey(apiKey), time.Now().UTC()); err != nil {
		logger.Error("Failed to rotate api key", slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to rotate api key: %w", err)
	}

	logger.Info("API key rotated", slog.String("user_id", userID))
	return apiKey, nil
}

// StoreRefreshToken persists the hash of a freshly issued refresh token,
// replacing any previous one. Only the digest is stored.
func (s *userService) StoreRefreshToken(ctx context.Context, userID string, refreshToken string, expiry time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, utils.HashRefreshToken(refreshToken), expiry, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}
