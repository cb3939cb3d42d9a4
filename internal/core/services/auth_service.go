package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
	"github.com/hagglund/bokforing_backend/internal/middleware"
	"github.com/hagglund/bokforing_backend/internal/utils"
	"github.com/hagglund/bokforing_backend/pkg/config"
)

// authService issues access tokens and resolves API keys for the HTTP layer.
type authService struct {
	cfg     *config.Config
	userSvc portssvc.UserSvc
}

// NewAuthService creates a new AuthSvc.
func NewAuthService(cfg *config.Config, userSvc portssvc.UserSvc) portssvc.AuthSvc {
	return &authService{cfg: cfg, userSvc: userSvc}
}

var _ portssvc.AuthSvc = (*authService)(nil)

// Login verifies the credentials and issues an access token plus a refresh
// token whose hash is stored on the user.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userSvc.VerifyPassword(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, refreshToken, err := s.issueTokenPair(ctx, user.UserID)
	if err != nil {
		logger.Error("Failed to issue token pair", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		AccessToken:  token,
		RefreshToken: refreshToken,
		User:         dto.ToUserResponse(user),
	}, nil
}

// RefreshAccessToken validates the presented refresh token against the stored
// hash and rotates it. Refresh tokens are single-use.
func (s *authService) RefreshAccessToken(ctx context.Context, req dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userSvc.GetUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenExpiry == nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrForbidden)
	}
	if time.Now().After(*user.RefreshTokenExpiry) {
		return nil, fmt.Errorf("%w: refresh token expired", apperrors.ErrForbidden)
	}
	if !utils.CompareRefreshTokenHash(req.RefreshToken, user.RefreshTokenHash) {
		return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrForbidden)
	}

	token, refreshToken, err := s.issueTokenPair(ctx, user.UserID)
	if err != nil {
		logger.Error("Failed to issue token pair", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Access token refreshed", slog.String("user_id", user.UserID))
	return &dto.RefreshTokenResponse{
		AccessToken:  token,
		RefreshToken: refreshToken,
	}, nil
}

// issueTokenPair signs a new access token and stores a fresh refresh token.
func (s *authService) issueTokenPair(ctx context.Context, userID string) (string, string, error) {
	token, err := utils.GenerateJWT(userID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	expiry := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	if err := s.userSvc.StoreRefreshToken(ctx, userID, refreshToken, expiry); err != nil {
		return "", "", err
	}

	return token, refreshToken, nil
}

// ValidateAPIKey returns the owning user's ID for a valid key.
func (s *authService) ValidateAPIKey(ctx context.Context, apiKey string) (string, error) {
	user, err := s.userSvc.VerifyAPIKey(ctx, apiKey)
	if err != nil {
		return "", err
	}
	return user.UserID, nil
}
