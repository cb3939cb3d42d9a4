// Package services declares the service facades consumed by the HTTP handlers.
package services

import (
	"context"
	"time"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
	"github.com/hagglund/bokforing_backend/internal/dto"
)

// ServiceContainer holds instances of all the application services.
type ServiceContainer struct {
	Verification    VerificationSvc
	StatementImport StatementImportSvc
	Account         AccountSvc
	FiscalYear      FiscalYearSvc
	User            UserSvc
	Auth            AuthSvc
}

// VerificationSvc records business events as balanced verifications.
type VerificationSvc interface {
	CreateVerification(ctx context.Context, userID string, req dto.CreateVerificationRequest) (*domain.Verification, error)
	GetVerificationByID(ctx context.Context, userID string, verificationID string) (*domain.Verification, error)
	ListVerifications(ctx context.Context, userID string, fiscalYearID string) ([]domain.Verification, error)
	// ReplaceTransactions re-derives the entry list from a new business event
	// and swaps it wholesale; entries are never edited in place.
	ReplaceTransactions(ctx context.Context, userID string, verificationID string, req dto.ReplaceTransactionsRequest) (*domain.Verification, error)
	DeleteVerification(ctx context.Context, userID string, verificationID string) error
}

// StatementImportSvc books parsed bank-statement lines, skipping lines whose
// verification has already been recorded.
type StatementImportSvc interface {
	ImportStatement(ctx context.Context, userID string, req dto.ImportStatementRequest) (*dto.ImportStatementResponse, error)
}

// AccountSvc manages the chart of accounts.
type AccountSvc interface {
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, userID string, number int) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, userID string, number int, req dto.UpdateAccountRequest) (*domain.Account, error)
	// ResolveAccount returns the account with its VAT link targets populated,
	// ready for the transaction factory.
	ResolveAccount(ctx context.Context, userID string, number int) (*domain.Account, error)
}

// FiscalYearSvc manages accounting periods.
type FiscalYearSvc interface {
	CreateFiscalYear(ctx context.Context, userID string, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error)
	ListFiscalYears(ctx context.Context, userID string) ([]domain.FiscalYear, error)
	GetFiscalYearForDate(ctx context.Context, userID string, date time.Time) (*domain.FiscalYear, error)
}

// UserSvc manages users and their credentials.
type UserSvc interface {
	// RegisterUser creates the user and returns the plaintext API key exactly once.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, string, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	VerifyPassword(ctx context.Context, username string, password string) (*domain.User, error)
	VerifyAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
	// RotateAPIKey replaces the user's API key and returns the new plaintext key.
	RotateAPIKey(ctx context.Context, userID string) (string, error)
	// StoreRefreshToken persists the hash of a freshly issued refresh token.
	StoreRefreshToken(ctx context.Context, userID string, refreshToken string, expiry time.Time) error
}

// AuthSvc issues and validates credentials for the HTTP layer.
type AuthSvc interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// RefreshAccessToken validates a refresh token and issues a new access
	// token plus a rotated refresh token.
	RefreshAccessToken(ctx context.Context, req dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	// ValidateAPIKey returns the owning user's ID for a valid key.
	ValidateAPIKey(ctx context.Context, apiKey string) (string, error)
}
