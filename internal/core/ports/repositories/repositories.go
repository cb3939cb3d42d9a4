// Package repositories declares the persistence ports of the core services.
package repositories

import (
	"context"
	"time"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
)

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	VerificationRepo VerificationRepository
	AccountRepo      AccountRepository
	FiscalYearRepo   FiscalYearRepository
	UserRepo         UserRepository
}

// VerificationRepository persists verifications and their ledger entries.
type VerificationRepository interface {
	// SaveVerification stores the verification and all its transactions atomically.
	SaveVerification(ctx context.Context, verification domain.Verification) error
	FindVerificationByID(ctx context.Context, verificationID string) (*domain.Verification, error)
	ListVerificationsByFiscalYear(ctx context.Context, userID string, fiscalYearID string) ([]domain.Verification, error)
	// ReplaceTransactions swaps the verification's entry list wholesale.
	ReplaceTransactions(ctx context.Context, verificationID string, transactions []domain.Transaction, updatedBy string, updatedAt time.Time) error
	DeleteVerification(ctx context.Context, verificationID string) error
}

// AccountRepository persists the chart of accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByNumber(ctx context.Context, userID string, number int) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// FiscalYearRepository persists fiscal years.
type FiscalYearRepository interface {
	SaveFiscalYear(ctx context.Context, year domain.FiscalYear) error
	FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error)
	// FindFiscalYearForDate returns the user's fiscal year containing the date.
	FindFiscalYearForDate(ctx context.Context, userID string, date time.Time) (*domain.FiscalYear, error)
	ListFiscalYearsByUser(ctx context.Context, userID string) ([]domain.FiscalYear, error)
}

// UserRepository persists users and their credentials.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.User, error)
	UpdateAPIKeyHash(ctx context.Context, userID string, apiKeyHash string, updatedAt time.Time) error
	// UpdateRefreshToken stores the hash and expiry of the user's current
	// refresh token, replacing any previous one.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry time.Time, updatedAt time.Time) error
}
