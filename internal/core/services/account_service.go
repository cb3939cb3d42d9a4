package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
	"github.com/hagglund/bokforing_backend/internal/middleware"
)

// accountService manages the chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountSvc.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvc {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvc = (*accountService)(nil)

// validateVATConfig checks the VAT fields of a create/update against the
// variant rules: a reverse-VAT link requires a VAT link, the percentage must
// lie in [0,1), and link targets must exist and belong to the user.
func (s *accountService) validateVATConfig(ctx context.Context, userID string, vatNumber, reverseNumber *int, percentage *decimal.Decimal) error {
	if reverseNumber != nil && vatNumber == nil {
		return fmt.Errorf("%w: reverse VAT account requires a VAT account", apperrors.ErrValidation)
	}
	if percentage != nil {
		if percentage.IsNegative() || percentage.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: VAT percentage must be in [0,1)", apperrors.ErrValidation)
		}
	}
	for _, number := range []*int{vatNumber, reverseNumber} {
		if number == nil {
			continue
		}
		if _, err := s.accountRepo.FindAccountByNumber(ctx, userID, *number); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: linked account %d does not exist", apperrors.ErrValidation, *number)
			}
			return fmt.Errorf("failed to check linked account %d: %w", *number, err)
		}
	}
	return nil
}

// CreateAccount adds an account to the user's chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.IsValidAccountNumber(req.Number) {
		return nil, fmt.Errorf("%w: account number %d outside valid range", apperrors.ErrValidation, req.Number)
	}
	if _, err := s.accountRepo.FindAccountByNumber(ctx, userID, req.Number); err == nil {
		return nil, fmt.Errorf("%w: account %d", apperrors.ErrDuplicate, req.Number)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account %d: %w", req.Number, err)
	}
	if err := s.validateVATConfig(ctx, userID, req.VATAccountNumber, req.ReverseVATAccountNumber, req.VATPercentage); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:               uuid.NewString(),
		UserID:                  userID,
		Number:                  req.Number,
		Name:                    req.Name,
		VATAccountNumber:        req.VATAccountNumber,
		ReverseVATAccountNumber: req.ReverseVATAccountNumber,
		VATPercentage:           req.VATPercentage,
		IsActive:                true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.Int("number", req.Number))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.Int("number", account.Number))
	return &account, nil
}

// GetAccountByNumber retrieves one account without resolving its VAT links.
func (s *accountService) GetAccountByNumber(ctx context.Context, userID string, number int) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, userID, number)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", number, err)
	}
	return account, nil
}

// ListAccounts retrieves the user's chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount changes an account's name or VAT configuration.
func (s *accountService) UpdateAccount(ctx context.Context, userID string, number int, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, userID, number)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", number, err)
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.VATAccountNumber != nil || req.ReverseVATAccountNumber != nil || req.VATPercentage != nil {
		vatNumber := account.VATAccountNumber
		if req.VATAccountNumber != nil {
			vatNumber = req.VATAccountNumber
		}
		reverseNumber := account.ReverseVATAccountNumber
		if req.ReverseVATAccountNumber != nil {
			reverseNumber = req.ReverseVATAccountNumber
		}
		percentage := account.VATPercentage
		if req.VATPercentage != nil {
			percentage = req.VATPercentage
		}
		if err := s.validateVATConfig(ctx, userID, vatNumber, reverseNumber, percentage); err != nil {
			return nil, err
		}
		account.VATAccountNumber = vatNumber
		account.ReverseVATAccountNumber = reverseNumber
		account.VATPercentage = percentage
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.Int("number", number))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.Int("number", number))
	return account, nil
}

// ResolveAccount returns the account with its VAT link targets populated, so
// the transaction factory can run the percentage lookup chain. Links are
// resolved one level deep; they are lookups, not owned sub-objects.
func (s *accountService) ResolveAccount(ctx context.Context, userID string, number int) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, userID, number)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", number, err)
	}
	if account.VATAccountNumber != nil {
		linked, err := s.accountRepo.FindAccountByNumber(ctx, userID, *account.VATAccountNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve VAT account %d: %w", *account.VATAccountNumber, err)
		}
		account.VATAccount = linked
	}
	if account.ReverseVATAccountNumber != nil {
		linked, err := s.accountRepo.FindAccountByNumber(ctx, userID, *account.ReverseVATAccountNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reverse VAT account %d: %w", *account.ReverseVATAccountNumber, err)
		}
		account.ReverseVATAccount = linked
	}
	return account, nil
}
