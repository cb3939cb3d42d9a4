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
	"github.com/hagglund/bokforing_backend/internal/utils/accounting"
)

// verificationService records business events as balanced verifications.
type verificationService struct {
	verificationRepo portsrepo.VerificationRepository
	accountSvc       portssvc.AccountSvc
	fiscalYearSvc    portssvc.FiscalYearSvc
	userSvc          portssvc.UserSvc
}

// NewVerificationService creates a new VerificationSvc.
func NewVerificationService(verificationRepo portsrepo.VerificationRepository, accountSvc portssvc.AccountSvc, fiscalYearSvc portssvc.FiscalYearSvc, userSvc portssvc.UserSvc) portssvc.VerificationSvc {
	return &verificationService{
		verificationRepo: verificationRepo,
		accountSvc:       accountSvc,
		fiscalYearSvc:    fiscalYearSvc,
		userSvc:          userSvc,
	}
}

var _ portssvc.VerificationSvc = (*verificationService)(nil)

// buildEventTransactions resolves a business event's accounts and currency
// and runs the transaction factory. Shared with the statement importer.
func buildEventTransactions(ctx context.Context, accountSvc portssvc.AccountSvc, userSvc portssvc.UserSvc, userID string, amount decimal.Decimal, rawCode string, rate *decimal.Decimal, accountFrom int, accountTo int) ([]domain.Transaction, error) {
	code, err := domain.ParseCurrencyCode(rawCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	user, err := userSvc.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	from, err := accountSvc.ResolveAccount(ctx, userID, accountFrom)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve from-account %d: %w", accountFrom, err)
	}
	to, err := accountSvc.ResolveAccount(ctx, userID, accountTo)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve to-account %d: %w", accountTo, err)
	}

	localCode := user.LocalCode
	return accounting.CreateTransactions(accounting.TransactionParams{
		Amount:       amount,
		Code:         code,
		LocalCode:    &localCode,
		ExchangeRate: rate,
		AccountFrom:  from,
		AccountTo:    to,
	})
}

// CreateVerification books a single business event: it resolves accounts and
// the fiscal year, runs the transaction factory, validates the aggregate and
// persists it atomically.
func (s *verificationService) CreateVerification(ctx context.Context, userID string, req dto.CreateVerificationRequest) (*domain.Verification, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, req.Date)
	}

	fiscalYear, err := s.fiscalYearSvc.GetFiscalYearForDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no fiscal year covers %s", apperrors.ErrValidation, req.Date)
		}
		return nil, fmt.Errorf("failed to find fiscal year: %w", err)
	}

	transactions, err := buildEventTransactions(ctx, s.accountSvc, s.userSvc, userID, req.Amount, req.Code, req.ExchangeRate, req.AccountFrom, req.AccountTo)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	verification := domain.Verification{
		VerificationID: uuid.NewString(),
		UserID:         userID,
		FiscalYearID:   fiscalYear.FiscalYearID,
		Name:           req.Name,
		InternalName:   req.InternalName,
		Date:           date,
		Type:           req.Type,
		Transactions:   transactions,
		InvoiceID:      req.InvoiceID,
		PaymentID:      req.PaymentID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if violations := verification.Validate(); len(violations) > 0 {
		return nil, &ValidationFailedError{Violations: violations}
	}

	if err := s.verificationRepo.SaveVerification(ctx, verification); err != nil {
		logger.Error("Failed to save verification", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save verification: %w", err)
	}

	logger.Info("Verification created", slog.String("verification_id", verification.VerificationID), slog.Int("transactions", len(transactions)))
	return &verification, nil
}

// GetVerificationByID retrieves a verification with its transactions.
func (s *verificationService) GetVerificationByID(ctx context.Context, userID string, verificationID string) (*domain.Verification, error) {
	verification, err := s.verificationRepo.FindVerificationByID(ctx, verificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find verification %s: %w", verificationID, err)
	}
	if verification.UserID != userID {
		// Obscure existence of other users' verifications.
		return nil, apperrors.ErrNotFound
	}
	return verification, nil
}

// ListVerifications retrieves all verifications of a fiscal year.
func (s *verificationService) ListVerifications(ctx context.Context, userID string, fiscalYearID string) ([]domain.Verification, error) {
	verifications, err := s.verificationRepo.ListVerificationsByFiscalYear(ctx, userID, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}
	return verifications, nil
}

// ReplaceTransactions re-derives the verification's ledger entries from a new
// business event and swaps the entry list wholesale.
func (s *verificationService) ReplaceTransactions(ctx context.Context, userID string, verificationID string, req dto.ReplaceTransactionsRequest) (*domain.Verification, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	verification, err := s.GetVerificationByID(ctx, userID, verificationID)
	if err != nil {
		return nil, err
	}

	transactions, err := buildEventTransactions(ctx, s.accountSvc, s.userSvc, userID, req.Amount, req.Code, req.ExchangeRate, req.AccountFrom, req.AccountTo)
	if err != nil {
		return nil, err
	}

	updated := *verification
	updated.Transactions = transactions
	if violations := updated.Validate(); len(violations) > 0 {
		return nil, &ValidationFailedError{Violations: violations}
	}

	now := time.Now().UTC()
	if err := s.verificationRepo.ReplaceTransactions(ctx, verificationID, transactions, userID, now); err != nil {
		logger.Error("Failed to replace verification transactions", slog.String("error", err.Error()), slog.String("verification_id", verificationID))
		return nil, fmt.Errorf("failed to replace transactions: %w", err)
	}

	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID
	logger.Info("Verification transactions replaced", slog.String("verification_id", verificationID), slog.Int("transactions", len(transactions)))
	return &updated, nil
}

// DeleteVerification removes a verification and its transactions.
func (s *verificationService) DeleteVerification(ctx context.Context, userID string, verificationID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetVerificationByID(ctx, userID, verificationID); err != nil {
		return err
	}
	if err := s.verificationRepo.DeleteVerification(ctx, verificationID); err != nil {
		logger.Error("Failed to delete verification", slog.String("error", err.Error()), slog.String("verification_id", verificationID))
		return fmt.Errorf("failed to delete verification: %w", err)
	}

	logger.Info("Verification deleted", slog.String("verification_id", verificationID))
	return nil
}
