package services

import (
	"context"
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
)

// fiscalYearService manages accounting periods.
type fiscalYearService struct {
	fiscalYearRepo portsrepo.FiscalYearRepository
}

// NewFiscalYearService creates a new FiscalYearSvc.
func NewFiscalYearService(fiscalYearRepo portsrepo.FiscalYearRepository) portssvc.FiscalYearSvc {
	return &fiscalYearService{fiscalYearRepo: fiscalYearRepo}
}

var _ portssvc.FiscalYearSvc = (*fiscalYearService)(nil)

// CreateFiscalYear opens a new period. Periods of one user may not overlap.
func (s *fiscalYearService) CreateFiscalYear(ctx context.Context, userID string, req dto.CreateFiscalYearRequest) (*domain.FiscalYear, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid from date %q", apperrors.ErrValidation, req.From)
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid to date %q", apperrors.ErrValidation, req.To)
	}
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: fiscal year must start before it ends", apperrors.ErrValidation)
	}

	existing, err := s.fiscalYearRepo.ListFiscalYearsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	for _, year := range existing {
		if !to.Before(year.From) && !from.After(year.To) {
			return nil, fmt.Errorf("%w: overlaps fiscal year %s", apperrors.ErrConflict, year.FiscalYearID)
		}
	}

	now := time.Now().UTC()
	year := domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		UserID:       userID,
		From:         from,
		To:           to,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.fiscalYearRepo.SaveFiscalYear(ctx, year); err != nil {
		logger.Error("Failed to save fiscal year", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save fiscal year: %w", err)
	}

	logger.Info("Fiscal year created", slog.String("fiscal_year_id", year.FiscalYearID))
	return &year, nil
}

// ListFiscalYears retrieves the user's fiscal years.
func (s *fiscalYearService) ListFiscalYears(ctx context.Context, userID string) ([]domain.FiscalYear, error) {
	years, err := s.fiscalYearRepo.ListFiscalYearsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	return years, nil
}

// GetFiscalYearForDate returns the user's fiscal year containing the date.
func (s *fiscalYearService) GetFiscalYearForDate(ctx context.Context, userID string, date time.Time) (*domain.FiscalYear, error) {
	year, err := s.fiscalYearRepo.FindFiscalYearForDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return year, nil
}
