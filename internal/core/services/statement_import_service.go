package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portsrepo "github.com/hagglund/bokforing_backend/internal/core/ports/repositories"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
	"github.com/hagglund/bokforing_backend/internal/middleware"
)

// statementImportService books parsed bank-statement lines. Lines whose
// verification is already recorded are skipped via the fuzzy comparable
// projection, so re-importing the same statement never duplicates entries.
type statementImportService struct {
	verificationRepo portsrepo.VerificationRepository
	accountSvc       portssvc.AccountSvc
	fiscalYearSvc    portssvc.FiscalYearSvc
	userSvc          portssvc.UserSvc
}

// NewStatementImportService creates a new StatementImportSvc.
func NewStatementImportService(verificationRepo portsrepo.VerificationRepository, accountSvc portssvc.AccountSvc, fiscalYearSvc portssvc.FiscalYearSvc, userSvc portssvc.UserSvc) portssvc.StatementImportSvc {
	return &statementImportService{
		verificationRepo: verificationRepo,
		accountSvc:       accountSvc,
		fiscalYearSvc:    fiscalYearSvc,
		userSvc:          userSvc,
	}
}

var _ portssvc.StatementImportSvc = (*statementImportService)(nil)

// ImportStatement processes each line independently: a failing line is
// reported and does not abort the batch.
func (s *statementImportService) ImportStatement(ctx context.Context, userID string, req dto.ImportStatementRequest) (*dto.ImportStatementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	resp := &dto.ImportStatementResponse{Results: make([]dto.ImportLineResult, 0, len(req.Lines))}
	// Already-recorded comparables, fetched once per fiscal year and extended
	// with each newly created verification so duplicates within the batch are
	// caught as well.
	known := make(map[string][]domain.Comparable)

	for i, lineReq := range req.Lines {
		var result dto.ImportLineResult
		if line, err := lineReq.ToStatementLine(); err != nil {
			result = dto.ImportLineResult{Index: i, Outcome: dto.ImportOutcomeFailed, Error: err.Error()}
		} else {
			result = s.importLine(ctx, userID, i, line, known)
		}
		switch result.Outcome {
		case dto.ImportOutcomeCreated:
			resp.Created++
		case dto.ImportOutcomeDuplicate:
			resp.Duplicates++
		default:
			resp.Failed++
		}
		resp.Results = append(resp.Results, result)
	}

	logger.Info("Statement import finished",
		slog.Int("created", resp.Created),
		slog.Int("duplicates", resp.Duplicates),
		slog.Int("failed", resp.Failed),
	)
	return resp, nil
}

func (s *statementImportService) importLine(ctx context.Context, userID string, index int, line domain.StatementLine, known map[string][]domain.Comparable) dto.ImportLineResult {
	failed := func(err error) dto.ImportLineResult {
		return dto.ImportLineResult{Index: index, Outcome: dto.ImportOutcomeFailed, Error: err.Error()}
	}

	fiscalYear, err := s.fiscalYearSvc.GetFiscalYearForDate(ctx, userID, line.Date)
	if err != nil {
		return failed(err)
	}

	transactions, err := buildEventTransactions(ctx, s.accountSvc, s.userSvc, userID, line.Amount, string(line.Code), line.ExchangeRate, line.AccountFrom, line.AccountTo)
	if err != nil {
		return failed(err)
	}

	internalName := line.InternalName
	now := time.Now().UTC()
	verification := domain.Verification{
		VerificationID: uuid.NewString(),
		UserID:         userID,
		FiscalYearID:   fiscalYear.FiscalYearID,
		Name:           line.Name,
		InternalName:   &internalName,
		Date:           line.Date,
		Type:           line.Type,
		Transactions:   transactions,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if violations := verification.Validate(); len(violations) > 0 {
		return failed(&ValidationFailedError{Violations: violations})
	}

	comparables, err := s.knownComparables(ctx, userID, fiscalYear.FiscalYearID, known)
	if err != nil {
		return failed(err)
	}
	candidate := verification.Comparable()
	for _, existing := range comparables {
		if candidate.IsEqualTo(existing) {
			return dto.ImportLineResult{Index: index, Outcome: dto.ImportOutcomeDuplicate}
		}
	}

	if err := s.verificationRepo.SaveVerification(ctx, verification); err != nil {
		return failed(err)
	}
	known[fiscalYear.FiscalYearID] = append(known[fiscalYear.FiscalYearID], candidate)

	return dto.ImportLineResult{Index: index, Outcome: dto.ImportOutcomeCreated, VerificationID: verification.VerificationID}
}

func (s *statementImportService) knownComparables(ctx context.Context, userID string, fiscalYearID string, known map[string][]domain.Comparable) ([]domain.Comparable, error) {
	if comparables, ok := known[fiscalYearID]; ok {
		return comparables, nil
	}
	existing, err := s.verificationRepo.ListVerificationsByFiscalYear(ctx, userID, fiscalYearID)
	if err != nil {
		return nil, err
	}
	comparables := make([]domain.Comparable, len(existing))
	for i := range existing {
		comparables[i] = existing[i].Comparable()
	}
	known[fiscalYearID] = comparables
	return comparables, nil
}
