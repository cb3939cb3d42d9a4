package dto

import (
	"github.com/hagglund/bokforing_backend/internal/core/domain"
)

// CreateFiscalYearRequest opens a new accounting period.
type CreateFiscalYearRequest struct {
	From string `json:"from" binding:"required,datetime=2006-01-02"`
	To   string `json:"to" binding:"required,datetime=2006-01-02"`
}

// FiscalYearResponse is a fiscal year as returned to clients.
type FiscalYearResponse struct {
	FiscalYearID string `json:"fiscalYearID"`
	From         string `json:"from"`
	To           string `json:"to"`
}

// ListFiscalYearsResponse wraps the user's fiscal years.
type ListFiscalYearsResponse struct {
	FiscalYears []FiscalYearResponse `json:"fiscalYears"`
}

// ToFiscalYearResponse converts a domain.FiscalYear to its DTO.
func ToFiscalYearResponse(f *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID: f.FiscalYearID,
		From:         f.From.Format("2006-01-02"),
		To:           f.To.Format("2006-01-02"),
	}
}

// ToFiscalYearResponses converts a slice of fiscal years.
func ToFiscalYearResponses(years []domain.FiscalYear) []FiscalYearResponse {
	responses := make([]FiscalYearResponse, len(years))
	for i := range years {
		responses[i] = ToFiscalYearResponse(&years[i])
	}
	return responses
}
