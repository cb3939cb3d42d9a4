package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
)

// StatementLineRequest is one parsed bank-statement row handed over by the
// statement parser collaborator.
type StatementLineRequest struct {
	Date         string           `json:"date" binding:"required,datetime=2006-01-02"`
	Name         string           `json:"name" binding:"required,min=1,max=100"`
	InternalName string           `json:"internalName" binding:"required"`
	Code         string           `json:"code" binding:"required,currencycode"`
	Type         string           `json:"type" binding:"required"`
	AccountFrom  int              `json:"accountFrom" binding:"required"`
	AccountTo    int              `json:"accountTo" binding:"required"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// ToStatementLine converts the wire shape into the domain statement line the
// import service consumes, parsing the statement date.
func (r StatementLineRequest) ToStatementLine() (domain.StatementLine, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return domain.StatementLine{}, fmt.Errorf("invalid statement date %q: %w", r.Date, err)
	}
	return domain.StatementLine{
		Date:         date,
		Name:         r.Name,
		InternalName: r.InternalName,
		Code:         domain.CurrencyCode(r.Code),
		Type:         domain.VerificationType(r.Type),
		AccountFrom:  r.AccountFrom,
		AccountTo:    r.AccountTo,
		Amount:       r.Amount,
		ExchangeRate: r.ExchangeRate,
	}, nil
}

// ImportStatementRequest carries a batch of parsed statement lines.
type ImportStatementRequest struct {
	Lines []StatementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Statement import line outcomes.
const (
	ImportOutcomeCreated   = "CREATED"
	ImportOutcomeDuplicate = "DUPLICATE"
	ImportOutcomeFailed    = "FAILED"
)

// ImportLineResult reports what happened to one statement line.
type ImportLineResult struct {
	Index          int    `json:"index"`
	Outcome        string `json:"outcome"`
	VerificationID string `json:"verificationID,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ImportStatementResponse summarizes one import run.
type ImportStatementResponse struct {
	Created    int                `json:"created"`
	Duplicates int                `json:"duplicates"`
	Failed     int                `json:"failed"`
	Results    []ImportLineResult `json:"results"`
}
