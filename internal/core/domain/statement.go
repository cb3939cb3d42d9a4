package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is one parsed bank-statement row as delivered by an external
// parser. Account references are raw account numbers; the import service
// resolves them into full accounts before invoking the transaction factory.
type StatementLine struct {
	Date         time.Time        `json:"date"`
	Name         string           `json:"name"`
	InternalName string           `json:"internalName"` // raw statement text, used for duplicate detection
	Code         CurrencyCode     `json:"code"`
	Type         VerificationType `json:"type"`
	AccountFrom  int              `json:"accountFrom"`
	AccountTo    int              `json:"accountTo"`
	Amount       decimal.Decimal  `json:"amount"` // major units
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}
