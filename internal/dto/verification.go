package dto

import (
	"time"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVerificationRequest is one fully-resolved business event. The caller
// names the two accounts the flow touches and, for foreign-currency events,
// supplies the exchange rate; the backend never looks rates up itself.
type CreateVerificationRequest struct {
	Name         string                  `json:"name" binding:"required,min=1,max=100"`
	Date         string                  `json:"date" binding:"required,datetime=2006-01-02"`
	Type         domain.VerificationType `json:"type" binding:"required"`
	Amount       decimal.Decimal         `json:"amount" binding:"required"`
	Code         string                  `json:"code" binding:"required,currencycode"`
	ExchangeRate *decimal.Decimal        `json:"exchangeRate,omitempty"`
	AccountFrom  int                     `json:"accountFrom" binding:"required"`
	AccountTo    int                     `json:"accountTo" binding:"required"`
	InternalName *string                 `json:"internalName,omitempty"`
	InvoiceID    *string                 `json:"invoiceID,omitempty"`
	PaymentID    *string                 `json:"paymentID,omitempty"`
}

// ReplaceTransactionsRequest re-derives a verification's entry list from a new
// business event. Entries are always replaced wholesale, never edited in place.
type ReplaceTransactionsRequest struct {
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	Code         string           `json:"code" binding:"required,currencycode"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
	AccountFrom  int              `json:"accountFrom" binding:"required"`
	AccountTo    int              `json:"accountTo" binding:"required"`
}

// MoneyResponse mirrors domain.Money on the wire.
type MoneyResponse struct {
	Amount       int64            `json:"amount"`
	Code         string           `json:"code"`
	LocalAmount  *int64           `json:"localAmount,omitempty"`
	LocalCode    *string          `json:"localCode,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// TransactionResponse is one ledger entry of a verification.
type TransactionResponse struct {
	AccountNumber int           `json:"accountNumber"`
	Currency      MoneyResponse `json:"currency"`
}

// VerificationResponse is the full verification as returned to clients.
type VerificationResponse struct {
	VerificationID string                `json:"verificationID"`
	FiscalYearID   string                `json:"fiscalYearID"`
	Name           string                `json:"name"`
	InternalName   *string               `json:"internalName,omitempty"`
	Date           string                `json:"date"`
	Type           string                `json:"type"`
	Transactions   []TransactionResponse `json:"transactions"`
	InvoiceID      *string               `json:"invoiceID,omitempty"`
	PaymentID      *string               `json:"paymentID,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ListVerificationsResponse wraps a fiscal year's verifications.
type ListVerificationsResponse struct {
	Verifications []VerificationResponse `json:"verifications"`
}

// ToMoneyResponse converts a domain.Money to its DTO.
func ToMoneyResponse(m domain.Money) MoneyResponse {
	resp := MoneyResponse{
		Amount:       m.Amount,
		Code:         string(m.Code),
		LocalAmount:  m.LocalAmount,
		ExchangeRate: m.ExchangeRate,
	}
	if m.LocalCode != nil {
		lc := string(*m.LocalCode)
		resp.LocalCode = &lc
	}
	return resp
}

// ToTransactionResponses converts a slice of ledger entries.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = TransactionResponse{
			AccountNumber: txn.AccountNumber,
			Currency:      ToMoneyResponse(txn.Currency),
		}
	}
	return responses
}

// ToVerificationResponse converts a domain.Verification to its DTO.
func ToVerificationResponse(v *domain.Verification) VerificationResponse {
	return VerificationResponse{
		VerificationID: v.VerificationID,
		FiscalYearID:   v.FiscalYearID,
		Name:           v.Name,
		InternalName:   v.InternalName,
		Date:           v.Date.Format("2006-01-02"),
		Type:           string(v.Type),
		Transactions:   ToTransactionResponses(v.Transactions),
		InvoiceID:      v.InvoiceID,
		PaymentID:      v.PaymentID,
		CreatedAt:      v.CreatedAt,
	}
}
