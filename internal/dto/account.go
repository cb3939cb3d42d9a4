package dto

import (
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest adds an account to the user's chart of accounts.
// The VAT links are weak references by account number; the referenced
// accounts must already exist.
type CreateAccountRequest struct {
	Number                  int              `json:"number" binding:"required,min=1000,max=9999"`
	Name                    string           `json:"name" binding:"required,min=1,max=100"`
	VATAccountNumber        *int             `json:"vatAccountNumber,omitempty" binding:"omitempty,min=1000,max=9999"`
	ReverseVATAccountNumber *int             `json:"reverseVatAccountNumber,omitempty" binding:"omitempty,min=1000,max=9999"`
	VATPercentage           *decimal.Decimal `json:"vatPercentage,omitempty"`
}

// UpdateAccountRequest changes an account's name or VAT configuration.
type UpdateAccountRequest struct {
	Name                    *string          `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	VATAccountNumber        *int             `json:"vatAccountNumber,omitempty" binding:"omitempty,min=1000,max=9999"`
	ReverseVATAccountNumber *int             `json:"reverseVatAccountNumber,omitempty" binding:"omitempty,min=1000,max=9999"`
	VATPercentage           *decimal.Decimal `json:"vatPercentage,omitempty"`
	IsActive                *bool            `json:"isActive,omitempty"`
}

// AccountResponse is an account as returned to clients.
type AccountResponse struct {
	AccountID               string           `json:"accountID"`
	Number                  int              `json:"number"`
	Name                    string           `json:"name"`
	VATAccountNumber        *int             `json:"vatAccountNumber,omitempty"`
	ReverseVATAccountNumber *int             `json:"reverseVatAccountNumber,omitempty"`
	VATPercentage           *decimal.Decimal `json:"vatPercentage,omitempty"`
	VATKind                 string           `json:"vatKind"`
	IsActive                bool             `json:"isActive"`
}

// ListAccountsResponse wraps the user's chart of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:               a.AccountID,
		Number:                  a.Number,
		Name:                    a.Name,
		VATAccountNumber:        a.VATAccountNumber,
		ReverseVATAccountNumber: a.ReverseVATAccountNumber,
		VATPercentage:           a.VATPercentage,
		VATKind:                 string(a.VATKind()),
		IsActive:                a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
