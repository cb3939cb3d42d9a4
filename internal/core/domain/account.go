package domain

import (
	"github.com/shopspring/decimal"
)

// Account numbers follow a BAS-style chart of accounts.
const (
	MinAccountNumber = 1000
	MaxAccountNumber = 9999
)

// VATKind is the VAT configuration variant of an account.
type VATKind string

const (
	// VATNone: the account posts its full amount untouched.
	VATNone VATKind = "NONE"
	// VATRegular: the posted amount is tax-inclusive and is split into a
	// net posting on the account and a VAT posting on the VAT account.
	VATRegular VATKind = "REGULAR"
	// VATReverse: self-assessed VAT; the account keeps the full amount and
	// an equal-and-opposite VAT pair is posted with no net cash effect.
	VATReverse VATKind = "REVERSE"
)

// Account describes one account in the chart of accounts. The VAT links are
// weak references by account number; VATAccount and ReverseVATAccount are the
// resolved link targets, populated by the account service before the account
// is handed to the transaction factory. They are never owned sub-objects.
type Account struct {
	AccountID               string           `json:"accountID"` // Primary key (UUID)
	UserID                  string           `json:"userID"`
	Number                  int              `json:"number"`
	Name                    string           `json:"name"`
	VATAccountNumber        *int             `json:"vatAccountNumber,omitempty"`
	ReverseVATAccountNumber *int             `json:"reverseVatAccountNumber,omitempty"`
	VATPercentage           *decimal.Decimal `json:"vatPercentage,omitempty"` // in [0,1)
	IsActive                bool             `json:"isActive"`
	AuditFields

	VATAccount        *Account `json:"-"`
	ReverseVATAccount *Account `json:"-"`
}

// IsValidAccountNumber reports whether n lies in the configured valid range.
func IsValidAccountNumber(n int) bool {
	return n >= MinAccountNumber && n <= MaxAccountNumber
}

// VATKind returns the VAT configuration variant of the account.
func (a *Account) VATKind() VATKind {
	switch {
	case a.VATAccountNumber == nil:
		return VATNone
	case a.ReverseVATAccountNumber != nil:
		return VATReverse
	default:
		return VATRegular
	}
}

// ResolveVATPercentage resolves the effective VAT percentage by checking the
// account itself, then its VAT account, then its reverse-VAT account. It
// returns nil when no percentage is configured anywhere in the chain.
func (a *Account) ResolveVATPercentage() *decimal.Decimal {
	if a.VATPercentage != nil {
		return a.VATPercentage
	}
	if a.VATAccount != nil && a.VATAccount.VATPercentage != nil {
		return a.VATAccount.VATPercentage
	}
	if a.ReverseVATAccount != nil && a.ReverseVATAccount.VATPercentage != nil {
		return a.ReverseVATAccount.VATPercentage
	}
	return nil
}
