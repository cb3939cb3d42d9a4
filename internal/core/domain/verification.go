package domain

import (
	"fmt"
	"sort"
	"time"
)

// VerificationType is the business-event kind a verification records.
type VerificationType string

const (
	TypeTransaction       VerificationType = "TRANSACTION"
	TypeDirectPaymentIn   VerificationType = "DIRECT_PAYMENT_IN"
	TypeDirectPaymentOut  VerificationType = "DIRECT_PAYMENT_OUT"
	TypeInvoiceIn         VerificationType = "INVOICE_IN"
	TypeInvoiceOut        VerificationType = "INVOICE_OUT"
	TypeInvoiceInPayment  VerificationType = "INVOICE_IN_PAYMENT"
	TypeInvoiceOutPayment VerificationType = "INVOICE_OUT_PAYMENT"
)

// IsValid reports whether the type is one of the enumerated kinds.
func (t VerificationType) IsValid() bool {
	switch t {
	case TypeTransaction, TypeDirectPaymentIn, TypeDirectPaymentOut,
		TypeInvoiceIn, TypeInvoiceOut, TypeInvoiceInPayment, TypeInvoiceOutPayment:
		return true
	}
	return false
}

// Verification name length limits, in runes.
const (
	VerificationNameMinLength = 1
	VerificationNameMaxLength = 100
)

// ValidationErrorKind classifies a structural validation failure.
type ValidationErrorKind string

const (
	ErrorNameTooShort        ValidationErrorKind = "NAME_TOO_SHORT"
	ErrorNameTooLong         ValidationErrorKind = "NAME_TOO_LONG"
	ErrorDateMissing         ValidationErrorKind = "DATE_MISSING"
	ErrorTypeInvalid         ValidationErrorKind = "TYPE_INVALID"
	ErrorTransactionsMissing ValidationErrorKind = "TRANSACTIONS_MISSING"
	ErrorCurrencyMismatch    ValidationErrorKind = "CURRENCY_MISMATCH"
	ErrorNotBalanced         ValidationErrorKind = "NOT_BALANCED"
)

// ValidationError is one structural violation found on a verification.
type ValidationError struct {
	Kind ValidationErrorKind `json:"kind"`
	Data string              `json:"data,omitempty"`
}

// Verification is a named, dated, typed collection of ledger entries that
// records one completed business event in the books. Its entries must net to
// zero in the book's local currency.
type Verification struct {
	VerificationID string           `json:"verificationID"` // Primary key (UUID)
	UserID         string           `json:"userID"`
	FiscalYearID   string           `json:"fiscalYearID"`
	Name           string           `json:"name"`
	InternalName   *string          `json:"internalName,omitempty"` // e.g. the raw bank-statement text
	Date           time.Time        `json:"date"`
	Type           VerificationType `json:"type"`
	Transactions   []Transaction    `json:"transactions"` // insertion order = posting order
	InvoiceID      *string          `json:"invoiceID,omitempty"`
	PaymentID      *string          `json:"paymentID,omitempty"`
	AuditFields
}

// Validate runs all structural checks and returns every violation found, so a
// caller sees all problems in one round-trip instead of one at a time.
func (v *Verification) Validate() []ValidationError {
	var errs []ValidationError

	nameLen := len([]rune(v.Name))
	if nameLen < VerificationNameMinLength {
		errs = append(errs, ValidationError{Kind: ErrorNameTooShort, Data: v.Name})
	} else if nameLen > VerificationNameMaxLength {
		errs = append(errs, ValidationError{Kind: ErrorNameTooLong, Data: v.Name})
	}

	if v.Date.IsZero() {
		errs = append(errs, ValidationError{Kind: ErrorDateMissing})
	}

	if !v.Type.IsValid() {
		errs = append(errs, ValidationError{Kind: ErrorTypeInvalid, Data: string(v.Type)})
	}

	if len(v.Transactions) < 2 {
		errs = append(errs, ValidationError{Kind: ErrorTransactionsMissing})
		return errs
	}

	code := v.Transactions[0].Currency.Code
	mixed := false
	var sum int64
	for _, t := range v.Transactions {
		if t.Currency.Code != code {
			mixed = true
		}
		sum += t.Currency.EffectiveAmount()
	}
	if mixed {
		errs = append(errs, ValidationError{Kind: ErrorCurrencyMismatch})
	}
	if sum != 0 {
		errs = append(errs, ValidationError{Kind: ErrorNotBalanced, Data: fmt.Sprintf("%d", sum)})
	}

	return errs
}

// ComparableTransaction is the identity projection of one ledger entry.
type ComparableTransaction struct {
	AccountNumber int   `json:"accountNumber"`
	Amount        int64 `json:"amount"`
}

// Comparable is the reduced identity projection of a verification, used to
// detect whether an externally observed event has already been recorded.
type Comparable struct {
	UserID       string                  `json:"userID"`
	FiscalYearID string                  `json:"fiscalYearID"`
	Date         string                  `json:"date"` // calendar day, empty when unset
	InternalName *string                 `json:"internalName,omitempty"`
	Transactions []ComparableTransaction `json:"transactions"`
}

// Comparable projects the identity-bearing fields of the verification.
func (v *Verification) Comparable() Comparable {
	c := Comparable{
		UserID:       v.UserID,
		FiscalYearID: v.FiscalYearID,
		InternalName: v.InternalName,
	}
	if !v.Date.IsZero() {
		c.Date = v.Date.Format("2006-01-02")
	}
	for _, t := range v.Transactions {
		c.Transactions = append(c.Transactions, ComparableTransaction{
			AccountNumber: t.AccountNumber,
			Amount:        t.Currency.Amount,
		})
	}
	sortComparableTransactions(c.Transactions)
	return c
}

// IsEqualTo is a deliberately fuzzy equality: a field that is undefined on
// either side is skipped, but a mismatch on any field present on both sides
// disqualifies the match. Repeated bank-statement imports rely on this to
// avoid recording the same event twice.
func (c Comparable) IsEqualTo(other Comparable) bool {
	if c.UserID != "" && other.UserID != "" && c.UserID != other.UserID {
		return false
	}
	if c.FiscalYearID != "" && other.FiscalYearID != "" && c.FiscalYearID != other.FiscalYearID {
		return false
	}
	if c.Date != "" && other.Date != "" && c.Date != other.Date {
		return false
	}
	if c.InternalName != nil && other.InternalName != nil && *c.InternalName != *other.InternalName {
		return false
	}
	if len(c.Transactions) > 0 && len(other.Transactions) > 0 {
		if len(c.Transactions) != len(other.Transactions) {
			return false
		}
		for i := range c.Transactions {
			if c.Transactions[i] != other.Transactions[i] {
				return false
			}
		}
	}
	return true
}

func sortComparableTransactions(ts []ComparableTransaction) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].AccountNumber != ts[j].AccountNumber {
			return ts[i].AccountNumber < ts[j].AccountNumber
		}
		return ts[i].Amount < ts[j].Amount
	})
}
