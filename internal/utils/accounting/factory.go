// Package accounting turns a single resolved business event into the minimal
// balanced set of double-entry ledger transactions, including automatic
// VAT and reverse-VAT decomposition and multi-currency conversion.
//
// The package is pure: no I/O, no shared state, deterministic output order.
package accounting

import (
	"errors"
	"fmt"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrVATPercentageNotSet is returned when an account has a VAT account
// configured but no VAT percentage resolves anywhere in its lookup chain.
var ErrVATPercentageNotSet = errors.New("account VAT percentage not set")

// TransactionParams is one fully-resolved business event: the caller has
// already decided which accounts the flow touches and looked up the exchange
// rate. Amount is in major units of Code.
type TransactionParams struct {
	Amount       decimal.Decimal
	Code         domain.CurrencyCode
	LocalCode    *domain.CurrencyCode
	ExchangeRate *decimal.Decimal
	AccountFrom  *domain.Account
	AccountTo    *domain.Account
}

// CreateTransactions produces the balanced list of ledger entries for the
// event. Entries are ordered from-side before to-side, and within a side:
// main posting, VAT posting, reverse-VAT posting. Every posting computed for
// the from side is negated; to-side postings keep their sign. The effective
// amounts of the returned entries always sum to exactly zero.
//
// It fails fast on the first precondition violation: a missing exchange rate
// (domain.ErrExchangeRateNotSet) or an unresolvable VAT percentage
// (ErrVATPercentageNotSet, wrapping the offending account number).
func CreateTransactions(p TransactionParams) ([]domain.Transaction, error) {
	minor := domain.MinorUnitsFromDecimal(p.Amount, p.Code)
	full, err := domain.NewMoney(minor, p.Code, p.LocalCode, p.ExchangeRate)
	if err != nil {
		return nil, err
	}

	fromPostings, err := postingsForAccount(full, p.AccountFrom)
	if err != nil {
		return nil, err
	}
	toPostings, err := postingsForAccount(full, p.AccountTo)
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.Transaction, 0, len(fromPostings)+len(toPostings))
	for _, t := range fromPostings {
		t.Currency = t.Currency.Negate()
		transactions = append(transactions, t)
	}
	transactions = append(transactions, toPostings...)
	return transactions, nil
}

// postingsForAccount decomposes the full amount for one side of the flow
// according to the account's VAT configuration. Postings that do not apply
// are omitted, never emitted as zero-amount entries.
func postingsForAccount(full domain.Money, account *domain.Account) ([]domain.Transaction, error) {
	if account.VATKind() == domain.VATNone {
		return []domain.Transaction{{AccountNumber: account.Number, Currency: full}}, nil
	}

	percentage := account.ResolveVATPercentage()
	if percentage == nil {
		return nil, fmt.Errorf("%w: account %d", ErrVATPercentageNotSet, account.Number)
	}

	switch account.VATKind() {
	case domain.VATReverse:
		// Self-assessed VAT: the account keeps the full amount unsplit and
		// the tax is recorded as an equal-and-opposite pair, net zero.
		vat := full.Multiply(*percentage)
		return []domain.Transaction{
			{AccountNumber: account.Number, Currency: full},
			{AccountNumber: *account.VATAccountNumber, Currency: vat},
			{AccountNumber: *account.ReverseVATAccountNumber, Currency: vat.Negate()},
		}, nil

	default: // domain.VATRegular
		// The full amount is tax-inclusive. The percentage applies to the
		// net base, so the net fraction is 1/(1+p); Split guarantees
		// net + vat == full exactly.
		one := decimal.NewFromInt(1)
		netFraction := one.Div(one.Add(*percentage))
		parts, err := full.Split([]decimal.Decimal{netFraction, one.Sub(netFraction)})
		if err != nil {
			return nil, err
		}
		return []domain.Transaction{
			{AccountNumber: account.Number, Currency: parts[0]},
			{AccountNumber: *account.VATAccountNumber, Currency: parts[1]},
		}, nil
	}
}
