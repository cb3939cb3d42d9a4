package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrExchangeRateNotSet is returned when a conversion is requested
	// without an exchange rate.
	ErrExchangeRateNotSet = errors.New("exchange rate not set")
	// ErrExchangeRateNotPositive is returned when a conversion is requested
	// with a zero or negative exchange rate.
	ErrExchangeRateNotPositive = errors.New("exchange rate must be positive")
	// ErrCurrenciesNotComparable is returned on arithmetic between two
	// Money values with different currency codes.
	ErrCurrenciesNotComparable = errors.New("currencies are not comparable")
	// ErrInvalidSplitFractions is returned when split fractions do not sum to one.
	ErrInvalidSplitFractions = errors.New("split fractions must sum to one")
)

// Money is an exact monetary amount in integer minor units (öre, cents),
// tagged with its currency code. When the amount was converted from a
// foreign currency it additionally carries the converted amount in the
// book's local currency together with the exchange rate that was used.
// LocalCode, LocalAmount and ExchangeRate are present together or absent
// together; a same-currency amount carries no conversion metadata at all.
type Money struct {
	Amount       int64            `json:"amount"`
	Code         CurrencyCode     `json:"code"`
	LocalAmount  *int64           `json:"localAmount,omitempty"`
	LocalCode    *CurrencyCode    `json:"localCode,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"`
}

// NewMoney creates a Money amount. When localCode is nil or equals code the
// result is normalized to carry no conversion metadata. Otherwise a positive
// rate must be set; the local amount is the exact product rounded half away
// from zero to the nearest minor unit.
func NewMoney(amount int64, code CurrencyCode, localCode *CurrencyCode, rate *decimal.Decimal) (Money, error) {
	if localCode == nil || *localCode == code {
		return Money{Amount: amount, Code: code}, nil
	}
	if rate == nil {
		return Money{}, fmt.Errorf("%w: converting %s to %s", ErrExchangeRateNotSet, code, *localCode)
	}
	if rate.Sign() <= 0 {
		return Money{}, fmt.Errorf("%w: got %s", ErrExchangeRateNotPositive, rate)
	}
	local := roundToMinorUnit(decimal.NewFromInt(amount).Mul(*rate))
	lc := *localCode
	r := *rate
	return Money{
		Amount:       amount,
		Code:         code,
		LocalAmount:  &local,
		LocalCode:    &lc,
		ExchangeRate: &r,
	}, nil
}

// Negate returns the Money with amount and local amount sign-flipped.
func (m Money) Negate() Money {
	out := m
	out.Amount = -m.Amount
	if m.LocalAmount != nil {
		la := -*m.LocalAmount
		out.LocalAmount = &la
	}
	return out
}

// Multiply scales the Money by a fraction. Amount and local amount are each
// rounded from their own exact product so neither compounds the other's
// rounding error.
func (m Money) Multiply(fraction decimal.Decimal) Money {
	out := m
	out.Amount = roundToMinorUnit(decimal.NewFromInt(m.Amount).Mul(fraction))
	if m.LocalAmount != nil {
		la := roundToMinorUnit(decimal.NewFromInt(*m.LocalAmount).Mul(fraction))
		out.LocalAmount = &la
	}
	return out
}

// Split divides the Money into one part per fraction. The fractions must sum
// to exactly one. Every part but the last is an independently rounded
// Multiply; the last part takes the exact remainder of both the amount and
// the local amount, so the parts always sum back to the original.
func (m Money) Split(fractions []decimal.Decimal) ([]Money, error) {
	if len(fractions) == 0 {
		return nil, fmt.Errorf("%w: no fractions given", ErrInvalidSplitFractions)
	}
	sum := decimal.Zero
	for _, f := range fractions {
		sum = sum.Add(f)
	}
	if !sum.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidSplitFractions, sum)
	}

	parts := make([]Money, len(fractions))
	restAmount := m.Amount
	var restLocal *int64
	if m.LocalAmount != nil {
		rl := *m.LocalAmount
		restLocal = &rl
	}
	for i, f := range fractions[:len(fractions)-1] {
		part := m.Multiply(f)
		restAmount -= part.Amount
		if restLocal != nil && part.LocalAmount != nil {
			*restLocal -= *part.LocalAmount
		}
		parts[i] = part
	}

	last := m
	last.Amount = restAmount
	last.LocalAmount = restLocal
	parts[len(parts)-1] = last
	return parts, nil
}

// Add sums two Money values of the same currency code. The local amount is
// summed when both sides carry one.
func (m Money) Add(other Money) (Money, error) {
	if m.Code != other.Code {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrenciesNotComparable, m.Code, other.Code)
	}
	out := m
	out.Amount = m.Amount + other.Amount
	if m.LocalAmount != nil && other.LocalAmount != nil {
		la := *m.LocalAmount + *other.LocalAmount
		out.LocalAmount = &la
	} else {
		out.LocalAmount = nil
		out.LocalCode = nil
		out.ExchangeRate = nil
	}
	return out, nil
}

// EffectiveAmount is the amount in the book's local currency: the converted
// local amount when present, otherwise the amount itself.
func (m Money) EffectiveAmount() int64 {
	if m.LocalAmount != nil {
		return *m.LocalAmount
	}
	return m.Amount
}

// IsConverted reports whether the Money carries conversion metadata.
func (m Money) IsConverted() bool {
	return m.LocalCode != nil
}

// Equal compares all fields, including conversion metadata.
func (m Money) Equal(other Money) bool {
	if m.Amount != other.Amount || m.Code != other.Code {
		return false
	}
	if (m.LocalAmount == nil) != (other.LocalAmount == nil) {
		return false
	}
	if m.LocalAmount != nil && *m.LocalAmount != *other.LocalAmount {
		return false
	}
	if (m.LocalCode == nil) != (other.LocalCode == nil) {
		return false
	}
	if m.LocalCode != nil && *m.LocalCode != *other.LocalCode {
		return false
	}
	if (m.ExchangeRate == nil) != (other.ExchangeRate == nil) {
		return false
	}
	if m.ExchangeRate != nil && !m.ExchangeRate.Equal(*other.ExchangeRate) {
		return false
	}
	return true
}

// MinorUnitsFromDecimal converts a major-unit decimal amount (e.g. "10.50")
// to integer minor units for the given currency, rounding half away from zero.
func MinorUnitsFromDecimal(amount decimal.Decimal, code CurrencyCode) int64 {
	return roundToMinorUnit(amount.Shift(code.MinorUnitExponent()))
}

// DecimalFromMinorUnits converts integer minor units back to a major-unit decimal.
func DecimalFromMinorUnits(amount int64, code CurrencyCode) decimal.Decimal {
	return decimal.NewFromInt(amount).Shift(-code.MinorUnitExponent())
}

// roundToMinorUnit rounds to the nearest integer, ties away from zero, so
// positive and negative flows of the same magnitude round symmetrically.
func roundToMinorUnit(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
