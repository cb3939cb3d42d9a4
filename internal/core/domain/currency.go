package domain

import "fmt"

// CurrencyCode identifies a currency supported by the books.
// The set is closed: amounts are stored in integer minor units and the
// minor-unit exponent must be known for every code.
type CurrencyCode string

const (
	SEK CurrencyCode = "SEK"
	EUR CurrencyCode = "EUR"
	USD CurrencyCode = "USD"
	GBP CurrencyCode = "GBP"
	NOK CurrencyCode = "NOK"
	DKK CurrencyCode = "DKK"
	JPY CurrencyCode = "JPY"
)

// minorUnitExponents maps each supported code to the number of minor-unit
// digits (2 for cents/öre, 0 for yen).
var minorUnitExponents = map[CurrencyCode]int32{
	SEK: 2,
	EUR: 2,
	USD: 2,
	GBP: 2,
	NOK: 2,
	DKK: 2,
	JPY: 0,
}

// ParseCurrencyCode validates a raw code against the supported set.
func ParseCurrencyCode(raw string) (CurrencyCode, error) {
	code := CurrencyCode(raw)
	if !code.IsValid() {
		return "", fmt.Errorf("unsupported currency code %q", raw)
	}
	return code, nil
}

// IsValid reports whether the code belongs to the supported set.
func (c CurrencyCode) IsValid() bool {
	_, ok := minorUnitExponents[c]
	return ok
}

// MinorUnitExponent returns the number of decimal digits of the currency's
// minor unit. Callers must have validated the code first.
func (c CurrencyCode) MinorUnitExponent() int32 {
	return minorUnitExponents[c]
}

// SupportedCurrencies returns the closed set of currency codes.
func SupportedCurrencies() []CurrencyCode {
	return []CurrencyCode{SEK, EUR, USD, GBP, NOK, DKK, JPY}
}
