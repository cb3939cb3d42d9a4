package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hagglund/bokforing_backend/internal/core/domain"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TestNewMoney(t *testing.T) {
	sek := domain.CurrencyCode("SEK")
	eur := domain.CurrencyCode("EUR")

	tests := []struct {
		name      string
		amount    int64
		code      domain.CurrencyCode
		localCode *domain.CurrencyCode
		rate      *decimal.Decimal
		want      domain.Money
		wantErr   error
	}{
		{
			name:   "no local code yields plain amount",
			amount: 1000,
			code:   sek,
			want:   domain.Money{Amount: 1000, Code: sek},
		},
		{
			name:      "same local code is normalized away",
			amount:    1000,
			code:      sek,
			localCode: &sek,
			rate:      decimalPtr(decimal.NewFromInt(10)),
			want:      domain.Money{Amount: 1000, Code: sek},
		},
		{
			name:      "foreign currency converts via rate",
			amount:    1000,
			code:      eur,
			localCode: &sek,
			rate:      decimalPtr(decimal.NewFromInt(10)),
			want: domain.Money{
				Amount:       1000,
				Code:         eur,
				LocalAmount:  int64Ptr(10000),
				LocalCode:    &sek,
				ExchangeRate: decimalPtr(decimal.NewFromInt(10)),
			},
		},
		{
			name:      "fractional rate rounds half away from zero",
			amount:    5,
			code:      eur,
			localCode: &sek,
			rate:      decimalPtr(decimal.NewFromFloat(10.9)), // 54.5 -> 55
			want: domain.Money{
				Amount:       5,
				Code:         eur,
				LocalAmount:  int64Ptr(55),
				LocalCode:    &sek,
				ExchangeRate: decimalPtr(decimal.NewFromFloat(10.9)),
			},
		},
		{
			name:      "missing rate for foreign currency",
			amount:    1000,
			code:      eur,
			localCode: &sek,
			wantErr:   domain.ErrExchangeRateNotSet,
		},
		{
			name:      "zero rate is rejected",
			amount:    1000,
			code:      eur,
			localCode: &sek,
			rate:      decimalPtr(decimal.Zero),
			wantErr:   domain.ErrExchangeRateNotPositive,
		},
		{
			name:      "negative rate is rejected",
			amount:    1000,
			code:      eur,
			localCode: &sek,
			rate:      decimalPtr(decimal.NewFromFloat(-10.5)),
			wantErr:   domain.ErrExchangeRateNotPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewMoney(tt.amount, tt.code, tt.localCode, tt.rate)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %+v, got %+v", tt.want, got)
		})
	}
}

func TestMoney_Negate(t *testing.T) {
	sek := domain.CurrencyCode("SEK")
	eur := domain.CurrencyCode("EUR")
	rate := decimal.NewFromInt(10)

	m, err := domain.NewMoney(1000, eur, &sek, &rate)
	require.NoError(t, err)

	negated := m.Negate()
	assert.Equal(t, int64(-1000), negated.Amount)
	require.NotNil(t, negated.LocalAmount)
	assert.Equal(t, int64(-10000), *negated.LocalAmount)

	// negation is an involution
	assert.True(t, m.Equal(negated.Negate()))
}

func TestMoney_Multiply_RoundsEachFieldIndependently(t *testing.T) {
	sek := domain.CurrencyCode("SEK")
	eur := domain.CurrencyCode("EUR")
	rate := decimal.NewFromFloat(10.003)

	m, err := domain.NewMoney(333, eur, &sek, &rate)
	require.NoError(t, err)
	require.NotNil(t, m.LocalAmount)
	assert.Equal(t, int64(3331), *m.LocalAmount) // 3330.999 -> 3331

	half := m.Multiply(decimal.NewFromFloat(0.5))
	assert.Equal(t, int64(167), half.Amount) // 166.5 -> 167, away from zero
	require.NotNil(t, half.LocalAmount)
	assert.Equal(t, int64(1666), *half.LocalAmount) // 1665.5 -> 1666
}

func TestMoney_Multiply_NegativeRoundsAwayFromZero(t *testing.T) {
	m := domain.Money{Amount: -333, Code: "SEK"}
	half := m.Multiply(decimal.NewFromFloat(0.5))
	assert.Equal(t, int64(-167), half.Amount) // -166.5 -> -167
}

func TestMoney_Split(t *testing.T) {
	sek := domain.CurrencyCode("SEK")
	eur := domain.CurrencyCode("EUR")

	t.Run("parts sum back to the original exactly", func(t *testing.T) {
		rate := decimal.NewFromFloat(9.37)
		m, err := domain.NewMoney(997, eur, &sek, &rate)
		require.NoError(t, err)

		third := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
		parts, err := m.Split([]decimal.Decimal{third, third, decimal.NewFromInt(1).Sub(third).Sub(third)})
		require.NoError(t, err)
		require.Len(t, parts, 3)

		var sumAmount, sumLocal int64
		for _, p := range parts {
			sumAmount += p.Amount
			require.NotNil(t, p.LocalAmount)
			sumLocal += *p.LocalAmount
		}
		assert.Equal(t, m.Amount, sumAmount)
		assert.Equal(t, *m.LocalAmount, sumLocal)
	})

	t.Run("vat split of a tax-inclusive amount", func(t *testing.T) {
		m := domain.Money{Amount: 1000, Code: sek}
		one := decimal.NewFromInt(1)
		netFraction := one.Div(one.Add(decimal.NewFromFloat(0.25)))

		parts, err := m.Split([]decimal.Decimal{netFraction, one.Sub(netFraction)})
		require.NoError(t, err)
		require.Len(t, parts, 2)
		assert.Equal(t, int64(800), parts[0].Amount)
		assert.Equal(t, int64(200), parts[1].Amount)
	})

	t.Run("fractions must sum to one", func(t *testing.T) {
		m := domain.Money{Amount: 1000, Code: sek}
		_, err := m.Split([]decimal.Decimal{decimal.NewFromFloat(0.5), decimal.NewFromFloat(0.4)})
		assert.ErrorIs(t, err, domain.ErrInvalidSplitFractions)
	})

	t.Run("no fractions", func(t *testing.T) {
		m := domain.Money{Amount: 1000, Code: sek}
		_, err := m.Split(nil)
		assert.ErrorIs(t, err, domain.ErrInvalidSplitFractions)
	})
}

func TestMoney_Add(t *testing.T) {
	sek := domain.CurrencyCode("SEK")

	t.Run("same code", func(t *testing.T) {
		a := domain.Money{Amount: 1000, Code: sek}
		b := domain.Money{Amount: -250, Code: sek}
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, int64(750), sum.Amount)
	})

	t.Run("different codes", func(t *testing.T) {
		a := domain.Money{Amount: 1000, Code: sek}
		b := domain.Money{Amount: 1000, Code: "EUR"}
		_, err := a.Add(b)
		assert.ErrorIs(t, err, domain.ErrCurrenciesNotComparable)
	})
}

func TestMoney_EffectiveAmount(t *testing.T) {
	sek := domain.CurrencyCode("SEK")
	eur := domain.CurrencyCode("EUR")
	rate := decimal.NewFromInt(10)

	plain := domain.Money{Amount: 1000, Code: sek}
	assert.Equal(t, int64(1000), plain.EffectiveAmount())

	converted, err := domain.NewMoney(1000, eur, &sek, &rate)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), converted.EffectiveAmount())
	assert.True(t, converted.IsConverted())
	assert.False(t, plain.IsConverted())
}

func TestMinorUnitsFromDecimal(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		code   domain.CurrencyCode
		want   int64
	}{
		{"two-decimal currency", decimal.NewFromFloat(10.50), "SEK", 1050},
		{"whole major units", decimal.NewFromInt(10), "SEK", 1000},
		{"half-cent rounds away from zero", decimal.NewFromFloat(0.005), "SEK", 1},
		{"negative half-cent rounds away from zero", decimal.NewFromFloat(-0.005), "SEK", -1},
		{"zero-decimal currency", decimal.NewFromInt(500), "JPY", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.MinorUnitsFromDecimal(tt.amount, tt.code))
		})
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
