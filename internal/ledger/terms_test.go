package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTerms(t *testing.T) {
	sa := SetAside{
		InstallmentSales: []Transaction{tx(d(2019, time.December, 1), ParticularInstallmentSales, 12000, 0)},
		DownPayment:      []Transaction{tx(d(2019, time.December, 1), ParticularDownPayment, 0, 2000)},
	}
	h := Header{
		AmortizationAmount: decimal.NewFromInt(1000),
		FirstDueDate:       d(2020, time.January, 17),
		LastDueDate:        d(2021, time.January, 17),
	}

	terms, err := DeriveTerms("00561289", h, sa)
	require.NoError(t, err)
	assert.Equal(t, "00561289", terms.AcctNo)
	assert.True(t, terms.InstallmentSales.Equal(decimal.NewFromInt(12000)))
	assert.True(t, terms.DownPayment.Equal(decimal.NewFromInt(2000)))
}

func TestDeriveTermsDegenerate(t *testing.T) {
	sa := SetAside{
		InstallmentSales: []Transaction{tx(d(2019, time.December, 1), ParticularInstallmentSales, 12000, 0)},
	}

	t.Run("amortization equals service deduction", func(t *testing.T) {
		h := Header{
			AmortizationAmount: decimal.NewFromInt(200),
			FirstDueDate:       d(2020, time.January, 17),
			LastDueDate:        d(2021, time.January, 17),
		}
		_, err := DeriveTerms("A", h, sa)
		require.ErrorIs(t, err, ErrDegenerateTerms)
	})

	t.Run("non-positive amortization", func(t *testing.T) {
		h := Header{
			FirstDueDate: d(2020, time.January, 17),
			LastDueDate:  d(2021, time.January, 17),
		}
		_, err := DeriveTerms("A", h, sa)
		require.ErrorIs(t, err, ErrDegenerateTerms)
	})

	t.Run("missing due dates", func(t *testing.T) {
		h := Header{AmortizationAmount: decimal.NewFromInt(1000)}
		_, err := DeriveTerms("A", h, sa)
		require.ErrorIs(t, err, ErrMalformedLedger)
	})
}
