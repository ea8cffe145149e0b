package bigquery

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scgc-mis/slrecon/internal/dates"
)

func ns(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: true}
}

func rat(n int64) *big.Rat {
	return big.NewRat(n, 1)
}

func sampleRows() []*LedgerRow {
	return []*LedgerRow{
		{
			AcctNo:     "00561289",
			TRDate:     ns("20200115"),
			Particular: ns("PAYMENT"),
			Credit:     rat(1000),
			MA:         rat(1000),
			FDD:        ns("20200117"),
			LDD:        ns("20210117"),
		},
		{
			AcctNo:     "00561289",
			TRDate:     ns("20191201"),
			Particular: ns("INSTALLMENT SALES"),
			Debit:      rat(12000),
			MA:         rat(1000),
			FDD:        ns("20200117"),
			LDD:        ns("20210117"),
		},
	}
}

func TestToAccountLedger(t *testing.T) {
	al, err := ToAccountLedger("00561289", sampleRows(), dates.LayoutRawPosting)
	require.NoError(t, err)

	assert.True(t, al.Header.AmortizationAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, civil.Date{Year: 2020, Month: time.January, Day: 17}, al.Header.FirstDueDate)
	assert.Equal(t, civil.Date{Year: 2021, Month: time.January, Day: 17}, al.Header.LastDueDate)

	require.Len(t, al.Transactions, 2)
	// Rows come back sorted by posting date, not warehouse order.
	assert.Equal(t, "INSTALLMENT SALES", al.Transactions[0].Particular)
	assert.Equal(t, civil.Date{Year: 2019, Month: time.December, Day: 1}, al.Transactions[0].Date)
	assert.True(t, al.Transactions[0].Debit.Equal(decimal.NewFromInt(12000)))
	assert.True(t, al.Transactions[1].Credit.Equal(decimal.NewFromInt(1000)))

	for _, tx := range al.Transactions {
		assert.NotEmpty(t, tx.ID)
	}
}

func TestToAccountLedgerBadDates(t *testing.T) {
	rows := sampleRows()
	rows[0].TRDate = ns("2020-01-15") // wrong layout for the raw feed

	al, err := ToAccountLedger("00561289", rows, dates.LayoutRawPosting)
	require.ErrorIs(t, err, ErrDateNormalization)

	// The ledger still comes back with the raw values preserved for review.
	require.Len(t, al.Transactions, 2)
	for _, tx := range al.Transactions {
		assert.True(t, tx.Date.IsZero())
		assert.NotEmpty(t, tx.RawDate)
	}
}

func TestToAccountLedgerBadHeaderDate(t *testing.T) {
	rows := sampleRows()
	for _, r := range rows {
		r.FDD = ns("17-01-2020")
	}

	_, err := ToAccountLedger("00561289", rows, dates.LayoutRawPosting)
	require.ErrorIs(t, err, ErrDateNormalization)
}

func TestToAccountLedgerNullAmounts(t *testing.T) {
	rows := []*LedgerRow{{
		AcctNo:     "00561289",
		TRDate:     ns("20200115"),
		Particular: ns("PAYMENT"),
	}}

	al, err := ToAccountLedger("00561289", rows, dates.LayoutRawPosting)
	require.NoError(t, err)
	require.Len(t, al.Transactions, 1)
	assert.True(t, al.Transactions[0].Debit.IsZero())
	assert.True(t, al.Transactions[0].Credit.IsZero())
	assert.True(t, al.Transactions[0].Balance.IsZero())
}
