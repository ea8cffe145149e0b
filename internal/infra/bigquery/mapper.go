package bigquery

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/scgc-mis/slrecon/internal/dates"
	"github.com/scgc-mis/slrecon/internal/ledger"
)

// ErrDateNormalization reports that a date column of the account's feed could
// not be normalized. The ledger is still returned with the original string
// values preserved, but the account must be flagged instead of reconciled.
var ErrDateNormalization = errors.New("bigquery: date normalization failed")

// ToAccountLedger converts warehouse rows into the domain ledger. Date
// columns are normalized with the given layout; if the transaction-date
// column cannot be normalized the original values are kept in RawDate and the
// ledger is returned together with ErrDateNormalization.
func ToAccountLedger(acctNo string, rows []*LedgerRow, dateLayout string) (ledger.AccountLedger, error) {
	al := ledger.AccountLedger{AcctNo: acctNo}

	trDates := make([]string, len(rows))
	for i, r := range rows {
		trDates[i] = r.TRDate.StringVal
	}
	parsed, normErr := dates.NormalizeColumn(trDates, dateLayout)

	al.Transactions = make([]ledger.Transaction, 0, len(rows))
	for i, r := range rows {
		t := ledger.Transaction{
			AcctNo:     r.AcctNo,
			RawDate:    r.TRDate.StringVal,
			Particular: r.Particular.StringVal,
			Debit:      ratToDecimal(r.Debit),
			Credit:     ratToDecimal(r.Credit),
			Rebate:     ratToDecimal(r.Rebate),
			Penalty:    ratToDecimal(r.Penalty),
			Balance:    ratToDecimal(r.Balance),
		}
		if normErr == nil {
			t.Date = parsed[i]
		}
		al.Transactions = append(al.Transactions, t)
	}
	ledger.AssignIDs(al.Transactions)
	ledger.SortByDate(al.Transactions)

	if h, err := headerFromRows(rows, dateLayout); err != nil {
		// Header date failures are flagged the same way as posting dates.
		normErr = err
	} else {
		al.Header = h
	}

	if normErr != nil {
		return al, fmt.Errorf("ToAccountLedger: account %s: %v: %w", acctNo, normErr, ErrDateNormalization)
	}
	return al, nil
}

// headerFromRows takes the first non-null header values from the joined rows,
// mirroring the warehouse join where every sltran row repeats the slhdr
// columns.
func headerFromRows(rows []*LedgerRow, dateLayout string) (ledger.Header, error) {
	var h ledger.Header
	var fddRaw, lddRaw string
	for _, r := range rows {
		if h.AmortizationAmount.IsZero() && r.MA != nil {
			h.AmortizationAmount = ratToDecimal(r.MA)
		}
		if fddRaw == "" && r.FDD.Valid {
			fddRaw = r.FDD.StringVal
		}
		if lddRaw == "" && r.LDD.Valid {
			lddRaw = r.LDD.StringVal
		}
	}

	var err error
	if fddRaw != "" {
		if h.FirstDueDate, err = dates.ParseDate(fddRaw, dateLayout); err != nil {
			return ledger.Header{}, fmt.Errorf("headerFromRows: FDD: %w", err)
		}
	}
	if lddRaw != "" {
		if h.LastDueDate, err = dates.ParseDate(lddRaw, dateLayout); err != nil {
			return ledger.Header{}, fmt.Errorf("headerFromRows: LDD: %w", err)
		}
	}
	return h, nil
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, 2)
}
