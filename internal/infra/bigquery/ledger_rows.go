package bigquery

import (
	"math/big"

	"cloud.google.com/go/bigquery"
)

// Warehouse coordinates for the subsidiary-ledger source tables.
const (
	projectID   = "su-scgc-prod-dw"
	datasetID   = "mis_10_source"
	sltranTable = "sltran"
	slhdrTable  = "slhdr"
)

// LedgerRow is one sltran posting joined with the account's slhdr
// amortization header. Date columns arrive as raw warehouse strings and are
// normalized by the mapper, not here.
type LedgerRow struct {
	AcctNo     string              `bigquery:"ACCT_NO"`    // REQUIRED
	TRDate     bigquery.NullString `bigquery:"TR_DATE"`    // NULLABLE, YYYYMMDD
	Particular bigquery.NullString `bigquery:"PARTICULAR"` // NULLABLE

	Debit   *big.Rat `bigquery:"DEBIT"`   // NULLABLE NUMERIC
	Credit  *big.Rat `bigquery:"CREDIT"`  // NULLABLE NUMERIC
	Rebate  *big.Rat `bigquery:"REBATE"`  // NULLABLE NUMERIC
	Penalty *big.Rat `bigquery:"PENALTY"` // NULLABLE NUMERIC
	Balance *big.Rat `bigquery:"BALANCE"` // NULLABLE NUMERIC

	MA  *big.Rat            `bigquery:"ma"`  // NULLABLE NUMERIC, amortization amount
	FDD bigquery.NullString `bigquery:"FDD"` // NULLABLE, first due date
	LDD bigquery.NullString `bigquery:"LDD"` // NULLABLE, last due date
}
