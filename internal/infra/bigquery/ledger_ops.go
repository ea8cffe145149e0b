package bigquery

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// ErrLedgerUnavailable reports that an account's ledger could not be
// retrieved: the account number is unknown to the warehouse or the warehouse
// is unreachable.
var ErrLedgerUnavailable = errors.New("bigquery: ledger unavailable")

// FetchAccountRows queries the sltran/slhdr join for one account.
func FetchAccountRows(ctx context.Context, acctNo string) ([]*LedgerRow, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("FetchAccountRows: bigquery client: %w", err)
	}
	defer client.Close()

	return FetchAccountRowsWithClient(ctx, client, acctNo)
}

// FetchAccountRowsWithClient queries the sltran/slhdr join for one account
// using the provided BigQuery client. Rows come back ordered by transaction
// date ascending. An account with no postings is reported as
// ErrLedgerUnavailable.
func FetchAccountRowsWithClient(ctx context.Context, client *bigquery.Client, acctNo string) ([]*LedgerRow, error) {
	q := client.Query(`
		SELECT
		  DISTINCT
		  sltran.ACCT_NO,
		  sltran.TR_DATE,
		  sltran.PARTICULAR,
		  sltran.DEBIT,
		  sltran.CREDIT,
		  sltran.REBATE,
		  sltran.PENALTY,
		  sltran.BALANCE,
		  slhdr.AMORT ma,
		  slhdr.FDD,
		  slhdr.LDD
		FROM ` + "`" + projectID + "." + datasetID + "." + sltranTable + "`" + ` sltran
		LEFT JOIN ` + datasetID + "." + slhdrTable + ` slhdr
		  ON sltran.ACCT_NO = slhdr.ACCT_NO
		WHERE
		  sltran.ACCT_NO = @acct_no
		ORDER BY
		  sltran.TR_DATE ASC
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "acct_no", Value: acctNo},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FetchAccountRows: account %s: query read: %v: %w", acctNo, err, ErrLedgerUnavailable)
	}

	var rows []*LedgerRow
	for {
		var r LedgerRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("FetchAccountRows: account %s: iter next: %v: %w", acctNo, err, ErrLedgerUnavailable)
		}
		rows = append(rows, &r)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("FetchAccountRows: account %s: no postings: %w", acctNo, ErrLedgerUnavailable)
	}
	return rows, nil
}
