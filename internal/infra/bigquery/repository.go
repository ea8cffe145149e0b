package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/scgc-mis/slrecon/internal/ledger"
)

// LedgerRepository retrieves account ledgers from the warehouse. It holds a
// shared BigQuery client to avoid creating a new connection per account.
type LedgerRepository struct {
	client     *bigquery.Client
	dateLayout string
}

// NewLedgerRepository creates a repository with a shared BigQuery client.
// dateLayout is the layout of the warehouse date columns, normally
// dates.LayoutRawPosting.
func NewLedgerRepository(ctx context.Context, dateLayout string) (*LedgerRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewLedgerRepository: creating client: %w", err)
	}
	return &LedgerRepository{client: client, dateLayout: dateLayout}, nil
}

// Close closes the BigQuery client connection.
func (r *LedgerRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// FetchAccount retrieves and normalizes the full ledger for one account.
func (r *LedgerRepository) FetchAccount(ctx context.Context, acctNo string) (ledger.AccountLedger, error) {
	rows, err := FetchAccountRowsWithClient(ctx, r.client, acctNo)
	if err != nil {
		return ledger.AccountLedger{}, err
	}
	return ToAccountLedger(acctNo, rows, r.dateLayout)
}
