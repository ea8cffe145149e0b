// Package report renders reconciliation results for back-office review and
// archives them to Cloud Storage.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/scgc-mis/slrecon/internal/recon"
)

// WriteCSV writes the reconciled ledger with its recomputed columns, followed
// by the run summary, in the layout reviewers work with.
func WriteCSV(w io.Writer, res *recon.Result) error {
	cw := csv.NewWriter(w)

	header := []string{
		"TR_DATE", "PARTICULAR", "DEBIT", "CREDIT", "REBATE", "PENALTY", "BALANCE",
		"RECOMPUTED_REBATE", "RECOMPUTED_TOTAL_BALANCE", "PD_CHAR",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("WriteCSV: header: %w", err)
	}

	for _, t := range res.Ledger {
		date := t.Date.String()
		if t.Date.IsZero() {
			date = t.RawDate
		}
		ann := res.Annotations[t.ID]
		recomputedRebate := ""
		if ann.RecomputedRebate != nil {
			recomputedRebate = ann.RecomputedRebate.String()
		}
		recomputedBalance := ""
		if ann.RecomputedTotalBalance != nil {
			recomputedBalance = ann.RecomputedTotalBalance.String()
		}
		row := []string{
			date, t.Particular,
			t.Debit.String(), t.Credit.String(), t.Rebate.String(),
			t.Penalty.String(), t.Balance.String(),
			recomputedRebate, recomputedBalance, ann.DelinquencyChar,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("WriteCSV: row: %w", err)
		}
	}

	summary := [][]string{
		{"PD_STRING", res.DelinquencyString},
		{"REBATE_TOTAL", res.RebateTotal.String()},
		{"PENALTY_TOTAL", res.PenaltyTotal.String()},
		{"PERIODS", fmt.Sprintf("%d", res.Periods)},
	}
	for _, row := range summary {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("WriteCSV: summary: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// BuildCSV renders the report into a byte slice.
func BuildCSV(res *recon.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, res); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ObjectName is the canonical archive path for one account's report.
func ObjectName(acctNo, asOf string) string {
	return fmt.Sprintf("reconciliation/%s/%s.csv", asOf, acctNo)
}
