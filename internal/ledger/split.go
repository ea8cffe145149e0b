package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedLedger reports an account history that cannot be reconciled at
// all, such as a missing installment-sales entry. The account should be
// skipped and flagged, not abort a batch.
var ErrMalformedLedger = errors.New("ledger: malformed account ledger")

// SetAside holds the four transaction groups that are extracted before the
// period simulation and merged back in afterwards.
type SetAside struct {
	InstallmentSales    []Transaction
	DownPayment         []Transaction
	UnrecognizedRebates []Transaction
	RevEarned           []Transaction
}

// Split partitions an account's transactions into the working set fed to the
// period simulator and the set-aside groups. The installment-sales entry is
// required; a down payment is optional.
func Split(txs []Transaction) (working []Transaction, sa SetAside, err error) {
	hasInstallment := false
	for _, t := range txs {
		switch {
		case strings.Contains(t.Particular, ParticularInstallmentSales):
			if t.Particular == ParticularInstallmentSales {
				hasInstallment = true
			}
			sa.InstallmentSales = append(sa.InstallmentSales, t)
		case strings.Contains(t.Particular, ParticularUnrecognizedRebate):
			sa.UnrecognizedRebates = append(sa.UnrecognizedRebates, t)
		case strings.Contains(t.Particular, ParticularRevEarned):
			sa.RevEarned = append(sa.RevEarned, t)
		case strings.Contains(t.Particular, ParticularDownPayment):
			sa.DownPayment = append(sa.DownPayment, t)
		default:
			working = append(working, t)
		}
	}
	if !hasInstallment {
		return nil, SetAside{}, fmt.Errorf("Split: no installment-sales entry: %w", ErrMalformedLedger)
	}
	return working, sa, nil
}

// InstallmentSalesAmount is the debit on the installment-sales entry, the
// seed for the recomputed total balance.
func (sa SetAside) InstallmentSalesAmount() decimal.Decimal {
	for _, t := range sa.InstallmentSales {
		if t.Particular == ParticularInstallmentSales {
			return t.Debit
		}
	}
	return decimal.Zero
}

// DownPaymentAmount is the credit on the down-payment entry, zero when the
// account has none.
func (sa SetAside) DownPaymentAmount() decimal.Decimal {
	for _, t := range sa.DownPayment {
		if t.Particular == ParticularDownPayment {
			return t.Credit
		}
	}
	return decimal.Zero
}

// All returns every set-aside transaction, in group order.
func (sa SetAside) All() []Transaction {
	out := make([]Transaction, 0,
		len(sa.InstallmentSales)+len(sa.RevEarned)+len(sa.UnrecognizedRebates)+len(sa.DownPayment))
	out = append(out, sa.InstallmentSales...)
	out = append(out, sa.RevEarned...)
	out = append(out, sa.UnrecognizedRebates...)
	out = append(out, sa.DownPayment...)
	return out
}
