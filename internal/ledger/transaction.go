package ledger

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Particular labels with special handling during reconciliation. These are
// the exact strings posted by the loan-servicing system.
const (
	ParticularInstallmentSales   = "INSTALLMENT SALES"
	ParticularDownPayment        = "DOWN PAYMENT"
	ParticularUnrecognizedRebate = "UNRECOGNIZED REBATE"
	ParticularRevEarned          = "REV OF EARNED S"
	ParticularPenalty            = "PENALTY"
)

// Transaction is one posted subsidiary-ledger entry for a loan account.
// Transactions are read-only inputs to the simulator; recomputed values are
// emitted separately, keyed by ID.
type Transaction struct {
	ID         string
	AcctNo     string
	Date       civil.Date
	RawDate    string // original warehouse value, kept when normalization fails
	Particular string
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Rebate     decimal.Decimal
	Penalty    decimal.Decimal
	Balance    decimal.Decimal // balance as originally posted
}

// Header carries the amortization schedule fields joined from the slhdr table.
type Header struct {
	AmortizationAmount decimal.Decimal // MA
	FirstDueDate       civil.Date      // FDD
	LastDueDate        civil.Date      // LDD
}

// AccountLedger is the full ordered transaction history for one account plus
// its amortization header.
type AccountLedger struct {
	AcctNo       string
	Header       Header
	Transactions []Transaction
}

// AssignIDs gives every transaction without an identity a fresh UUID.
// The simulator keys its per-transaction annotations on these IDs.
func AssignIDs(txs []Transaction) {
	for i := range txs {
		if txs[i].ID == "" {
			txs[i].ID = uuid.NewString()
		}
	}
}

// SortByDate orders transactions by posting date ascending, preserving the
// relative order of same-day postings.
func SortByDate(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
}

// MaxDate returns the latest posting date in the set, or the zero date for an
// empty set.
func MaxDate(txs []Transaction) civil.Date {
	var max civil.Date
	for _, t := range txs {
		if t.Date.After(max) {
			max = t.Date
		}
	}
	return max
}

// SumCredits totals the credit field over all transactions matching the
// filter. A nil filter matches everything.
func SumCredits(txs []Transaction, match func(Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if match == nil || match(t) {
			total = total.Add(t.Credit)
		}
	}
	return total
}

// SumDebits totals the debit field over all transactions matching the filter.
func SumDebits(txs []Transaction, match func(Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if match == nil || match(t) {
			total = total.Add(t.Debit)
		}
	}
	return total
}

// SumRebates totals the posted rebate field over all transactions.
func SumRebates(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		total = total.Add(t.Rebate)
	}
	return total
}

// DistinctDates returns the sorted distinct posting dates in the set.
func DistinctDates(txs []Transaction) []civil.Date {
	seen := make(map[civil.Date]bool, len(txs))
	var out []civil.Date
	for _, t := range txs {
		if !seen[t.Date] {
			seen[t.Date] = true
			out = append(out, t.Date)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// OnDate returns the transactions posted on the given date.
func OnDate(txs []Transaction, d civil.Date) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if t.Date == d {
			out = append(out, t)
		}
	}
	return out
}

// InWindow returns the transactions with from < date <= to, the due-date
// window used by the period simulator.
func InWindow(txs []Transaction, from, to civil.Date) []Transaction {
	var out []Transaction
	for _, t := range txs {
		if t.Date.After(from) && !t.Date.After(to) {
			out = append(out, t)
		}
	}
	return out
}
