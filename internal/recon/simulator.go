// Package recon implements the per-period delinquency reconciliation: it
// walks an account's due-date calendar month by month, apportions posted
// transactions into due-date windows, recomputes running balances, derives a
// delinquency digit per period and accumulates rebate and penalty totals.
package recon

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/scgc-mis/slrecon/internal/calendar"
	"github.com/scgc-mis/slrecon/internal/dates"
	"github.com/scgc-mis/slrecon/internal/ledger"
)

// maxPeriods bounds the simulation loop. Realistic loan terms run a few
// hundred months at most; anything past this is a broken termination
// condition rather than a long loan.
const maxPeriods = 1200

// Options control one reconciliation run.
type Options struct {
	// AsOf is the date the simulation runs up to. Zero means today, but
	// callers should inject a fixed date to keep runs replayable.
	AsOf civil.Date

	// Verbose emits a per-period debug trace through Logger.
	Verbose bool
	Logger  *zerolog.Logger

	Calendar calendar.Philippines
}

// Annotation carries the values recomputed for one transaction. Transactions
// themselves stay immutable; annotations are keyed by transaction ID and
// merged into the report at the end.
type Annotation struct {
	RecomputedRebate       *decimal.Decimal
	RecomputedTotalBalance *decimal.Decimal
	DelinquencyChar        string
}

// Result is the outcome of one reconciliation run. When Reconcile returns
// ErrBrokenSchedule or ErrPeriodOverrun the Result still holds everything
// accumulated up to the abort.
type Result struct {
	Ledger            []ledger.Transaction
	Annotations       map[string]Annotation
	Terms             ledger.AccountTerms
	DelinquencyString string
	RebateTotal       decimal.Decimal
	PenaltyTotal      decimal.Decimal
	Periods           int
}

// Reconcile replays an account's amortization schedule against its posted
// transactions. It splits out the set-aside groups, runs the period
// simulation from the first due date to the as-of date, merges the set-aside
// groups back in and applies the final rebate/penalty adjustments.
func Reconcile(al ledger.AccountLedger, opts Options) (*Result, error) {
	log := zerolog.Nop()
	if opts.Verbose && opts.Logger != nil {
		log = *opts.Logger
	}

	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = civil.DateOf(time.Now())
	}

	// The history horizon is taken over the full ledger, set-asides included.
	maxTrDate := ledger.MaxDate(al.Transactions)

	working, setAside, err := ledger.Split(al.Transactions)
	if err != nil {
		return nil, fmt.Errorf("Reconcile: account %s: %w", al.AcctNo, err)
	}
	terms, err := ledger.DeriveTerms(al.AcctNo, al.Header, setAside)
	if err != nil {
		return nil, fmt.Errorf("Reconcile: %w", err)
	}

	ma := terms.AmortizationAmount
	dueDate := terms.FirstDueDate
	dueDateOld := dates.AddMonths(dueDate, -1)

	// Credits posted before the first window count as already applied.
	paymentsApplied := ledger.SumCredits(working, func(t ledger.Transaction) bool {
		return !t.Date.After(dueDateOld)
	})
	paymentDue := decimal.Zero
	currentMonthBalance := paymentDue.Sub(paymentsApplied)
	currentTotalBalance := terms.InstallmentSales.Sub(terms.DownPayment).Sub(paymentsApplied)

	pdString := ""
	step := 0
	tempDigit := 0
	rebateTotal := decimal.Zero
	penaltyTotal := decimal.Zero
	underMoratorium := false
	annotations := make(map[string]Annotation)

	var simErr error

	for asOf.After(dueDate) {
		if step >= maxPeriods {
			simErr = fmt.Errorf("Reconcile: account %s: %d periods without terminating: %w",
				al.AcctNo, step, ErrPeriodOverrun)
			break
		}
		if dates.AddMonths(dueDate, -1).After(maxTrDate) && maxTrDate.After(terms.LastDueDate) {
			simErr = fmt.Errorf("Reconcile: account %s: history ends %s, due-date cursor at %s: %w",
				al.AcctNo, maxTrDate, dueDate, ErrBrokenSchedule)
			break
		}

		step++
		// The payment obligation stops accruing one month past the last due date.
		if dueDate.Before(dates.AddMonths(terms.LastDueDate, 1)) {
			paymentDue = paymentDue.Add(ma)
		}

		window := ledger.InWindow(working, dueDateOld, dueDate)

		paymentMade := decimal.Zero
		rebatePeriod := decimal.Zero
		if pdString != "" {
			tempDigit = int(pdString[len(pdString)-1] - '0')
		}
		tempBalance := currentMonthBalance.Add(ma)

		var lastDate civil.Date
		windowHadPostings := false

		for _, trDate := range ledger.DistinctDates(window) {
			day := ledger.OnDate(window, trDate)
			totalCredit := ledger.SumCredits(day, nil)
			totalRebate := ledger.SumRebates(day)
			actualPaid := totalCredit.Sub(totalRebate)

			if tempDigit == 0 || tempBalance.Equal(ma) {
				tempBalance = tempBalance.Sub(ledger.ServiceDeduction)
			}
			tempBalance = tempBalance.Sub(totalCredit)

			log.Debug().
				Str("tr_date", trDate.String()).
				Int("temp_digit", tempDigit).
				Str("temp_balance", tempBalance.String()).
				Msg("day postings")

			rebate := decimal.Zero
			if tempBalance.LessThanOrEqual(ledger.ServiceDeduction) {
				rebate = ComputeRebate(ma, totalCredit, tempDigit)
				setRecomputedRebate(annotations, day, rebate)
			}
			if underMoratorium {
				rebate = moratoriumRebate(ma, actualPaid)
				log.Debug().Str("rebate", rebate.String()).Msg("moratorium rebate override")
			}

			paymentMade = paymentMade.Add(actualPaid).Add(rebate)
			rebatePeriod = rebatePeriod.Add(rebate)
			rebateTotal = rebateTotal.Add(rebate)

			tempDigit = int(tempBalance.Div(ma).Ceil().IntPart()) - 1

			currentTotalBalance = currentTotalBalance.Sub(actualPaid).Sub(rebate)
			setRecomputedTotalBalance(annotations, day, currentTotalBalance)

			lastDate = trDate
			windowHadPostings = true
		}

		paymentsApplied = paymentsApplied.Add(paymentMade)
		currentMonthBalance = paymentDue.Sub(paymentsApplied)

		pdChar := "0"
		if !currentMonthBalance.IsNegative() {
			pdChar = strconv.Itoa(int(currentMonthBalance.Div(ma).Ceil().IntPart()))
		}
		if windowHadPostings {
			setDelinquencyChar(annotations, ledger.OnDate(window, lastDate), pdChar)
		}
		pdString += pdChar

		log.Debug().
			Str("due_date", dueDate.String()).
			Int("window_postings", len(window)).
			Str("payment_due", paymentDue.String()).
			Str("rebate", rebatePeriod.String()).
			Str("total_paid", paymentsApplied.String()).
			Str("balance", currentMonthBalance.String()).
			Str("pd_string", pdString).
			Msg("period closed")

		dueDateOld = dueDate
		dueDate = dates.AddMonths(terms.FirstDueDate, step)
		if opts.Calendar.IsNonBusinessDay(dueDate) {
			dueDate, err = opts.Calendar.NextBusinessDay(dueDate)
			if err != nil {
				return nil, fmt.Errorf("Reconcile: account %s: %w", al.AcctNo, err)
			}
		}
		underMoratorium = UnderMoratorium(dueDate)
	}

	// Reassemble the full ledger and finalize totals over the merged set.
	merged := make([]ledger.Transaction, 0, len(al.Transactions))
	merged = append(merged, working...)
	merged = append(merged, setAside.All()...)

	penaltyPosted := ledger.SumDebits(merged, func(t ledger.Transaction) bool {
		return t.Particular == ledger.ParticularPenalty
	})
	penaltyTotal = penaltyTotal.Sub(penaltyPosted.Sub(ledger.SumCredits(setAside.RevEarned, nil)))
	rebateTotal = rebateTotal.Sub(ledger.SumCredits(setAside.UnrecognizedRebates, nil).Add(ledger.SumRebates(merged)))

	result := &Result{
		Ledger:            merged,
		Annotations:       annotations,
		Terms:             terms,
		DelinquencyString: pdString,
		RebateTotal:       rebateTotal,
		PenaltyTotal:      penaltyTotal,
		Periods:           step,
	}
	if simErr != nil {
		return result, simErr
	}
	return result, nil
}

func setRecomputedRebate(ann map[string]Annotation, day []ledger.Transaction, rebate decimal.Decimal) {
	for _, t := range day {
		a := ann[t.ID]
		v := rebate
		a.RecomputedRebate = &v
		ann[t.ID] = a
	}
}

func setRecomputedTotalBalance(ann map[string]Annotation, day []ledger.Transaction, balance decimal.Decimal) {
	for _, t := range day {
		a := ann[t.ID]
		v := balance
		a.RecomputedTotalBalance = &v
		ann[t.ID] = a
	}
}

func setDelinquencyChar(ann map[string]Annotation, day []ledger.Transaction, char string) {
	for _, t := range day {
		a := ann[t.ID]
		a.DelinquencyChar = char
		ann[t.ID] = a
	}
}
