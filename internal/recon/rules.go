package recon

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/scgc-mis/slrecon/internal/ledger"
)

// DefaultPenaltyRate is the monthly penalty rate applied to out-of-cycle
// payments.
var DefaultPenaltyRate = decimal.NewFromFloat(0.05)

var thirty = decimal.NewFromInt(30)

// Bayanihan Act payment-relief window. Due dates strictly inside it use the
// moratorium rebate formula instead of the standard rule.
var (
	bayanihanStart = civil.Date{Year: 2020, Month: time.April, Day: 17}
	bayanihanEnd   = civil.Date{Year: 2020, Month: time.July, Day: 17}
)

// UnderMoratorium reports whether a due date falls strictly inside the
// Bayanihan relief window.
func UnderMoratorium(dueDate civil.Date) bool {
	return bayanihanStart.Before(dueDate) && dueDate.Before(bayanihanEnd)
}

// ComputeRebate applies the standard rebate rule for one transaction date:
// floor(totalPaid / (MA - 200) - tempDigit) * 200 when a payment was made,
// otherwise the default 200-peso rebate.
func ComputeRebate(ma, totalPaid decimal.Decimal, tempDigit int) decimal.Decimal {
	if !totalPaid.IsPositive() {
		return ledger.ServiceDeduction
	}
	return totalPaid.
		Div(ma.Sub(ledger.ServiceDeduction)).
		Sub(decimal.NewFromInt(int64(tempDigit))).
		Floor().
		Mul(ledger.ServiceDeduction)
}

// moratoriumRebate is the Bayanihan override: floor(actualPaid / (MA - 200)) * 200.
func moratoriumRebate(ma, actualPaid decimal.Decimal) decimal.Decimal {
	return actualPaid.
		Div(ma.Sub(ledger.ServiceDeduction)).
		Floor().
		Mul(ledger.ServiceDeduction)
}

// ComputePenalty computes the out-of-cycle payment penalty:
// ceil(MA * rate * daysLate / 30), with daysLate the whole-day difference
// between the payment date and the applicable last due date. Pure and
// independent of the period loop.
func ComputePenalty(paymentDate, lastDueDate civil.Date, ma, rate decimal.Decimal) decimal.Decimal {
	daysLate := decimal.NewFromInt(int64(paymentDate.DaysSince(lastDueDate)))
	return ma.Mul(rate).Mul(daysLate).Div(thirty).Ceil()
}
