package ledger

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ServiceDeduction is the fixed 200-peso deduction applied by the servicing
// system. It doubles as the rebate unit and the rebate base offset
// (MA - 200); the two uses are inherited business logic and are deliberately
// not configurable.
var ServiceDeduction = decimal.NewFromInt(200)

// ErrDegenerateTerms reports contractual terms the rebate rule cannot handle:
// an amortization amount equal to the 200-peso service deduction would divide
// by zero in the rebate base.
var ErrDegenerateTerms = errors.New("ledger: degenerate contractual terms")

// AccountTerms are the contractual amortization terms for one account,
// derived once from the ledger header and set-aside entries before the
// simulation starts.
type AccountTerms struct {
	AcctNo             string
	AmortizationAmount decimal.Decimal
	FirstDueDate       civil.Date
	LastDueDate        civil.Date
	InstallmentSales   decimal.Decimal
	DownPayment        decimal.Decimal
}

// DeriveTerms builds the account terms from the amortization header and the
// set-aside groups.
func DeriveTerms(acctNo string, h Header, sa SetAside) (AccountTerms, error) {
	if h.FirstDueDate.IsZero() || h.LastDueDate.IsZero() {
		return AccountTerms{}, fmt.Errorf("DeriveTerms: account %s: missing due dates in header: %w",
			acctNo, ErrMalformedLedger)
	}
	if !h.AmortizationAmount.IsPositive() {
		return AccountTerms{}, fmt.Errorf("DeriveTerms: account %s: non-positive amortization amount %s: %w",
			acctNo, h.AmortizationAmount, ErrDegenerateTerms)
	}
	if h.AmortizationAmount.Equal(ServiceDeduction) {
		return AccountTerms{}, fmt.Errorf("DeriveTerms: account %s: amortization amount equals service deduction: %w",
			acctNo, ErrDegenerateTerms)
	}
	return AccountTerms{
		AcctNo:             acctNo,
		AmortizationAmount: h.AmortizationAmount,
		FirstDueDate:       h.FirstDueDate,
		LastDueDate:        h.LastDueDate,
		InstallmentSales:   sa.InstallmentSalesAmount(),
		DownPayment:        sa.DownPaymentAmount(),
	}, nil
}
