// Package amortize computes simple-interest loan terms.
package amortize

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// ErrNonPositiveTerms is returned when principal, period, or rate is zero or negative.
var ErrNonPositiveTerms = errors.New("principal, period and rate must all be positive")

// Terms holds the figures fixed at loan origination.
type Terms struct {
	TotalInterest decimal.Decimal
	TotalAmount   decimal.Decimal
	MonthlyEMI    decimal.Decimal
}

// Compute derives loan terms using simple interest, not compound:
// interest = principal * years * rate/100, EMI = (principal + interest) / months.
// No rounding is applied; display rounding is the caller's concern.
func Compute(principal, periodYears, annualRatePercent decimal.Decimal) (Terms, error) {
	if !principal.IsPositive() || !periodYears.IsPositive() || !annualRatePercent.IsPositive() {
		return Terms{}, ErrNonPositiveTerms
	}

	totalInterest := principal.Mul(periodYears).Mul(annualRatePercent.Div(hundred))
	totalAmount := principal.Add(totalInterest)
	monthlyEMI := totalAmount.Div(periodYears.Mul(monthsPerYear))

	return Terms{
		TotalInterest: totalInterest,
		TotalAmount:   totalAmount,
		MonthlyEMI:    monthlyEMI,
	}, nil
}

// InstallmentsLeft returns ceil(balance / emi), floored at 0 once the balance
// is fully paid down.
func InstallmentsLeft(balance, emi decimal.Decimal) int64 {
	if balance.LessThanOrEqual(decimal.Zero) || !emi.IsPositive() {
		return 0
	}
	return balance.Div(emi).Ceil().IntPart()
}
