// Package mortgage computes monthly mortgage payments.
package mortgage

import "math"

// DefaultTermYears is used when a mortgage term is not specified.
const DefaultTermYears = 25

// MonthlyPayment returns the monthly payment on a loan. Interest-only loans
// pay the monthly interest; repayment loans follow the standard annuity
// formula. A zero rate on a repayment loan falls back to straight-line
// amortization rather than dividing by zero.
func MonthlyPayment(loanAmount, annualRatePct float64, interestOnly bool, termYears int) float64 {
	if loanAmount <= 0 {
		return 0
	}
	if termYears <= 0 {
		termYears = DefaultTermYears
	}

	if interestOnly {
		return loanAmount * (annualRatePct / 100) / 12
	}

	n := float64(termYears * 12)
	if annualRatePct == 0 {
		return loanAmount / n
	}

	r := annualRatePct / 100 / 12
	return loanAmount * (r / (1 - math.Pow(1+r, -n)))
}
