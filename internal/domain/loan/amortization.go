package loan

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultAnnualRatePercent is the fixed rate applied to every application.
var DefaultAnnualRatePercent = decimal.RequireFromString("8.5")

// MaxAmount bounds every money input. Installments for principals up to
// this value still fit the decimal(18,2) columns.
var MaxAmount = decimal.RequireFromString("9999999999999.99")

const workingPlaces = 20

var (
	monthsPerYearPct = decimal.NewFromInt(1200)
	one              = decimal.NewFromInt(1)
)

// MonthlyPayment returns the fixed installment that amortizes principal over
// termMonths at annualRatePercent, rounded half-up to cents. A zero rate
// degrades to principal / termMonths.
func MonthlyPayment(principal decimal.Decimal, termMonths int, annualRatePercent decimal.Decimal) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: principal must be greater than 0", ErrInvalidTerms)
	}
	if termMonths <= 0 {
		return decimal.Zero, fmt.Errorf("%w: term must be greater than 0", ErrInvalidTerms)
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: interest rate must not be negative", ErrInvalidTerms)
	}

	n := decimal.NewFromInt(int64(termMonths))
	r := annualRatePercent.DivRound(monthsPerYearPct, workingPlaces)
	if r.IsZero() {
		return principal.DivRound(n, workingPlaces).Round(2), nil
	}

	f := powInt(one.Add(r), termMonths)
	num := principal.Mul(r).Mul(f)
	den := f.Sub(one)
	return num.DivRound(den, workingPlaces).Round(2), nil
}

// powInt is exponentiation by squaring, rounding every product so the digit
// count stays bounded for long terms.
func powInt(base decimal.Decimal, exp int) decimal.Decimal {
	result := one
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base).Round(workingPlaces)
		}
		base = base.Mul(base).Round(workingPlaces)
		exp >>= 1
	}
	return result
}
