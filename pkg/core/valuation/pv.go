// Package valuation implements the four interchangeable IP valuation methods
// and the time-value-of-money math they share. Every method is a pure function
// of (attributed revenue series, assumption set, method parameters); inputs
// are never mutated.
package valuation

import "math"

// PresentValue calculates PV of a single cash flow.
//
// FORMULA: PV = CF / (1 + r)^t
func PresentValue(cashFlow, discountRate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+discountRate, float64(periods))
}

// PresentValueOfCashFlows calculates PV of a series of cash flows.
//
// FORMULA: PV = Σ [ CF_t / (1 + r)^t ]
//
// Cash flows are assumed to occur at the end of each period.
func PresentValueOfCashFlows(cashFlows []float64, discountRate float64) float64 {
	var pv float64
	for t, cf := range cashFlows {
		pv += cf / math.Pow(1+discountRate, float64(t+1))
	}
	return pv
}

// TerminalValueGordonGrowth capitalizes a next-period cash flow as a growing
// perpetuity.
//
// FORMULA: TV = CF_{n+1} / (r - g), defined only for r > g
func TerminalValueGordonGrowth(nextPeriodCF, discountRate, growthRate float64) float64 {
	if discountRate <= growthRate {
		return 0
	}
	return nextPeriodCF / (discountRate - growthRate)
}
