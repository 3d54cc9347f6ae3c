package valuation

import (
	"fmt"
	"math"

	"ip_valuation/pkg/core/assumption"
)

// Method identifies a valuation methodology.
type Method string

const (
	MethodReliefFromRoyalty Method = "relief_from_royalty"
	MethodExcessEarnings    Method = "excess_earnings"
	MethodTechnologyFactor  Method = "technology_factor"
	MethodIncrementalIncome Method = "incremental_income"
)

// YearDetail records one explicit-period row for audit display.
type YearDetail struct {
	Year           int     `json:"year"`
	Revenue        float64 `json:"revenue"`
	CashFlow       float64 `json:"cash_flow"`
	DiscountFactor float64 `json:"discount_factor"`
	PresentValue   float64 `json:"present_value"`
	DecayFactor    float64 `json:"decay_factor,omitempty"`
}

// Result is the outcome of valuing one attributed revenue series.
// TotalValue is always PVExplicit + PVTerminal.
type Result struct {
	Method     Method         `json:"method"`
	PVExplicit float64        `json:"pv_explicit_period"`
	PVTerminal float64        `json:"pv_terminal_value"`
	TotalValue float64        `json:"total_value"`
	Yearly     []YearDetail   `json:"yearly_details"`
	Set        assumption.Set `json:"assumptions"`
}

// =============================================================================
// SHARED VALIDATION
// =============================================================================

func validateSeries(revenues []float64, set assumption.Set) error {
	if len(revenues) == 0 {
		return ErrEmptySeries
	}
	if set.WACC <= set.TerminalGrowth {
		return fmt.Errorf("wacc %.4f <= terminal growth %.4f: %w", set.WACC, set.TerminalGrowth, ErrInvalidAssumptions)
	}
	for _, r := range []struct {
		name string
		v    float64
	}{
		{"wacc", set.WACC},
		{"tax_rate", set.TaxRate},
		{"terminal_growth", set.TerminalGrowth},
	} {
		if r.v < 0 || r.v > 1 {
			return fmt.Errorf("%s %.4f outside [0,1]: %w", r.name, r.v, ErrInvalidAssumptions)
		}
	}
	return nil
}

func validateRate(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s %.4f outside [0,1]: %w", name, v, ErrParameterOutOfRange)
	}
	return nil
}

// discountedSeries runs the shared explicit-period/terminal-value
// decomposition: cashFlow maps a period's attributed revenue to that period's
// after-tax cash flow, and the terminal cash flow reapplies it to the final
// revenue grown one period.
func discountedSeries(method Method, revenues []float64, set assumption.Set, cashFlow func(revenue float64) float64) Result {
	res := Result{Method: method, Set: set}

	for i, revenue := range revenues {
		year := i + 1
		cf := cashFlow(revenue)
		factor := math.Pow(1+set.WACC, float64(year))
		pv := cf / factor

		res.PVExplicit += pv
		res.Yearly = append(res.Yearly, YearDetail{
			Year:           year,
			Revenue:        revenue,
			CashFlow:       cf,
			DiscountFactor: factor,
			PresentValue:   pv,
		})
	}

	terminalRevenue := revenues[len(revenues)-1] * (1 + set.TerminalGrowth)
	terminalValue := TerminalValueGordonGrowth(cashFlow(terminalRevenue), set.WACC, set.TerminalGrowth)
	res.PVTerminal = PresentValue(terminalValue, set.WACC, len(revenues))
	res.TotalValue = res.PVExplicit + res.PVTerminal
	return res
}

// =============================================================================
// RELIEF FROM ROYALTY
// =============================================================================

// ReliefFromRoyalty values an asset by the after-tax royalty payments its
// owner is relieved from paying.
//
// FORMULA: CF_t = revenue_t × royalty × (1 − tax)
func ReliefFromRoyalty(revenues []float64, royaltyRate float64, set assumption.Set) (Result, error) {
	if err := validateSeries(revenues, set); err != nil {
		return Result{}, err
	}
	if err := validateRate("royalty_rate", royaltyRate); err != nil {
		return Result{}, err
	}

	return discountedSeries(MethodReliefFromRoyalty, revenues, set, func(revenue float64) float64 {
		return revenue * royaltyRate * (1 - set.TaxRate)
	}), nil
}

// =============================================================================
// MULTI-PERIOD EXCESS EARNINGS
// =============================================================================

// ExcessEarningsParams configures the multi-period excess earnings method.
type ExcessEarningsParams struct {
	// OperatingMargin converts attributed revenue into operating income.
	OperatingMargin float64 `json:"operating_margin"`

	// ContributoryReturns maps contributory asset categories (working capital,
	// fixed assets, other intangibles) to their required rates of return.
	ContributoryReturns map[string]float64 `json:"contributory_returns"`

	// ProxyAssetFraction sizes each category's asset value as a fraction of
	// revenue. This proxy is a simplifying approximation, not a balance-sheet
	// allocation.
	ProxyAssetFraction float64 `json:"proxy_asset_fraction"`

	// IPContribution is the share of excess earnings ascribed to the asset.
	IPContribution float64 `json:"ip_contribution"`
}

// MultiPeriodExcessEarnings values an asset by the cash flows remaining after
// charging required returns on the other assets that contribute to earnings.
//
// FORMULA: CF_t = (revenue_t × margin − Σ proxy_value_t × r_category)
//                  × ip_contribution × (1 − tax)
func MultiPeriodExcessEarnings(revenues []float64, params ExcessEarningsParams, set assumption.Set) (Result, error) {
	if err := validateSeries(revenues, set); err != nil {
		return Result{}, err
	}
	if err := validateRate("operating_margin", params.OperatingMargin); err != nil {
		return Result{}, err
	}
	if err := validateRate("ip_contribution", params.IPContribution); err != nil {
		return Result{}, err
	}
	if err := validateRate("proxy_asset_fraction", params.ProxyAssetFraction); err != nil {
		return Result{}, err
	}
	for name, rate := range params.ContributoryReturns {
		if err := validateRate("contributory_return."+name, rate); err != nil {
			return Result{}, err
		}
	}

	return discountedSeries(MethodExcessEarnings, revenues, set, func(revenue float64) float64 {
		operatingIncome := revenue * params.OperatingMargin

		var charges float64
		proxyValue := revenue * params.ProxyAssetFraction
		for _, requiredReturn := range params.ContributoryReturns {
			charges += proxyValue * requiredReturn
		}

		excess := operatingIncome - charges
		return excess * params.IPContribution * (1 - set.TaxRate)
	}), nil
}

// =============================================================================
// TECHNOLOGY FACTOR
// =============================================================================

// TechnologyFactorParams configures the quality-adjusted royalty method.
type TechnologyFactorParams struct {
	BaseRoyaltyRate float64 `json:"base_royalty_rate"`
	InnovationScore float64 `json:"innovation_score"`
	CommercialScore float64 `json:"commercial_score"`
	LegalStrength   float64 `json:"legal_strength_score"`
	RemainingLife   int     `json:"remaining_life_years"`
	TotalLife       int     `json:"total_patent_life"` // statutory life, usually 20
}

// Technology-factor quality weights.
const (
	weightInnovation = 0.30
	weightCommercial = 0.35
	weightLegal      = 0.25
	weightLife       = 0.10

	// decayFloor is the minimum share of full value an aging asset retains.
	decayFloor = 0.30
)

// TechnologyFactor computes the composite quality score in [0, 1].
//
// FORMULA: factor = 0.30×innovation + 0.35×commercial + 0.25×legal
//                   + 0.10×(remaining_life / total_life)
func TechnologyFactor(p TechnologyFactorParams) float64 {
	lifeFraction := float64(p.RemainingLife) / float64(p.TotalLife)
	return p.InnovationScore*weightInnovation +
		p.CommercialScore*weightCommercial +
		p.LegalStrength*weightLegal +
		lifeFraction*weightLife
}

// TechnologyFactorRoyalty values a patent with a royalty rate adjusted upward
// by quality and decayed as the patent approaches expiry. The projection is
// capped at remaining life and no perpetuity is added: an expiring right has
// no terminal value.
//
// FORMULA: adjusted_royalty = base × (1 + factor)
//
//	decay_t = max(1 − t / (remaining_life × 1.5), 0.30)
//	CF_t = revenue_t × adjusted_royalty × (1 − tax) × decay_t
func TechnologyFactorRoyalty(revenues []float64, params TechnologyFactorParams, set assumption.Set) (Result, error) {
	if err := validateSeries(revenues, set); err != nil {
		return Result{}, err
	}
	for _, r := range []struct {
		name string
		v    float64
	}{
		{"base_royalty_rate", params.BaseRoyaltyRate},
		{"innovation_score", params.InnovationScore},
		{"commercial_score", params.CommercialScore},
		{"legal_strength_score", params.LegalStrength},
	} {
		if err := validateRate(r.name, r.v); err != nil {
			return Result{}, err
		}
	}
	if params.RemainingLife <= 0 || params.TotalLife <= 0 || params.RemainingLife > params.TotalLife {
		return Result{}, fmt.Errorf("remaining life %d / total life %d: %w",
			params.RemainingLife, params.TotalLife, ErrParameterOutOfRange)
	}

	adjustedRoyalty := params.BaseRoyaltyRate * (1 + TechnologyFactor(params))

	projectionYears := len(revenues)
	if params.RemainingLife < projectionYears {
		projectionYears = params.RemainingLife
	}

	res := Result{Method: MethodTechnologyFactor, Set: set}
	for year := 1; year <= projectionYears; year++ {
		revenue := revenues[year-1]

		decay := 1 - float64(year)/(float64(params.RemainingLife)*1.5)
		if decay < decayFloor {
			decay = decayFloor
		}

		cf := revenue * adjustedRoyalty * (1 - set.TaxRate) * decay
		factor := math.Pow(1+set.WACC, float64(year))
		pv := cf / factor

		res.PVExplicit += pv
		res.Yearly = append(res.Yearly, YearDetail{
			Year:           year,
			Revenue:        revenue,
			CashFlow:       cf,
			DiscountFactor: factor,
			PresentValue:   pv,
			DecayFactor:    decay,
		})
	}
	res.TotalValue = res.PVExplicit
	return res, nil
}

// =============================================================================
// INCREMENTAL INCOME (WITH AND WITHOUT)
// =============================================================================

// IncrementalIncomeParams configures the with-and-without method.
type IncrementalIncomeParams struct {
	// ErosionFraction is the estimated share of segment revenue that would be
	// lost if the company did not own the asset.
	ErosionFraction float64 `json:"erosion_fraction"`
	OperatingMargin float64 `json:"operating_margin"`
}

// IncrementalIncome values an asset by the after-tax operating income the
// company would forgo without it.
//
// FORMULA: CF_t = revenue_t × erosion × margin × (1 − tax)
func IncrementalIncome(revenues []float64, params IncrementalIncomeParams, set assumption.Set) (Result, error) {
	if err := validateSeries(revenues, set); err != nil {
		return Result{}, err
	}
	if err := validateRate("erosion_fraction", params.ErosionFraction); err != nil {
		return Result{}, err
	}
	if err := validateRate("operating_margin", params.OperatingMargin); err != nil {
		return Result{}, err
	}

	return discountedSeries(MethodIncrementalIncome, revenues, set, func(revenue float64) float64 {
		return revenue * params.ErosionFraction * params.OperatingMargin * (1 - set.TaxRate)
	}), nil
}
