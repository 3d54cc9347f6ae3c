package assumption

import (
	"ip_valuation/pkg/models"
)

// =============================================================================
// DERIVATION DETAIL TYPES
// Every component is exposed so the presentation layer can audit the numbers.
// =============================================================================

// WACCDetail breaks the derived discount rate into its components.
type WACCDetail struct {
	WACC         float64 `json:"wacc"`
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"`
	Beta         float64 `json:"beta"`
	EquityWeight float64 `json:"equity_weight"`
	DebtWeight   float64 `json:"debt_weight"`
	MarketCap    float64 `json:"market_cap"`
	TotalDebt    float64 `json:"total_debt"`

	Method string `json:"method"` // "calculated" or "fallback"
	Note   string `json:"note"`

	// DebtCostUndefined marks a zero-debt company where cost of debt could not
	// be computed and 0 was used.
	DebtCostUndefined bool `json:"debt_cost_undefined,omitempty"`
}

// TaxDetail exposes the per-period rates behind the derived tax rate.
type TaxDetail struct {
	EffectiveTaxRate float64   `json:"effective_tax_rate"`
	PeriodRates      []float64 `json:"period_rates"`
	Method           string    `json:"method"`
	Note             string    `json:"note"`
}

// GrowthDetail exposes the revenue growth history behind the terminal rate.
type GrowthDetail struct {
	TerminalGrowth float64   `json:"terminal_growth"`
	HistoricalAvg  float64   `json:"historical_avg"`
	PeriodGrowth   []float64 `json:"period_growth"`
	Method         string    `json:"method"`
	Note           string    `json:"note"`
}

// Derivation is the complete audited output of DeriveAll.
type Derivation struct {
	Set    Set          `json:"assumptions"`
	WACC   WACCDetail   `json:"wacc_detail"`
	Tax    TaxDetail    `json:"tax_detail"`
	Growth GrowthDetail `json:"growth_detail"`
}

// =============================================================================
// EFFECTIVE TAX RATE
// =============================================================================

// EffectiveTaxRate averages tax_expense / pre-tax income over the most recent
// three periods, skipping any period with non-positive pre-tax income so a
// loss year cannot distort the rate. Wraps ErrTaxRateUndetermined when no
// period qualifies.
func EffectiveTaxRate(statements []models.StatementPeriod) (TaxDetail, error) {
	var rates []float64
	n := len(statements)
	if n > 3 {
		n = 3
	}
	for _, stmt := range statements[:n] {
		pretax := stmt.PreTaxIncome()
		if pretax <= 0 || stmt.TaxExpense < 0 {
			continue
		}
		rate := stmt.TaxExpense / pretax
		if rate >= 0 && rate <= 0.5 {
			rates = append(rates, rate)
		}
	}
	if len(rates) == 0 {
		return TaxDetail{}, ErrTaxRateUndetermined
	}

	var sum float64
	for _, r := range rates {
		sum += r
	}
	return TaxDetail{
		EffectiveTaxRate: sum / float64(len(rates)),
		PeriodRates:      rates,
		Method:           "calculated",
		Note:             "average effective rate over recent profitable periods",
	}, nil
}

// =============================================================================
// WACC (CAPM)
// =============================================================================

// BetaFromMarketCap estimates equity beta as a step function of market cap.
// Larger companies get a lower assumed beta. This is an explicit approximation
// used when no disclosed beta is available, not a precise figure.
func BetaFromMarketCap(marketCap float64) float64 {
	switch {
	case marketCap > 500e9:
		return 1.0
	case marketCap > 100e9:
		return 1.1
	case marketCap > 10e9:
		return 1.2
	default:
		return 1.3
	}
}

// CostOfEquityCAPM calculates required return on equity.
//
// FORMULA: r_e = r_f + β × MRP
func CostOfEquityCAPM(riskFreeRate, beta, marketRiskPremium float64) float64 {
	return riskFreeRate + beta*marketRiskPremium
}

// CostOfDebt derives the pre-tax cost of debt from the latest period.
//
// FORMULA: r_d = interest_expense / total_debt, capped at cap.
//
// A zero-debt company has no defined cost of debt; the component is 0 and the
// undefined flag is set so the caller can surface it.
func CostOfDebt(latest models.StatementPeriod, cap float64) (rate float64, undefined bool) {
	if latest.TotalDebt <= 0 {
		return 0, true
	}
	rate = latest.InterestExpense / latest.TotalDebt
	if rate < 0 {
		rate = 0
	}
	if cap > 0 && rate > cap {
		rate = cap
	}
	return rate, false
}

// DeriveWACC computes the weighted average cost of capital.
//
// FORMULA: WACC = (E/V) × r_e + (D/V) × r_d × (1 − T)
//
// Market cap comes from the snapshot; when no market pricing is available the
// book value of equity stands in. A company with neither equity nor debt value
// falls back to the configured default WACC.
func DeriveWACC(statements []models.StatementPeriod, snapshot models.MarketSnapshot, taxRate float64, d Defaults) WACCDetail {
	if len(statements) == 0 {
		return fallbackWACC(d)
	}
	latest := statements[0]

	marketCap := snapshot.MarketCap
	if marketCap <= 0 && snapshot.Price > 0 && latest.SharesOutstanding > 0 {
		marketCap = snapshot.Price * latest.SharesOutstanding
	}
	if marketCap <= 0 {
		marketCap = latest.TotalEquity
	}

	totalValue := marketCap + latest.TotalDebt
	if totalValue <= 0 {
		return fallbackWACC(d)
	}

	beta := BetaFromMarketCap(marketCap)
	costOfEquity := CostOfEquityCAPM(d.RiskFreeRate, beta, d.MarketRiskPremium)
	costOfDebt, undefined := CostOfDebt(latest, d.CostOfDebtCap)

	equityWeight := marketCap / totalValue
	debtWeight := latest.TotalDebt / totalValue
	wacc := equityWeight*costOfEquity + debtWeight*costOfDebt*(1-taxRate)

	return WACCDetail{
		WACC:              wacc,
		CostOfEquity:      costOfEquity,
		CostOfDebt:        costOfDebt,
		Beta:              beta,
		EquityWeight:      equityWeight,
		DebtWeight:        debtWeight,
		MarketCap:         marketCap,
		TotalDebt:         latest.TotalDebt,
		Method:            "calculated",
		Note:              "CAPM cost of equity with size-estimated beta",
		DebtCostUndefined: undefined,
	}
}

func fallbackWACC(d Defaults) WACCDetail {
	return WACCDetail{
		WACC:   d.FallbackWACC,
		Method: "fallback",
		Note:   "insufficient data, using configured default WACC",
	}
}

// =============================================================================
// TERMINAL GROWTH
// =============================================================================

// TerminalGrowth averages period-over-period revenue growth across all
// consecutive pairs and clamps the result to the configured band. The clamp is
// deliberate: explosive short-term growth must not become a perpetuity rate.
// Statements are ordered newest-first.
func TerminalGrowth(statements []models.StatementPeriod, d Defaults) GrowthDetail {
	var growth []float64
	for i := 0; i+1 < len(statements); i++ {
		prior := statements[i+1].Revenue
		if prior <= 0 {
			continue
		}
		g := (statements[i].Revenue - prior) / prior
		if g > -0.5 && g < 0.5 {
			growth = append(growth, g)
		}
	}
	if len(growth) == 0 {
		return GrowthDetail{
			TerminalGrowth: d.FallbackGrowth,
			Method:         "fallback",
			Note:           "insufficient revenue history, using configured default growth",
		}
	}

	var sum float64
	for _, g := range growth {
		sum += g
	}
	avg := sum / float64(len(growth))

	clamped := avg
	if clamped > d.GrowthCeiling {
		clamped = d.GrowthCeiling
	}
	if clamped < d.GrowthFloor {
		clamped = d.GrowthFloor
	}

	return GrowthDetail{
		TerminalGrowth: clamped,
		HistoricalAvg:  avg,
		PeriodGrowth:   growth,
		Method:         "calculated",
		Note:           "historical average growth clamped to conservative band",
	}
}

// =============================================================================
// FULL DERIVATION
// =============================================================================

// DeriveAll computes the complete assumption set with audit detail. When the
// tax rate cannot be determined the configured fallback is substituted and
// recorded as such; all other components always produce a value.
func DeriveAll(statements []models.StatementPeriod, snapshot models.MarketSnapshot, d Defaults) Derivation {
	tax, err := EffectiveTaxRate(statements)
	if err != nil {
		tax = TaxDetail{
			EffectiveTaxRate: d.FallbackTaxRate,
			Method:           "fallback",
			Note:             "no profitable recent period, using configured fallback rate",
		}
	}

	wacc := DeriveWACC(statements, snapshot, tax.EffectiveTaxRate, d)
	growth := TerminalGrowth(statements, d)

	return Derivation{
		Set: Set{
			WACC:           wacc.WACC,
			TaxRate:        tax.EffectiveTaxRate,
			TerminalGrowth: growth.TerminalGrowth,
		},
		WACC:   wacc,
		Tax:    tax,
		Growth: growth,
	}
}
