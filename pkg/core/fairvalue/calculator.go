// Package fairvalue estimates a company-level intrinsic share value by
// blending a discounted-cash-flow model with market-multiple methods. Like the
// health analyzer it annotates reports with context for the IP numbers; it
// does not feed the IP valuation path.
package fairvalue

import (
	"fmt"

	"ip_valuation/pkg/core/assumption"
	"ip_valuation/pkg/core/valuation"
	"ip_valuation/pkg/models"
)

// MethodValue is one valuation method's per-share result. Err carries the
// reason a method could not run (negative earnings, missing data) without
// failing the blend.
type MethodValue struct {
	Method        string  `json:"method"`
	ValuePerShare float64 `json:"fair_value_per_share"`
	Err           string  `json:"error,omitempty"`
}

// Result is the blended fair value for one ticker.
type Result struct {
	Ticker         string        `json:"ticker"`
	CurrentPrice   float64       `json:"current_price"`
	FairValue      float64       `json:"fair_value_average"`
	UpsidePct      float64       `json:"upside_downside_pct"`
	Methods        []MethodValue `json:"valuation_methods"`
	GrowthRate     float64       `json:"growth_rate"`
	Recommendation string        `json:"recommendation"`
}

// Multiples are the benchmark multiples applied by the relative methods.
type Multiples struct {
	PE       float64
	PS       float64
	EVEBITDA float64
}

// StandardMultiples are moderate cross-industry defaults.
func StandardMultiples() Multiples {
	return Multiples{PE: 20, PS: 3.0, EVEBITDA: 12}
}

// Calculate blends DCF, P/E, P/S and EV/EBITDA fair values. Statements are
// newest-first; the assumption set supplies WACC and terminal growth.
func Calculate(ticker string, statements []models.StatementPeriod, snapshot models.MarketSnapshot, set assumption.Set, multiples Multiples) (Result, error) {
	if len(statements) == 0 {
		return Result{}, fmt.Errorf("fair value %s: no statement periods", ticker)
	}
	latest := statements[0]

	growth := estimateGrowth(statements)
	res := Result{Ticker: ticker, CurrentPrice: snapshot.Price, GrowthRate: growth}

	res.Methods = append(res.Methods,
		dcf(latest, growth, set),
		peMultiple(latest, multiples.PE),
		psMultiple(latest, multiples.PS),
		evEBITDA(latest, multiples.EVEBITDA),
	)

	var sum float64
	var count int
	for _, m := range res.Methods {
		if m.Err == "" && m.ValuePerShare > 0 {
			sum += m.ValuePerShare
			count++
		}
	}
	if count > 0 {
		res.FairValue = sum / float64(count)
	}
	if res.CurrentPrice > 0 && res.FairValue > 0 {
		res.UpsidePct = (res.FairValue - res.CurrentPrice) / res.CurrentPrice * 100
	}
	res.Recommendation = recommend(res.UpsidePct)
	return res, nil
}

// estimateGrowth averages period-over-period revenue growth with loose sanity
// bounds; it feeds the five-year projection only, never the perpetuity rate.
func estimateGrowth(statements []models.StatementPeriod) float64 {
	var rates []float64
	for i := 0; i+1 < len(statements); i++ {
		prior := statements[i+1].Revenue
		if prior <= 0 {
			continue
		}
		g := (statements[i].Revenue - prior) / prior
		if g > -0.5 && g < 2.0 {
			rates = append(rates, g)
		}
	}
	if len(rates) == 0 {
		return 0.05
	}
	var sum float64
	for _, g := range rates {
		sum += g
	}
	avg := sum / float64(len(rates))
	if avg > 0.5 {
		avg = 0.5
	}
	if avg < -0.2 {
		avg = -0.2
	}
	return avg
}

const projectionYears = 5

func dcf(latest models.StatementPeriod, growth float64, set assumption.Set) MethodValue {
	mv := MethodValue{Method: "DCF"}

	fcf := latest.FreeCashFlow()
	if fcf <= 0 {
		mv.Err = "negative free cash flow"
		return mv
	}
	if set.WACC <= set.TerminalGrowth {
		mv.Err = "wacc does not exceed terminal growth"
		return mv
	}

	projected := make([]float64, projectionYears)
	cf := fcf
	for i := range projected {
		cf *= 1 + growth
		projected[i] = cf
	}

	pvFCF := valuation.PresentValueOfCashFlows(projected, set.WACC)
	terminal := valuation.TerminalValueGordonGrowth(projected[projectionYears-1]*(1+set.TerminalGrowth), set.WACC, set.TerminalGrowth)
	pvTerminal := valuation.PresentValue(terminal, set.WACC, projectionYears)

	enterpriseValue := pvFCF + pvTerminal
	equityValue := enterpriseValue - latest.TotalDebt + latest.Cash

	if latest.SharesOutstanding <= 0 {
		mv.Err = "no shares outstanding"
		return mv
	}
	mv.ValuePerShare = equityValue / latest.SharesOutstanding
	return mv
}

func peMultiple(latest models.StatementPeriod, fairPE float64) MethodValue {
	mv := MethodValue{Method: "P/E Multiple"}
	if latest.SharesOutstanding <= 0 || latest.NetIncome <= 0 {
		mv.Err = "negative or zero earnings"
		return mv
	}
	eps := latest.NetIncome / latest.SharesOutstanding
	mv.ValuePerShare = eps * fairPE
	return mv
}

func psMultiple(latest models.StatementPeriod, fairPS float64) MethodValue {
	mv := MethodValue{Method: "P/S Multiple"}
	if latest.SharesOutstanding <= 0 || latest.Revenue <= 0 {
		mv.Err = "no revenue data"
		return mv
	}
	mv.ValuePerShare = latest.Revenue / latest.SharesOutstanding * fairPS
	return mv
}

func evEBITDA(latest models.StatementPeriod, fairMultiple float64) MethodValue {
	mv := MethodValue{Method: "EV/EBITDA"}
	// Operating income stands in for EBITDA; D&A is not in the contract.
	if latest.OperatingIncome <= 0 {
		mv.Err = "negative EBITDA"
		return mv
	}
	enterpriseValue := latest.OperatingIncome * fairMultiple
	equityValue := enterpriseValue - latest.TotalDebt + latest.Cash
	if latest.SharesOutstanding <= 0 {
		mv.Err = "no shares outstanding"
		return mv
	}
	mv.ValuePerShare = equityValue / latest.SharesOutstanding
	return mv
}

func recommend(upsidePct float64) string {
	switch {
	case upsidePct > 30:
		return "Strong Buy - Significantly Undervalued"
	case upsidePct > 15:
		return "Buy - Undervalued"
	case upsidePct > -10:
		return "Hold - Fairly Valued"
	case upsidePct > -25:
		return "Sell - Overvalued"
	default:
		return "Strong Sell - Significantly Overvalued"
	}
}
