// Package health computes profitability, liquidity, R&D-intensity and
// market-position ratios with qualitative labels used to annotate valuation
// reports. Its output is advisory text and ratios only; nothing here feeds
// back into the valuation math.
package health

import (
	"math"

	"ip_valuation/pkg/models"
)

// =============================================================================
// RATIO PRIMITIVES
// =============================================================================

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// CurrentRatio = current assets / current liabilities.
func CurrentRatio(currentAssets, currentLiabilities float64) float64 {
	return safeDiv(currentAssets, currentLiabilities)
}

// QuickRatio uses cash only; receivables are not in the statement contract.
func QuickRatio(cash, currentLiabilities float64) float64 {
	return safeDiv(cash, currentLiabilities)
}

// InterestCoverageRatio = operating income / interest expense.
func InterestCoverageRatio(operatingIncome, interestExpense float64) float64 {
	if interestExpense == 0 {
		return 999 // effectively unlevered
	}
	return safeDiv(operatingIncome, math.Abs(interestExpense))
}

// GrowthRate = (current − prior) / |prior|.
func GrowthRate(current, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (current - prior) / math.Abs(prior)
}

// =============================================================================
// REPORT SECTIONS
// =============================================================================

// Liquidity covers short-term financial health.
type Liquidity struct {
	CurrentRatio     float64 `json:"current_ratio"`
	QuickRatio       float64 `json:"quick_ratio"`
	DebtToEquity     float64 `json:"debt_to_equity"`
	InterestCoverage float64 `json:"interest_coverage"`
	FreeCashFlow     float64 `json:"free_cash_flow"`
	FCFMargin        float64 `json:"fcf_margin"`
	Assessment       string  `json:"assessment"`
}

// Profitability covers margin and return ratios.
type Profitability struct {
	GrossMargin     float64 `json:"gross_margin"`
	OperatingMargin float64 `json:"operating_margin"`
	NetMargin       float64 `json:"net_margin"`
	ROE             float64 `json:"roe"`
	ROA             float64 `json:"roa"`
	Insight         string  `json:"ip_insight"`
}

// RDAnalysis covers research investment patterns.
type RDAnalysis struct {
	Intensity  float64 `json:"rd_intensity"` // average R&D / revenue
	LatestRD   float64 `json:"latest_rd_spend"`
	GrowthRate float64 `json:"rd_growth_rate"`
	Potential  string  `json:"ip_generation_potential"`
}

// MarketPosition covers market pricing multiples.
type MarketPosition struct {
	MarketCap       float64 `json:"market_cap"`
	EnterpriseValue float64 `json:"enterprise_value"`
	PERatio         float64 `json:"pe_ratio"`
	EVRevenue       float64 `json:"ev_revenue"`
	EVEBITDA        float64 `json:"ev_ebitda"`
	Insight         string  `json:"market_insight"`
}

// Report is the full financial health annotation for one ticker.
type Report struct {
	Ticker        string         `json:"ticker"`
	Liquidity     Liquidity      `json:"financial_health"`
	Profitability Profitability  `json:"profitability_metrics"`
	RD            RDAnalysis     `json:"rd_analysis"`
	Market        MarketPosition `json:"market_position"`
}

// =============================================================================
// ANALYZER
// =============================================================================

// Analyze builds a health report from the most recent statement periods
// (newest-first) and a market snapshot. A nil report is never returned; absent
// data simply yields zero ratios.
func Analyze(ticker string, statements []models.StatementPeriod, snapshot models.MarketSnapshot) *Report {
	report := &Report{Ticker: ticker}
	if len(statements) == 0 {
		return report
	}
	latest := statements[0]

	report.Liquidity = analyzeLiquidity(latest)
	report.Profitability = analyzeProfitability(latest)
	report.RD = analyzeRD(statements)
	report.Market = analyzeMarket(latest, snapshot)
	return report
}

func analyzeLiquidity(latest models.StatementPeriod) Liquidity {
	l := Liquidity{
		CurrentRatio:     CurrentRatio(latest.CurrentAssets, latest.CurrentLiab),
		QuickRatio:       QuickRatio(latest.Cash, latest.CurrentLiab),
		DebtToEquity:     safeDiv(latest.TotalDebt, latest.TotalEquity),
		InterestCoverage: InterestCoverageRatio(latest.OperatingIncome, latest.InterestExpense),
		FreeCashFlow:     latest.FreeCashFlow(),
	}
	l.FCFMargin = safeDiv(l.FreeCashFlow, latest.Revenue)
	l.Assessment = assessLiquidity(l.CurrentRatio, l.DebtToEquity, l.InterestCoverage)
	return l
}

func assessLiquidity(currentRatio, debtToEquity, interestCoverage float64) string {
	score := 0
	switch {
	case currentRatio > 1.5:
		score += 3
	case currentRatio > 1.0:
		score += 2
	default:
		score++
	}
	switch {
	case debtToEquity < 0.5:
		score += 3
	case debtToEquity < 1.0:
		score += 2
	default:
		score++
	}
	switch {
	case interestCoverage > 10:
		score += 3
	case interestCoverage > 5:
		score += 2
	default:
		score++
	}

	switch {
	case score >= 8:
		return "Excellent - strong financial position supports IP development"
	case score >= 6:
		return "Good - healthy balance sheet for IP investment"
	case score >= 4:
		return "Moderate - some financial constraints on IP spending"
	default:
		return "Weak - financial stress may limit IP development"
	}
}

func analyzeProfitability(latest models.StatementPeriod) Profitability {
	p := Profitability{
		GrossMargin:     safeDiv(latest.GrossProfit, latest.Revenue),
		OperatingMargin: safeDiv(latest.OperatingIncome, latest.Revenue),
		NetMargin:       safeDiv(latest.NetIncome, latest.Revenue),
		ROE:             safeDiv(latest.NetIncome, latest.TotalEquity),
		ROA:             safeDiv(latest.NetIncome, latest.TotalAssets),
	}
	switch {
	case p.GrossMargin > 0.6:
		p.Insight = "High gross margins suggest strong IP/brand pricing power"
	case p.GrossMargin > 0.4:
		p.Insight = "Healthy margins indicate IP contributing to competitive advantage"
	default:
		p.Insight = "Lower margins may indicate IP is less differentiated"
	}
	return p
}

func analyzeRD(statements []models.StatementPeriod) RDAnalysis {
	var intensities []float64
	for _, stmt := range statements {
		if stmt.Revenue > 0 && stmt.RDExpense > 0 {
			intensities = append(intensities, stmt.RDExpense/stmt.Revenue)
		}
	}

	rd := RDAnalysis{LatestRD: statements[0].RDExpense}
	if len(intensities) > 0 {
		var sum float64
		for _, v := range intensities {
			sum += v
		}
		rd.Intensity = sum / float64(len(intensities))
	}
	if len(statements) >= 2 {
		rd.GrowthRate = GrowthRate(statements[0].RDExpense, statements[1].RDExpense)
	}
	rd.Potential = assessRD(rd.Intensity, rd.GrowthRate)
	return rd
}

func assessRD(intensity, growth float64) string {
	switch {
	case intensity > 0.15 && growth > 0.10:
		return "Excellent - heavy R&D investment with growth suggests strong IP pipeline"
	case intensity > 0.15:
		return "Good - significant R&D spend indicates active IP development"
	case intensity > 0.08:
		return "Moderate - average R&D investment for IP generation"
	default:
		return "Low - limited R&D suggests less IP-intensive business model"
	}
}

func analyzeMarket(latest models.StatementPeriod, snapshot models.MarketSnapshot) MarketPosition {
	m := MarketPosition{MarketCap: snapshot.MarketCap}
	m.EnterpriseValue = snapshot.MarketCap + latest.TotalDebt - latest.Cash

	eps := safeDiv(latest.NetIncome, latest.SharesOutstanding)
	if eps > 0 {
		m.PERatio = snapshot.Price / eps
	}
	m.EVRevenue = safeDiv(m.EnterpriseValue, latest.Revenue)
	if latest.OperatingIncome > 0 {
		// Operating income stands in for EBITDA; D&A is not in the contract.
		m.EVEBITDA = m.EnterpriseValue / latest.OperatingIncome
	}

	switch {
	case m.EVRevenue > 10:
		m.Insight = "Premium valuation suggests market values IP/intangibles highly"
	case m.EVRevenue > 5:
		m.Insight = "Above-average valuation indicates IP contributes to market value"
	default:
		m.Insight = "Standard valuation multiples"
	}
	return m
}
