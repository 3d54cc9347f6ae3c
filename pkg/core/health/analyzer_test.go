package health

import (
	"math"
	"strings"
	"testing"

	"ip_valuation/pkg/models"
)

func TestRatioPrimitives(t *testing.T) {
	if r := CurrentRatio(300, 200); math.Abs(r-1.5) > 1e-9 {
		t.Errorf("current ratio = %f, want 1.5", r)
	}
	if r := CurrentRatio(300, 0); r != 0 {
		t.Errorf("zero liabilities ratio = %f, want 0", r)
	}
	if r := QuickRatio(100, 200); math.Abs(r-0.5) > 1e-9 {
		t.Errorf("quick ratio = %f, want 0.5", r)
	}
	if r := InterestCoverageRatio(100, 0); r != 999 {
		t.Errorf("zero-interest coverage = %f, want 999", r)
	}
	if r := InterestCoverageRatio(100, -10); math.Abs(r-10) > 1e-9 {
		t.Errorf("coverage with negative interest = %f, want 10", r)
	}
	if g := GrowthRate(120, 100); math.Abs(g-0.20) > 1e-9 {
		t.Errorf("growth = %f, want 0.20", g)
	}
	if g := GrowthRate(120, 0); g != 0 {
		t.Errorf("growth from zero base = %f, want 0", g)
	}
}

func strongStatement() models.StatementPeriod {
	return models.StatementPeriod{
		ReportPeriod:      "2024-09-28",
		Revenue:           400,
		GrossProfit:       260, // 65% gross margin
		OperatingIncome:   120,
		NetIncome:         90,
		RDExpense:         70, // 17.5% intensity
		InterestExpense:   2,
		TotalDebt:         40,
		TotalAssets:       500,
		TotalEquity:       300,
		CurrentAssets:     200,
		CurrentLiab:       100,
		Cash:              80,
		OperatingCashFlow: 130,
		CapEx:             -20,
		SharesOutstanding: 10,
	}
}

func TestAnalyzeStrongCompany(t *testing.T) {
	statements := []models.StatementPeriod{strongStatement()}
	prior := strongStatement()
	prior.ReportPeriod = "2023-09-30"
	prior.RDExpense = 60
	statements = append(statements, prior)

	report := Analyze("TEST", statements, models.MarketSnapshot{Ticker: "TEST", Price: 45, MarketCap: 4500})
	if report.Ticker != "TEST" {
		t.Fatalf("ticker = %q", report.Ticker)
	}

	// Current ratio 2.0, D/E 0.133, coverage 60x: the top liquidity band.
	if !strings.HasPrefix(report.Liquidity.Assessment, "Excellent") {
		t.Errorf("assessment = %q, want Excellent band", report.Liquidity.Assessment)
	}
	if math.Abs(report.Liquidity.FreeCashFlow-110) > 1e-9 {
		t.Errorf("FCF = %f, want 110 (OCF 130 + CapEx -20)", report.Liquidity.FreeCashFlow)
	}

	// 65% gross margin reads as pricing power.
	if !strings.Contains(report.Profitability.Insight, "pricing power") {
		t.Errorf("profitability insight = %q", report.Profitability.Insight)
	}

	// Intensity 17.5% with ~16.7% R&D growth: strong pipeline.
	if !strings.HasPrefix(report.RD.Potential, "Excellent") {
		t.Errorf("R&D potential = %q", report.RD.Potential)
	}

	// EV = 4500 + 40 - 80 = 4460; EV/Revenue = 11.15: premium valuation.
	if math.Abs(report.Market.EnterpriseValue-4460) > 1e-9 {
		t.Errorf("EV = %f, want 4460", report.Market.EnterpriseValue)
	}
	if !strings.Contains(report.Market.Insight, "Premium") {
		t.Errorf("market insight = %q", report.Market.Insight)
	}
}

func TestAnalyzeWeakCompany(t *testing.T) {
	weak := models.StatementPeriod{
		Revenue:         100,
		GrossProfit:     20,
		OperatingIncome: 2,
		NetIncome:       -5,
		RDExpense:       1,
		InterestExpense: 4,
		TotalDebt:       150,
		TotalEquity:     50,
		CurrentAssets:   50,
		CurrentLiab:     80,
		Cash:            5,
	}
	report := Analyze("WEAK", []models.StatementPeriod{weak}, models.MarketSnapshot{MarketCap: 100})

	if !strings.HasPrefix(report.Liquidity.Assessment, "Weak") {
		t.Errorf("assessment = %q, want Weak band", report.Liquidity.Assessment)
	}
	if !strings.HasPrefix(report.RD.Potential, "Low") {
		t.Errorf("R&D potential = %q, want Low band", report.RD.Potential)
	}
}

func TestAnalyzeEmptyStatements(t *testing.T) {
	report := Analyze("NONE", nil, models.MarketSnapshot{})
	if report == nil {
		t.Fatal("nil report for empty statements")
	}
	if report.Liquidity.CurrentRatio != 0 {
		t.Errorf("expected zero ratios, got %f", report.Liquidity.CurrentRatio)
	}
}
