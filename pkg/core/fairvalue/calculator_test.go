package fairvalue

import (
	"math"
	"strings"
	"testing"

	"ip_valuation/pkg/core/assumption"
	"ip_valuation/pkg/models"
)

var set = assumption.Set{WACC: 0.10, TaxRate: 0.21, TerminalGrowth: 0.025}

func TestCalculateBlendsMethods(t *testing.T) {
	statements := []models.StatementPeriod{
		{
			Revenue: 110, NetIncome: 22, OperatingIncome: 30,
			OperatingCashFlow: 28, CapEx: -8,
			TotalDebt: 10, Cash: 15, SharesOutstanding: 10,
		},
		{Revenue: 100, NetIncome: 20},
	}
	snapshot := models.MarketSnapshot{Ticker: "TEST", Price: 40}

	res, err := Calculate("TEST", statements, snapshot, set, StandardMultiples())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Methods) != 4 {
		t.Fatalf("expected 4 methods, got %d", len(res.Methods))
	}
	for _, m := range res.Methods {
		if m.Err != "" {
			t.Errorf("%s failed: %s", m.Method, m.Err)
		}
		if m.ValuePerShare <= 0 {
			t.Errorf("%s value per share = %f", m.Method, m.ValuePerShare)
		}
	}

	// P/E: EPS 2.2 x 20 = 44.
	for _, m := range res.Methods {
		if m.Method == "P/E Multiple" && math.Abs(m.ValuePerShare-44) > 1e-9 {
			t.Errorf("P/E value = %f, want 44", m.ValuePerShare)
		}
		// P/S: 110/10 x 3 = 33.
		if m.Method == "P/S Multiple" && math.Abs(m.ValuePerShare-33) > 1e-9 {
			t.Errorf("P/S value = %f, want 33", m.ValuePerShare)
		}
		// EV/EBITDA: 30 x 12 = 360 EV; equity 360 - 10 + 15 = 365; 36.50/share.
		if m.Method == "EV/EBITDA" && math.Abs(m.ValuePerShare-36.5) > 1e-9 {
			t.Errorf("EV/EBITDA value = %f, want 36.5", m.ValuePerShare)
		}
	}

	// Blend is the mean of the positive method values.
	var sum float64
	for _, m := range res.Methods {
		sum += m.ValuePerShare
	}
	if math.Abs(res.FairValue-sum/4) > 1e-9 {
		t.Errorf("fair value = %f, want mean %f", res.FairValue, sum/4)
	}

	if res.Recommendation == "" {
		t.Error("no recommendation")
	}
}

func TestCalculateNegativeEarningsSkipsMethod(t *testing.T) {
	statements := []models.StatementPeriod{
		{
			Revenue: 100, NetIncome: -5, OperatingIncome: 10,
			OperatingCashFlow: 12, CapEx: -4,
			SharesOutstanding: 10, Cash: 5,
		},
	}

	res, err := Calculate("LOSS", statements, models.MarketSnapshot{Price: 10}, set, StandardMultiples())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var peErr string
	for _, m := range res.Methods {
		if m.Method == "P/E Multiple" {
			peErr = m.Err
		}
	}
	if peErr == "" {
		t.Error("P/E should fail on negative earnings")
	}
	// The blend still uses the surviving methods.
	if res.FairValue <= 0 {
		t.Errorf("fair value = %f, want positive from surviving methods", res.FairValue)
	}
}

func TestRecommendationBands(t *testing.T) {
	cases := []struct {
		upside float64
		want   string
	}{
		{50, "Strong Buy"},
		{20, "Buy"},
		{0, "Hold"},
		{-20, "Sell"},
		{-40, "Strong Sell"},
	}
	for _, c := range cases {
		got := recommend(c.upside)
		if !strings.HasPrefix(got, c.want) {
			t.Errorf("recommend(%f) = %q, want prefix %q", c.upside, got, c.want)
		}
	}
}

func TestEstimateGrowthBounds(t *testing.T) {
	// 100% growth caps at 50%.
	fast := []models.StatementPeriod{{Revenue: 200}, {Revenue: 100}}
	if g := estimateGrowth(fast); g != 0.5 {
		t.Errorf("growth = %f, want cap 0.5", g)
	}

	// No usable history defaults to 5%.
	if g := estimateGrowth([]models.StatementPeriod{{Revenue: 100}}); g != 0.05 {
		t.Errorf("growth = %f, want default 0.05", g)
	}
}

func TestCalculateNoStatements(t *testing.T) {
	if _, err := Calculate("X", nil, models.MarketSnapshot{}, set, StandardMultiples()); err == nil {
		t.Fatal("empty statements accepted")
	}
}
