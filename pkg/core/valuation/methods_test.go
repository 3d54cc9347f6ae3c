package valuation

import (
	"errors"
	"math"
	"testing"

	"ip_valuation/pkg/core/assumption"
)

var baseSet = assumption.Set{WACC: 0.095, TaxRate: 0.21, TerminalGrowth: 0.025}

func flatRevenues(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestReliefFromRoyaltyFlatSeries(t *testing.T) {
	// Five flat periods of 100, royalty 5%, tax 21%, WACC 9.5%, growth 2.5%.
	// Annual cash flow = 100 x 0.05 x 0.79 = 3.95.
	revenues := flatRevenues(100, 5)

	res, err := ReliefFromRoyalty(revenues, 0.05, baseSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Independent recomputation of the explicit period.
	cf := 100 * 0.05 * (1 - 0.21)
	var wantExplicit float64
	for year := 1; year <= 5; year++ {
		wantExplicit += cf / math.Pow(1.095, float64(year))
	}
	if math.Abs(res.PVExplicit-wantExplicit) > 1e-9 {
		t.Errorf("PVExplicit = %f, want %f", res.PVExplicit, wantExplicit)
	}

	// Terminal: CF grown one period into Gordon growth, discounted 5 periods.
	terminalCF := 100 * 1.025 * 0.05 * (1 - 0.21)
	wantTerminal := terminalCF / (0.095 - 0.025) / math.Pow(1.095, 5)
	if math.Abs(res.PVTerminal-wantTerminal) > 1e-9 {
		t.Errorf("PVTerminal = %f, want %f", res.PVTerminal, wantTerminal)
	}

	// Sanity band: explicit ~15.2, terminal ~36.7, total ~51.9.
	if res.TotalValue < 45 || res.TotalValue > 60 {
		t.Errorf("TotalValue = %f, outside plausible band", res.TotalValue)
	}

	if len(res.Yearly) != 5 {
		t.Errorf("expected 5 yearly rows, got %d", len(res.Yearly))
	}
	if res.Yearly[0].CashFlow != cf {
		t.Errorf("year 1 cash flow = %f, want %f", res.Yearly[0].CashFlow, cf)
	}
}

func TestAdditiveIdentity(t *testing.T) {
	revenues := []float64{120, 110, 130, 125}

	results := make([]Result, 0, 4)

	r1, err := ReliefFromRoyalty(revenues, 0.06, baseSet)
	if err != nil {
		t.Fatalf("relief from royalty: %v", err)
	}
	results = append(results, r1)

	r2, err := MultiPeriodExcessEarnings(revenues, ExcessEarningsParams{
		OperatingMargin:     0.30,
		ContributoryReturns: map[string]float64{"working_capital": 0.02, "fixed_assets": 0.10},
		ProxyAssetFraction:  0.5,
		IPContribution:      0.5,
	}, baseSet)
	if err != nil {
		t.Fatalf("excess earnings: %v", err)
	}
	results = append(results, r2)

	r3, err := TechnologyFactorRoyalty(revenues, TechnologyFactorParams{
		BaseRoyaltyRate: 0.05, InnovationScore: 0.8, CommercialScore: 0.8,
		LegalStrength: 0.8, RemainingLife: 10, TotalLife: 20,
	}, baseSet)
	if err != nil {
		t.Fatalf("technology factor: %v", err)
	}
	results = append(results, r3)

	r4, err := IncrementalIncome(revenues, IncrementalIncomeParams{
		ErosionFraction: 0.2, OperatingMargin: 0.3,
	}, baseSet)
	if err != nil {
		t.Fatalf("incremental income: %v", err)
	}
	results = append(results, r4)

	for _, res := range results {
		sum := res.PVExplicit + res.PVTerminal
		if math.Abs(sum-res.TotalValue) > 1e-6*math.Max(1, math.Abs(res.TotalValue)) {
			t.Errorf("%s: explicit %f + terminal %f != total %f",
				res.Method, res.PVExplicit, res.PVTerminal, res.TotalValue)
		}
	}
}

func TestZeroRevenueYieldsZero(t *testing.T) {
	revenues := flatRevenues(0, 5)

	r1, err := ReliefFromRoyalty(revenues, 0.05, baseSet)
	if err != nil {
		t.Fatalf("relief from royalty: %v", err)
	}
	r2, err := MultiPeriodExcessEarnings(revenues, ExcessEarningsParams{
		OperatingMargin: 0.3, ProxyAssetFraction: 0.5, IPContribution: 0.5,
	}, baseSet)
	if err != nil {
		t.Fatalf("excess earnings: %v", err)
	}
	r3, err := TechnologyFactorRoyalty(revenues, TechnologyFactorParams{
		BaseRoyaltyRate: 0.05, InnovationScore: 0.8, CommercialScore: 0.8,
		LegalStrength: 0.8, RemainingLife: 10, TotalLife: 20,
	}, baseSet)
	if err != nil {
		t.Fatalf("technology factor: %v", err)
	}
	r4, err := IncrementalIncome(revenues, IncrementalIncomeParams{
		ErosionFraction: 0.2, OperatingMargin: 0.3,
	}, baseSet)
	if err != nil {
		t.Fatalf("incremental income: %v", err)
	}

	for _, res := range []Result{r1, r2, r3, r4} {
		if res.PVExplicit != 0 || res.PVTerminal != 0 || res.TotalValue != 0 {
			t.Errorf("%s: zero revenue gave nonzero result %+v", res.Method, res)
		}
	}
}

func TestAttributionMonotonicity(t *testing.T) {
	// Scaling attributed revenue up must strictly increase value.
	low := []float64{50, 50, 50}
	high := []float64{75, 75, 75}

	rLow, err := ReliefFromRoyalty(low, 0.05, baseSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rHigh, err := ReliefFromRoyalty(high, 0.05, baseSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rHigh.TotalValue <= rLow.TotalValue {
		t.Errorf("higher attribution %f not greater than lower %f", rHigh.TotalValue, rLow.TotalValue)
	}
}

func TestWACCNotAboveGrowthRejected(t *testing.T) {
	bad := assumption.Set{WACC: 0.02, TaxRate: 0.21, TerminalGrowth: 0.02}
	revenues := flatRevenues(100, 3)

	if _, err := ReliefFromRoyalty(revenues, 0.05, bad); !errors.Is(err, ErrInvalidAssumptions) {
		t.Errorf("relief from royalty: got %v, want ErrInvalidAssumptions", err)
	}
	if _, err := MultiPeriodExcessEarnings(revenues, ExcessEarningsParams{OperatingMargin: 0.3}, bad); !errors.Is(err, ErrInvalidAssumptions) {
		t.Errorf("excess earnings: got %v, want ErrInvalidAssumptions", err)
	}
	if _, err := TechnologyFactorRoyalty(revenues, TechnologyFactorParams{
		BaseRoyaltyRate: 0.05, RemainingLife: 10, TotalLife: 20,
	}, bad); !errors.Is(err, ErrInvalidAssumptions) {
		t.Errorf("technology factor: got %v, want ErrInvalidAssumptions", err)
	}
	if _, err := IncrementalIncome(revenues, IncrementalIncomeParams{ErosionFraction: 0.2, OperatingMargin: 0.3}, bad); !errors.Is(err, ErrInvalidAssumptions) {
		t.Errorf("incremental income: got %v, want ErrInvalidAssumptions", err)
	}
}

func TestEmptySeriesRejected(t *testing.T) {
	if _, err := ReliefFromRoyalty(nil, 0.05, baseSet); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("got %v, want ErrEmptySeries", err)
	}
}

func TestParameterOutOfRangeRejected(t *testing.T) {
	revenues := flatRevenues(100, 3)

	if _, err := ReliefFromRoyalty(revenues, 1.5, baseSet); !errors.Is(err, ErrParameterOutOfRange) {
		t.Errorf("royalty 1.5: got %v, want ErrParameterOutOfRange", err)
	}
	if _, err := IncrementalIncome(revenues, IncrementalIncomeParams{ErosionFraction: -0.1, OperatingMargin: 0.3}, baseSet); !errors.Is(err, ErrParameterOutOfRange) {
		t.Errorf("erosion -0.1: got %v, want ErrParameterOutOfRange", err)
	}
	if _, err := TechnologyFactorRoyalty(revenues, TechnologyFactorParams{
		BaseRoyaltyRate: 0.05, InnovationScore: 0.8, CommercialScore: 0.8,
		LegalStrength: 0.8, RemainingLife: 25, TotalLife: 20,
	}, baseSet); !errors.Is(err, ErrParameterOutOfRange) {
		t.Errorf("remaining life > total: got %v, want ErrParameterOutOfRange", err)
	}
}

func TestTechnologyFactorScore(t *testing.T) {
	// 0.92x0.30 + 0.88x0.35 + 0.90x0.25 + (12/20)x0.10
	//   = 0.276 + 0.308 + 0.225 + 0.06 = 0.869
	factor := TechnologyFactor(TechnologyFactorParams{
		InnovationScore: 0.92, CommercialScore: 0.88, LegalStrength: 0.90,
		RemainingLife: 12, TotalLife: 20,
	})
	if math.Abs(factor-0.869) > 1e-9 {
		t.Errorf("TechnologyFactor = %f, want 0.869", factor)
	}
}

func TestTechnologyFactorNoTerminalValue(t *testing.T) {
	res, err := TechnologyFactorRoyalty(flatRevenues(100, 5), TechnologyFactorParams{
		BaseRoyaltyRate: 0.05, InnovationScore: 0.9, CommercialScore: 0.9,
		LegalStrength: 0.9, RemainingLife: 12, TotalLife: 20,
	}, baseSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PVTerminal != 0 {
		t.Errorf("expiring right got terminal value %f", res.PVTerminal)
	}
	if res.TotalValue != res.PVExplicit {
		t.Errorf("total %f != explicit %f", res.TotalValue, res.PVExplicit)
	}
}

func TestTechnologyFactorProjectionCappedAtRemainingLife(t *testing.T) {
	res, err := TechnologyFactorRoyalty(flatRevenues(100, 5), TechnologyFactorParams{
		BaseRoyaltyRate: 0.05, InnovationScore: 0.9, CommercialScore: 0.9,
		LegalStrength: 0.9, RemainingLife: 3, TotalLife: 20,
	}, baseSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Yearly) != 3 {
		t.Errorf("expected 3 projection years for remaining life 3, got %d", len(res.Yearly))
	}
}

func TestTechnologyFactorDecayFloor(t *testing.T) {
	// decay_t = 1 - t/(remaining x 1.5), floored at 0.30.
	res, err := TechnologyFactorRoyalty(flatRevenues(100, 10), TechnologyFactorParams{
		BaseRoyaltyRate: 0.05, InnovationScore: 0.9, CommercialScore: 0.9,
		LegalStrength: 0.9, RemainingLife: 10, TotalLife: 20,
	}, baseSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, row := range res.Yearly {
		if row.DecayFactor < 0.30-1e-12 {
			t.Errorf("year %d decay %f below floor", row.Year, row.DecayFactor)
		}
	}
}

func TestExcessEarningsChargesReduceValue(t *testing.T) {
	revenues := flatRevenues(100, 4)

	withCharges, err := MultiPeriodExcessEarnings(revenues, ExcessEarningsParams{
		OperatingMargin:     0.30,
		ContributoryReturns: map[string]float64{"working_capital": 0.02, "fixed_assets": 0.10},
		ProxyAssetFraction:  0.5,
		IPContribution:      1.0,
	}, baseSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	noCharges, err := MultiPeriodExcessEarnings(revenues, ExcessEarningsParams{
		OperatingMargin:    0.30,
		ProxyAssetFraction: 0.5,
		IPContribution:     1.0,
	}, baseSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withCharges.TotalValue >= noCharges.TotalValue {
		t.Errorf("contributory charges did not reduce value: %f >= %f",
			withCharges.TotalValue, noCharges.TotalValue)
	}
}
