package valuation

import (
	"math"
	"testing"
)

func TestPresentValue(t *testing.T) {
	// 110 discounted one period at 10% = 100.
	pv := PresentValue(110, 0.10, 1)
	if math.Abs(pv-100) > 1e-9 {
		t.Errorf("PV = %f, want 100", pv)
	}

	// Zero periods means no discounting.
	if pv := PresentValue(50, 0.10, 0); pv != 50 {
		t.Errorf("PV at t=0 = %f, want 50", pv)
	}
}

func TestPresentValueOfCashFlows(t *testing.T) {
	// 100/1.1 + 100/1.21 = 90.909 + 82.645 = 173.554
	pv := PresentValueOfCashFlows([]float64{100, 100}, 0.10)
	want := 100/1.1 + 100/1.21
	if math.Abs(pv-want) > 1e-9 {
		t.Errorf("PV = %f, want %f", pv, want)
	}
}

func TestTerminalValueGordonGrowth(t *testing.T) {
	// 10 / (0.10 - 0.02) = 125
	tv := TerminalValueGordonGrowth(10, 0.10, 0.02)
	if math.Abs(tv-125) > 1e-9 {
		t.Errorf("TV = %f, want 125", tv)
	}

	// Undefined when the discount rate does not exceed growth.
	if tv := TerminalValueGordonGrowth(10, 0.05, 0.05); tv != 0 {
		t.Errorf("TV with r == g = %f, want 0", tv)
	}
}
