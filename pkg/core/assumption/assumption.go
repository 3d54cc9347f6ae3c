// Package assumption derives the macro inputs of a valuation run (discount
// rate, effective tax rate, terminal growth rate) from company statement and
// market data, and carries the defaults used when a component cannot be
// computed.
package assumption

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ErrTaxRateUndetermined is returned when no recent period has positive
// pre-tax income, so an effective tax rate cannot be derived. The caller must
// supply a fallback explicitly.
var ErrTaxRateUndetermined = errors.New("effective tax rate undetermined")

// Set holds the three macro assumptions every valuation method consumes.
// Rates are fractions (0.095 = 9.5%).
type Set struct {
	WACC           float64 `json:"wacc"`
	TaxRate        float64 `json:"tax_rate"`
	TerminalGrowth float64 `json:"terminal_growth"`
}

// Validate rejects sets that would make terminal-value math undefined or that
// carry rates outside the plausible band.
func (s Set) Validate() error {
	if s.WACC <= s.TerminalGrowth {
		return fmt.Errorf("wacc %.4f must exceed terminal growth %.4f", s.WACC, s.TerminalGrowth)
	}
	for _, r := range []struct {
		name string
		v    float64
	}{
		{"wacc", s.WACC},
		{"tax_rate", s.TaxRate},
		{"terminal_growth", s.TerminalGrowth},
	} {
		if r.v < 0 || r.v > 0.5 {
			return fmt.Errorf("%s %.4f outside [0, 0.5]", r.name, r.v)
		}
	}
	return nil
}

// Defaults are the externally supplied constants and fallbacks used by the
// calculator. They are loaded from configuration and passed explicitly; the
// engine keeps no ambient state.
type Defaults struct {
	RiskFreeRate      float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
	MarketRiskPremium float64 `yaml:"market_risk_premium" json:"market_risk_premium"`
	CostOfDebtCap     float64 `yaml:"cost_of_debt_cap" json:"cost_of_debt_cap"`

	FallbackTaxRate float64 `yaml:"fallback_tax_rate" json:"fallback_tax_rate"`
	FallbackWACC    float64 `yaml:"fallback_wacc" json:"fallback_wacc"`
	FallbackGrowth  float64 `yaml:"fallback_growth" json:"fallback_growth"`

	GrowthFloor   float64 `yaml:"growth_floor" json:"growth_floor"`
	GrowthCeiling float64 `yaml:"growth_ceiling" json:"growth_ceiling"`

	// ContributoryReturns are the required-return rates charged against proxy
	// asset values in the excess-earnings method.
	ContributoryReturns map[string]float64 `yaml:"contributory_returns" json:"contributory_returns"`

	// ProxyAssetFraction sizes the revenue-based proxy for contributory asset
	// values. An approximation standing in for a real balance-sheet allocation.
	ProxyAssetFraction float64 `yaml:"proxy_asset_fraction" json:"proxy_asset_fraction"`
}

// StandardDefaults returns the built-in configuration: 10-year Treasury proxy
// risk-free rate, equity risk premium, US statutory fallback tax rate and the
// conservative terminal-growth band (1% floor, nominal GDP-plus-inflation
// ceiling of 4%).
func StandardDefaults() Defaults {
	return Defaults{
		RiskFreeRate:      0.045,
		MarketRiskPremium: 0.06,
		CostOfDebtCap:     0.15,
		FallbackTaxRate:   0.21,
		FallbackWACC:      0.10,
		FallbackGrowth:    0.025,
		GrowthFloor:       0.01,
		GrowthCeiling:     0.04,
		ContributoryReturns: map[string]float64{
			"working_capital":   0.02,
			"fixed_assets":      0.10,
			"other_intangibles": 0.12,
		},
		ProxyAssetFraction: 0.5,
	}
}

// LoadDefaults reads a YAML defaults file. Fields absent from the file keep
// their StandardDefaults value.
func LoadDefaults(path string) (Defaults, error) {
	d := StandardDefaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("read defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parse defaults: %w", err)
	}
	return d, nil
}
