// Package portfolio maps logical IP assets onto prepared segment series,
// values each asset with its chosen method, and aggregates asset values into
// a portfolio total with a full per-segment breakdown.
package portfolio

import (
	"fmt"

	"ip_valuation/pkg/core/valuation"
)

// Kind classifies an intangible asset.
type Kind string

const (
	KindPatent      Kind = "patent"
	KindTrademark   Kind = "trademark"
	KindTradeSecret Kind = "trade_secret"
	KindCopyright   Kind = "copyright"
	KindOther       Kind = "other"
)

// SegmentAttribution ties an asset to one business segment. Attribution is the
// share of that segment's economic value ascribed to the asset, in (0, 1].
// Attributions are independent per segment and are deliberately not normalized
// across assets: overlapping assets on one segment represent shared value
// drivers.
type SegmentAttribution struct {
	Name        string  `json:"name"`
	Attribution float64 `json:"attribution_pct"`
}

// Asset is one logical intangible to be valued.
type Asset struct {
	ID          string               `json:"id"`
	Kind        Kind                 `json:"type"`
	Description string               `json:"description"`
	Segments    []SegmentAttribution `json:"related_segments"`
	Method      valuation.Method     `json:"valuation_method"`

	// RoyaltyRate feeds the royalty-based methods.
	RoyaltyRate float64 `json:"royalty_rate,omitempty"`

	// Method-specific parameter blocks; nil blocks get documented defaults at
	// valuation time.
	Excess      *valuation.ExcessEarningsParams    `json:"excess_earnings,omitempty"`
	Tech        *valuation.TechnologyFactorParams  `json:"technology_factor,omitempty"`
	Incremental *valuation.IncrementalIncomeParams `json:"incremental_income,omitempty"`
}

// Validate rejects malformed asset definitions at the boundary, before any
// calculation runs.
func (a Asset) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("asset ID is empty")
	}
	if len(a.Segments) == 0 {
		return fmt.Errorf("asset %s: no related segments", a.ID)
	}
	for _, seg := range a.Segments {
		if seg.Name == "" {
			return fmt.Errorf("asset %s: segment with empty name", a.ID)
		}
		if seg.Attribution <= 0 || seg.Attribution > 1 {
			return fmt.Errorf("asset %s segment %s: attribution %.4f outside (0,1]: %w",
				a.ID, seg.Name, seg.Attribution, valuation.ErrParameterOutOfRange)
		}
	}
	switch a.Method {
	case valuation.MethodReliefFromRoyalty, valuation.MethodExcessEarnings,
		valuation.MethodTechnologyFactor, valuation.MethodIncrementalIncome:
	default:
		return fmt.Errorf("asset %s: unknown valuation method %q", a.ID, a.Method)
	}
	if a.RoyaltyRate < 0 || a.RoyaltyRate > 1 {
		return fmt.Errorf("asset %s: royalty rate %.4f outside [0,1]: %w",
			a.ID, a.RoyaltyRate, valuation.ErrParameterOutOfRange)
	}
	return nil
}
