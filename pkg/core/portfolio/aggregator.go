package portfolio

import (
	"fmt"

	"ip_valuation/pkg/core/assumption"
	"ip_valuation/pkg/core/segment"
	"ip_valuation/pkg/core/valuation"
)

// SeriesProvider supplies the prepared series for a named segment. The
// aggregator never fetches or prepares data itself.
type SeriesProvider func(segmentName string) (*segment.Series, error)

// SegmentValuation is the valuation of one (asset, segment) pair.
type SegmentValuation struct {
	Segment     string           `json:"segment"`
	Attribution float64          `json:"attribution_pct"`
	Result      valuation.Result `json:"result"`
}

// AssetValuation is one asset's value summed across its segments. The segment
// breakdown keeps the asset's declared segment order.
type AssetValuation struct {
	AssetID     string             `json:"asset_id"`
	Kind        Kind               `json:"type"`
	Description string             `json:"description"`
	TotalValue  float64            `json:"total_value"`
	Segments    []SegmentValuation `json:"segment_valuations"`
}

// SkippedAsset records an asset dropped in best-effort mode.
type SkippedAsset struct {
	AssetID string `json:"asset_id"`
	Reason  string `json:"reason"`
}

// PortfolioValuation is the aggregate over an asset list, breakdown preserved
// in input order so downstream reporting is deterministic.
type PortfolioValuation struct {
	Ticker     string           `json:"ticker"`
	TotalValue float64          `json:"total_portfolio_value"`
	Assets     []AssetValuation `json:"asset_valuations"`
	Skipped    []SkippedAsset   `json:"skipped_assets,omitempty"`
	Set        assumption.Set   `json:"assumptions"`
}

// Options configures aggregation behavior.
type Options struct {
	// BestEffort makes ValuePortfolio skip assets whose valuation fails,
	// recording them in Skipped, instead of failing the whole call. Off by
	// default: a single bad asset fails the portfolio.
	BestEffort bool

	// Defaults supplies contributory-return rates and the proxy asset fraction
	// for assets that omit excess-earnings parameters.
	Defaults assumption.Defaults
}

// defaultTechParams mirrors the conservative scores used when a
// technology-factor asset omits its quality block.
func defaultTechParams(royaltyRate float64) *valuation.TechnologyFactorParams {
	return &valuation.TechnologyFactorParams{
		BaseRoyaltyRate: royaltyRate,
		InnovationScore: 0.7,
		CommercialScore: 0.7,
		LegalStrength:   0.7,
		RemainingLife:   10,
		TotalLife:       20,
	}
}

// ValueAsset values one asset across all its segments. Attributed revenue is
// segment revenue × attribution, period by period; attribution is never
// re-normalized across segments.
func ValueAsset(provider SeriesProvider, asset Asset, set assumption.Set, opts Options) (AssetValuation, error) {
	if err := asset.Validate(); err != nil {
		return AssetValuation{}, err
	}

	av := AssetValuation{
		AssetID:     asset.ID,
		Kind:        asset.Kind,
		Description: asset.Description,
	}

	for _, segAttr := range asset.Segments {
		series, err := provider(segAttr.Name)
		if err != nil {
			return AssetValuation{}, fmt.Errorf("asset %s: %w", asset.ID, err)
		}

		attributed := make([]float64, series.Len())
		for i, rev := range series.Revenues {
			attributed[i] = rev * segAttr.Attribution
		}

		result, err := dispatch(asset, series, attributed, set, opts)
		if err != nil {
			return AssetValuation{}, fmt.Errorf("asset %s segment %s: %w", asset.ID, segAttr.Name, err)
		}

		av.Segments = append(av.Segments, SegmentValuation{
			Segment:     segAttr.Name,
			Attribution: segAttr.Attribution,
			Result:      result,
		})
		av.TotalValue += result.TotalValue
	}
	return av, nil
}

func dispatch(asset Asset, series *segment.Series, attributed []float64, set assumption.Set, opts Options) (valuation.Result, error) {
	switch asset.Method {
	case valuation.MethodReliefFromRoyalty:
		return valuation.ReliefFromRoyalty(attributed, asset.RoyaltyRate, set)

	case valuation.MethodExcessEarnings:
		params := asset.Excess
		if params == nil {
			params = &valuation.ExcessEarningsParams{
				OperatingMargin:     series.AverageOperatingMargin(),
				ContributoryReturns: opts.Defaults.ContributoryReturns,
				ProxyAssetFraction:  opts.Defaults.ProxyAssetFraction,
				IPContribution:      0.5,
			}
		}
		return valuation.MultiPeriodExcessEarnings(attributed, *params, set)

	case valuation.MethodTechnologyFactor:
		params := asset.Tech
		if params == nil {
			params = defaultTechParams(asset.RoyaltyRate)
		}
		return valuation.TechnologyFactorRoyalty(attributed, *params, set)

	case valuation.MethodIncrementalIncome:
		params := asset.Incremental
		if params == nil {
			return valuation.Result{}, fmt.Errorf("incremental income requires an erosion estimate: %w", valuation.ErrParameterOutOfRange)
		}
		if params.OperatingMargin == 0 {
			p := *params
			p.OperatingMargin = series.AverageOperatingMargin()
			params = &p
		}
		return valuation.IncrementalIncome(attributed, *params, set)
	}
	return valuation.Result{}, fmt.Errorf("unknown valuation method %q", asset.Method)
}

// ValuePortfolio values every asset in input order and sums asset totals.
// Without best-effort mode the first failing asset fails the whole call; the
// aggregator never swallows a failure silently.
func ValuePortfolio(ticker string, provider SeriesProvider, assets []Asset, set assumption.Set, opts Options) (PortfolioValuation, error) {
	pv := PortfolioValuation{Ticker: ticker, Set: set}

	for _, asset := range assets {
		av, err := ValueAsset(provider, asset, set, opts)
		if err != nil {
			if opts.BestEffort {
				pv.Skipped = append(pv.Skipped, SkippedAsset{AssetID: asset.ID, Reason: err.Error()})
				continue
			}
			return PortfolioValuation{}, err
		}
		pv.Assets = append(pv.Assets, av)
		pv.TotalValue += av.TotalValue
	}
	return pv, nil
}
