// Package discovery suggests candidate IP assets for a company from its
// disclosed segment names. Suggestions are heuristic starting points for an
// analyst to refine, not valuation inputs in their own right: every suggested
// asset still passes the portfolio validation boundary before it is valued.
package discovery

import (
	"fmt"
	"strings"

	"ip_valuation/pkg/core/portfolio"
	"ip_valuation/pkg/core/valuation"
)

// RoyaltyRates holds industry-typical royalty rates used for suggestions.
var RoyaltyRates = map[string]float64{
	"software":           0.08,
	"hardware":           0.04,
	"pharmaceutical":     0.12,
	"consumer_brand":     0.06,
	"technology":         0.05,
	"services":           0.07,
	"biotech":            0.15,
	"semiconductor":      0.05,
	"telecommunications": 0.04,
	"automotive":         0.03,
}

var hardwareHints = []string{"phone", "pad", "mac", "watch", "pod", "device", "hardware"}
var serviceHints = []string{"service", "cloud", "software", "platform", "subscription"}

func matchesAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// Discover generates suggested assets for each segment plus shared-technology
// assets spanning related hardware segments.
func Discover(segments []string) []portfolio.Asset {
	var assets []portfolio.Asset
	for _, seg := range segments {
		assets = append(assets, forSegment(seg)...)
	}
	assets = append(assets, shared(segments)...)
	return assets
}

func forSegment(name string) []portfolio.Asset {
	lower := normalize(name)
	var assets []portfolio.Asset

	// Product segments get a brand trademark.
	if !matchesAny(lower, []string{"service", "other", "corporate"}) {
		assets = append(assets, portfolio.Asset{
			ID:          fmt.Sprintf("TM-%s-001", idToken(name)),
			Kind:        portfolio.KindTrademark,
			Description: fmt.Sprintf("%s brand and trademark", name),
			Segments:    []portfolio.SegmentAttribution{{Name: name, Attribution: TrademarkAttribution(name)}},
			Method:      valuation.MethodReliefFromRoyalty,
			RoyaltyRate: RoyaltyRates["consumer_brand"],
		})
	}

	if matchesAny(lower, hardwareHints) {
		assets = append(assets, portfolio.Asset{
			ID:          fmt.Sprintf("PAT-%s-CORE-001", idToken(name)),
			Kind:        portfolio.KindPatent,
			Description: fmt.Sprintf("%s core technology patents", name),
			Segments:    []portfolio.SegmentAttribution{{Name: name, Attribution: 0.15}},
			Method:      valuation.MethodTechnologyFactor,
			RoyaltyRate: RoyaltyRates["technology"],
			Tech: &valuation.TechnologyFactorParams{
				BaseRoyaltyRate: RoyaltyRates["technology"],
				InnovationScore: 0.80,
				CommercialScore: 0.85,
				LegalStrength:   0.80,
				RemainingLife:   10,
				TotalLife:       20,
			},
		})
	}

	if matchesAny(lower, serviceHints) {
		assets = append(assets, portfolio.Asset{
			ID:          fmt.Sprintf("TS-%s-001", idToken(name)),
			Kind:        portfolio.KindTradeSecret,
			Description: fmt.Sprintf("%s proprietary algorithms and software", name),
			Segments:    []portfolio.SegmentAttribution{{Name: name, Attribution: 0.30}},
			Method:      valuation.MethodReliefFromRoyalty,
			RoyaltyRate: RoyaltyRates["software"],
		})
	}
	return assets
}

// shared suggests cross-segment technology when two or more hardware segments
// exist (shared silicon, shared OS platform).
func shared(segments []string) []portfolio.Asset {
	var hardware []string
	for _, seg := range segments {
		if matchesAny(normalize(seg), hardwareHints) {
			hardware = append(hardware, seg)
		}
	}
	if len(hardware) < 2 {
		return nil
	}

	chipSegments := make([]portfolio.SegmentAttribution, len(hardware))
	osSegments := make([]portfolio.SegmentAttribution, len(hardware))
	for i, seg := range hardware {
		chipSegments[i] = portfolio.SegmentAttribution{Name: seg, Attribution: 0.12}
		osSegments[i] = portfolio.SegmentAttribution{Name: seg, Attribution: 0.10}
	}

	return []portfolio.Asset{
		{
			ID:          "PAT-CHIP-SHARED-001",
			Kind:        portfolio.KindPatent,
			Description: "Proprietary processor/chip architecture",
			Segments:    chipSegments,
			Method:      valuation.MethodTechnologyFactor,
			RoyaltyRate: 0.05,
			Tech: &valuation.TechnologyFactorParams{
				BaseRoyaltyRate: 0.05,
				InnovationScore: 0.92,
				CommercialScore: 0.88,
				LegalStrength:   0.90,
				RemainingLife:   12,
				TotalLife:       20,
			},
		},
		{
			ID:          "TS-OS-SHARED-001",
			Kind:        portfolio.KindTradeSecret,
			Description: "Operating system and software platform",
			Segments:    osSegments,
			Method:      valuation.MethodReliefFromRoyalty,
			RoyaltyRate: 0.08,
		},
	}
}

// TrademarkAttribution estimates the brand's share of segment value.
func TrademarkAttribution(segmentName string) float64 {
	lower := normalize(segmentName)
	switch {
	case strings.Contains(lower, "iphone"):
		return 0.25
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "mac"):
		return 0.20
	case strings.Contains(lower, "watch"), strings.Contains(lower, "wearable"):
		return 0.15
	default:
		return 0.12
	}
}

// SuggestRoyaltyRate returns a base royalty rate for an asset kind, adjusted
// for industry context when supplied.
func SuggestRoyaltyRate(kind portfolio.Kind, industry string) float64 {
	base := map[portfolio.Kind]float64{
		portfolio.KindPatent:      0.05,
		portfolio.KindTrademark:   0.06,
		portfolio.KindCopyright:   0.08,
		portfolio.KindTradeSecret: 0.08,
	}[kind]
	if base == 0 {
		base = 0.05
	}

	lower := strings.ToLower(industry)
	switch {
	case strings.Contains(lower, "pharma"), strings.Contains(lower, "biotech"):
		base *= 2.0
	case strings.Contains(lower, "software"):
		base *= 1.3
	case strings.Contains(lower, "consumer"):
		base *= 1.2
	}
	return base
}

func idToken(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(name, " ", ""), "-", ""))
}
