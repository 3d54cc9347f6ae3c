package discovery

import (
	"testing"

	"ip_valuation/pkg/core/portfolio"
	"ip_valuation/pkg/core/valuation"
)

func TestDiscoverAppleLikeSegments(t *testing.T) {
	segments := []string{"iPhone", "iPad", "Mac", "Services"}
	assets := Discover(segments)
	if len(assets) == 0 {
		t.Fatal("no assets suggested")
	}

	// Every suggestion must pass the same validation boundary real assets do.
	for _, a := range assets {
		if err := a.Validate(); err != nil {
			t.Errorf("suggested asset %s invalid: %v", a.ID, err)
		}
	}

	byID := make(map[string]portfolio.Asset)
	for _, a := range assets {
		byID[a.ID] = a
	}

	// Three hardware segments: shared chip and OS assets must appear.
	chip, ok := byID["PAT-CHIP-SHARED-001"]
	if !ok {
		t.Fatal("shared chip patent not suggested")
	}
	if chip.Method != valuation.MethodTechnologyFactor || chip.Tech == nil {
		t.Errorf("chip patent not configured for technology factor: %+v", chip)
	}
	if len(chip.Segments) != 3 {
		t.Errorf("chip patent spans %d segments, want 3 hardware segments", len(chip.Segments))
	}
	if _, ok := byID["TS-OS-SHARED-001"]; !ok {
		t.Error("shared OS trade secret not suggested")
	}

	// Product segments get brand trademarks; the Services segment does not.
	if _, ok := byID["TM-IPHONE-001"]; !ok {
		t.Error("iPhone trademark not suggested")
	}
	if _, ok := byID["TM-SERVICES-001"]; ok {
		t.Error("trademark suggested for a services segment")
	}
}

func TestDiscoverSingleHardwareSegmentNoSharedAssets(t *testing.T) {
	assets := Discover([]string{"iPhone"})
	for _, a := range assets {
		if a.ID == "PAT-CHIP-SHARED-001" || a.ID == "TS-OS-SHARED-001" {
			t.Errorf("shared asset %s suggested with only one hardware segment", a.ID)
		}
	}
}

func TestTrademarkAttributionTiers(t *testing.T) {
	if got := TrademarkAttribution("iPhone"); got != 0.25 {
		t.Errorf("iPhone attribution = %f, want 0.25", got)
	}
	if got := TrademarkAttribution("Mac"); got != 0.20 {
		t.Errorf("Mac attribution = %f, want 0.20", got)
	}
	if got := TrademarkAttribution("Widgets"); got != 0.12 {
		t.Errorf("default attribution = %f, want 0.12", got)
	}
}

func TestSuggestRoyaltyRate(t *testing.T) {
	base := SuggestRoyaltyRate(portfolio.KindPatent, "")
	pharma := SuggestRoyaltyRate(portfolio.KindPatent, "Pharmaceuticals")
	if pharma <= base {
		t.Errorf("pharma rate %f not above base %f", pharma, base)
	}

	// Unknown kinds still get a usable base rate.
	if got := SuggestRoyaltyRate(portfolio.KindOther, ""); got <= 0 {
		t.Errorf("unknown kind rate = %f", got)
	}
}
