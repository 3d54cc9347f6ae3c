package portfolio

import (
	"errors"
	"testing"

	"ip_valuation/pkg/core/valuation"
)

func TestParseFileHJSON(t *testing.T) {
	// HJSON: comments, unquoted strings, no commas. Quoteless values run to
	// the end of the line, so every key sits on its own line.
	doc := []byte(`{
	  // analyst-maintained asset list
	  ticker: AAPL
	  assets: [
	    {
	      id: PAT-FACEID-001
	      type: patent
	      description: Face ID biometric authentication system
	      related_segments: [
	        {
	          name: iPhone
	          attribution_pct: 0.15
	        }
	      ]
	      valuation_method: relief_from_royalty
	      royalty_rate: 0.045
	    }
	  ]
	}`)

	f, err := ParseFile(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Ticker != "AAPL" {
		t.Errorf("ticker = %q", f.Ticker)
	}
	if len(f.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(f.Assets))
	}
	a := f.Assets[0]
	if a.ID != "PAT-FACEID-001" || a.Kind != KindPatent || a.RoyaltyRate != 0.045 {
		t.Errorf("asset parsed wrong: %+v", a)
	}
	if len(a.Segments) != 1 || a.Segments[0].Attribution != 0.15 {
		t.Errorf("segments parsed wrong: %+v", a.Segments)
	}
}

func TestLoadExampleFile(t *testing.T) {
	// The shipped example must stay loadable by cmd/valuate -portfolio.
	f, err := LoadFile("../../../config/portfolio.example.hjson")
	if err != nil {
		t.Fatalf("example portfolio does not load: %v", err)
	}
	if f.Ticker != "AAPL" {
		t.Errorf("ticker = %q", f.Ticker)
	}
	if len(f.Assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(f.Assets))
	}
	chip := f.Assets[2]
	if chip.ID != "PAT-CHIP-M1" || len(chip.Segments) != 3 {
		t.Errorf("chip asset parsed wrong: %+v", chip)
	}
	if chip.Tech == nil || chip.Tech.RemainingLife != 15 {
		t.Errorf("technology factor block parsed wrong: %+v", chip.Tech)
	}
}

func TestParseFilePlainJSON(t *testing.T) {
	doc := []byte(`{"ticker":"MSFT","assets":[{"id":"TM-1","type":"trademark","related_segments":[{"name":"Intelligent Cloud","attribution_pct":0.2}],"valuation_method":"relief_from_royalty","royalty_rate":0.06}]}`)
	if _, err := ParseFile(doc); err != nil {
		t.Fatalf("plain JSON rejected: %v", err)
	}
}

func TestParseFileRejectsMissingTicker(t *testing.T) {
	doc := []byte(`{
	  assets: [
	    {
	      id: PAT-1
	      type: patent
	      related_segments: [
	        {
	          name: iPhone
	          attribution_pct: 0.1
	        }
	      ]
	      valuation_method: relief_from_royalty
	    }
	  ]
	}`)
	if _, err := ParseFile(doc); !errors.Is(err, ErrMissingTicker) {
		t.Errorf("got %v, want ErrMissingTicker", err)
	}
}

func TestParseFileRejectsInvalidAsset(t *testing.T) {
	// Attribution above 1 must be rejected at the boundary, with the range
	// sentinel so the failure is not mistaken for a parse error.
	doc := []byte(`{
	  ticker: AAPL
	  assets: [
	    {
	      id: PAT-1
	      type: patent
	      related_segments: [
	        {
	          name: iPhone
	          attribution_pct: 1.5
	        }
	      ]
	      valuation_method: relief_from_royalty
	      royalty_rate: 0.05
	    }
	  ]
	}`)
	if _, err := ParseFile(doc); !errors.Is(err, valuation.ErrParameterOutOfRange) {
		t.Errorf("got %v, want ErrParameterOutOfRange", err)
	}
}

func TestParseFileRejectsEmptyAssets(t *testing.T) {
	doc := []byte(`{
	  ticker: AAPL
	  assets: []
	}`)
	if _, err := ParseFile(doc); !errors.Is(err, ErrNoAssets) {
		t.Errorf("got %v, want ErrNoAssets", err)
	}
}
