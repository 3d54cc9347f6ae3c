package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ip_valuation/pkg/core/assumption"
	"ip_valuation/pkg/core/discovery"
	"ip_valuation/pkg/core/engine"
	"ip_valuation/pkg/core/ingest"
	"ip_valuation/pkg/core/portfolio"
	"ip_valuation/pkg/core/report"
	"ip_valuation/pkg/core/valuation"
)

func logStep(step string, details string) {
	fmt.Printf("\n[STEP] %s\n", step)
	fmt.Println("---------------------------------------------------------")
	fmt.Println(details)
	fmt.Println("---------------------------------------------------------")
}

func main() {
	godotenv.Load()

	var (
		portfolioPath = flag.String("portfolio", "", "HJSON portfolio definition file (default: built-in Apple demo)")
		ticker        = flag.String("ticker", "AAPL", "company ticker")
		configPath    = flag.String("config", "config/defaults.yaml", "assumption defaults file")
		bestEffort    = flag.Bool("best-effort", false, "skip failing assets instead of aborting")
		discover      = flag.Bool("discover", false, "suggest assets from disclosed segments instead of valuing")
		htmlOut       = flag.String("html", "", "write the report as HTML to this file")
	)
	flag.Parse()

	logStep("0. Initialization", "Starting IP portfolio valuation...")

	defaults := assumption.StandardDefaults()
	if loaded, err := assumption.LoadDefaults(*configPath); err == nil {
		defaults = loaded
		fmt.Printf(" [Config] Loaded assumption defaults from %s\n", *configPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Printf(" [Config] Warning: %v\n", err)
	}

	var source ingest.DataSource
	if apiKey := os.Getenv("FINANCIAL_DATASETS_API_KEY"); apiKey != "" {
		source = ingest.NewAPIClient(apiKey)
		fmt.Println(" [Ingest] Using Financial Datasets API")
	} else {
		demo := ingest.NewDemoSource()
		source = demo
		fmt.Printf(" [Ingest] No API key set, demo data only: %v\n", demo.Tickers())
	}

	eng := engine.New(source, engine.WithDefaults(defaults))
	ctx := context.Background()

	if *discover {
		runDiscovery(ctx, eng, *ticker)
		return
	}

	tk := *ticker
	var assets []portfolio.Asset
	if *portfolioPath != "" {
		file, err := portfolio.LoadFile(*portfolioPath)
		if err != nil {
			fmt.Printf("[FATAL] %v\n", err)
			os.Exit(1)
		}
		tk = file.Ticker
		assets = file.Assets
		fmt.Printf(" [Portfolio] Loaded %d assets for %s from %s\n", len(assets), tk, *portfolioPath)
	} else {
		assets = applePortfolio()
		tk = "AAPL"
		fmt.Printf(" [Portfolio] Using built-in Apple demo portfolio (%d assets)\n", len(assets))
	}

	logStep("1. Assumption Derivation", fmt.Sprintf("Deriving WACC, tax rate and terminal growth for %s...", tk))
	deriv, err := eng.DeriveAssumptions(ctx, tk)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	fmt.Print(report.AssumptionSummary(deriv))

	logStep("2. Portfolio Valuation", fmt.Sprintf("Valuing %d assets against segment revenues...", len(assets)))
	pv, err := eng.ValuePortfolio(ctx, tk, assets, portfolio.Options{BestEffort: *bestEffort})
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	md := report.PortfolioSummary(pv)
	fmt.Println(md)

	logStep("3. Financial Health", "Annotating with company-level context...")
	if rep, err := eng.AnalyzeHealth(ctx, tk); err == nil {
		md += "\n" + report.HealthSummary(rep)
		fmt.Println(report.HealthSummary(rep))
	} else {
		fmt.Printf(" [Health] Skipped: %v\n", err)
	}

	if *htmlOut != "" {
		html, err := report.ToHTML(md)
		if err != nil {
			fmt.Printf("[FATAL] %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*htmlOut, []byte(html), 0o644); err != nil {
			fmt.Printf("[FATAL] write %s: %v\n", *htmlOut, err)
			os.Exit(1)
		}
		fmt.Printf("\n[REPORT] HTML written to %s\n", *htmlOut)
	}
}

func runDiscovery(ctx context.Context, eng *engine.Engine, ticker string) {
	logStep("1. Segment Discovery", fmt.Sprintf("Listing disclosed segments for %s...", ticker))
	segments, err := eng.Segments(ctx, ticker)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
	fmt.Printf(" Segments: %v\n", segments)

	fmt.Println("\n Suggested assets:")
	for _, a := range discovery.Discover(segments) {
		fmt.Printf("  - %-24s %-12s %s\n", a.ID, a.Kind, a.Description)
	}
}

// applePortfolio is the built-in demo: three well-known Apple IP assets valued
// against the demo segment data.
func applePortfolio() []portfolio.Asset {
	return []portfolio.Asset{
		{
			ID:          "PAT-FACEID-001",
			Kind:        portfolio.KindPatent,
			Description: "Face ID biometric authentication system",
			Segments: []portfolio.SegmentAttribution{
				{Name: "iPhone", Attribution: 0.15},
				{Name: "iPad", Attribution: 0.10},
			},
			Method:      valuation.MethodReliefFromRoyalty,
			RoyaltyRate: 0.045,
		},
		{
			ID:          "TM-IPHONE-001",
			Kind:        portfolio.KindTrademark,
			Description: "iPhone brand and trademark",
			Segments: []portfolio.SegmentAttribution{
				{Name: "iPhone", Attribution: 0.25},
			},
			Method:      valuation.MethodReliefFromRoyalty,
			RoyaltyRate: 0.06,
		},
		{
			ID:          "PAT-CHIP-M1",
			Kind:        portfolio.KindPatent,
			Description: "Apple Silicon chip architecture",
			Segments: []portfolio.SegmentAttribution{
				{Name: "Mac", Attribution: 0.25},
				{Name: "iPad", Attribution: 0.15},
				{Name: "iPhone", Attribution: 0.08},
			},
			Method:      valuation.MethodTechnologyFactor,
			RoyaltyRate: 0.05,
			Tech: &valuation.TechnologyFactorParams{
				BaseRoyaltyRate: 0.05,
				InnovationScore: 0.95,
				CommercialScore: 0.90,
				LegalStrength:   0.88,
				RemainingLife:   15,
				TotalLife:       20,
			},
		},
	}
}
