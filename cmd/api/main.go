package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"ip_valuation/pkg/api/analysis"
	"ip_valuation/pkg/api/valuation"
	"ip_valuation/pkg/core/assumption"
	"ip_valuation/pkg/core/engine"
	"ip_valuation/pkg/core/ingest"
	"ip_valuation/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Assumption defaults, overridable from config/defaults.yaml
	defaults := assumption.StandardDefaults()
	if loaded, err := assumption.LoadDefaults("config/defaults.yaml"); err == nil {
		defaults = loaded
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("[WARNING] Failed to load config/defaults.yaml: %v\n", err)
	}

	// Data source: live API when a key is present, demo fixtures otherwise
	var source ingest.DataSource
	if apiKey := os.Getenv("FINANCIAL_DATASETS_API_KEY"); apiKey != "" {
		source = ingest.NewAPIClient(apiKey)
		fmt.Println("[INGEST] Using Financial Datasets API")
	} else {
		demo := ingest.NewDemoSource()
		source = demo
		fmt.Printf("[INGEST] No API key set, using demo data: %v\n", demo.Tickers())
	}

	eng := engine.New(source, engine.WithDefaults(defaults))

	// Persistence is optional; the engine runs without it
	var runRepo *store.RunRepo
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] Database unavailable, runs will not persist: %v\n", err)
		} else {
			runRepo = store.NewRunRepo()
			defer store.Close()
			fmt.Println("[STORE] Valuation run persistence enabled")
		}
	}

	// Valuation endpoints
	valuation.InitHandler(eng, runRepo)
	http.HandleFunc("/api/valuation/portfolio", valuation.HandlePortfolio)
	http.HandleFunc("/api/valuation/asset", valuation.HandleAsset)
	http.HandleFunc("/api/assumptions", valuation.HandleAssumptions)
	http.HandleFunc("/api/valuation/run", valuation.HandleRun)

	// Analysis endpoints
	analysis.InitHandler(eng)
	http.HandleFunc("/api/health", analysis.HandleHealth)
	http.HandleFunc("/api/fair-value", analysis.HandleFairValue)
	http.HandleFunc("/api/discovery", analysis.HandleDiscovery)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/valuation/portfolio")
	fmt.Println("  - POST /api/valuation/asset")
	fmt.Println("  - POST /api/assumptions")
	fmt.Println("  - GET  /api/valuation/run?id=<run-id> (or ?ticker=<ticker> for the latest run)")
	fmt.Println("  - GET  /api/health?ticker=<ticker>")
	fmt.Println("  - GET  /api/fair-value?ticker=<ticker>")
	fmt.Println("  - GET  /api/discovery?ticker=<ticker>")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
