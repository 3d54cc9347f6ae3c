package valuation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ip_valuation/pkg/core/engine"
	"ip_valuation/pkg/core/portfolio"
	"ip_valuation/pkg/core/report"
	"ip_valuation/pkg/core/store"
)

var eng *engine.Engine
var runRepo *store.RunRepo

// InitHandler wires the shared engine. A nil run repository disables
// persistence; valuations still run.
func InitHandler(e *engine.Engine, runs *store.RunRepo) {
	eng = e
	runRepo = runs
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

type PortfolioRequest struct {
	Ticker     string            `json:"ticker"`
	Assets     []portfolio.Asset `json:"assets"`
	BestEffort bool              `json:"best_effort"`
}

type PortfolioResponse struct {
	Valuation      *portfolio.PortfolioValuation `json:"valuation"`
	RunID          string                        `json:"run_id,omitempty"`
	ReportMarkdown string                        `json:"report_markdown"`
}

// HandlePortfolio values an asset portfolio against a ticker's segment data.
func HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	var req PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(req.Ticker)
	if ticker == "" || len(req.Assets) == 0 {
		http.Error(w, "ticker and assets are required", http.StatusBadRequest)
		return
	}
	fmt.Printf("[VALUATION] Portfolio request: %s (%d assets)\n", ticker, len(req.Assets))

	ctx := r.Context()
	pv, err := eng.ValuePortfolio(ctx, ticker, req.Assets, portfolio.Options{BestEffort: req.BestEffort})
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := PortfolioResponse{
		Valuation:      pv,
		ReportMarkdown: report.PortfolioSummary(pv),
	}

	if runRepo != nil {
		deriv, derr := eng.DeriveAssumptions(ctx, ticker)
		if derr == nil {
			if runID, serr := runRepo.Save(ctx, deriv, pv); serr == nil {
				resp.RunID = runID
			} else {
				fmt.Printf("[WARNING] Failed to persist valuation run: %v\n", serr)
			}
		}
	}

	writeJSON(w, resp)
}

type AssetRequest struct {
	Ticker string          `json:"ticker"`
	Asset  portfolio.Asset `json:"asset"`
}

// HandleAsset values a single asset.
func HandleAsset(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	var req AssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(req.Ticker)
	fmt.Printf("[VALUATION] Asset request: %s %s\n", ticker, req.Asset.ID)

	av, err := eng.ValueAsset(r.Context(), ticker, req.Asset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, av)
}

type AssumptionsRequest struct {
	Ticker string `json:"ticker"`
}

// HandleAssumptions derives WACC, tax rate and terminal growth for a ticker.
func HandleAssumptions(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}

	var req AssumptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(req.Ticker)
	fmt.Printf("[ASSUMPTIONS] Request: %s\n", ticker)

	deriv, err := eng.DeriveAssumptions(r.Context(), ticker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, struct {
		Derivation interface{} `json:"derivation"`
		Summary    string      `json:"summary_markdown"`
	}{deriv, report.AssumptionSummary(deriv)})
}

// HandleRun retrieves a persisted valuation run, either by run ID or the most
// recent run for a ticker.
func HandleRun(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	if runRepo == nil {
		http.Error(w, "persistence not configured", http.StatusNotImplemented)
		return
	}

	var (
		run *store.Run
		err error
	)
	runID := r.URL.Query().Get("id")
	ticker := strings.ToUpper(r.URL.Query().Get("ticker"))
	switch {
	case runID != "":
		run, err = runRepo.Load(r.Context(), runID)
	case ticker != "":
		run, err = runRepo.LoadLatest(r.Context(), ticker)
	default:
		http.Error(w, "id or ticker query parameter is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}
