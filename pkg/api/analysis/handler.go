package analysis

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ip_valuation/pkg/core/discovery"
	"ip_valuation/pkg/core/engine"
	"ip_valuation/pkg/core/report"
)

var eng *engine.Engine

// InitHandler wires the shared engine.
func InitHandler(e *engine.Engine) {
	eng = e
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
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

func tickerParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ticker := strings.ToUpper(r.URL.Query().Get("ticker"))
	if ticker == "" {
		http.Error(w, "ticker query parameter is required", http.StatusBadRequest)
		return "", false
	}
	return ticker, true
}

// HandleHealth returns the financial health report for a ticker.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	fmt.Printf("[HEALTH] Request: %s\n", ticker)

	rep, err := eng.AnalyzeHealth(r.Context(), ticker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, struct {
		Report  interface{} `json:"report"`
		Summary string      `json:"summary_markdown"`
	}{rep, report.HealthSummary(rep)})
}

// HandleFairValue returns the company fair value estimate for a ticker.
func HandleFairValue(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	fmt.Printf("[FAIRVALUE] Request: %s\n", ticker)

	fv, err := eng.FairValue(r.Context(), ticker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, struct {
		Result  interface{} `json:"result"`
		Summary string      `json:"summary_markdown"`
	}{fv, report.FairValueSummary(fv)})
}

// HandleDiscovery suggests candidate IP assets from a ticker's disclosed
// segments.
func HandleDiscovery(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	fmt.Printf("[DISCOVERY] Request: %s\n", ticker)

	segments, err := eng.Segments(r.Context(), ticker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, struct {
		Ticker   string      `json:"ticker"`
		Segments []string    `json:"segments"`
		Assets   interface{} `json:"suggested_assets"`
	}{ticker, segments, discovery.Discover(segments)})
}
