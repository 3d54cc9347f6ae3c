package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"ip_valuation/pkg/core/assumption"
	"ip_valuation/pkg/core/portfolio"
)

// RunRepo stores completed valuation runs keyed by a run ID, so past runs for
// a ticker can be compared as assumptions change.
type RunRepo struct{}

// NewRunRepo creates a repository instance.
func NewRunRepo() *RunRepo {
	return &RunRepo{}
}

// Run is one persisted portfolio valuation.
type Run struct {
	ID         string                        `json:"run_id"`
	Ticker     string                        `json:"ticker"`
	CreatedAt  time.Time                     `json:"created_at"`
	Derivation *assumption.Derivation        `json:"assumption_derivation"`
	Portfolio  *portfolio.PortfolioValuation `json:"portfolio_valuation"`
}

// Schema assumption (managed outside this package):
// CREATE TABLE IF NOT EXISTS valuation_runs (
//   run_id UUID PRIMARY KEY,
//   ticker TEXT NOT NULL,
//   run_json JSONB,
//   created_at TIMESTAMPTZ
// );

// Save persists a portfolio valuation with its assumption derivation and
// returns the generated run ID.
func (r *RunRepo) Save(ctx context.Context, deriv *assumption.Derivation, pv *portfolio.PortfolioValuation) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	run := Run{
		ID:         uuid.New().String(),
		Ticker:     pv.Ticker,
		CreatedAt:  time.Now().UTC(),
		Derivation: deriv,
		Portfolio:  pv,
	}

	jsonData, err := json.Marshal(run)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run: %w", err)
	}

	query := `
		INSERT INTO valuation_runs (run_id, ticker, run_json, created_at)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := pool.Exec(ctx, query, run.ID, run.Ticker, jsonData, run.CreatedAt); err != nil {
		return "", fmt.Errorf("failed to save valuation run: %w", err)
	}
	return run.ID, nil
}

// Load retrieves a run by ID.
func (r *RunRepo) Load(ctx context.Context, runID string) (*Run, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT run_json FROM valuation_runs WHERE run_id = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, runID).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no valuation run %s", runID)
		}
		return nil, fmt.Errorf("failed to load valuation run: %w", err)
	}

	var run Run
	if err := json.Unmarshal(jsonData, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal valuation run: %w", err)
	}
	return &run, nil
}

// LoadLatest retrieves the most recent run for a ticker.
func (r *RunRepo) LoadLatest(ctx context.Context, ticker string) (*Run, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT run_json FROM valuation_runs
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, ticker).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no valuation runs for ticker %s", ticker)
		}
		return nil, fmt.Errorf("failed to load valuation run: %w", err)
	}

	var run Run
	if err := json.Unmarshal(jsonData, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal valuation run: %w", err)
	}
	return &run, nil
}
