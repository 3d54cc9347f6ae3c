// Package ingest fetches the financial data the valuation engine runs on:
// segment revenue disclosures, financial statement series, and market
// snapshots. Implementations return periods newest-first.
package ingest

import (
	"context"
	"errors"

	"ip_valuation/pkg/models"
)

// ErrTickerNotFound means the source has no data for the requested ticker.
var ErrTickerNotFound = errors.New("ticker not found in data source")

// DataSource is the engine's only view of external data. All methods return
// periods newest-first; limit caps the number of periods (0 means the source's
// default).
type DataSource interface {
	// FetchSegmentSeries returns segment-level revenue disclosures.
	FetchSegmentSeries(ctx context.Context, ticker string, limit int) ([]models.SegmentPeriod, error)

	// FetchStatementSeries returns company-level financial statements.
	FetchStatementSeries(ctx context.Context, ticker string, limit int) ([]models.StatementPeriod, error)

	// FetchMarketSnapshot returns the current price and market capitalization.
	FetchMarketSnapshot(ctx context.Context, ticker string) (models.MarketSnapshot, error)
}
