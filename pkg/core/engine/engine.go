// Package engine wires the data source, segment preparer, assumption
// calculator and portfolio aggregator into the operations callers use. It owns
// the per-ticker caches so one valuation run fetches each data set once.
package engine

import (
	"context"
	"fmt"
	"sync"

	"ip_valuation/pkg/core/assumption"
	"ip_valuation/pkg/core/fairvalue"
	"ip_valuation/pkg/core/health"
	"ip_valuation/pkg/core/ingest"
	"ip_valuation/pkg/core/portfolio"
	"ip_valuation/pkg/core/segment"
	"ip_valuation/pkg/models"
)

// DefaultPeriodLimit caps how many annual periods a run fetches.
const DefaultPeriodLimit = 5

// Engine runs valuations against a single data source. Safe for concurrent
// use; caches are per-ticker and fill on first use.
type Engine struct {
	source   ingest.DataSource
	preparer *segment.Preparer
	defaults assumption.Defaults
	limit    int

	mu         sync.Mutex
	segments   map[string][]models.SegmentPeriod
	statements map[string][]models.StatementPeriod
	snapshots  map[string]models.MarketSnapshot
	series     map[string]*segment.Series
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaults overrides the standard assumption defaults.
func WithDefaults(d assumption.Defaults) Option {
	return func(e *Engine) { e.defaults = d }
}

// WithPeriodLimit caps the number of fetched annual periods.
func WithPeriodLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithMatchMode sets how segment names match disclosure labels.
func WithMatchMode(mode segment.MatchMode) Option {
	return func(e *Engine) { e.preparer.Mode = mode }
}

// New creates an Engine over a data source.
func New(source ingest.DataSource, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		preparer:   segment.NewPreparer(),
		defaults:   assumption.StandardDefaults(),
		limit:      DefaultPeriodLimit,
		segments:   make(map[string][]models.SegmentPeriod),
		statements: make(map[string][]models.StatementPeriod),
		snapshots:  make(map[string]models.MarketSnapshot),
		series:     make(map[string]*segment.Series),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// =============================================================================
// CACHED FETCHES
// =============================================================================

func (e *Engine) segmentPeriods(ctx context.Context, ticker string) ([]models.SegmentPeriod, error) {
	e.mu.Lock()
	cached, ok := e.segments[ticker]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	periods, err := e.source.FetchSegmentSeries(ctx, ticker, e.limit)
	if err != nil {
		return nil, fmt.Errorf("fetch segment data for %s: %w", ticker, err)
	}
	e.mu.Lock()
	e.segments[ticker] = periods
	e.mu.Unlock()
	return periods, nil
}

func (e *Engine) statementPeriods(ctx context.Context, ticker string) ([]models.StatementPeriod, error) {
	e.mu.Lock()
	cached, ok := e.statements[ticker]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	periods, err := e.source.FetchStatementSeries(ctx, ticker, e.limit)
	if err != nil {
		return nil, fmt.Errorf("fetch statements for %s: %w", ticker, err)
	}
	e.mu.Lock()
	e.statements[ticker] = periods
	e.mu.Unlock()
	return periods, nil
}

func (e *Engine) snapshot(ctx context.Context, ticker string) (models.MarketSnapshot, error) {
	e.mu.Lock()
	cached, ok := e.snapshots[ticker]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	snap, err := e.source.FetchMarketSnapshot(ctx, ticker)
	if err != nil {
		return models.MarketSnapshot{}, fmt.Errorf("fetch market snapshot for %s: %w", ticker, err)
	}
	e.mu.Lock()
	e.snapshots[ticker] = snap
	e.mu.Unlock()
	return snap, nil
}

// PrepareSegment returns the prepared series for one segment, cached per
// (ticker, segment).
func (e *Engine) PrepareSegment(ctx context.Context, ticker, segmentName string) (*segment.Series, error) {
	key := ticker + "|" + segmentName
	e.mu.Lock()
	cached, ok := e.series[key]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	segPeriods, err := e.segmentPeriods(ctx, ticker)
	if err != nil {
		return nil, err
	}
	stmts, err := e.statementPeriods(ctx, ticker)
	if err != nil {
		return nil, err
	}

	series, err := e.preparer.Prepare(ticker, segmentName, segPeriods, stmts, e.limit)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.series[key] = series
	e.mu.Unlock()
	return series, nil
}

// Segments lists the segment labels disclosed in the most recent period.
func (e *Engine) Segments(ctx context.Context, ticker string) ([]string, error) {
	periods, err := e.segmentPeriods(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, segment.ErrInsufficientData
	}
	labels := make([]string, 0, len(periods[0].Segments))
	for _, s := range periods[0].Segments {
		labels = append(labels, s.Label)
	}
	return labels, nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// DeriveAssumptions derives WACC, tax rate and terminal growth for a ticker,
// with full derivation detail for reporting.
func (e *Engine) DeriveAssumptions(ctx context.Context, ticker string) (*assumption.Derivation, error) {
	stmts, err := e.statementPeriods(ctx, ticker)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}
	deriv := assumption.DeriveAll(stmts, snap, e.defaults)
	return &deriv, nil
}

// ValueAsset values one asset using assumptions derived for the ticker.
func (e *Engine) ValueAsset(ctx context.Context, ticker string, asset portfolio.Asset) (*portfolio.AssetValuation, error) {
	deriv, err := e.DeriveAssumptions(ctx, ticker)
	if err != nil {
		return nil, err
	}
	av, err := portfolio.ValueAsset(e.provider(ctx, ticker), asset, deriv.Set, portfolio.Options{Defaults: e.defaults})
	if err != nil {
		return nil, err
	}
	return &av, nil
}

// ValuePortfolio values an asset list with assumptions derived for the ticker.
func (e *Engine) ValuePortfolio(ctx context.Context, ticker string, assets []portfolio.Asset, opts portfolio.Options) (*portfolio.PortfolioValuation, error) {
	deriv, err := e.DeriveAssumptions(ctx, ticker)
	if err != nil {
		return nil, err
	}
	opts.Defaults = e.defaults
	pv, err := portfolio.ValuePortfolio(ticker, e.provider(ctx, ticker), assets, deriv.Set, opts)
	if err != nil {
		return nil, err
	}
	return &pv, nil
}

// AnalyzeHealth builds the financial health report for a ticker.
func (e *Engine) AnalyzeHealth(ctx context.Context, ticker string) (*health.Report, error) {
	stmts, err := e.statementPeriods(ctx, ticker)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return health.Analyze(ticker, stmts, snap), nil
}

// FairValue estimates the company-level fair value per share.
func (e *Engine) FairValue(ctx context.Context, ticker string) (*fairvalue.Result, error) {
	deriv, err := e.DeriveAssumptions(ctx, ticker)
	if err != nil {
		return nil, err
	}
	stmts, err := e.statementPeriods(ctx, ticker)
	if err != nil {
		return nil, err
	}
	snap, err := e.snapshot(ctx, ticker)
	if err != nil {
		return nil, err
	}
	res, err := fairvalue.Calculate(ticker, stmts, snap, deriv.Set, fairvalue.StandardMultiples())
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (e *Engine) provider(ctx context.Context, ticker string) portfolio.SeriesProvider {
	return func(segmentName string) (*segment.Series, error) {
		return e.PrepareSegment(ctx, ticker, segmentName)
	}
}
