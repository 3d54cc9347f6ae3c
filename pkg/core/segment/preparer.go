// Package segment turns raw per-period statement data into aligned per-segment
// time series ready for valuation math.
//
// Segment gross profit, R&D and operating income are not disclosed facts: they
// are estimated by proportional allocation of the company-wide figure using
// the segment's revenue share for that period. The allocation rule is a
// swappable strategy so real segment-level disclosures can replace it later
// without touching the valuation math.
package segment

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"ip_valuation/pkg/models"
)

var (
	// ErrSegmentNotFound is returned when the requested segment name does not
	// appear in any fetched period.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrInsufficientData is returned when zero aligned periods are available.
	ErrInsufficientData = errors.New("insufficient segment data")
)

// MatchMode controls how segment names are compared against disclosed labels.
// Exact matching is the default; the normalized mode reproduces the original
// behavior of case-folding and stripping spaces and hyphens. The choice
// changes valuation results, so it is an explicit configuration value.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchNormalized
)

// AllocationStrategy estimates a segment-level metric from the company-wide
// metric, company revenue and segment revenue for one period.
type AllocationStrategy func(companyMetric, companyRevenue, segmentRevenue float64) float64

// ProportionalAllocation allocates by revenue share:
// metric × (segment_revenue / company_revenue). Zero company revenue yields 0.
func ProportionalAllocation(companyMetric, companyRevenue, segmentRevenue float64) float64 {
	if companyRevenue <= 0 {
		return 0
	}
	return companyMetric * (segmentRevenue / companyRevenue)
}

// Series is an aligned per-segment time series. All slices share the same
// length and period order as the statements they were built from.
type Series struct {
	Ticker  string   `json:"ticker"`
	Segment string   `json:"segment"`
	Periods []string `json:"periods"`

	Revenues         []float64 `json:"revenues"`
	GrossProfits     []float64 `json:"gross_profits"`      // allocated estimate
	RDExpenses       []float64 `json:"rd_expenses"`        // allocated estimate
	OperatingIncomes []float64 `json:"operating_incomes"`  // allocated estimate
	OperatingMargins []float64 `json:"operating_margins"`  // company-wide margin per period
	AllocationShares []float64 `json:"allocation_shares"`  // segment revenue / company revenue
}

// Len returns the number of aligned periods in the series.
func (s *Series) Len() int { return len(s.Revenues) }

// AverageOperatingMargin returns the mean company operating margin across the
// series, 0 for an empty series.
func (s *Series) AverageOperatingMargin() float64 {
	if len(s.OperatingMargins) == 0 {
		return 0
	}
	var sum float64
	for _, m := range s.OperatingMargins {
		sum += m
	}
	return sum / float64(len(s.OperatingMargins))
}

// Preparer builds aligned segment series from disclosed data.
type Preparer struct {
	Mode     MatchMode
	Allocate AllocationStrategy
}

// NewPreparer returns a Preparer with exact name matching and proportional
// allocation.
func NewPreparer() *Preparer {
	return &Preparer{Mode: MatchExact, Allocate: ProportionalAllocation}
}

// Prepare aligns up to maxPeriods of segment revenue with company statements
// for the named segment. Both inputs must share period order. Periods where the
// segment is not disclosed are skipped; if it appears in no period at all the
// error wraps ErrSegmentNotFound and names the available segments.
func (p *Preparer) Prepare(ticker, name string, segPeriods []models.SegmentPeriod, statements []models.StatementPeriod, maxPeriods int) (*Series, error) {
	if len(segPeriods) == 0 || len(statements) == 0 {
		return nil, fmt.Errorf("prepare %s/%s: %w", ticker, name, ErrInsufficientData)
	}

	alloc := p.Allocate
	if alloc == nil {
		alloc = ProportionalAllocation
	}

	n := len(segPeriods)
	if len(statements) < n {
		n = len(statements)
	}
	if maxPeriods > 0 && maxPeriods < n {
		n = maxPeriods
	}

	series := &Series{Ticker: ticker, Segment: name}
	found := false

	for i := 0; i < n; i++ {
		segRev, ok := p.lookup(segPeriods[i], name)
		if !ok {
			continue
		}
		found = true

		stmt := statements[i]
		share := 0.0
		margin := 0.0
		if stmt.Revenue > 0 {
			share = segRev / stmt.Revenue
			margin = stmt.OperatingIncome / stmt.Revenue
		}

		series.Periods = append(series.Periods, segPeriods[i].ReportPeriod)
		series.Revenues = append(series.Revenues, segRev)
		series.GrossProfits = append(series.GrossProfits, alloc(stmt.GrossProfit, stmt.Revenue, segRev))
		series.RDExpenses = append(series.RDExpenses, alloc(stmt.RDExpense, stmt.Revenue, segRev))
		series.OperatingIncomes = append(series.OperatingIncomes, alloc(stmt.OperatingIncome, stmt.Revenue, segRev))
		series.OperatingMargins = append(series.OperatingMargins, margin)
		series.AllocationShares = append(series.AllocationShares, share)
	}

	if !found {
		return nil, fmt.Errorf("segment %q for %s (available: %s): %w",
			name, ticker, strings.Join(availableSegments(segPeriods), ", "), ErrSegmentNotFound)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("prepare %s/%s: %w", ticker, name, ErrInsufficientData)
	}
	return series, nil
}

func (p *Preparer) lookup(period models.SegmentPeriod, name string) (float64, bool) {
	for _, seg := range period.Segments {
		switch p.Mode {
		case MatchNormalized:
			if normalizeLabel(seg.Label) == normalizeLabel(name) {
				return seg.Revenue, true
			}
		default:
			if seg.Label == name {
				return seg.Revenue, true
			}
		}
	}
	return 0, false
}

func normalizeLabel(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

func availableSegments(periods []models.SegmentPeriod) []string {
	seen := make(map[string]bool)
	for _, p := range periods {
		for _, seg := range p.Segments {
			seen[seg.Label] = true
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
