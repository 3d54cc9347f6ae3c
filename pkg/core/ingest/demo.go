package ingest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ip_valuation/pkg/models"
)

// DemoSource serves bundled fixture data for a handful of large-cap tickers so
// the engine can run without API credits. Figures approximate the companies'
// public annual filings.
type DemoSource struct {
	companies map[string]demoCompany
}

type demoCompany struct {
	name       string
	segments   []models.SegmentPeriod
	statements []models.StatementPeriod
	snapshot   models.MarketSnapshot
}

// NewDemoSource returns the bundled demo data set.
func NewDemoSource() *DemoSource {
	return &DemoSource{companies: demoCompanies()}
}

// Tickers lists the tickers with demo data, sorted.
func (d *DemoSource) Tickers() []string {
	out := make([]string, 0, len(d.companies))
	for t := range d.companies {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (d *DemoSource) lookup(ticker string) (demoCompany, error) {
	c, ok := d.companies[strings.ToUpper(ticker)]
	if !ok {
		return demoCompany{}, fmt.Errorf("%s: %w", ticker, ErrTickerNotFound)
	}
	return c, nil
}

// FetchSegmentSeries returns the fixture segment disclosures, newest-first.
func (d *DemoSource) FetchSegmentSeries(_ context.Context, ticker string, limit int) ([]models.SegmentPeriod, error) {
	c, err := d.lookup(ticker)
	if err != nil {
		return nil, err
	}
	return truncate(c.segments, limit), nil
}

// FetchStatementSeries returns the fixture statements, newest-first.
func (d *DemoSource) FetchStatementSeries(_ context.Context, ticker string, limit int) ([]models.StatementPeriod, error) {
	c, err := d.lookup(ticker)
	if err != nil {
		return nil, err
	}
	return truncate(c.statements, limit), nil
}

// FetchMarketSnapshot returns the fixture market snapshot.
func (d *DemoSource) FetchMarketSnapshot(_ context.Context, ticker string) (models.MarketSnapshot, error) {
	c, err := d.lookup(ticker)
	if err != nil {
		return models.MarketSnapshot{}, err
	}
	return c.snapshot, nil
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && limit < len(s) {
		return s[:limit]
	}
	return s
}

func segs(period string, pairs ...any) models.SegmentPeriod {
	sp := models.SegmentPeriod{ReportPeriod: period}
	for i := 0; i+1 < len(pairs); i += 2 {
		sp.Segments = append(sp.Segments, models.SegmentRevenue{
			Label:   pairs[i].(string),
			Revenue: pairs[i+1].(float64),
		})
	}
	return sp
}

func demoCompanies() map[string]demoCompany {
	const b = 1e9

	return map[string]demoCompany{
		"AAPL": {
			name: "Apple Inc.",
			segments: []models.SegmentPeriod{
				segs("2024-09-28", "iPhone", 201.183*b, "Mac", 29.984*b, "iPad", 26.694*b, "Services", 96.169*b, "Wearables", 37.005*b),
				segs("2023-09-30", "iPhone", 200.583*b, "Mac", 29.357*b, "iPad", 28.300*b, "Services", 85.200*b, "Wearables", 39.845*b),
				segs("2022-09-24", "iPhone", 205.489*b, "Mac", 40.177*b, "iPad", 29.292*b, "Services", 78.129*b, "Wearables", 41.241*b),
				segs("2021-09-25", "iPhone", 191.973*b, "Mac", 35.190*b, "iPad", 31.862*b, "Services", 68.425*b, "Wearables", 38.367*b),
			},
			statements: []models.StatementPeriod{
				{
					ReportPeriod: "2024-09-28", Revenue: 391.035 * b, GrossProfit: 180.683 * b,
					OperatingIncome: 123.216 * b, NetIncome: 93.736 * b, RDExpense: 31.370 * b,
					TaxExpense: 29.749 * b, InterestExpense: 3.8 * b, TotalDebt: 106.629 * b,
					TotalAssets: 364.980 * b, TotalEquity: 56.950 * b, CurrentAssets: 152.987 * b,
					CurrentLiab: 176.392 * b, Cash: 65.171 * b, OperatingCashFlow: 118.254 * b,
					CapEx: -9.447 * b, SharesOutstanding: 15.117 * b,
				},
				{
					ReportPeriod: "2023-09-30", Revenue: 383.285 * b, GrossProfit: 169.148 * b,
					OperatingIncome: 114.301 * b, NetIncome: 96.995 * b, RDExpense: 29.915 * b,
					TaxExpense: 16.741 * b, InterestExpense: 3.9 * b, TotalDebt: 111.088 * b,
					TotalAssets: 352.583 * b, TotalEquity: 62.146 * b, CurrentAssets: 143.566 * b,
					CurrentLiab: 145.308 * b, Cash: 61.555 * b, OperatingCashFlow: 110.543 * b,
					CapEx: -10.959 * b, SharesOutstanding: 15.550 * b,
				},
				{
					ReportPeriod: "2022-09-24", Revenue: 394.328 * b, GrossProfit: 170.782 * b,
					OperatingIncome: 119.437 * b, NetIncome: 99.803 * b, RDExpense: 26.251 * b,
					TaxExpense: 19.300 * b, InterestExpense: 2.9 * b, TotalDebt: 120.069 * b,
					TotalAssets: 352.755 * b, TotalEquity: 50.672 * b, CurrentAssets: 135.405 * b,
					CurrentLiab: 153.982 * b, Cash: 48.304 * b, OperatingCashFlow: 122.151 * b,
					CapEx: -10.708 * b, SharesOutstanding: 16.216 * b,
				},
				{
					ReportPeriod: "2021-09-25", Revenue: 365.817 * b, GrossProfit: 152.836 * b,
					OperatingIncome: 108.949 * b, NetIncome: 94.680 * b, RDExpense: 21.914 * b,
					TaxExpense: 14.527 * b, InterestExpense: 2.6 * b, TotalDebt: 124.719 * b,
					TotalAssets: 351.002 * b, TotalEquity: 63.090 * b, CurrentAssets: 134.836 * b,
					CurrentLiab: 125.481 * b, Cash: 62.639 * b, OperatingCashFlow: 104.038 * b,
					CapEx: -11.085 * b, SharesOutstanding: 16.701 * b,
				},
			},
			snapshot: models.MarketSnapshot{Ticker: "AAPL", Price: 228.0, MarketCap: 3450 * b},
		},
		"MSFT": {
			name: "Microsoft Corporation",
			segments: []models.SegmentPeriod{
				segs("2024-06-30", "Productivity and Business Processes", 65.585*b, "Intelligent Cloud", 111.598*b, "More Personal Computing", 59.655*b),
				segs("2023-06-30", "Productivity and Business Processes", 69.274*b, "Intelligent Cloud", 87.907*b, "More Personal Computing", 54.734*b),
				segs("2022-06-30", "Productivity and Business Processes", 63.364*b, "Intelligent Cloud", 74.965*b, "More Personal Computing", 59.941*b),
			},
			statements: []models.StatementPeriod{
				{
					ReportPeriod: "2024-06-30", Revenue: 245.122 * b, GrossProfit: 171.450 * b,
					OperatingIncome: 109.430 * b, NetIncome: 88.136 * b, RDExpense: 27.195 * b,
					TaxExpense: 19.651 * b, InterestExpense: 2.9 * b, TotalDebt: 67.127 * b,
					TotalAssets: 512.163 * b, TotalEquity: 268.477 * b, CurrentAssets: 159.734 * b,
					CurrentLiab: 125.286 * b, Cash: 75.543 * b, OperatingCashFlow: 118.548 * b,
					CapEx: -44.477 * b, SharesOutstanding: 7.434 * b,
				},
				{
					ReportPeriod: "2023-06-30", Revenue: 211.915 * b, GrossProfit: 146.052 * b,
					OperatingIncome: 88.523 * b, NetIncome: 72.361 * b, RDExpense: 27.195 * b,
					TaxExpense: 16.950 * b, InterestExpense: 1.968 * b, TotalDebt: 59.965 * b,
					TotalAssets: 411.976 * b, TotalEquity: 206.223 * b, CurrentAssets: 184.257 * b,
					CurrentLiab: 104.149 * b, Cash: 111.262 * b, OperatingCashFlow: 87.582 * b,
					CapEx: -28.107 * b, SharesOutstanding: 7.446 * b,
				},
				{
					ReportPeriod: "2022-06-30", Revenue: 198.270 * b, GrossProfit: 135.620 * b,
					OperatingIncome: 83.383 * b, NetIncome: 72.738 * b, RDExpense: 24.512 * b,
					TaxExpense: 10.978 * b, InterestExpense: 2.063 * b, TotalDebt: 61.270 * b,
					TotalAssets: 364.840 * b, TotalEquity: 166.542 * b, CurrentAssets: 169.684 * b,
					CurrentLiab: 95.082 * b, Cash: 104.757 * b, OperatingCashFlow: 89.035 * b,
					CapEx: -23.886 * b, SharesOutstanding: 7.496 * b,
				},
			},
			snapshot: models.MarketSnapshot{Ticker: "MSFT", Price: 425.0, MarketCap: 3160 * b},
		},
		"QCOM": {
			name: "QUALCOMM Incorporated",
			segments: []models.SegmentPeriod{
				segs("2024-09-29", "QCT", 28.037*b, "QTL", 8.411*b),
				segs("2023-09-24", "QCT", 30.382*b, "QTL", 5.306*b),
				segs("2022-09-25", "QCT", 37.677*b, "QTL", 6.358*b),
			},
			statements: []models.StatementPeriod{
				{
					ReportPeriod: "2024-09-29", Revenue: 38.963 * b, GrossProfit: 22.384 * b,
					OperatingIncome: 11.083 * b, NetIncome: 10.142 * b, RDExpense: 8.033 * b,
					TaxExpense: 1.558 * b, InterestExpense: 0.698 * b, TotalDebt: 14.620 * b,
					TotalAssets: 55.154 * b, TotalEquity: 26.274 * b, CurrentAssets: 22.131 * b,
					CurrentLiab: 10.504 * b, Cash: 7.849 * b, OperatingCashFlow: 12.202 * b,
					CapEx: -1.041 * b, SharesOutstanding: 1.115 * b,
				},
				{
					ReportPeriod: "2023-09-24", Revenue: 35.820 * b, GrossProfit: 19.951 * b,
					OperatingIncome: 7.788 * b, NetIncome: 7.232 * b, RDExpense: 8.818 * b,
					TaxExpense: 0.104 * b, InterestExpense: 0.700 * b, TotalDebt: 15.398 * b,
					TotalAssets: 51.040 * b, TotalEquity: 21.581 * b, CurrentAssets: 20.724 * b,
					CurrentLiab: 9.453 * b, Cash: 8.450 * b, OperatingCashFlow: 11.299 * b,
					CapEx: -1.450 * b, SharesOutstanding: 1.114 * b,
				},
				{
					ReportPeriod: "2022-09-25", Revenue: 44.200 * b, GrossProfit: 25.565 * b,
					OperatingIncome: 15.860 * b, NetIncome: 12.936 * b, RDExpense: 8.194 * b,
					TaxExpense: 2.012 * b, InterestExpense: 0.490 * b, TotalDebt: 15.621 * b,
					TotalAssets: 49.014 * b, TotalEquity: 18.013 * b, CurrentAssets: 20.190 * b,
					CurrentLiab: 11.866 * b, Cash: 2.773 * b, OperatingCashFlow: 9.096 * b,
					CapEx: -2.262 * b, SharesOutstanding: 1.124 * b,
				},
			},
			snapshot: models.MarketSnapshot{Ticker: "QCOM", Price: 168.0, MarketCap: 187 * b},
		},
		"NVDA": {
			name: "NVIDIA Corporation",
			segments: []models.SegmentPeriod{
				segs("2024-01-28", "Compute and Networking", 47.523*b, "Graphics", 12.488*b),
				segs("2023-01-29", "Compute and Networking", 15.068*b, "Graphics", 11.906*b),
			},
			statements: []models.StatementPeriod{
				{
					ReportPeriod: "2024-01-28", Revenue: 60.922 * b, GrossProfit: 45.365 * b,
					OperatingIncome: 32.972 * b, NetIncome: 29.760 * b, RDExpense: 8.675 * b,
					TaxExpense: 4.058 * b, InterestExpense: 0.257 * b, TotalDebt: 9.709 * b,
					TotalAssets: 65.728 * b, TotalEquity: 42.978 * b, CurrentAssets: 44.345 * b,
					CurrentLiab: 10.631 * b, Cash: 25.984 * b, OperatingCashFlow: 28.090 * b,
					CapEx: -1.069 * b, SharesOutstanding: 24.660 * b,
				},
				{
					ReportPeriod: "2023-01-29", Revenue: 26.974 * b, GrossProfit: 15.356 * b,
					OperatingIncome: 4.224 * b, NetIncome: 4.368 * b, RDExpense: 7.339 * b,
					TaxExpense: -0.187 * b, InterestExpense: 0.262 * b, TotalDebt: 10.953 * b,
					TotalAssets: 41.182 * b, TotalEquity: 22.101 * b, CurrentAssets: 23.073 * b,
					CurrentLiab: 6.563 * b, Cash: 13.296 * b, OperatingCashFlow: 5.641 * b,
					CapEx: -1.833 * b, SharesOutstanding: 24.661 * b,
				},
			},
			snapshot: models.MarketSnapshot{Ticker: "NVDA", Price: 131.0, MarketCap: 3210 * b},
		},
		"TSLA": {
			name: "Tesla, Inc.",
			segments: []models.SegmentPeriod{
				segs("2023-12-31", "Automotive Sales", 82.419*b, "Energy Generation and Storage", 6.035*b, "Services and Other", 8.319*b),
				segs("2022-12-31", "Automotive Sales", 71.462*b, "Energy Generation and Storage", 3.909*b, "Services and Other", 6.091*b),
			},
			statements: []models.StatementPeriod{
				{
					ReportPeriod: "2023-12-31", Revenue: 96.773 * b, GrossProfit: 17.660 * b,
					OperatingIncome: 8.891 * b, NetIncome: 14.997 * b, RDExpense: 3.969 * b,
					TaxExpense: -5.001 * b, InterestExpense: 0.156 * b, TotalDebt: 9.573 * b,
					TotalAssets: 106.618 * b, TotalEquity: 62.634 * b, CurrentAssets: 49.616 * b,
					CurrentLiab: 28.748 * b, Cash: 16.398 * b, OperatingCashFlow: 13.256 * b,
					CapEx: -8.899 * b, SharesOutstanding: 3.185 * b,
				},
				{
					ReportPeriod: "2022-12-31", Revenue: 81.462 * b, GrossProfit: 20.853 * b,
					OperatingIncome: 13.656 * b, NetIncome: 12.556 * b, RDExpense: 3.075 * b,
					TaxExpense: 1.132 * b, InterestExpense: 0.191 * b, TotalDebt: 5.748 * b,
					TotalAssets: 82.338 * b, TotalEquity: 44.704 * b, CurrentAssets: 40.917 * b,
					CurrentLiab: 26.709 * b, Cash: 16.253 * b, OperatingCashFlow: 14.724 * b,
					CapEx: -7.158 * b, SharesOutstanding: 3.164 * b,
				},
			},
			snapshot: models.MarketSnapshot{Ticker: "TSLA", Price: 248.0, MarketCap: 790 * b},
		},
	}
}
