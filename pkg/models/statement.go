// Package models defines the shared financial record types exchanged between
// the data-fetch layer and the valuation engine. All types are plain value
// objects: created once from provider data, never mutated afterwards.
package models

// StatementPeriod is one fiscal period of company-wide disclosed financials.
// Every series handed to the engine must keep a single consistent period
// order (newest-first, matching the provider) and equal lengths.
type StatementPeriod struct {
	ReportPeriod      string  `json:"report_period"` // e.g. "2024-09-28"
	Revenue           float64 `json:"revenue"`
	GrossProfit       float64 `json:"gross_profit"`
	OperatingIncome   float64 `json:"operating_income"`
	NetIncome         float64 `json:"net_income"`
	RDExpense         float64 `json:"rd_expense"`
	TaxExpense        float64 `json:"tax_expense"`
	InterestExpense   float64 `json:"interest_expense"`
	TotalDebt         float64 `json:"total_debt"`
	TotalAssets       float64 `json:"total_assets"`
	TotalEquity       float64 `json:"total_equity"`
	CurrentAssets     float64 `json:"current_assets"`
	CurrentLiab       float64 `json:"current_liabilities"`
	Cash              float64 `json:"cash"`
	OperatingCashFlow float64 `json:"operating_cash_flow"`
	CapEx             float64 `json:"capex"` // negative per provider convention
	SharesOutstanding float64 `json:"shares_outstanding"`
}

// SegmentRevenue is a single segment's disclosed revenue for one period.
type SegmentRevenue struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// SegmentPeriod holds the disclosed segment revenue breakdown for one period.
type SegmentPeriod struct {
	ReportPeriod string           `json:"report_period"`
	Segments     []SegmentRevenue `json:"segments"`
}

// MarketSnapshot is the latest market pricing for a ticker.
type MarketSnapshot struct {
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`
}

// PreTaxIncome returns net income grossed up by tax expense.
func (p StatementPeriod) PreTaxIncome() float64 {
	return p.NetIncome + p.TaxExpense
}

// FreeCashFlow returns operating cash flow plus (negative) capital expenditure.
func (p StatementPeriod) FreeCashFlow() float64 {
	return p.OperatingCashFlow + p.CapEx
}
