package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ip_valuation/pkg/models"
)

const (
	// Financial Datasets API endpoints
	// API Documentation: https://www.financialdatasets.ai/
	DefaultBaseURL = "https://api.financialdatasets.ai"

	segmentedRevenuesPath = "/financials/segmented-revenues/"
	incomeStatementsPath  = "/financials/all-financial-statements/"
	priceSnapshotPath     = "/prices/snapshot/"
)

// =============================================================================
// API RESPONSE TYPES
// =============================================================================

// apiSegmentTag identifies which segment a revenue item belongs to.
type apiSegmentTag struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// apiRevenueItem is one line item within a segmented-revenue disclosure.
type apiRevenueItem struct {
	Name     string          `json:"name"`
	Amount   float64         `json:"amount"`
	Segments []apiSegmentTag `json:"segments"`
}

// apiSegmentedRevenue is one reporting period of segment disclosures.
type apiSegmentedRevenue struct {
	Ticker       string           `json:"ticker"`
	Period       string           `json:"period"`
	ReportPeriod string           `json:"report_period"`
	Items        []apiRevenueItem `json:"items"`
}

type segmentedRevenuesResponse struct {
	SegmentedRevenues []apiSegmentedRevenue `json:"segmented_revenues"`
}

type statementsResponse struct {
	Statements []models.StatementPeriod `json:"financial_statements"`
}

type snapshotResponse struct {
	Snapshot struct {
		Ticker    string  `json:"ticker"`
		Price     float64 `json:"price"`
		MarketCap float64 `json:"market_cap"`
	} `json:"snapshot"`
}

// =============================================================================
// API CLIENT
// =============================================================================

// APIClient fetches data from the Financial Datasets API. It satisfies
// DataSource.
type APIClient struct {
	baseURL    string
	apiKey     string
	period     string
	httpClient *http.Client
}

// NewAPIClient creates a Financial Datasets API client. The key is sent in
// the X-API-KEY header on every request.
func NewAPIClient(apiKey string) *APIClient {
	return &APIClient{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		period:  "annual",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithBaseURL overrides the API host, used by tests against httptest servers.
func (c *APIClient) WithBaseURL(base string) *APIClient {
	c.baseURL = base
	return c
}

func (c *APIClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("financial datasets API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrTickerNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("financial datasets API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse API response: %w", err)
	}
	return nil
}

func (c *APIClient) params(ticker string, limit int) url.Values {
	v := url.Values{}
	v.Set("ticker", ticker)
	v.Set("period", c.period)
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

// FetchSegmentSeries returns segment revenue disclosures, newest-first.
func (c *APIClient) FetchSegmentSeries(ctx context.Context, ticker string, limit int) ([]models.SegmentPeriod, error) {
	var resp segmentedRevenuesResponse
	if err := c.get(ctx, segmentedRevenuesPath, c.params(ticker, limit), &resp); err != nil {
		return nil, err
	}
	if len(resp.SegmentedRevenues) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrTickerNotFound)
	}

	periods := make([]models.SegmentPeriod, 0, len(resp.SegmentedRevenues))
	for _, sr := range resp.SegmentedRevenues {
		period := models.SegmentPeriod{ReportPeriod: sr.ReportPeriod}
		for _, item := range sr.Items {
			if item.Name != "Revenue" || len(item.Segments) == 0 {
				continue
			}
			// The first tag carries the product/segment label.
			period.Segments = append(period.Segments, models.SegmentRevenue{
				Label:   item.Segments[0].Label,
				Revenue: item.Amount,
			})
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// FetchStatementSeries returns company-level statements, newest-first.
func (c *APIClient) FetchStatementSeries(ctx context.Context, ticker string, limit int) ([]models.StatementPeriod, error) {
	var resp statementsResponse
	if err := c.get(ctx, incomeStatementsPath, c.params(ticker, limit), &resp); err != nil {
		return nil, err
	}
	if len(resp.Statements) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrTickerNotFound)
	}
	return resp.Statements, nil
}

// FetchMarketSnapshot returns the current price and market capitalization.
func (c *APIClient) FetchMarketSnapshot(ctx context.Context, ticker string) (models.MarketSnapshot, error) {
	v := url.Values{}
	v.Set("ticker", ticker)

	var resp snapshotResponse
	if err := c.get(ctx, priceSnapshotPath, v, &resp); err != nil {
		return models.MarketSnapshot{}, err
	}
	return models.MarketSnapshot{
		Ticker:    ticker,
		Price:     resp.Snapshot.Price,
		MarketCap: resp.Snapshot.MarketCap,
	}, nil
}
