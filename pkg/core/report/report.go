// Package report renders valuation results as Markdown, with optional HTML
// conversion for the web UI.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"ip_valuation/pkg/core/assumption"
	"ip_valuation/pkg/core/fairvalue"
	"ip_valuation/pkg/core/health"
	"ip_valuation/pkg/core/portfolio"
)

var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// ToHTML converts a Markdown report to HTML.
func ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func money(v float64) string {
	switch {
	case v >= 1e12 || v <= -1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9 || v <= -1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6 || v <= -1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// AssumptionSummary formats a derivation with its component breakdown.
func AssumptionSummary(d *assumption.Derivation) string {
	var sb strings.Builder

	sb.WriteString("## Automatically Calculated Assumptions\n\n")

	fmt.Fprintf(&sb, "### WACC (Discount Rate): %s\n%s\n\n", pct(d.Set.WACC), d.WACC.Note)
	sb.WriteString("**Components:**\n")
	fmt.Fprintf(&sb, "- Cost of Equity: %s\n", pct(d.WACC.CostOfEquity))
	fmt.Fprintf(&sb, "- Cost of Debt: %s\n", pct(d.WACC.CostOfDebt))
	fmt.Fprintf(&sb, "- Equity Weight: %s\n", pct(d.WACC.EquityWeight))
	fmt.Fprintf(&sb, "- Debt Weight: %s\n\n", pct(d.WACC.DebtWeight))

	fmt.Fprintf(&sb, "### Tax Rate: %s\n%s\n\n", pct(d.Set.TaxRate), d.Tax.Note)
	fmt.Fprintf(&sb, "### Terminal Growth: %s\n%s\n", pct(d.Set.TerminalGrowth), d.Growth.Note)
	return sb.String()
}

// PortfolioSummary formats a full portfolio valuation with per-asset and
// per-segment breakdowns.
func PortfolioSummary(pv *portfolio.PortfolioValuation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# IP Portfolio Valuation: %s\n\n", pv.Ticker)
	fmt.Fprintf(&sb, "**Total Portfolio Value: %s**\n\n", money(pv.TotalValue))
	fmt.Fprintf(&sb, "Assumptions: WACC %s, tax rate %s, terminal growth %s\n\n",
		pct(pv.Set.WACC), pct(pv.Set.TaxRate), pct(pv.Set.TerminalGrowth))

	for _, av := range pv.Assets {
		fmt.Fprintf(&sb, "## %s (%s)\n\n", av.AssetID, av.Kind)
		if av.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", av.Description)
		}
		fmt.Fprintf(&sb, "**Asset Value: %s**\n\n", money(av.TotalValue))

		sb.WriteString("| Segment | Attribution | Method | Explicit PV | Terminal PV | Total |\n")
		sb.WriteString("|---------|-------------|--------|-------------|-------------|-------|\n")
		for _, sv := range av.Segments {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
				sv.Segment, pct(sv.Attribution), sv.Result.Method,
				money(sv.Result.PVExplicit), money(sv.Result.PVTerminal), money(sv.Result.TotalValue))
		}
		sb.WriteString("\n")
	}

	if len(pv.Skipped) > 0 {
		sb.WriteString("## Skipped Assets\n\n")
		for _, sk := range pv.Skipped {
			fmt.Fprintf(&sb, "- **%s**: %s\n", sk.AssetID, sk.Reason)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// HealthSummary formats a financial health report.
func HealthSummary(r *health.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Financial Health: %s\n\n", r.Ticker)

	sb.WriteString("## Liquidity and Leverage\n\n")
	fmt.Fprintf(&sb, "- Current Ratio: %.2f\n", r.Liquidity.CurrentRatio)
	fmt.Fprintf(&sb, "- Quick Ratio: %.2f\n", r.Liquidity.QuickRatio)
	fmt.Fprintf(&sb, "- Debt/Equity: %.2f\n", r.Liquidity.DebtToEquity)
	fmt.Fprintf(&sb, "- Interest Coverage: %.1fx\n", r.Liquidity.InterestCoverage)
	fmt.Fprintf(&sb, "- Free Cash Flow: %s (%s of revenue)\n\n", money(r.Liquidity.FreeCashFlow), pct(r.Liquidity.FCFMargin))
	fmt.Fprintf(&sb, "%s\n\n", r.Liquidity.Assessment)

	sb.WriteString("## Profitability\n\n")
	fmt.Fprintf(&sb, "- Gross Margin: %s\n", pct(r.Profitability.GrossMargin))
	fmt.Fprintf(&sb, "- Operating Margin: %s\n", pct(r.Profitability.OperatingMargin))
	fmt.Fprintf(&sb, "- Net Margin: %s\n", pct(r.Profitability.NetMargin))
	fmt.Fprintf(&sb, "- ROE: %s, ROA: %s\n\n", pct(r.Profitability.ROE), pct(r.Profitability.ROA))
	fmt.Fprintf(&sb, "%s\n\n", r.Profitability.Insight)

	sb.WriteString("## R&D Investment\n\n")
	fmt.Fprintf(&sb, "- R&D Intensity: %s\n", pct(r.RD.Intensity))
	fmt.Fprintf(&sb, "- Latest R&D Spend: %s\n", money(r.RD.LatestRD))
	fmt.Fprintf(&sb, "- R&D Growth: %s\n\n", pct(r.RD.GrowthRate))
	fmt.Fprintf(&sb, "%s\n\n", r.RD.Potential)

	sb.WriteString("## Market Position\n\n")
	fmt.Fprintf(&sb, "- Market Cap: %s\n", money(r.Market.MarketCap))
	fmt.Fprintf(&sb, "- Enterprise Value: %s\n", money(r.Market.EnterpriseValue))
	fmt.Fprintf(&sb, "- P/E: %.1f, EV/Revenue: %.1f, EV/EBITDA: %.1f\n\n", r.Market.PERatio, r.Market.EVRevenue, r.Market.EVEBITDA)
	fmt.Fprintf(&sb, "%s\n", r.Market.Insight)
	return sb.String()
}

// FairValueSummary formats a company fair value estimate.
func FairValueSummary(fv *fairvalue.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Fair Value Estimate: %s\n\n", fv.Ticker)
	fmt.Fprintf(&sb, "- Current Price: $%.2f\n", fv.CurrentPrice)
	fmt.Fprintf(&sb, "- Blended Fair Value: $%.2f\n", fv.FairValue)
	fmt.Fprintf(&sb, "- Upside/Downside: %+.1f%%\n", fv.UpsidePct)
	fmt.Fprintf(&sb, "- Recommendation: **%s**\n\n", fv.Recommendation)

	sb.WriteString("| Method | Fair Value / Share | Note |\n")
	sb.WriteString("|--------|--------------------|------|\n")
	for _, m := range fv.Methods {
		note := "-"
		if m.Err != "" {
			note = m.Err
		}
		fmt.Fprintf(&sb, "| %s | $%.2f | %s |\n", m.Method, m.ValuePerShare, note)
	}
	return sb.String()
}
