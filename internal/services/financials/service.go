// Package financials renders the sectioned key statistics view
package financials

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

// Service implements FinancialsService
type Service struct {
	provider interfaces.MarketStatsProvider
	timeout  time.Duration
	logger   *common.Logger
}

// NewService creates a new key statistics service
func NewService(provider interfaces.MarketStatsProvider, timeout time.Duration, logger *common.Logger) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{provider: provider, timeout: timeout, logger: logger}
}

// GetKeyStatistics fetches the figures and groups them into display sections
func (s *Service) GetKeyStatistics(ctx context.Context, ticker string) (*models.KeyStatisticsResponse, error) {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.provider.GetKeyStatistics(tctx, ticker)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Key statistics unavailable")
		return nil, fmt.Errorf("key statistics for %s: %w", ticker, err)
	}
	if stats == nil {
		return nil, fmt.Errorf("key statistics for %s: empty response", ticker)
	}
	return &models.KeyStatisticsResponse{Sections: Sections(stats)}, nil
}

// Sections groups key statistics into the valuation, highlights, balance
// sheet and cash flow sections in display order.
func Sections(k *models.KeyStatistics) []models.FinancialSection {
	return []models.FinancialSection{
		{
			Title: "Valuation Measures",
			Metrics: []models.FinancialMetric{
				{Label: "Market Cap", Value: k.MarketCap},
				{Label: "Enterprise Value", Value: k.EnterpriseValue},
				{Label: "Trailing P/E", Value: k.TrailingPE},
				{Label: "Forward P/E", Value: k.ForwardPE},
				{Label: "PEG Ratio", Value: k.PEGRatio},
				{Label: "Price/Sales", Value: k.PriceToSales},
				{Label: "Price/Book", Value: k.PriceToBook},
				{Label: "EV/Revenue", Value: k.EVToRevenue},
				{Label: "EV/EBITDA", Value: k.EVToEBITDA},
			},
		},
		{
			Title: "Financial Highlights",
			Metrics: []models.FinancialMetric{
				{Label: "Profit Margin", Value: k.ProfitMargin},
				{Label: "Operating Margin", Value: k.OperatingMargin},
				{Label: "Return on Assets", Value: k.ReturnOnAssets},
				{Label: "Return on Equity", Value: k.ReturnOnEquity},
				{Label: "Revenue (ttm)", Value: k.Revenue},
				{Label: "Revenue Per Share", Value: k.RevenuePerShare},
				{Label: "Gross Profit", Value: k.GrossProfit},
				{Label: "EBITDA", Value: k.EBITDA},
				{Label: "Net Income (ttm)", Value: k.NetIncome},
				{Label: "Diluted EPS", Value: k.DilutedEPS},
			},
		},
		{
			Title: "Balance Sheet",
			Metrics: []models.FinancialMetric{
				{Label: "Total Cash", Value: k.TotalCash},
				{Label: "Total Debt", Value: k.TotalDebt},
				{Label: "Current Ratio", Value: k.CurrentRatio},
				{Label: "Book Value Per Share", Value: k.BookValuePerShare},
			},
		},
		{
			Title: "Cash Flow",
			Metrics: []models.FinancialMetric{
				{Label: "Operating Cash Flow", Value: k.OperatingCashFlow},
				{Label: "Levered Free Cash Flow", Value: k.FreeCashFlow},
			},
		},
	}
}

var _ interfaces.FinancialsService = (*Service)(nil)
