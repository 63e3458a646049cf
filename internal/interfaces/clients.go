// Package interfaces defines service contracts for VeriFin
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/verifin/internal/models"
)

// MarketDataProvider supplies quotes, bars and statements for a ticker
type MarketDataProvider interface {
	// Name identifies the provider in logs and overview data sources
	Name() string

	// GetProfile retrieves the full quote plus company profile
	GetProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error)

	// GetFastQuote retrieves the cheapest available price snapshot
	GetFastQuote(ctx context.Context, ticker string) (*models.FastQuote, error)

	// GetLatestBar retrieves the most recent daily bar
	GetLatestBar(ctx context.Context, ticker string) (*models.PriceBar, error)

	// GetMonthlyBars retrieves monthly bars between from and to, ascending
	GetMonthlyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error)

	// GetAnnualIncome retrieves up to limit annual income statements
	GetAnnualIncome(ctx context.Context, ticker string, limit int) ([]models.AnnualIncome, error)
}

// MarketStatsProvider supplies the index ticker and key statistics views
type MarketStatsProvider interface {
	// GetRecentDailyBars retrieves daily bars covering the last days calendar days, ascending
	GetRecentDailyBars(ctx context.Context, ticker string, days int) ([]models.PriceBar, error)

	// GetKeyStatistics retrieves valuation and financial highlight figures
	GetKeyStatistics(ctx context.Context, ticker string) (*models.KeyStatistics, error)
}

// MarketClient is a provider that serves both the pipeline and the stats views
type MarketClient interface {
	MarketDataProvider
	MarketStatsProvider
}

// TextGenerator produces free text from a prompt (the optional AI capability)
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// JSONGenerator produces a JSON document from a prompt and decodes it into out
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, out any) error
}
