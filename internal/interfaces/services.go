// Package interfaces defines service contracts for VeriFin
package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/verifin/internal/models"
)

// CompanyResolver maps free-text queries to directory entries or verified tickers
type CompanyResolver interface {
	// Resolve never fails; an unresolvable query yields Success=false
	Resolve(ctx context.Context, query string) models.ResolutionResult
}

// PriceChecker performs the cheapest live price lookup for a ticker
type PriceChecker interface {
	CheckPrice(ctx context.Context, ticker string) (float64, error)
}

// QuoteService produces normalized quotes through the tier chain
type QuoteService interface {
	PriceChecker

	// FetchQuote always returns a snapshot, synthetic when every real tier fails
	FetchQuote(ctx context.Context, ticker string) *models.QuoteSnapshot
}

// HistoryService produces price and financial history
type HistoryService interface {
	// FetchPriceHistory returns monthly closes, empty on failure
	FetchPriceHistory(ctx context.Context, ticker string, years int) []models.PricePoint

	// FetchFinancialHistory returns up to five years of revenue and profit
	FetchFinancialHistory(ctx context.Context, ticker string) []models.FinancialYear
}

// OverviewService composes company overviews
type OverviewService interface {
	Compose(ctx context.Context, query string) (*models.OverviewResponse, error)
}

// CompareService compares two companies side by side
type CompareService interface {
	Compare(ctx context.Context, query1, query2 string) (*models.Comparison, error)
}

// ChatService answers assistant messages
type ChatService interface {
	Reply(ctx context.Context, req models.ChatRequest) models.ChatResponse
}

// DocumentService analyses uploaded financial documents
type DocumentService interface {
	Analyze(ctx context.Context, filename string, data []byte) (*models.DocumentAnalysis, error)
}

// IndicesService renders the market indices ticker
type IndicesService interface {
	GetIndices(ctx context.Context) []models.IndexQuote
}

// FinancialsService renders the key statistics view
type FinancialsService interface {
	GetKeyStatistics(ctx context.Context, ticker string) (*models.KeyStatisticsResponse, error)
}

// ChartService renders price charts
type ChartService interface {
	// RenderPriceChart writes a PNG of the monthly closes and reports whether
	// enough history existed to draw one
	RenderPriceChart(ctx context.Context, ticker string, years int, w io.Writer) (bool, error)
}
