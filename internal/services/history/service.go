// Package history provides monthly price history and annual financial history
package history

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

// FinancialYears is the number of annual statements reported
const FinancialYears = 5

// Service implements HistoryService
type Service struct {
	provider interfaces.MarketDataProvider
	timeout  time.Duration
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewService creates a new history service
func NewService(provider interfaces.MarketDataProvider, timeout time.Duration, logger *common.Logger) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		now:      time.Now,
	}
}

// FetchPriceHistory returns monthly closes over the last years, ascending.
// Any upstream failure yields an empty slice.
func (s *Service) FetchPriceHistory(ctx context.Context, ticker string, years int) []models.PricePoint {
	if years <= 0 {
		years = 5
	}
	to := s.now()
	from := to.AddDate(0, 0, -365*years)

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bars, err := s.provider.GetMonthlyBars(tctx, ticker, from, to)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price history unavailable")
		return []models.PricePoint{}
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	points := make([]models.PricePoint, 0, len(bars))
	for _, bar := range bars {
		points = append(points, models.PricePoint{
			Date:   bar.Date.Format("2006-01-02"),
			Year:   bar.Date.Year(),
			Month:  int(bar.Date.Month()),
			Price:  round2(bar.Close),
			Volume: bar.Volume,
		})
	}
	return points
}

// FetchFinancialHistory returns up to five years of revenue and net income,
// ascending. It falls back to synthetic figures when nothing is available.
func (s *Service) FetchFinancialHistory(ctx context.Context, ticker string) []models.FinancialYear {
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	income, err := s.provider.GetAnnualIncome(tctx, ticker, FinancialYears)
	if err != nil || len(income) == 0 {
		s.logger.Info().Str("ticker", ticker).Err(err).Msg("Annual income unavailable, using synthetic history")
		return SyntheticFinancials(ticker, s.now())
	}

	sort.SliceStable(income, func(i, j int) bool { return income[i].Year < income[j].Year })
	if len(income) > FinancialYears {
		income = income[len(income)-FinancialYears:]
	}

	out := make([]models.FinancialYear, 0, len(income))
	for _, row := range income {
		out = append(out, models.FinancialYear{
			Year:    row.Year,
			Revenue: row.TotalRevenue,
			Profit:  row.NetIncome,
		})
	}
	return out
}

// SyntheticFinancials builds five consecutive demonstration years ending last year
func SyntheticFinancials(ticker string, now time.Time) []models.FinancialYear {
	baseRevenue := 1e10
	for _, large := range []string{"TCS", "RELIANCE", "AAPL"} {
		if strings.Contains(ticker, large) {
			baseRevenue = 5e10
			break
		}
	}
	baseProfit := baseRevenue * 0.15

	out := make([]models.FinancialYear, FinancialYears)
	for i := range out {
		growth := 1 + 0.1*float64(i)
		out[i] = models.FinancialYear{
			Year:    now.Year() - FinancialYears + i,
			Revenue: baseRevenue * growth,
			Profit:  baseProfit * growth,
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ interfaces.HistoryService = (*Service)(nil)
