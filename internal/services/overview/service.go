// Package overview composes the company overview from resolution, quote and history
package overview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

// ErrServiceFault is returned when a fetch goroutine panics
var ErrServiceFault = errors.New("overview composition fault")

const (
	premiumPlaceholder = "Available in premium version"
	outlookNote        = "Risk level and growth potential are presentation heuristics, not financial recommendations."
)

// Service implements OverviewService
type Service struct {
	resolver     interfaces.CompanyResolver
	quotes       interfaces.QuoteService
	history      interfaces.HistoryService
	historyYears int
	logger       *common.Logger
	now          func() time.Time // injectable clock for testing
}

// NewService creates a new overview composer
func NewService(resolver interfaces.CompanyResolver, quotes interfaces.QuoteService, history interfaces.HistoryService, historyYears int, logger *common.Logger) *Service {
	if historyYears <= 0 {
		historyYears = 5
	}
	return &Service{
		resolver:     resolver,
		quotes:       quotes,
		history:      history,
		historyYears: historyYears,
		logger:       logger,
		now:          time.Now,
	}
}

// fetched holds the results of the concurrent upstream fetches
type fetched struct {
	quote      *models.QuoteSnapshot
	prices     []models.PricePoint
	financials []models.FinancialYear
}

// Compose resolves the query and builds the overview. A failed resolution is
// returned inside the response; the error is reserved for internal faults.
func (s *Service) Compose(ctx context.Context, query string) (*models.OverviewResponse, error) {
	res := s.resolver.Resolve(ctx, query)
	if !res.Success {
		return &models.OverviewResponse{Resolution: &res}, nil
	}

	data, err := s.fetchAll(ctx, res.Ticker)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("query", query).
		Str("ticker", res.Ticker).
		Str("tier", string(data.quote.Tier)).
		Int("price_points", len(data.prices)).
		Msg("Composed company overview")

	return &models.OverviewResponse{
		Data:       s.build(res, data),
		Resolution: &res,
	}, nil
}

// fetchAll runs the quote and both history fetches concurrently
func (s *Service) fetchAll(ctx context.Context, ticker string) (*fetched, error) {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		faults []error
		out    fetched
	)

	run := func(name string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().Str("ticker", ticker).Str("fetch", name).Str("panic", fmt.Sprint(r)).Msg("Fetch panicked")
					mu.Lock()
					faults = append(faults, fmt.Errorf("%w: %s: %v", ErrServiceFault, name, r))
					mu.Unlock()
				}
			}()
			fn()
		}()
	}

	run("quote", func() { out.quote = s.quotes.FetchQuote(ctx, ticker) })
	run("price_history", func() { out.prices = s.history.FetchPriceHistory(ctx, ticker, s.historyYears) })
	run("financial_history", func() { out.financials = s.history.FetchFinancialHistory(ctx, ticker) })
	wg.Wait()

	if len(faults) > 0 {
		return nil, faults[0]
	}
	if out.quote == nil {
		return nil, fmt.Errorf("%w: no quote for %s", ErrServiceFault, ticker)
	}
	if out.prices == nil {
		out.prices = []models.PricePoint{}
	}
	if out.financials == nil {
		out.financials = []models.FinancialYear{}
	}
	return &out, nil
}

func (s *Service) build(res models.ResolutionResult, data *fetched) *models.CompanyOverview {
	q := data.quote
	cur := q.Currency

	sector := q.Sector
	if sector == "" || sector == "N/A" {
		sector = res.Sector
	}
	if sector == "" {
		sector = "N/A"
	}

	marketCap := formatMoney(cur, q.MarketCap)
	volume := formatVolume(q.Volume)
	pe := peRatio(q.PERatio)

	return &models.CompanyOverview{
		Ticker:   res.Ticker,
		Name:     res.Name,
		Sector:   sector,
		Industry: q.Industry,
		Type:     res.Type,
		Logo:     res.Logo,
		Currency: cur,

		Price:          formatPrice(cur, q.CurrentPrice),
		PriceValue:     q.CurrentPrice,
		PreviousClose:  formatPrice(cur, q.PreviousClose),
		Change:         formatChange(q.PriceChange),
		ChangePct:      formatChangePct(q.PriceChangePct),
		MarketCap:      marketCap,
		MarketCapValue: q.MarketCap,
		Volume:         volume,
		VolumeValue:    q.Volume,

		PERatio:       pe,
		DividendYield: formatDividend(q.DividendYield, "N/A"),
		Week52High:    formatPrice(cur, q.Week52High),
		Week52Low:     formatPrice(cur, q.Week52Low),

		Description: q.Description,
		Website:     q.Website,
		Employees:   formatEmployees(q.Employees),

		Financials: models.OverviewFinancials{
			Revenue:         premiumPlaceholder,
			NetIncome:       premiumPlaceholder,
			TotalAssets:     premiumPlaceholder,
			TotalDebt:       premiumPlaceholder,
			OperatingIncome: premiumPlaceholder,
			EBITDA:          premiumPlaceholder,
			Note:            "Detailed financials require API key or premium data source",
		},
		KeyMetrics: models.KeyMetrics{
			PERatio:       pe,
			MarketCap:     marketCap,
			High52w:       formatPrice(cur, q.Week52High),
			Low52w:        formatPrice(cur, q.Week52Low),
			Volume:        volume,
			DividendYield: formatDividend(q.DividendYield, "0%"),
		},
		HistoricalData: models.HistoricalData{
			SharePrices: data.prices,
			Currency:    cur,
			Note:        fmt.Sprintf("%d-year monthly closing prices", s.historyYears),
		},
		FinancialHistory: data.financials,
		LongTermOutlook:  s.outlook(res.Name, sector, marketCap, q),
		DataSource: models.DataSource{
			Provider:    q.Source,
			Tier:        q.Tier,
			IsSynthetic: q.Synthetic,
		},
	}
}

func (s *Service) outlook(name, sector, marketCap string, q *models.QuoteSnapshot) models.LongTermOutlook {
	employees := "N/A"
	if q.Employees > 0 {
		employees = fmt.Sprintf("%d", q.Employees)
	}
	performance := "stable"
	if q.PriceChangePct > 0 {
		performance = "strong"
	}

	risk := "Variable"
	if q.PERatio > 15 && q.PERatio < 30 {
		risk = "Moderate"
	}
	growth := "Moderate"
	if q.PriceChangePct > 5 {
		growth = "High"
	}

	return models.LongTermOutlook{
		CompanyPerspective: fmt.Sprintf("%s operates in the %s sector with a market cap of %s. The company has %s employees and shows %s recent performance.",
			name, sector, marketCap, employees, performance),
		SectorPerspective: fmt.Sprintf("The %s sector continues to evolve with changing market dynamics. Companies in this space are focusing on innovation and market expansion.", sector),
		RiskLevel:         risk,
		GrowthPotential:   growth,
		LastUpdated:       s.now().Format("2006-01-02 15:04:05"),
		Note:              outlookNote,
	}
}

var _ interfaces.OverviewService = (*Service)(nil)
