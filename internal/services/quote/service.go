// Package quote provides a normalized quote service with tiered fallback
package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

// DefaultTierTimeout bounds each upstream attempt.
const DefaultTierTimeout = 5 * time.Second

const (
	fastModeDescription = "Description unavailable in fast mode."
	noDescription       = "No description available"
	notAvailable        = "N/A"
)

// tierResult is the outcome of one attempt in the fallback chain.
type tierResult struct {
	tier     models.QuoteTier
	snapshot *models.QuoteSnapshot
	err      error
}

// Service implements QuoteService: profile, then fast quote, then the last
// daily bar, and finally a flagged synthetic snapshot.
type Service struct {
	provider    interfaces.MarketDataProvider
	tierTimeout time.Duration
	logger      *common.Logger
}

// NewService creates a new quote service.
// A non-positive tierTimeout uses DefaultTierTimeout.
func NewService(provider interfaces.MarketDataProvider, tierTimeout time.Duration, logger *common.Logger) *Service {
	if tierTimeout <= 0 {
		tierTimeout = DefaultTierTimeout
	}
	return &Service{
		provider:    provider,
		tierTimeout: tierTimeout,
		logger:      logger,
	}
}

// FetchQuote walks the tiers in order and returns the first usable snapshot.
// It never fails; when every real tier fails the snapshot is synthetic.
func (s *Service) FetchQuote(ctx context.Context, ticker string) *models.QuoteSnapshot {
	tiers := []func(context.Context, string) tierResult{
		s.fromProfile,
		s.fromFastQuote,
		s.fromLatestBar,
	}

	for _, attempt := range tiers {
		tctx, cancel := context.WithTimeout(ctx, s.tierTimeout)
		res := attempt(tctx, ticker)
		cancel()

		if res.err == nil && res.snapshot != nil {
			res.snapshot.Tier = res.tier
			res.snapshot.Source = s.provider.Name()
			normalize(res.snapshot)
			s.logger.Debug().
				Str("ticker", ticker).
				Str("tier", string(res.tier)).
				Float64("price", res.snapshot.CurrentPrice).
				Msg("Quote fetched")
			return res.snapshot
		}

		s.logger.Warn().
			Str("ticker", ticker).
			Str("tier", string(res.tier)).
			Err(res.err).
			Msg("Quote tier failed, falling back")
	}

	s.logger.Warn().Str("ticker", ticker).Msg("All quote tiers failed, serving synthetic data")
	return Synthetic(ticker)
}

// CheckPrice returns the fast-quote price under one tier timeout
func (s *Service) CheckPrice(ctx context.Context, ticker string) (float64, error) {
	tctx, cancel := context.WithTimeout(ctx, s.tierTimeout)
	defer cancel()

	q, err := s.provider.GetFastQuote(tctx, ticker)
	if err != nil {
		return 0, fmt.Errorf("price check for %s: %w", ticker, err)
	}
	if q == nil || q.LastPrice <= 0 {
		return 0, fmt.Errorf("price check for %s: no price", ticker)
	}
	return q.LastPrice, nil
}

func (s *Service) fromProfile(ctx context.Context, ticker string) tierResult {
	res := tierResult{tier: models.TierProfile}
	p, err := s.provider.GetProfile(ctx, ticker)
	if err != nil {
		res.err = err
		return res
	}
	if p == nil || p.CurrentPrice <= 0 {
		res.err = fmt.Errorf("profile has no current price")
		return res
	}
	res.snapshot = &models.QuoteSnapshot{
		Ticker:        ticker,
		CurrentPrice:  p.CurrentPrice,
		PreviousClose: p.PreviousClose,
		MarketCap:     p.MarketCap,
		Volume:        p.Volume,
		PERatio:       p.PERatio,
		DividendYield: p.DividendYield,
		Week52High:    p.Week52High,
		Week52Low:     p.Week52Low,
		Sector:        p.Sector,
		Industry:      p.Industry,
		Description:   p.Description,
		Website:       p.Website,
		Employees:     p.Employees,
	}
	return res
}

func (s *Service) fromFastQuote(ctx context.Context, ticker string) tierResult {
	res := tierResult{tier: models.TierFastQuote}
	q, err := s.provider.GetFastQuote(ctx, ticker)
	if err != nil {
		res.err = err
		return res
	}
	if q == nil || q.LastPrice <= 0 {
		res.err = fmt.Errorf("fast quote has no price")
		return res
	}
	res.snapshot = &models.QuoteSnapshot{
		Ticker:        ticker,
		CurrentPrice:  q.LastPrice,
		PreviousClose: q.PreviousClose,
		MarketCap:     q.MarketCap,
		Volume:        q.Volume,
		Week52High:    q.Week52High,
		Week52Low:     q.Week52Low,
		Sector:        notAvailable,
		Industry:      notAvailable,
		Description:   fastModeDescription,
	}
	return res
}

func (s *Service) fromLatestBar(ctx context.Context, ticker string) tierResult {
	res := tierResult{tier: models.TierLastBar}
	bar, err := s.provider.GetLatestBar(ctx, ticker)
	if err != nil {
		res.err = err
		return res
	}
	if bar == nil || bar.Close <= 0 {
		res.err = fmt.Errorf("latest bar has no close")
		return res
	}
	// The open stands in for the previous close
	res.snapshot = &models.QuoteSnapshot{
		Ticker:        ticker,
		CurrentPrice:  bar.Close,
		PreviousClose: bar.Open,
		Volume:        bar.Volume,
	}
	return res
}

// normalize fills defaults and derives the change fields of a real snapshot
func normalize(q *models.QuoteSnapshot) {
	q.Currency = CurrencyFor(q.Ticker)
	if q.PreviousClose <= 0 {
		q.PreviousClose = q.CurrentPrice
	}
	q.PriceChange, q.PriceChangePct = 0, 0
	if q.CurrentPrice > 0 && q.PreviousClose > 0 {
		q.PriceChange = q.CurrentPrice - q.PreviousClose
		q.PriceChangePct = q.PriceChange / q.PreviousClose * 100
	}
	if q.Sector == "" {
		q.Sector = notAvailable
	}
	if q.Industry == "" {
		q.Industry = notAvailable
	}
	if q.Description == "" {
		q.Description = noDescription
	}
}

// Synthetic builds the deterministic demonstration snapshot for a ticker
func Synthetic(ticker string) *models.QuoteSnapshot {
	base := 2500.0
	if IsIndian(ticker) {
		base = 1000.0
	}
	price := base + float64(10*len(ticker))
	return &models.QuoteSnapshot{
		Ticker:         ticker,
		CurrentPrice:   price,
		PreviousClose:  price - 15,
		PriceChange:    15.0,
		PriceChangePct: 1.5,
		Currency:       CurrencyFor(ticker),
		MarketCap:      1e10,
		Volume:         1000000,
		PERatio:        20.5,
		DividendYield:  0.01,
		Week52High:     price * 1.2,
		Week52Low:      price * 0.8,
		Sector:         "Technology",
		Industry:       "Software",
		Description:    fmt.Sprintf("Live data for %s is currently unavailable. This is a demonstration view.", ticker),
		Website:        "#",
		Employees:      5000,
		Tier:           models.TierSynthetic,
		Source:         string(models.TierSynthetic),
		Synthetic:      true,
	}
}

// IsIndian reports whether the ticker is listed on NSE or BSE
func IsIndian(ticker string) bool {
	return strings.Contains(ticker, ".NS") || strings.Contains(ticker, ".BO")
}

// CurrencyFor returns the display currency symbol for a ticker
func CurrencyFor(ticker string) string {
	if IsIndian(ticker) {
		return models.CurrencyINR
	}
	return models.CurrencyUSD
}

var _ interfaces.QuoteService = (*Service)(nil)
