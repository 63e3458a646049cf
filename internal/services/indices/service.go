// Package indices renders the market indices ticker
package indices

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

// lookbackDays covers a weekend plus a holiday
const lookbackDays = 5

const (
	colorUp      = "text-green-400"
	colorDown    = "text-red-400"
	colorUnknown = "text-gray-400"
)

// Service implements IndicesService
type Service struct {
	provider interfaces.MarketStatsProvider
	indices  []common.IndexConfig
	timeout  time.Duration
	logger   *common.Logger
}

// NewService creates a new indices service. An empty list uses common.DefaultIndices.
func NewService(provider interfaces.MarketStatsProvider, indices []common.IndexConfig, timeout time.Duration, logger *common.Logger) *Service {
	if len(indices) == 0 {
		indices = common.DefaultIndices()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		provider: provider,
		indices:  indices,
		timeout:  timeout,
		logger:   logger,
	}
}

// GetIndices fetches every configured index concurrently and returns them in configured order
func (s *Service) GetIndices(ctx context.Context) []models.IndexQuote {
	out := make([]models.IndexQuote, len(s.indices))

	var wg sync.WaitGroup
	for i, idx := range s.indices {
		wg.Add(1)
		go func(i int, idx common.IndexConfig) {
			defer wg.Done()
			out[i] = s.fetch(ctx, idx)
		}(i, idx)
	}
	wg.Wait()

	return out
}

func (s *Service) fetch(ctx context.Context, idx common.IndexConfig) (quote models.IndexQuote) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("index", idx.Name).Str("panic", fmt.Sprint(r)).Msg("Index fetch panicked")
			quote = errorQuote(idx.Name)
		}
	}()

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bars, err := s.provider.GetRecentDailyBars(tctx, idx.Symbol, lookbackDays)
	if err != nil {
		s.logger.Warn().Str("index", idx.Name).Str("symbol", idx.Symbol).Err(err).Msg("Index fetch failed")
		return errorQuote(idx.Name)
	}
	if len(bars) == 0 {
		return models.IndexQuote{
			Name:      idx.Name,
			Price:     "N/A",
			Change:    "0.00",
			ChangePct: "0.00",
			Color:     colorUnknown,
		}
	}

	current := bars[len(bars)-1]
	previous := current
	if len(bars) > 1 {
		previous = bars[len(bars)-2]
	}
	return Render(idx.Name, current.Close, previous.Close)
}

// Render formats an index level and its change from the previous close
func Render(name string, price, previousClose float64) models.IndexQuote {
	change := price - previousClose
	var pct float64
	if previousClose != 0 {
		pct = change / previousClose * 100
	}

	q := models.IndexQuote{
		Name:      name,
		Price:     common.GroupFloat(price),
		Change:    common.GroupFloat(change),
		ChangePct: fmt.Sprintf("%.2f%%", pct),
		Color:     colorDown,
		Icon:      "▼",
	}
	if change >= 0 {
		q.Change = "+" + q.Change
		q.ChangePct = "+" + q.ChangePct
		q.Color = colorUp
		q.Icon = "▲"
	}
	return q
}

func errorQuote(name string) models.IndexQuote {
	return models.IndexQuote{
		Name:      name,
		Price:     "Error",
		Change:    "0",
		ChangePct: "0%",
		Color:     colorUnknown,
	}
}

var _ interfaces.IndicesService = (*Service)(nil)
