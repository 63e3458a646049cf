// Package resolver maps free-text company queries to tickers
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/directory"
	"github.com/bobmcallan/verifin/internal/fuzzy"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

const (
	// MatchThreshold is the score a fuzzy match must exceed
	MatchThreshold = 78

	// VerifiedConfidence is reported for tickers confirmed by a live price
	VerifiedConfidence = 90

	// maxVerifyLength bounds the queries treated as raw tickers
	maxVerifyLength = 10
)

// Service implements CompanyResolver over the company directory
type Service struct {
	directory     *directory.Directory
	prices        interfaces.PriceChecker
	verifyTimeout time.Duration
	logger        *common.Logger
}

// NewService creates a new resolver.
// prices may be nil, in which case unknown tickers are never verified.
func NewService(dir *directory.Directory, prices interfaces.PriceChecker, verifyTimeout time.Duration, logger *common.Logger) *Service {
	if verifyTimeout <= 0 {
		verifyTimeout = 5 * time.Second
	}
	return &Service{
		directory:     dir,
		prices:        prices,
		verifyTimeout: verifyTimeout,
		logger:        logger,
	}
}

// Resolve runs the exact, fuzzy and live verification passes in order
func (s *Service) Resolve(ctx context.Context, query string) models.ResolutionResult {
	query = strings.TrimSpace(query)

	if rec, ok := s.exactMatch(query); ok {
		s.logger.Debug().Str("query", query).Str("ticker", rec.Ticker).Msg("Exact ticker match")
		return success(rec, 100)
	}

	if rec, score, ok := s.bestFuzzyMatch(query); ok && score > MatchThreshold {
		s.logger.Debug().Str("query", query).Str("ticker", rec.Ticker).Int("confidence", score).Msg("Fuzzy match")
		return success(rec, score)
	}

	if isTickerLike(query) && s.prices != nil {
		if res, ok := s.verify(ctx, query); ok {
			return res
		}
	}

	s.logger.Info().Str("query", query).Msg("No company match")
	return models.ResolutionResult{
		Success:     false,
		Message:     fmt.Sprintf("No match found for '%s'", query),
		Suggestions: append([]string(nil), models.DefaultSuggestions...),
	}
}

// exactMatch compares the uppercased query against each ticker and its dot segments
func (s *Service) exactMatch(query string) (models.CompanyRecord, bool) {
	if query == "" {
		return models.CompanyRecord{}, false
	}
	upper := strings.ToUpper(query)
	for _, rec := range s.directory.Entries() {
		if rec.Ticker == upper {
			return rec, true
		}
		for _, segment := range strings.Split(rec.Ticker, ".") {
			if segment == upper {
				return rec, true
			}
		}
	}
	return models.CompanyRecord{}, false
}

// bestFuzzyMatch scores every entry and keeps the first highest
func (s *Service) bestFuzzyMatch(query string) (models.CompanyRecord, int, bool) {
	if query == "" {
		return models.CompanyRecord{}, 0, false
	}
	q := strings.ToLower(query)

	var best models.CompanyRecord
	bestScore, found := -1, false
	for _, rec := range s.directory.Entries() {
		score := entryScore(q, rec)
		if score > bestScore {
			best, bestScore, found = rec, score, true
		}
	}
	return best, bestScore, found
}

func entryScore(lowerQuery string, rec models.CompanyRecord) int {
	name := fuzzy.PartialRatio(lowerQuery, strings.ToLower(rec.Name))
	ticker := fuzzy.Ratio(lowerQuery, strings.ReplaceAll(strings.ToLower(rec.Ticker), ".ns", ""))
	if ticker > name {
		return fuzzy.Score(ticker)
	}
	return fuzzy.Score(name)
}

// verify treats the query as a raw ticker and accepts it when a live price exists
func (s *Service) verify(ctx context.Context, query string) (models.ResolutionResult, bool) {
	ticker := strings.ToUpper(query)

	vctx, cancel := context.WithTimeout(ctx, s.verifyTimeout)
	defer cancel()

	price, err := s.prices.CheckPrice(vctx, ticker)
	if err != nil || price <= 0 {
		s.logger.Debug().Str("ticker", ticker).Err(err).Msg("Direct ticker verification failed")
		return models.ResolutionResult{}, false
	}

	// The symbol may exist on a market other than the one intended
	s.logger.Warn().Str("ticker", ticker).Float64("price", price).Msg("Resolved unlisted ticker by live price")
	return models.ResolutionResult{
		Success:    true,
		Ticker:     ticker,
		Name:       ticker,
		Type:       models.CompanyTypePublic,
		Sector:     "N/A",
		Logo:       "",
		Confidence: VerifiedConfidence,
	}, true
}

func isTickerLike(query string) bool {
	return len(strings.Fields(query)) == 1 && len(query) <= maxVerifyLength
}

func success(rec models.CompanyRecord, confidence int) models.ResolutionResult {
	return models.ResolutionResult{
		Success:    true,
		Ticker:     rec.Ticker,
		Name:       rec.Name,
		Type:       rec.Type,
		Sector:     rec.Sector,
		Logo:       rec.Logo,
		Confidence: confidence,
	}
}

var _ interfaces.CompanyResolver = (*Service)(nil)
