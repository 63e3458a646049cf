// Package compare composes two company overviews side by side
package compare

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

const unknownError = "Unknown error"

// staticAnalysis is the fixed commentary attached to every comparison
var staticAnalysis = models.ComparisonAnalysis{
	Valuation:      "Company 1 has higher P/E ratio indicating premium valuation",
	Growth:         "Both companies show strong revenue growth",
	Risk:           "Company 2 has lower debt-to-equity ratio",
	Recommendation: "Both are strong investments with different risk profiles",
}

// Service implements CompareService
type Service struct {
	overview interfaces.OverviewService
	logger   *common.Logger
}

// NewService creates a new comparator
func NewService(overview interfaces.OverviewService, logger *common.Logger) *Service {
	return &Service{overview: overview, logger: logger}
}

type composition struct {
	resp *models.OverviewResponse
	err  error
}

// Compare composes both queries concurrently. The first query is checked
// first when reporting a failure.
func (s *Service) Compare(ctx context.Context, query1, query2 string) (*models.Comparison, error) {
	var (
		wg     sync.WaitGroup
		first  composition
		second composition
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		first.resp, first.err = s.overview.Compose(ctx, query1)
	}()
	go func() {
		defer wg.Done()
		second.resp, second.err = s.overview.Compose(ctx, query2)
	}()
	wg.Wait()

	if first.err != nil {
		return nil, fmt.Errorf("compose %q: %w", query1, first.err)
	}
	if second.err != nil {
		return nil, fmt.Errorf("compose %q: %w", query2, second.err)
	}

	for _, c := range []struct {
		query string
		resp  *models.OverviewResponse
	}{{query1, first.resp}, {query2, second.resp}} {
		if c.resp.Success() {
			continue
		}
		detail := c.resp.Message()
		if detail == "" {
			detail = unknownError
		}
		s.logger.Info().Str("query", c.query).Str("error", detail).Msg("Comparison failed")
		return &models.Comparison{
			Success: false,
			Message: fmt.Sprintf("Could not find or fetch data for %s", c.query),
			Error:   detail,
		}, nil
	}

	analysis := staticAnalysis
	return &models.Comparison{
		Success:  true,
		Company1: first.resp.Data,
		Company2: second.resp.Data,
		Analysis: &analysis,
	}, nil
}

var _ interfaces.CompareService = (*Service)(nil)
