// Package chart renders price history charts as PNG
package chart

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
	"github.com/bobmcallan/verifin/internal/services/quote"
)

// movingAveragePeriod is the window of the trend line, in months
const movingAveragePeriod = 12

// Service implements ChartService
type Service struct {
	history interfaces.HistoryService
	logger  *common.Logger
}

// NewService creates a new chart service
func NewService(history interfaces.HistoryService, logger *common.Logger) *Service {
	return &Service{history: history, logger: logger}
}

// RenderPriceChart writes a PNG of monthly closes. It returns false without
// writing when fewer than two points are available.
func (s *Service) RenderPriceChart(ctx context.Context, ticker string, years int, w io.Writer) (bool, error) {
	points := s.history.FetchPriceHistory(ctx, ticker, years)
	if len(points) < 2 {
		s.logger.Debug().Str("ticker", ticker).Int("points", len(points)).Msg("Not enough history to chart")
		return false, nil
	}

	if err := RenderPriceChart(w, ticker, quote.CurrencyFor(ticker), points); err != nil {
		return true, err
	}
	return true, nil
}

// RenderPriceChart draws the closing price line and, with a year of data,
// a twelve-month moving average.
func RenderPriceChart(w io.Writer, ticker, currency string, points []models.PricePoint) error {
	if len(points) < 2 {
		return fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	xValues := make([]time.Time, 0, len(points))
	yValues := make([]float64, 0, len(points))
	for _, p := range points {
		d, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			continue
		}
		xValues = append(xValues, d)
		yValues = append(yValues, p.Price)
	}
	if len(xValues) < 2 {
		return fmt.Errorf("need at least 2 dated points, got %d", len(xValues))
	}

	priceSeries := chart.TimeSeries{
		Name: "Close",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	series := []chart.Series{priceSeries}
	if len(xValues) >= movingAveragePeriod {
		series = append(series, chart.SMASeries{
			Name: "12M Average",
			Style: chart.Style{
				StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 3.0},
			},
			InnerSeries: priceSeries,
			Period:      movingAveragePeriod,
		})
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Monthly Close", ticker),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%s%.0f", currency, f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

var _ interfaces.ChartService = (*Service)(nil)
