// Package yahoo provides a keyless market data provider backed by Yahoo Finance
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"time"

	yf "github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/models"
)

const DefaultRateLimit = 5 // requests per second

// ErrUnsupported is returned for data Yahoo does not expose through this client
var ErrUnsupported = errors.New("not supported by yahoo provider")

// source is the upstream seam; the library calls block and ignore contexts
type source interface {
	info(symbol string) (*yf.Info, error)
	quote(symbol string) (*yf.Quote, error)
	history(symbol, period, interval string) ([]models.PriceBar, error)
}

// Client implements interfaces.MarketClient against Yahoo Finance
type Client struct {
	src     source
	logger  *common.Logger
	limiter *rate.Limiter
	now     func() time.Time
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithClock overrides the time source used for date windows
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

func withSource(src source) ClientOption {
	return func(c *Client) {
		c.src = src
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		src:     librarySource{},
		logger:  common.NewSilentLogger(),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call runs a blocking upstream call so that ctx cancellation returns promptly.
// The abandoned goroutine finishes in the background.
func call[T any](ctx context.Context, c *Client, fn func() (T, error)) (T, error) {
	var zero T
	if err := c.limiter.Wait(ctx); err != nil {
		return zero, fmt.Errorf("rate limit wait: %w", err)
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("yahoo client panic: %v", r)}
			}
		}()
		v, err := fn()
		done <- result{val: v, err: err}
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-done:
		return r.val, r.err
	}
}

// librarySource adapts go-yfinance
type librarySource struct{}

func (librarySource) info(symbol string) (*yf.Info, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	i, err := t.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get info: %w", err)
	}
	if i == nil {
		return nil, fmt.Errorf("empty info for %s", symbol)
	}
	return i, nil
}

func (librarySource) quote(symbol string) (*yf.Quote, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	q, err := t.Quote()
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if q == nil {
		return nil, fmt.Errorf("empty quote for %s", symbol)
	}
	return q, nil
}

func (librarySource) history(symbol, period, interval string) ([]models.PriceBar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(yf.HistoryParams{
		Period:     period,
		Interval:   interval,
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	out := make([]models.PriceBar, 0, len(bars))
	for _, bar := range bars {
		out = append(out, models.PriceBar{
			Date:     bar.Date,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			AdjClose: bar.AdjClose,
			Volume:   bar.Volume,
		})
	}
	return out, nil
}
