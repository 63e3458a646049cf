package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/directory"
	"github.com/bobmcallan/verifin/internal/models"
)

// --- Mocks ---

type mockPriceChecker struct {
	mu    sync.Mutex
	price float64
	err   error
	block bool
	calls []string
}

func (m *mockPriceChecker) CheckPrice(ctx context.Context, ticker string) (float64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ticker)
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return m.price, m.err
}

func (m *mockPriceChecker) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func newEmbeddedService(t *testing.T, prices *mockPriceChecker) *Service {
	t.Helper()
	dir, err := directory.Load("")
	require.NoError(t, err)
	return NewService(dir, prices, time.Second, common.NewSilentLogger())
}

func newCustomService(t *testing.T, prices *mockPriceChecker, records ...models.CompanyRecord) *Service {
	t.Helper()
	dir, err := directory.New(records)
	require.NoError(t, err)
	if prices == nil {
		return NewService(dir, nil, 50*time.Millisecond, common.NewSilentLogger())
	}
	return NewService(dir, prices, 50*time.Millisecond, common.NewSilentLogger())
}

func TestResolve_ExactTicker(t *testing.T) {
	prices := &mockPriceChecker{}
	svc := newEmbeddedService(t, prices)

	tests := []struct {
		query  string
		ticker string
		name   string
	}{
		{"TCS", "TCS.NS", "TCS (Tata Consultancy Services)"},
		{"tcs", "TCS.NS", ""},
		{"IDEA", "IDEA.NS", ""},
		{"zepto", "ZEPTO", ""},
		{"  AAPL  ", "AAPL", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := svc.Resolve(context.Background(), tt.query)
			require.True(t, res.Success)
			assert.Equal(t, tt.ticker, res.Ticker)
			assert.Equal(t, 100, res.Confidence)
			if tt.name != "" {
				assert.Equal(t, tt.name, res.Name)
			}
		})
	}
	assert.Zero(t, prices.callCount(), "exact matches never verify")
}

func TestResolve_FuzzyNames(t *testing.T) {
	prices := &mockPriceChecker{}
	svc := newEmbeddedService(t, prices)

	tests := []struct {
		query      string
		ticker     string
		confidence int
	}{
		{"Apple", "AAPL", 100},
		{"Cognizent", "CTSH", 89},
		{"Microsft", "MSFT", 88},
		{"Google", "GOOGL", 91},
		{"coca cola", "KO", 89},
		{"infosys", "INFY.NS", 100},
		{"tata motors", "TATAMOTORS.NS", 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res := svc.Resolve(context.Background(), tt.query)
			require.True(t, res.Success)
			assert.Equal(t, tt.ticker, res.Ticker)
			assert.Equal(t, tt.confidence, res.Confidence)
			assert.Greater(t, res.Confidence, MatchThreshold)
		})
	}
	assert.Zero(t, prices.callCount())
}

func TestResolve_CognizentIsNotZepto(t *testing.T) {
	res := newEmbeddedService(t, &mockPriceChecker{}).Resolve(context.Background(), "Cognizent")
	require.True(t, res.Success)
	assert.NotEqual(t, "ZEPTO", res.Ticker)
}

func TestResolve_ThresholdBoundary(t *testing.T) {
	records := []models.CompanyRecord{
		{Ticker: "ABCDEFGHIJKLMNOPQRS", Name: "0", Type: models.CompanyTypePublic, Sector: "Test"},
	}
	svc := newCustomService(t, nil, records...)

	// LCS 15 of 19+19 runes scores 78.95, rounded to 79
	res := svc.Resolve(context.Background(), "abcdefghijklmnowxyz")
	require.True(t, res.Success)
	assert.Equal(t, 79, res.Confidence)

	records[0].Ticker = "ABCDEFGHIJKL"
	svc = newCustomService(t, nil, records...)

	// LCS 9 of 11+12 runes scores 78.26, rounded to 78
	res = svc.Resolve(context.Background(), "abcdefghiXY")
	assert.False(t, res.Success)
}

func TestResolve_TeslaMotorsRoundsToFailure(t *testing.T) {
	prices := &mockPriceChecker{price: 250}
	res := newEmbeddedService(t, prices).Resolve(context.Background(), "Tesla Motors")
	assert.False(t, res.Success)
	assert.Zero(t, prices.callCount(), "multi-word queries are never verified")
}

func TestResolve_FailureShape(t *testing.T) {
	prices := &mockPriceChecker{price: 99}
	res := newEmbeddedService(t, prices).Resolve(context.Background(), "Xylophone123")
	assert.False(t, res.Success)
	assert.Equal(t, "No match found for 'Xylophone123'", res.Message)
	assert.Equal(t, []string{"Apple", "Microsoft", "TCS", "Reliance"}, res.Suggestions)
	assert.Zero(t, prices.callCount(), "queries longer than ten characters are never verified")
}

func TestResolve_EmptyQuery(t *testing.T) {
	prices := &mockPriceChecker{price: 1}
	res := newEmbeddedService(t, prices).Resolve(context.Background(), "   ")
	assert.False(t, res.Success)
	assert.Equal(t, "No match found for ''", res.Message)
	assert.Zero(t, prices.callCount())
}

func TestResolve_DirectVerification(t *testing.T) {
	apple := models.CompanyRecord{Ticker: "AAPL", Name: "Apple", Type: models.CompanyTypePublic, Sector: "Technology"}

	t.Run("positive price", func(t *testing.T) {
		prices := &mockPriceChecker{price: 12.5}
		res := newCustomService(t, prices, apple).Resolve(context.Background(), "xyzq")
		require.True(t, res.Success)
		assert.Equal(t, "XYZQ", res.Ticker)
		assert.Equal(t, "XYZQ", res.Name)
		assert.Equal(t, models.CompanyTypePublic, res.Type)
		assert.Equal(t, "N/A", res.Sector)
		assert.Empty(t, res.Logo)
		assert.Equal(t, VerifiedConfidence, res.Confidence)
		assert.Equal(t, []string{"XYZQ"}, prices.calls)
	})

	t.Run("zero price", func(t *testing.T) {
		res := newCustomService(t, &mockPriceChecker{}, apple).Resolve(context.Background(), "xyzq")
		assert.False(t, res.Success)
	})

	t.Run("provider error", func(t *testing.T) {
		prices := &mockPriceChecker{price: 5, err: errors.New("404")}
		res := newCustomService(t, prices, apple).Resolve(context.Background(), "xyzq")
		assert.False(t, res.Success)
	})

	t.Run("no price checker", func(t *testing.T) {
		res := newCustomService(t, nil, apple).Resolve(context.Background(), "xyzq")
		assert.False(t, res.Success)
	})

	t.Run("hung provider times out", func(t *testing.T) {
		prices := &mockPriceChecker{block: true}
		start := time.Now()
		res := newCustomService(t, prices, apple).Resolve(context.Background(), "xyzq")
		assert.False(t, res.Success)
		assert.Less(t, time.Since(start), time.Second)
	})
}
