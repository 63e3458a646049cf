package indices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/models"
)

type mockStats struct {
	bars map[string][]models.PriceBar
	errs map[string]error
}

func (m *mockStats) GetRecentDailyBars(_ context.Context, ticker string, _ int) ([]models.PriceBar, error) {
	if err, ok := m.errs[ticker]; ok {
		return nil, err
	}
	if ticker == "PANIC" {
		panic("bad data")
	}
	return m.bars[ticker], nil
}

func (m *mockStats) GetKeyStatistics(context.Context, string) (*models.KeyStatistics, error) {
	return nil, nil
}

func closes(values ...float64) []models.PriceBar {
	bars := make([]models.PriceBar, len(values))
	for i, v := range values {
		bars[i] = models.PriceBar{Date: time.Date(2026, 3, 2+i, 0, 0, 0, 0, time.UTC), Close: v}
	}
	return bars
}

func TestGetIndices(t *testing.T) {
	stats := &mockStats{
		bars: map[string][]models.PriceBar{
			"^NSEI":    closes(22000, 22300.5, 22415.8),
			"^BSESN":   closes(74000, 73850.25),
			"^IXIC":    closes(18000),
			"^NSEBANK": nil,
		},
		errs: map[string]error{"GC=F": errors.New("timeout")},
	}
	svc := NewService(stats, nil, time.Second, common.NewSilentLogger())

	got := svc.GetIndices(context.Background())
	require.Len(t, got, 5)

	assert.Equal(t, models.IndexQuote{Name: "NIFTY 50", Price: "22,415.80", Change: "+115.30", ChangePct: "+0.52%", Color: "text-green-400", Icon: "▲"}, got[0])
	assert.Equal(t, models.IndexQuote{Name: "SENSEX", Price: "73,850.25", Change: "-149.75", ChangePct: "-0.20%", Color: "text-red-400", Icon: "▼"}, got[1])
	assert.Equal(t, models.IndexQuote{Name: "BANKNIFTY", Price: "N/A", Change: "0.00", ChangePct: "0.00", Color: "text-gray-400"}, got[2])
	assert.Equal(t, models.IndexQuote{Name: "NASDAQ", Price: "18,000.00", Change: "+0.00", ChangePct: "+0.00%", Color: "text-green-400", Icon: "▲"}, got[3])
	assert.Equal(t, models.IndexQuote{Name: "GOLD", Price: "Error", Change: "0", ChangePct: "0%", Color: "text-gray-400"}, got[4])
}

func TestGetIndices_ConfiguredOrderAndPanic(t *testing.T) {
	stats := &mockStats{bars: map[string][]models.PriceBar{"A": closes(1, 2)}}
	svc := NewService(stats, []common.IndexConfig{{Name: "Broken", Symbol: "PANIC"}, {Name: "Alpha", Symbol: "A"}}, time.Second, common.NewSilentLogger())

	got := svc.GetIndices(context.Background())
	require.Len(t, got, 2)
	assert.Equal(t, "Error", got[0].Price)
	assert.Equal(t, "Alpha", got[1].Name)
	assert.Equal(t, "+100.00%", got[1].ChangePct)
}

func TestRender_ZeroPreviousClose(t *testing.T) {
	q := Render("X", 10, 0)
	assert.Equal(t, "+0.00%", q.ChangePct)
	assert.Equal(t, "+10.00", q.Change)
}
