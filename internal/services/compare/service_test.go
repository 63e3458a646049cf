package compare

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/models"
)

type mockOverview struct {
	known   map[string]string // query -> ticker
	faults  map[string]error
	delay   time.Duration
	started int32
}

func (m *mockOverview) Compose(_ context.Context, query string) (*models.OverviewResponse, error) {
	atomic.AddInt32(&m.started, 1)
	time.Sleep(m.delay)
	if err, ok := m.faults[query]; ok {
		return nil, err
	}
	if ticker, ok := m.known[query]; ok {
		return &models.OverviewResponse{Data: &models.CompanyOverview{Ticker: ticker, Name: query}}, nil
	}
	res := models.ResolutionResult{Message: "No match found for '" + query + "'", Suggestions: models.DefaultSuggestions}
	return &models.OverviewResponse{Resolution: &res}, nil
}

func newTestService(m *mockOverview) *Service {
	return NewService(m, common.NewSilentLogger())
}

func TestCompare_Success(t *testing.T) {
	m := &mockOverview{known: map[string]string{"Apple": "AAPL", "Microsoft": "MSFT"}}
	c, err := newTestService(m).Compare(context.Background(), "Apple", "Microsoft")
	require.NoError(t, err)

	assert.True(t, c.Success)
	assert.Equal(t, "AAPL", c.Company1.Ticker)
	assert.Equal(t, "MSFT", c.Company2.Ticker)
	require.NotNil(t, c.Analysis)
	assert.Equal(t, "Both are strong investments with different risk profiles", c.Analysis.Recommendation)
}

func TestCompare_SecondFails(t *testing.T) {
	m := &mockOverview{known: map[string]string{"Apple": "AAPL"}}
	c, err := newTestService(m).Compare(context.Background(), "Apple", "Cognizent-misspelled-garbage")
	require.NoError(t, err)

	assert.False(t, c.Success)
	assert.Equal(t, "Could not find or fetch data for Cognizent-misspelled-garbage", c.Message)
	assert.Equal(t, "No match found for 'Cognizent-misspelled-garbage'", c.Error)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Could not find or fetch data for Cognizent-misspelled-garbage","error":"No match found for 'Cognizent-misspelled-garbage'"}`, string(raw))
}

func TestCompare_BothFailReportsFirst(t *testing.T) {
	c, err := newTestService(&mockOverview{}).Compare(context.Background(), "foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, "Could not find or fetch data for foo", c.Message)
}

func TestCompare_FaultPropagates(t *testing.T) {
	boom := errors.New("boom")
	m := &mockOverview{known: map[string]string{"Apple": "AAPL"}, faults: map[string]error{"Bad": boom}}
	_, err := newTestService(m).Compare(context.Background(), "Apple", "Bad")
	assert.ErrorIs(t, err, boom)
}

func TestCompare_RunsConcurrently(t *testing.T) {
	m := &mockOverview{known: map[string]string{"a": "A", "b": "B"}, delay: 100 * time.Millisecond}
	start := time.Now()
	_, err := newTestService(m).Compare(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 190*time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&m.started))
}
