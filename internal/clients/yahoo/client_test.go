package yahoo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yf "github.com/wnjoon/go-yfinance/pkg/models"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/models"
	"github.com/bobmcallan/verifin/internal/services/quote"
)

type fakeSource struct {
	summary    *yf.Info
	summaryErr error
	live       *yf.Quote
	liveErr    error
	bars       map[string][]models.PriceBar // keyed by period+interval
	barsErr    error
	block      chan struct{}

	calls []string
}

func (f *fakeSource) info(symbol string) (*yf.Info, error) {
	f.calls = append(f.calls, "info:"+symbol)
	return f.summary, f.summaryErr
}

func (f *fakeSource) quote(symbol string) (*yf.Quote, error) {
	if f.block != nil {
		<-f.block
	}
	f.calls = append(f.calls, "quote:"+symbol)
	return f.live, f.liveErr
}

func (f *fakeSource) history(symbol, period, interval string) ([]models.PriceBar, error) {
	f.calls = append(f.calls, "history:"+symbol+":"+period+":"+interval)
	if f.barsErr != nil {
		return nil, f.barsErr
	}
	return f.bars[period+interval], nil
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newFakeClient(src *fakeSource) *Client {
	return NewClient(withSource(src), WithRateLimit(1000), WithClock(func() time.Time { return fixedNow }))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func appleInfo() *yf.Info {
	return &yf.Info{
		LongName:                   "Apple Inc.",
		ShortName:                  "Apple",
		Sector:                     "Technology",
		Industry:                   "Consumer Electronics",
		FullTimeEmployees:          164000,
		Website:                    "https://www.apple.com",
		LongBusinessSummary:        "Apple Inc. designs smartphones.",
		CurrentPrice:               227.5,
		RegularMarketPreviousClose: 225,
		MarketCap:                  3420000000000,
		Volume:                     42000000,
		TrailingPE:                 33.1,
		DividendYield:              0.0044,
		FiftyTwoWeekHigh:           237.2,
		FiftyTwoWeekLow:            164.1,
	}
}

func TestGetProfile_MapsSummary(t *testing.T) {
	src := &fakeSource{summary: appleInfo()}

	p, err := newFakeClient(src).GetProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", p.Name)
	assert.Equal(t, 227.5, p.CurrentPrice)
	assert.Equal(t, 225.0, p.PreviousClose)
	assert.Equal(t, 3.42e12, p.MarketCap)
	assert.Equal(t, int64(42000000), p.Volume)
	assert.Equal(t, 237.2, p.Week52High)
	assert.Equal(t, 164.1, p.Week52Low)
	assert.Equal(t, "Technology", p.Sector)
	assert.Equal(t, "Consumer Electronics", p.Industry)
	assert.Equal(t, "Apple Inc. designs smartphones.", p.Description)
	assert.Equal(t, "https://www.apple.com", p.Website)
	assert.Equal(t, int64(164000), p.Employees)
	assert.Equal(t, []string{"info:AAPL"}, src.calls, "no history call when the summary has the range")
}

func TestGetProfile_RangeFromHistoryWhenMissing(t *testing.T) {
	info := appleInfo()
	info.FiftyTwoWeekHigh, info.FiftyTwoWeekLow, info.Volume = 0, 0, 0
	src := &fakeSource{
		summary: info,
		bars: map[string][]models.PriceBar{
			"1y1d": {
				{Date: day(2025, 4, 8), High: 180, Low: 164.1, Close: 170, Volume: 10},
				{Date: day(2025, 12, 26), High: 237.2, Low: 230, Close: 235, Volume: 20},
				{Date: day(2026, 3, 9), High: 229, Low: 224, Close: 227.5, Volume: 41000000},
			},
		},
	}

	p, err := newFakeClient(src).GetProfile(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 237.2, p.Week52High)
	assert.Equal(t, 164.1, p.Week52Low)
	assert.Equal(t, int64(41000000), p.Volume)
}

func TestGetProfile_HistoryFailureKeepsProfile(t *testing.T) {
	src := &fakeSource{
		summary: &yf.Info{ShortName: "X Corp", CurrentPrice: 10, PreviousClose: 9.5},
		barsErr: errors.New("rate limited"),
	}
	p, err := newFakeClient(src).GetProfile(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "X Corp", p.Name)
	assert.Equal(t, 10.0, p.CurrentPrice)
	assert.Equal(t, 9.5, p.PreviousClose)
	assert.Zero(t, p.Week52High)
}

func TestGetProfile_InfoError(t *testing.T) {
	src := &fakeSource{summaryErr: errors.New("404")}
	_, err := newFakeClient(src).GetProfile(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestGetFastQuote(t *testing.T) {
	c := newFakeClient(&fakeSource{live: &yf.Quote{
		RegularMarketPrice:         3905.25,
		RegularMarketPreviousClose: 3850,
		MarketCap:                  14100000000000,
		RegularMarketVolume:        2100000,
		FiftyTwoWeekHigh:           4592.25,
		FiftyTwoWeekLow:            3056.05,
	}})
	q, err := c.GetFastQuote(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, 3905.25, q.LastPrice)
	assert.Equal(t, 3850.0, q.PreviousClose)
	assert.Equal(t, 1.41e13, q.MarketCap)
	assert.Equal(t, int64(2100000), q.Volume)
	assert.Equal(t, 4592.25, q.Week52High)
	assert.Equal(t, 3056.05, q.Week52Low)
}

func TestGetFastQuote_ClosedSessionPrice(t *testing.T) {
	c := newFakeClient(&fakeSource{live: &yf.Quote{PostMarketPrice: 101.5, RegularMarketPreviousClose: 100}})
	q, err := c.GetFastQuote(context.Background(), "KO")
	require.NoError(t, err)
	assert.Equal(t, 101.5, q.LastPrice)

	c = newFakeClient(&fakeSource{live: &yf.Quote{}})
	_, err = c.GetFastQuote(context.Background(), "GHOST")
	assert.Error(t, err, "zero price is not a quote")

	c = newFakeClient(&fakeSource{liveErr: errors.New("crumb expired")})
	_, err = c.GetFastQuote(context.Background(), "KO")
	assert.Error(t, err)
}

func TestGetFastQuote_ContextCancelAbandonsCall(t *testing.T) {
	src := &fakeSource{live: &yf.Quote{RegularMarketPrice: 1}, block: make(chan struct{})}
	defer close(src.block)
	c := newFakeClient(src)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GetFastQuote(ctx, "SLOW")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGetLatestBar(t *testing.T) {
	src := &fakeSource{bars: map[string][]models.PriceBar{
		"5d1d": {{Date: day(2026, 3, 6), Close: 1}, {Date: day(2026, 3, 9), Open: 2, Close: 3, Volume: 7}},
	}}
	bar, err := newFakeClient(src).GetLatestBar(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, 3.0, bar.Close)
	assert.Equal(t, 2.0, bar.Open)

	_, err = newFakeClient(&fakeSource{}).GetLatestBar(context.Background(), "X")
	assert.Error(t, err)
}

func TestGetMonthlyBars_TrimsToWindow(t *testing.T) {
	src := &fakeSource{bars: map[string][]models.PriceBar{
		"5y1mo": {
			{Date: day(2021, 3, 1), Close: 1},
			{Date: day(2021, 4, 1), Close: 2},
			{Date: day(2026, 3, 1), Close: 3},
		},
	}}
	c := newFakeClient(src)

	from := fixedNow.AddDate(0, 0, -5*365)
	bars, err := c.GetMonthlyBars(context.Background(), "X", from, fixedNow)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 2.0, bars[0].Close)
	assert.Contains(t, src.calls, "history:X:5y:1mo")
}

func TestGetAnnualIncome_Unsupported(t *testing.T) {
	_, err := newFakeClient(&fakeSource{}).GetAnnualIncome(context.Background(), "AAPL", 5)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestGetKeyStatistics(t *testing.T) {
	src := &fakeSource{summary: &yf.Info{
		MarketCap:                5e11,
		EnterpriseValue:          4.8e11,
		TrailingPE:               28,
		ForwardPE:                25,
		TrailingPegRatio:         1.9,
		PriceToSalesTrailing12Mo: 5.2,
		PriceToBook:              12,
		EnterpriseToRevenue:      4.9,
		EnterpriseToEbitda:       18.3,
		ProfitMargins:            0.19,
		OperatingMargins:         0.24,
		ReturnOnAssets:           0.21,
		ReturnOnEquity:           0.5,
		TotalRevenue:             9.6e10,
		RevenuePerShare:          265.4,
		GrossProfits:             4.1e10,
		Ebitda:                   2.6e10,
		NetIncomeToCommon:        1.8e10,
		TrailingEps:              50.2,
		TotalCash:                7e9,
		TotalDebt:                3e9,
		CurrentRatio:             2.5,
		BookValue:                26.7,
		OperatingCashflow:        2e10,
		FreeCashflow:             1.7e10,
	}}
	s, err := newFakeClient(src).GetKeyStatistics(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, "TCS.NS", s.Ticker)
	assert.Equal(t, 5e11, s.MarketCap)
	assert.Equal(t, 4.8e11, s.EnterpriseValue)
	assert.Equal(t, 1.9, s.PEGRatio, "trailing PEG fills a missing PEG")
	assert.Equal(t, 5.2, s.PriceToSales)
	assert.Equal(t, 4.9, s.EVToRevenue)
	assert.Equal(t, 18.3, s.EVToEBITDA)
	assert.Equal(t, 0.21, s.ReturnOnAssets)
	assert.Equal(t, 9.6e10, s.Revenue)
	assert.Equal(t, 265.4, s.RevenuePerShare)
	assert.Equal(t, 4.1e10, s.GrossProfit)
	assert.Equal(t, 2.6e10, s.EBITDA)
	assert.Equal(t, 1.8e10, s.NetIncome)
	assert.Equal(t, 50.2, s.DilutedEPS)
	assert.Equal(t, 7e9, s.TotalCash)
	assert.Equal(t, 3e9, s.TotalDebt)
	assert.Equal(t, 2.5, s.CurrentRatio)
	assert.Equal(t, 26.7, s.BookValuePerShare)
	assert.Equal(t, 2e10, s.OperatingCashFlow)
	assert.Equal(t, 1.7e10, s.FreeCashFlow)
}

// The quote service sees every field the summary and live quote carry.
func TestQuoteService_TiersKeepYahooFields(t *testing.T) {
	src := &fakeSource{summary: appleInfo()}
	svc := quote.NewService(newFakeClient(src), time.Second, common.NewSilentLogger())

	q := svc.FetchQuote(context.Background(), "AAPL")
	require.NotNil(t, q)
	assert.Equal(t, models.TierProfile, q.Tier)
	assert.Equal(t, "Technology", q.Sector)
	assert.Equal(t, "Apple Inc. designs smartphones.", q.Description)
	assert.Equal(t, "https://www.apple.com", q.Website)
	assert.Equal(t, int64(164000), q.Employees)
	assert.InDelta(t, 2.5, q.PriceChange, 1e-9)

	src = &fakeSource{
		summaryErr: errors.New("401 invalid crumb"),
		live:       &yf.Quote{RegularMarketPrice: 3905.25, RegularMarketPreviousClose: 3850, MarketCap: 14100000000000, FiftyTwoWeekHigh: 4592.25, FiftyTwoWeekLow: 3056.05},
	}
	svc = quote.NewService(newFakeClient(src), time.Second, common.NewSilentLogger())

	q = svc.FetchQuote(context.Background(), "TCS.NS")
	require.NotNil(t, q)
	assert.Equal(t, models.TierFastQuote, q.Tier)
	assert.Equal(t, 3850.0, q.PreviousClose)
	assert.InDelta(t, 55.25, q.PriceChange, 1e-9)
	assert.InDelta(t, 1.435, q.PriceChangePct, 1e-3)
	assert.Equal(t, 1.41e13, q.MarketCap)
	assert.Equal(t, 4592.25, q.Week52High)
}

func TestPeriods(t *testing.T) {
	day := 24 * time.Hour
	assert.Equal(t, "1y", monthlyPeriod(300*day))
	assert.Equal(t, "2y", monthlyPeriod(2*365*day))
	assert.Equal(t, "5y", monthlyPeriod(5*365*day))
	assert.Equal(t, "10y", monthlyPeriod(8*365*day))
	assert.Equal(t, "max", monthlyPeriod(20*365*day))

	assert.Equal(t, "5d", dailyPeriod(5))
	assert.Equal(t, "1mo", dailyPeriod(14))
	assert.Equal(t, "3mo", dailyPeriod(60))
	assert.Equal(t, "1y", dailyPeriod(200))
}
