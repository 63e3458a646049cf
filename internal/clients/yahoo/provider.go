package yahoo

import (
	"context"
	"fmt"
	"time"

	yf "github.com/wnjoon/go-yfinance/pkg/models"

	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

// Name implements interfaces.MarketDataProvider
func (c *Client) Name() string { return "yahoo" }

// GetProfile maps the quote summary. The 52-week range falls back to a
// year of daily bars when the summary omits it.
func (c *Client) GetProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	i, err := call(ctx, c, func() (*yf.Info, error) { return c.src.info(ticker) })
	if err != nil {
		return nil, err
	}

	name := i.LongName
	if name == "" {
		name = i.ShortName
	}
	profile := &models.CompanyProfile{
		Ticker:        ticker,
		Name:          name,
		CurrentPrice:  i.CurrentPrice,
		PreviousClose: firstPositive(i.RegularMarketPreviousClose, i.PreviousClose),
		MarketCap:     float64(i.MarketCap),
		Volume:        i.Volume,
		PERatio:       i.TrailingPE,
		DividendYield: i.DividendYield,
		Week52High:    i.FiftyTwoWeekHigh,
		Week52Low:     i.FiftyTwoWeekLow,
		Sector:        i.Sector,
		Industry:      i.Industry,
		Description:   i.LongBusinessSummary,
		Website:       i.Website,
		Employees:     i.FullTimeEmployees,
	}
	if profile.Volume == 0 {
		profile.Volume = i.RegularMarketVolume
	}
	if profile.Week52High > 0 && profile.Week52Low > 0 {
		return profile, nil
	}

	bars, err := call(ctx, c, func() ([]models.PriceBar, error) { return c.src.history(ticker, "1y", "1d") })
	if err != nil {
		c.logger.Debug().Str("ticker", ticker).Err(err).Msg("Yahoo 52-week range unavailable")
		return profile, nil
	}
	if len(bars) > 0 {
		if profile.Volume == 0 {
			profile.Volume = bars[len(bars)-1].Volume
		}
		profile.Week52High, profile.Week52Low = priceRange(bars)
	}
	return profile, nil
}

// GetFastQuote reads the live quote. Pre and post market prices cover closed sessions.
func (c *Client) GetFastQuote(ctx context.Context, ticker string) (*models.FastQuote, error) {
	q, err := call(ctx, c, func() (*yf.Quote, error) { return c.src.quote(ticker) })
	if err != nil {
		return nil, err
	}
	price := firstPositive(q.RegularMarketPrice, q.PreMarketPrice, q.PostMarketPrice)
	if price <= 0 {
		return nil, fmt.Errorf("no live price for %s", ticker)
	}
	return &models.FastQuote{
		Ticker:        ticker,
		LastPrice:     price,
		PreviousClose: q.RegularMarketPreviousClose,
		MarketCap:     float64(q.MarketCap),
		Volume:        q.RegularMarketVolume,
		Week52High:    q.FiftyTwoWeekHigh,
		Week52Low:     q.FiftyTwoWeekLow,
	}, nil
}

// GetLatestBar returns the last daily bar of the past five sessions
func (c *Client) GetLatestBar(ctx context.Context, ticker string) (*models.PriceBar, error) {
	bars, err := call(ctx, c, func() ([]models.PriceBar, error) { return c.src.history(ticker, "5d", "1d") })
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no daily bars for %s", ticker)
	}
	bar := bars[len(bars)-1]
	return &bar, nil
}

// GetMonthlyBars fetches the smallest Yahoo period covering from and trims to [from, to]
func (c *Client) GetMonthlyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	period := monthlyPeriod(c.now().Sub(from))
	bars, err := call(ctx, c, func() ([]models.PriceBar, error) { return c.src.history(ticker, period, "1mo") })
	if err != nil {
		return nil, err
	}

	out := make([]models.PriceBar, 0, len(bars))
	for _, bar := range bars {
		if bar.Date.Before(from) || bar.Date.After(to) {
			continue
		}
		out = append(out, bar)
	}
	return out, nil
}

// GetRecentDailyBars returns daily bars covering at least the last days calendar days
func (c *Client) GetRecentDailyBars(ctx context.Context, ticker string, days int) ([]models.PriceBar, error) {
	return call(ctx, c, func() ([]models.PriceBar, error) { return c.src.history(ticker, dailyPeriod(days), "1d") })
}

// GetAnnualIncome is not available from the quote summary
func (c *Client) GetAnnualIncome(ctx context.Context, ticker string, limit int) ([]models.AnnualIncome, error) {
	return nil, ErrUnsupported
}

// GetKeyStatistics maps the quote summary figures
func (c *Client) GetKeyStatistics(ctx context.Context, ticker string) (*models.KeyStatistics, error) {
	i, err := call(ctx, c, func() (*yf.Info, error) { return c.src.info(ticker) })
	if err != nil {
		return nil, err
	}
	return &models.KeyStatistics{
		Ticker:            ticker,
		MarketCap:         float64(i.MarketCap),
		EnterpriseValue:   float64(i.EnterpriseValue),
		TrailingPE:        i.TrailingPE,
		ForwardPE:         i.ForwardPE,
		PEGRatio:          firstPositive(i.PegRatio, i.TrailingPegRatio),
		PriceToSales:      i.PriceToSalesTrailing12Mo,
		PriceToBook:       i.PriceToBook,
		EVToRevenue:       i.EnterpriseToRevenue,
		EVToEBITDA:        i.EnterpriseToEbitda,
		ProfitMargin:      i.ProfitMargins,
		OperatingMargin:   i.OperatingMargins,
		ReturnOnAssets:    i.ReturnOnAssets,
		ReturnOnEquity:    i.ReturnOnEquity,
		Revenue:           float64(i.TotalRevenue),
		RevenuePerShare:   i.RevenuePerShare,
		GrossProfit:       float64(i.GrossProfits),
		EBITDA:            float64(i.Ebitda),
		NetIncome:         float64(i.NetIncomeToCommon),
		DilutedEPS:        i.TrailingEps,
		TotalCash:         float64(i.TotalCash),
		TotalDebt:         float64(i.TotalDebt),
		CurrentRatio:      i.CurrentRatio,
		BookValuePerShare: i.BookValue,
		OperatingCashFlow: float64(i.OperatingCashflow),
		FreeCashFlow:      float64(i.FreeCashflow),
	}, nil
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func priceRange(bars []models.PriceBar) (high, low float64) {
	for i, bar := range bars {
		if i == 0 || bar.High > high {
			high = bar.High
		}
		if i == 0 || bar.Low < low {
			low = bar.Low
		}
	}
	return high, low
}

func monthlyPeriod(span time.Duration) string {
	const year = 366 * 24 * time.Hour
	switch {
	case span <= year:
		return "1y"
	case span <= 2*year:
		return "2y"
	case span <= 5*year:
		return "5y"
	case span <= 10*year:
		return "10y"
	default:
		return "max"
	}
}

func dailyPeriod(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	default:
		return "1y"
	}
}

var _ interfaces.MarketClient = (*Client)(nil)
