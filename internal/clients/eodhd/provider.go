package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

// ErrNoData is returned when an endpoint answers with an empty payload
var ErrNoData = errors.New("no data returned")

// WithClock overrides the time source used for date windows
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// number decodes EODHD numerics, which arrive as numbers, numeric strings,
// null or "NA" placeholders. Unparseable strings read as zero.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("cannot unmarshal %s into a number", string(data))
	}
	raw := strings.TrimSpace(strings.Trim(string(data), `"`))
	switch strings.ToUpper(raw) {
	case "", "NULL", "NA", "N/A", "-":
		*n = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = number(v)
	return nil
}

// Name implements interfaces.MarketDataProvider
func (c *Client) Name() string { return "eodhd" }

// Symbol converts a Yahoo-style symbol to EODHD's CODE.EXCHANGE form.
// ^NSEI -> NSEI.INDX, GC=F -> GC.COMM, TCS.NS -> TCS.NSE, RELIANCE.BO -> RELIANCE.BSE,
// bare tickers are treated as US listings.
func Symbol(ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	switch {
	case strings.HasPrefix(t, "^"):
		return strings.TrimPrefix(t, "^") + ".INDX"
	case strings.HasSuffix(t, "=F"):
		return strings.TrimSuffix(t, "=F") + ".COMM"
	case strings.HasSuffix(t, ".NS"):
		return strings.TrimSuffix(t, ".NS") + ".NSE"
	case strings.HasSuffix(t, ".BO"):
		return strings.TrimSuffix(t, ".BO") + ".BSE"
	case strings.Contains(t, "."):
		return t
	default:
		return t + ".US"
	}
}

// realTimeResponse is the /real-time payload. Closed or unknown markets
// report "NA" strings, hence the flexible numbers.
type realTimeResponse struct {
	Code          string `json:"code"`
	Timestamp     number `json:"timestamp"`
	Open          number `json:"open"`
	High          number `json:"high"`
	Low           number `json:"low"`
	Close         number `json:"close"`
	Volume        number `json:"volume"`
	PreviousClose number `json:"previousClose"`
	Change        number `json:"change"`
	ChangePct     number `json:"change_p"`
}

func (c *Client) getRealTime(ctx context.Context, ticker string) (*realTimeResponse, error) {
	var rt realTimeResponse
	if err := c.get(ctx, "/real-time/"+Symbol(ticker), nil, &rt); err != nil {
		return nil, err
	}
	if rt.Close <= 0 {
		return nil, fmt.Errorf("real-time %s: %w", ticker, ErrNoData)
	}
	return &rt, nil
}

// eodBarResponse represents the API response for EOD data
type eodBarResponse struct {
	Date          string `json:"date"`
	Open          number `json:"open"`
	High          number `json:"high"`
	Low           number `json:"low"`
	Close         number `json:"close"`
	AdjustedClose number `json:"adjusted_close"`
	Volume        number `json:"volume"`
}

// getEOD fetches bars for period d/w/m between from and to, ascending
func (c *Client) getEOD(ctx context.Context, ticker, period string, from, to time.Time) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("period", period)
	params.Set("order", "a")
	if !from.IsZero() {
		params.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		params.Set("to", to.Format("2006-01-02"))
	}

	var bars []eodBarResponse
	if err := c.get(ctx, "/eod/"+Symbol(ticker), params, &bars); err != nil {
		return nil, err
	}

	out := make([]models.PriceBar, 0, len(bars))
	for _, bar := range bars {
		date, err := time.Parse("2006-01-02", bar.Date)
		if err != nil {
			continue
		}
		out = append(out, models.PriceBar{
			Date:     date,
			Open:     float64(bar.Open),
			High:     float64(bar.High),
			Low:      float64(bar.Low),
			Close:    float64(bar.Close),
			AdjClose: float64(bar.AdjustedClose),
			Volume:   int64(bar.Volume),
		})
	}
	return out, nil
}

// fundamentalsResponse represents the parts of /fundamentals we read
type fundamentalsResponse struct {
	General struct {
		Code              string `json:"Code"`
		Name              string `json:"Name"`
		Type              string `json:"Type"`
		Sector            string `json:"Sector"`
		Industry          string `json:"Industry"`
		Description       string `json:"Description"`
		WebURL            string `json:"WebURL"`
		LogoURL           string `json:"LogoURL"`
		FullTimeEmployees number `json:"FullTimeEmployees"`
	} `json:"General"`
	Highlights struct {
		MarketCapitalization number `json:"MarketCapitalization"`
		EBITDA               number `json:"EBITDA"`
		PERatio              number `json:"PERatio"`
		PEGRatio             number `json:"PEGRatio"`
		BookValue            number `json:"BookValue"`
		DividendYield        number `json:"DividendYield"`
		ProfitMargin         number `json:"ProfitMargin"`
		OperatingMarginTTM   number `json:"OperatingMarginTTM"`
		ReturnOnAssetsTTM    number `json:"ReturnOnAssetsTTM"`
		ReturnOnEquityTTM    number `json:"ReturnOnEquityTTM"`
		RevenueTTM           number `json:"RevenueTTM"`
		RevenuePerShareTTM   number `json:"RevenuePerShareTTM"`
		GrossProfitTTM       number `json:"GrossProfitTTM"`
		DilutedEpsTTM        number `json:"DilutedEpsTTM"`
	} `json:"Highlights"`
	Valuation struct {
		TrailingPE             number `json:"TrailingPE"`
		ForwardPE              number `json:"ForwardPE"`
		PriceSalesTTM          number `json:"PriceSalesTTM"`
		PriceBookMRQ           number `json:"PriceBookMRQ"`
		EnterpriseValue        number `json:"EnterpriseValue"`
		EnterpriseValueRevenue number `json:"EnterpriseValueRevenue"`
		EnterpriseValueEbitda  number `json:"EnterpriseValueEbitda"`
	} `json:"Valuation"`
	Technicals struct {
		FiftyTwoWeekHigh number `json:"52WeekHigh"`
		FiftyTwoWeekLow  number `json:"52WeekLow"`
	} `json:"Technicals"`
	Financials struct {
		BalanceSheet    statement `json:"Balance_Sheet"`
		CashFlow        statement `json:"Cash_Flow"`
		IncomeStatement statement `json:"Income_Statement"`
	} `json:"Financials"`
}

// statement holds yearly rows keyed by period end date
type statement struct {
	Yearly yearlyRows `json:"yearly"`
}

type yearlyRows map[string]map[string]number

// UnmarshalJSON tolerates the empty array EODHD sends for missing statements
func (y *yearlyRows) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") || trimmed == "null" {
		*y = nil
		return nil
	}
	rows := map[string]map[string]number{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	*y = rows
	return nil
}

// latest returns the row with the most recent period end
func (s statement) latest() map[string]number {
	var key string
	for k := range s.Yearly {
		if k > key {
			key = k
		}
	}
	return s.Yearly[key]
}

func (c *Client) getFundamentals(ctx context.Context, ticker string) (*fundamentalsResponse, error) {
	var resp fundamentalsResponse
	if err := c.get(ctx, "/fundamentals/"+Symbol(ticker), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProfile combines the real-time quote with company fundamentals
func (c *Client) GetProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	rt, err := c.getRealTime(ctx, ticker)
	if err != nil {
		return nil, err
	}
	f, err := c.getFundamentals(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fundamentals %s: %w", ticker, err)
	}

	return &models.CompanyProfile{
		Ticker:        ticker,
		Name:          f.General.Name,
		CurrentPrice:  float64(rt.Close),
		PreviousClose: float64(rt.PreviousClose),
		MarketCap:     float64(f.Highlights.MarketCapitalization),
		Volume:        int64(rt.Volume),
		PERatio:       float64(f.Highlights.PERatio),
		DividendYield: float64(f.Highlights.DividendYield),
		Week52High:    float64(f.Technicals.FiftyTwoWeekHigh),
		Week52Low:     float64(f.Technicals.FiftyTwoWeekLow),
		Sector:        f.General.Sector,
		Industry:      f.General.Industry,
		Description:   f.General.Description,
		Website:       f.General.WebURL,
		Logo:          f.General.LogoURL,
		Employees:     int64(f.General.FullTimeEmployees),
	}, nil
}

// GetFastQuote returns the real-time price only
func (c *Client) GetFastQuote(ctx context.Context, ticker string) (*models.FastQuote, error) {
	rt, err := c.getRealTime(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return &models.FastQuote{
		Ticker:        ticker,
		LastPrice:     float64(rt.Close),
		PreviousClose: float64(rt.PreviousClose),
		Volume:        int64(rt.Volume),
	}, nil
}

// GetLatestBar returns the most recent daily bar of the last ten days
func (c *Client) GetLatestBar(ctx context.Context, ticker string) (*models.PriceBar, error) {
	now := c.now()
	bars, err := c.getEOD(ctx, ticker, "d", now.AddDate(0, 0, -10), now)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("eod %s: %w", ticker, ErrNoData)
	}
	bar := bars[len(bars)-1]
	return &bar, nil
}

// GetMonthlyBars returns monthly bars between from and to
func (c *Client) GetMonthlyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	return c.getEOD(ctx, ticker, "m", from, to)
}

// GetRecentDailyBars returns daily bars covering the last days calendar days
func (c *Client) GetRecentDailyBars(ctx context.Context, ticker string, days int) ([]models.PriceBar, error) {
	now := c.now()
	return c.getEOD(ctx, ticker, "d", now.AddDate(0, 0, -days), now)
}

// GetAnnualIncome returns up to limit of the most recent fiscal years, ascending
func (c *Client) GetAnnualIncome(ctx context.Context, ticker string, limit int) ([]models.AnnualIncome, error) {
	f, err := c.getFundamentals(ctx, ticker)
	if err != nil {
		return nil, err
	}

	out := make([]models.AnnualIncome, 0, len(f.Financials.IncomeStatement.Yearly))
	for date, row := range f.Financials.IncomeStatement.Yearly {
		end, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		out = append(out, models.AnnualIncome{
			Year:         end.Year(),
			TotalRevenue: float64(row["totalRevenue"]),
			NetIncome:    float64(row["netIncome"]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// GetKeyStatistics maps highlights, valuation and the latest statements
func (c *Client) GetKeyStatistics(ctx context.Context, ticker string) (*models.KeyStatistics, error) {
	f, err := c.getFundamentals(ctx, ticker)
	if err != nil {
		return nil, err
	}

	income := f.Financials.IncomeStatement.latest()
	balance := f.Financials.BalanceSheet.latest()
	cash := f.Financials.CashFlow.latest()

	currentRatio := 0.0
	if liabilities := float64(balance["totalCurrentLiabilities"]); liabilities != 0 {
		currentRatio = float64(balance["totalCurrentAssets"]) / liabilities
	}

	return &models.KeyStatistics{
		Ticker:            ticker,
		MarketCap:         float64(f.Highlights.MarketCapitalization),
		EnterpriseValue:   float64(f.Valuation.EnterpriseValue),
		TrailingPE:        float64(f.Valuation.TrailingPE),
		ForwardPE:         float64(f.Valuation.ForwardPE),
		PEGRatio:          float64(f.Highlights.PEGRatio),
		PriceToSales:      float64(f.Valuation.PriceSalesTTM),
		PriceToBook:       float64(f.Valuation.PriceBookMRQ),
		EVToRevenue:       float64(f.Valuation.EnterpriseValueRevenue),
		EVToEBITDA:        float64(f.Valuation.EnterpriseValueEbitda),
		ProfitMargin:      float64(f.Highlights.ProfitMargin),
		OperatingMargin:   float64(f.Highlights.OperatingMarginTTM),
		ReturnOnAssets:    float64(f.Highlights.ReturnOnAssetsTTM),
		ReturnOnEquity:    float64(f.Highlights.ReturnOnEquityTTM),
		Revenue:           float64(f.Highlights.RevenueTTM),
		RevenuePerShare:   float64(f.Highlights.RevenuePerShareTTM),
		GrossProfit:       float64(f.Highlights.GrossProfitTTM),
		EBITDA:            float64(f.Highlights.EBITDA),
		NetIncome:         float64(income["netIncome"]),
		DilutedEPS:        float64(f.Highlights.DilutedEpsTTM),
		TotalCash:         float64(balance["cash"]),
		TotalDebt:         float64(balance["shortLongTermDebtTotal"]),
		CurrentRatio:      currentRatio,
		BookValuePerShare: float64(f.Highlights.BookValue),
		OperatingCashFlow: float64(cash["totalCashFromOperatingActivities"]),
		FreeCashFlow:      float64(cash["freeCashFlow"]),
	}, nil
}

var _ interfaces.MarketClient = (*Client)(nil)
