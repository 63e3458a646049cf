package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// CompanyProfile is the full quote-plus-profile payload of a market data provider.
// Zero values mean the provider did not supply the field.
type CompanyProfile struct {
	Ticker        string
	Name          string
	CurrentPrice  float64
	PreviousClose float64
	MarketCap     float64
	Volume        int64
	PERatio       float64
	DividendYield float64 // fraction, 0.0123 = 1.23%
	Week52High    float64
	Week52Low     float64
	Sector        string
	Industry      string
	Description   string
	Website       string
	Logo          string
	Employees     int64
}

// FastQuote is the cheap price-only payload of a market data provider
type FastQuote struct {
	Ticker        string
	LastPrice     float64
	PreviousClose float64
	MarketCap     float64
	Volume        int64
	Week52High    float64
	Week52Low     float64
}

// PriceBar represents a single OHLCV bar
type PriceBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjusted_close"`
	Volume   int64     `json:"volume"`
}

// AnnualIncome holds one fiscal year of income statement totals
type AnnualIncome struct {
	Year         int     `json:"year"`
	TotalRevenue float64 `json:"total_revenue"`
	NetIncome    float64 `json:"net_income"`
}

// KeyStatistics holds valuation, profitability, balance sheet and cash flow figures.
// Ratios are fractions (0.25 = 25%) except the P/E style multiples.
type KeyStatistics struct {
	Ticker string

	MarketCap       float64
	EnterpriseValue float64
	TrailingPE      float64
	ForwardPE       float64
	PEGRatio        float64
	PriceToSales    float64
	PriceToBook     float64
	EVToRevenue     float64
	EVToEBITDA      float64

	ProfitMargin    float64
	OperatingMargin float64
	ReturnOnAssets  float64
	ReturnOnEquity  float64
	Revenue         float64
	RevenuePerShare float64
	GrossProfit     float64
	EBITDA          float64
	NetIncome       float64
	DilutedEPS      float64

	TotalCash         float64
	TotalDebt         float64
	CurrentRatio      float64
	BookValuePerShare float64

	OperatingCashFlow float64
	FreeCashFlow      float64
}

// FinancialSection is one titled table of the key statistics view
type FinancialSection struct {
	Title   string
	Metrics []FinancialMetric
}

// FinancialMetric is a raw label/value pair
type FinancialMetric struct {
	Label string
	Value float64
}

// MarshalJSON renders the section as {"title": ..., "data": {label: value}}
// with labels kept in insertion order.
func (s FinancialSection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	title, err := json.Marshal(s.Title)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"title":`)
	buf.Write(title)
	buf.WriteString(`,"data":{`)
	for i, m := range s.Metrics {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(m.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// KeyStatisticsResponse is the key statistics payload
type KeyStatisticsResponse struct {
	Sections []FinancialSection `json:"sections"`
}
