package models

import (
	"encoding/json"
	"math"
)

// NumberOrNA marshals as a JSON number, or as the string "N/A" when Valid is false
type NumberOrNA struct {
	Value float64
	Valid bool
}

// MarshalJSON implements json.Marshaler
func (n NumberOrNA) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(n.Value)
}

// OverviewFinancials is the placeholder statement block of an overview
type OverviewFinancials struct {
	Revenue         string `json:"revenue"`
	NetIncome       string `json:"net_income"`
	TotalAssets     string `json:"total_assets"`
	TotalDebt       string `json:"total_debt"`
	OperatingIncome string `json:"operating_income"`
	EBITDA          string `json:"ebitda"`
	Note            string `json:"note"`
}

// KeyMetrics summarises the headline figures of an overview
type KeyMetrics struct {
	PERatio       NumberOrNA `json:"PE_ratio"`
	MarketCap     string     `json:"market_cap"`
	High52w       string     `json:"52w_high"`
	Low52w        string     `json:"52w_low"`
	Volume        string     `json:"volume"`
	DividendYield string     `json:"dividend_yield"`
}

// HistoricalData wraps the monthly share price series for charts
type HistoricalData struct {
	SharePrices []PricePoint `json:"share_prices"`
	Currency    string       `json:"currency"`
	Note        string       `json:"note"`
}

// LongTermOutlook holds heuristic commentary derived from the quote
type LongTermOutlook struct {
	CompanyPerspective string `json:"company_perspective"`
	SectorPerspective  string `json:"sector_perspective"`
	RiskLevel          string `json:"risk_level"`
	GrowthPotential    string `json:"growth_potential"`
	LastUpdated        string `json:"last_updated"`
	Note               string `json:"note"`
}

// DataSource records where the quote of an overview came from
type DataSource struct {
	Provider    string    `json:"provider"`
	Tier        QuoteTier `json:"tier"`
	IsSynthetic bool      `json:"is_synthetic"`
}

// CompanyOverview is the composed, rendered view of one company
type CompanyOverview struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Type     string `json:"type"`
	Logo     string `json:"logo"`
	Currency string `json:"currency"`

	Price          string  `json:"price"`
	PriceValue     float64 `json:"price_value"`
	PreviousClose  string  `json:"previous_close"`
	Change         string  `json:"change"`
	ChangePct      string  `json:"change_pct"`
	MarketCap      string  `json:"marketCap"`
	MarketCapValue float64 `json:"marketCap_value"`
	Volume         string  `json:"volume"`
	VolumeValue    int64   `json:"volume_value"`

	PERatio       NumberOrNA `json:"pe_ratio"`
	DividendYield string     `json:"dividend_yield"`
	Week52High    string     `json:"52_week_high"`
	Week52Low     string     `json:"52_week_low"`

	Description string `json:"description"`
	Website     string `json:"website"`
	Employees   string `json:"employees"`

	Financials       OverviewFinancials `json:"financials"`
	KeyMetrics       KeyMetrics         `json:"key_metrics"`
	HistoricalData   HistoricalData     `json:"historical_data"`
	FinancialHistory []FinancialYear    `json:"financial_history"`
	LongTermOutlook  LongTermOutlook    `json:"long_term_outlook"`
	DataSource       DataSource         `json:"data_source"`
}

// OverviewResponse is the result of composing an overview. On resolution
// failure Resolution is set and Data is nil.
type OverviewResponse struct {
	Data       *CompanyOverview
	Resolution *ResolutionResult
}

// Success reports whether an overview was composed
func (r *OverviewResponse) Success() bool {
	return r != nil && r.Data != nil
}

// Message returns the failure message, empty on success
func (r *OverviewResponse) Message() string {
	if r == nil || r.Resolution == nil {
		return ""
	}
	return r.Resolution.Message
}

// MarshalJSON emits {success:true, data} or the resolution failure shape
func (r OverviewResponse) MarshalJSON() ([]byte, error) {
	if r.Data != nil {
		return json.Marshal(struct {
			Success bool             `json:"success"`
			Data    *CompanyOverview `json:"data"`
		}{Success: true, Data: r.Data})
	}
	res := ResolutionResult{Message: "Unknown error"}
	if r.Resolution != nil {
		res = *r.Resolution
		res.Success = false
	}
	return json.Marshal(res)
}

// ComparisonAnalysis is the static commentary attached to a comparison
type ComparisonAnalysis struct {
	Valuation      string `json:"valuation"`
	Growth         string `json:"growth"`
	Risk           string `json:"risk"`
	Recommendation string `json:"recommendation"`
}

// Comparison is the side-by-side result of two overviews
type Comparison struct {
	Success  bool                `json:"success"`
	Company1 *CompanyOverview    `json:"company1,omitempty"`
	Company2 *CompanyOverview    `json:"company2,omitempty"`
	Analysis *ComparisonAnalysis `json:"analysis,omitempty"`
	Message  string              `json:"message,omitempty"`
	Error    string              `json:"error,omitempty"`
}
