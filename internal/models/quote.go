package models

// QuoteTier identifies which step of the quote chain produced a snapshot
type QuoteTier string

const (
	TierProfile   QuoteTier = "profile"
	TierFastQuote QuoteTier = "fast_quote"
	TierLastBar   QuoteTier = "last_bar"
	TierSynthetic QuoteTier = "synthetic"
)

// Currency symbols
const (
	CurrencyINR = "₹"
	CurrencyUSD = "$"
)

// QuoteSnapshot is a normalized point-in-time view of a security.
// PriceChange is CurrentPrice - PreviousClose exactly; PriceChangePct is zero
// whenever PreviousClose is zero.
type QuoteSnapshot struct {
	Ticker         string    `json:"ticker"`
	CurrentPrice   float64   `json:"current_price"`
	PreviousClose  float64   `json:"previous_close"`
	PriceChange    float64   `json:"price_change"`
	PriceChangePct float64   `json:"price_change_pct"`
	Currency       string    `json:"currency"`
	MarketCap      float64   `json:"market_cap"`
	Volume         int64     `json:"volume"`
	PERatio        float64   `json:"pe_ratio"`
	DividendYield  float64   `json:"dividend_yield"`
	Week52High     float64   `json:"week_52_high"`
	Week52Low      float64   `json:"week_52_low"`
	Sector         string    `json:"sector"`
	Industry       string    `json:"industry"`
	Description    string    `json:"description"`
	Website        string    `json:"website"`
	Employees      int64     `json:"employees"`
	Tier           QuoteTier `json:"tier"`
	Source         string    `json:"source"`
	Synthetic      bool      `json:"synthetic"`
}
