package models

// PricePoint is one monthly close of the price history
type PricePoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// FinancialYear holds annual revenue and net profit
type FinancialYear struct {
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}
