package models

// IndexQuote is one rendered entry of the market indices ticker
type IndexQuote struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	Change    string `json:"change"`
	ChangePct string `json:"change_pct"`
	Color     string `json:"color"`
	Icon      string `json:"icon,omitempty"`
}
