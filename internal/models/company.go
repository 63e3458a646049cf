// Package models defines data structures for VeriFin
package models

import "encoding/json"

// Company types
const (
	CompanyTypePublic  = "public"
	CompanyTypePrivate = "private"
)

// CompanyRecord is one entry of the company directory
type CompanyRecord struct {
	Ticker string `toml:"ticker" json:"ticker"`
	Name   string `toml:"name" json:"name"`
	Type   string `toml:"type" json:"type"`
	Sector string `toml:"sector" json:"sector"`
	Logo   string `toml:"logo" json:"logo"`
}

// DefaultSuggestions are offered when a query resolves to nothing.
var DefaultSuggestions = []string{"Apple", "Microsoft", "TCS", "Reliance"}

// ResolutionResult is the outcome of resolving a free-text company query.
// Success results carry the company identity and confidence; failures carry
// Message and Suggestions.
type ResolutionResult struct {
	Success     bool
	Ticker      string
	Name        string
	Type        string
	Sector      string
	Logo        string
	Confidence  int
	Message     string
	Suggestions []string
}

type resolutionSuccessJSON struct {
	Success    bool   `json:"success"`
	Ticker     string `json:"ticker"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Sector     string `json:"sector"`
	Logo       string `json:"logo"`
	Confidence int    `json:"confidence"`
}

type resolutionFailureJSON struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// MarshalJSON emits the success or failure shape depending on Success.
func (r ResolutionResult) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(resolutionSuccessJSON{
			Success:    true,
			Ticker:     r.Ticker,
			Name:       r.Name,
			Type:       r.Type,
			Sector:     r.Sector,
			Logo:       r.Logo,
			Confidence: r.Confidence,
		})
	}
	suggestions := r.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return json.Marshal(resolutionFailureJSON{
		Success:     false,
		Message:     r.Message,
		Suggestions: suggestions,
	})
}
