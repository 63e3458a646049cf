// Package directory holds the curated, ordered list of known companies.
package directory

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/verifin/internal/models"
)

//go:embed companies.toml
var embeddedCompanies []byte

// Directory is an immutable, ordered company list. Safe for concurrent reads.
type Directory struct {
	records []models.CompanyRecord
	index   map[string]int
}

type directoryFile struct {
	Company []models.CompanyRecord `toml:"company"`
}

// Load reads the directory from path, or from the embedded resource when path is empty
func Load(path string) (*Directory, error) {
	data := embeddedCompanies
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read company directory %s: %w", path, err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes [[company]] tables, preserving file order
func Parse(data []byte) (*Directory, error) {
	var file directoryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse company directory: %w", err)
	}
	return New(file.Company)
}

// New validates records and builds a Directory
func New(records []models.CompanyRecord) (*Directory, error) {
	d := &Directory{
		records: make([]models.CompanyRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}

	for i, rec := range records {
		rec.Ticker = strings.TrimSpace(rec.Ticker)
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.Ticker == "" {
			return nil, fmt.Errorf("company %d: ticker is required", i)
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("company %s: name is required", rec.Ticker)
		}
		if rec.Type != models.CompanyTypePublic && rec.Type != models.CompanyTypePrivate {
			return nil, fmt.Errorf("company %s: invalid type %q (must be %q or %q)",
				rec.Ticker, rec.Type, models.CompanyTypePublic, models.CompanyTypePrivate)
		}
		if _, dup := d.index[rec.Ticker]; dup {
			return nil, fmt.Errorf("company %s: duplicate ticker", rec.Ticker)
		}
		d.index[rec.Ticker] = len(d.records)
		d.records = append(d.records, rec)
	}

	return d, nil
}

// Entries returns a copy of the records in directory order
func (d *Directory) Entries() []models.CompanyRecord {
	out := make([]models.CompanyRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Lookup returns the record for an exact ticker
func (d *Directory) Lookup(ticker string) (models.CompanyRecord, bool) {
	i, ok := d.index[ticker]
	if !ok {
		return models.CompanyRecord{}, false
	}
	return d.records[i], true
}

func (d *Directory) Len() int {
	return len(d.records)
}
