package importer

import (
	"context"
	"strings"

	"github.com/bookbright/electryohype/internal/supplier"
)

// Price is an amount in a given ISO currency.
type Price struct {
	Amount   float64
	Currency string
}

// Spec is one attribute row from a product page. Order is preserved as
// scraped because tags are derived from the first keys.
type Spec struct {
	Key   string
	Value string
}

// RawProduct is what a scraper managed to extract. Pointer fields are
// nil when the page did not provide them.
type RawProduct struct {
	Title            string
	Price            *Price
	Description      string
	Images           []string
	Specs            []Spec
	Variants         []RawVariant
	ShippingEstimate string
	Available        *bool
}

// RawVariant is a purchasable option as listed by the supplier.
type RawVariant struct {
	Name           string
	Price          *float64
	CompareAtPrice *float64
	Image          string
	Attributes     map[string]string
	Stock          *int
}

// MappedProduct is the canonical product shape produced by a Provider.
// Every container is non-nil.
type MappedProduct struct {
	Supplier         supplier.Source
	SourceURL        string
	Title            string
	Description      string
	Price            Price
	Images           []string
	Specs            []Spec
	ShippingEstimate string
	Available        bool
	Variants         []MappedVariant
}

// MappedVariant carries supplier variant data with defaults applied
// later by pricing.
type MappedVariant struct {
	Name           string
	Price          *float64
	CompareAtPrice *float64
	Image          string
	Attributes     map[string]string
	Stock          *int
}

// ScrapeResult is the outcome of a scrape. Expected failures are
// reported through Success and Error, never as a Go error.
type ScrapeResult struct {
	Success bool
	Data    *RawProduct
	Error   string
}

func failed(reason string) ScrapeResult {
	return ScrapeResult{Error: reason}
}

func succeeded(p *RawProduct) ScrapeResult {
	return ScrapeResult{Success: true, Data: p}
}

// Scraper fetches and parses one supplier's product pages.
type Scraper interface {
	Source() supplier.Source
	ScrapeProduct(ctx context.Context, url string) ScrapeResult
}

// SpecValue returns the value for key, matching case-insensitively.
func SpecValue(specs []Spec, key string) (string, bool) {
	for _, s := range specs {
		if strings.EqualFold(s.Key, key) {
			return s.Value, true
		}
	}
	return "", false
}
