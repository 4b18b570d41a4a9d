package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookbright/electryohype/internal/metrics"
	"github.com/bookbright/electryohype/internal/supplier"
)

const (
	fallbackAmount   = 9.99
	fallbackCurrency = "USD"
)

var ErrUnsupportedSupplier = errors.New("unsupported supplier")

// ScrapeError is returned by FetchProduct when the scraper reported a
// failure. Reason is the scraper's human-readable message.
type ScrapeError struct {
	Supplier supplier.Source
	Reason   string
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("%s scrape failed: %s", e.Supplier.DisplayName(), e.Reason)
}

// Provider is the uniform import contract for one supplier.
type Provider interface {
	Name() string
	Source() supplier.Source
	CanHandle(url string) bool
	NormalizeURL(url string) (string, error)
	FetchProduct(ctx context.Context, url string) (*RawProduct, error)
	MapToProduct(raw *RawProduct, originalURL string) MappedProduct
}

type supplierFuncs struct {
	validate func(string) bool
	hint     string
}

// suppliers is the single dispatch table from Source to the
// supplier-specific URL rules and remediation text.
var suppliers = map[supplier.Source]supplierFuncs{
	supplier.Temu: {
		validate: supplier.ValidTemuURL,
		hint:     "Temu may be throttling requests. Wait a minute and retry, or open the product page in a browser and copy the URL from the address bar.",
	},
	supplier.Alibaba: {
		validate: supplier.ValidAlibabaURL,
		hint:     "Alibaba pages are rendered in a headless browser and often time out. Retry in a few minutes, or paste the product-detail URL directly instead of a search or store link.",
	},
	supplier.Ebay: {
		validate: supplier.ValidEbayURL,
		hint:     "eBay may have ended the listing or blocked the request. Retry shortly, or paste the /itm/ product URL directly.",
	},
}

// Hint returns the retry guidance shown when a scrape for source fails.
func Hint(source supplier.Source) string {
	if f, ok := suppliers[source]; ok {
		return f.hint
	}
	return "Retry the import, or paste a product URL from a supported supplier (Temu, Alibaba, eBay)."
}

type scraperProvider struct {
	scraper Scraper
	funcs   supplierFuncs
}

func newProvider(s Scraper) (*scraperProvider, error) {
	funcs, ok := suppliers[s.Source()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSupplier, s.Source())
	}
	return &scraperProvider{scraper: s, funcs: funcs}, nil
}

func (p *scraperProvider) Name() string {
	return p.scraper.Source().DisplayName()
}

func (p *scraperProvider) Source() supplier.Source {
	return p.scraper.Source()
}

func (p *scraperProvider) CanHandle(url string) bool {
	return supplier.Identify(url) == p.Source()
}

// NormalizeURL canonicalizes url and rejects anything that is not a
// product page of this provider's supplier.
func (p *scraperProvider) NormalizeURL(url string) (string, error) {
	if !p.CanHandle(url) {
		return "", fmt.Errorf("%w: not a %s url", supplier.ErrUnsupportedURL, p.Name())
	}
	normalized, err := supplier.Normalize(url)
	if err != nil {
		return "", err
	}
	if !p.funcs.validate(normalized) {
		return "", fmt.Errorf("%w: not a %s product page", supplier.ErrInvalidURL, p.Name())
	}
	return normalized, nil
}

// FetchProduct runs the scraper and converts a failed result into a
// *ScrapeError.
func (p *scraperProvider) FetchProduct(ctx context.Context, url string) (*RawProduct, error) {
	if !p.funcs.validate(url) {
		return nil, fmt.Errorf("%w: not a %s product page", supplier.ErrInvalidURL, p.Name())
	}

	start := time.Now()
	res := p.scraper.ScrapeProduct(ctx, url)
	metrics.ObserveScrape(string(p.Source()), res.Success, time.Since(start))

	if !res.Success || res.Data == nil {
		reason := res.Error
		if reason == "" {
			reason = "scraper returned no data"
		}
		slog.Warn("scrape failed", "supplier", p.Source(), "url", url, "reason", reason, "duration", time.Since(start))
		return nil, &ScrapeError{Supplier: p.Source(), Reason: reason}
	}

	slog.Info("scraped product", "supplier", p.Source(), "url", url, "duration", time.Since(start))
	return res.Data, nil
}

// MapToProduct never fails: every missing field gets a deterministic
// default.
func (p *scraperProvider) MapToProduct(raw *RawProduct, originalURL string) MappedProduct {
	if raw == nil {
		raw = &RawProduct{}
	}

	m := MappedProduct{
		Supplier:         p.Source(),
		SourceURL:        originalURL,
		Title:            cleanText(raw.Title),
		Description:      cleanText(raw.Description),
		Price:            Price{Amount: fallbackAmount, Currency: fallbackCurrency},
		Images:           appendUnique(make([]string, 0, len(raw.Images)), map[string]bool{}, raw.Images...),
		Specs:            make([]Spec, 0, len(raw.Specs)),
		ShippingEstimate: cleanText(raw.ShippingEstimate),
		Available:        true,
		Variants:         make([]MappedVariant, 0, len(raw.Variants)),
	}

	if m.Title == "" {
		m.Title = fmt.Sprintf("Untitled %s Product", p.Name())
	}
	if raw.Price != nil && raw.Price.Amount > 0 {
		m.Price.Amount = raw.Price.Amount
		if raw.Price.Currency != "" {
			m.Price.Currency = raw.Price.Currency
		}
	}
	if raw.Available != nil {
		m.Available = *raw.Available
	}

	for _, s := range raw.Specs {
		if s.Key == "" {
			continue
		}
		m.Specs = append(m.Specs, s)
	}

	for _, v := range raw.Variants {
		mv := MappedVariant{
			Name:           cleanText(v.Name),
			Price:          copyFloat(v.Price),
			CompareAtPrice: copyFloat(v.CompareAtPrice),
			Image:          v.Image,
			Attributes:     make(map[string]string, len(v.Attributes)),
		}
		for k, val := range v.Attributes {
			mv.Attributes[k] = val
		}
		if v.Stock != nil {
			stock := *v.Stock
			mv.Stock = &stock
		}
		m.Variants = append(m.Variants, mv)
	}

	return m
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
