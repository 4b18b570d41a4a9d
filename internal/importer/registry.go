package importer

import (
	"log/slog"
	"time"

	"github.com/bookbright/electryohype/internal/supplier"
)

// Registry resolves URLs and provider names to Providers.
type Registry struct {
	providers []Provider
	bySource  map[supplier.Source]Provider
}

// NewRegistry wraps each scraper in a Provider. Scrapers for unknown
// sources are skipped; a later scraper for the same source replaces an
// earlier one.
func NewRegistry(scrapers ...Scraper) *Registry {
	r := &Registry{bySource: make(map[supplier.Source]Provider)}
	for _, s := range scrapers {
		p, err := newProvider(s)
		if err != nil {
			slog.Warn("skipping scraper", "error", err)
			continue
		}
		r.bySource[p.Source()] = p
	}
	for _, source := range supplier.Sources() {
		if p, ok := r.bySource[source]; ok {
			r.providers = append(r.providers, p)
		}
	}
	return r
}

// Detect returns the provider whose supplier serves url.
func (r *Registry) Detect(url string) (Provider, bool) {
	source := supplier.Identify(url)
	if source == supplier.None {
		return nil, false
	}
	p, ok := r.bySource[source]
	return p, ok
}

// Get returns a provider by name ("temu", "Alibaba", "eBay").
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.bySource[supplier.ParseSource(name)]
	return p, ok
}

func (r *Registry) Providers() []Provider {
	return r.providers
}

// Options configures the production scrapers.
type Options struct {
	RequestsPerMinute int
	HTTPTimeout       time.Duration
	RenderTimeout     time.Duration
	Browser           Browser
}

// DefaultScrapers builds the lightweight temu scraper and the headless
// alibaba and eBay scrapers.
func DefaultScrapers(opts Options) []Scraper {
	client := NewHTTPClient(opts.RequestsPerMinute, opts.HTTPTimeout)
	browser := opts.Browser
	if browser == nil {
		browser = NewChromeBrowser(BrowserOptions{NavTimeout: opts.RenderTimeout})
	}
	return []Scraper{
		NewTemuScraper(client),
		NewAlibabaScraper(browser, opts.RenderTimeout),
		NewEbayScraper(browser, opts.RenderTimeout),
	}
}
