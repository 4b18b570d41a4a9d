package importer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbright/electryohype/internal/supplier"
)

// stubScraper returns a canned result and counts calls.
type stubScraper struct {
	source supplier.Source
	result ScrapeResult
	calls  atomic.Int32
}

func (s *stubScraper) Source() supplier.Source {
	return s.source
}

func (s *stubScraper) ScrapeProduct(ctx context.Context, url string) ScrapeResult {
	s.calls.Add(1)
	return s.result
}

func TestProvider_FetchProduct(t *testing.T) {
	raw := &RawProduct{Title: "Wireless Earbuds", Price: &Price{Amount: 9.99, Currency: "USD"}}
	s := &stubScraper{source: supplier.Temu, result: ScrapeResult{Success: true, Data: raw}}
	p, ok := NewRegistry(s).Get("temu")
	require.True(t, ok)

	got, err := p.FetchProduct(context.Background(), "https://www.temu.com/item123.html")
	require.NoError(t, err)
	assert.Same(t, raw, got)
}

func TestProvider_FetchProduct_ConvertsFailure(t *testing.T) {
	s := &stubScraper{source: supplier.Alibaba, result: ScrapeResult{Error: "timed out rendering product page"}}
	p, ok := NewRegistry(s).Get("alibaba")
	require.True(t, ok)

	_, err := p.FetchProduct(context.Background(), "https://www.alibaba.com/product-detail/Speaker_1600.html")

	var se *ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, supplier.Alibaba, se.Supplier)
	assert.Equal(t, "timed out rendering product page", se.Reason)
	assert.Equal(t, "Alibaba scrape failed: timed out rendering product page", err.Error())
}

func TestProvider_FetchProduct_RejectsBeforeNetwork(t *testing.T) {
	s := &stubScraper{source: supplier.Ebay, result: ScrapeResult{Success: true, Data: &RawProduct{}}}
	p, _ := NewRegistry(s).Get("ebay")

	_, err := p.FetchProduct(context.Background(), "https://www.ebay.com/str/somestore")
	assert.ErrorIs(t, err, supplier.ErrInvalidURL)
	assert.Equal(t, int32(0), s.calls.Load())
}

func TestProvider_NormalizeURL(t *testing.T) {
	p, _ := NewRegistry(&stubScraper{source: supplier.Ebay}).Get("ebay")

	got, err := p.NormalizeURL("https://www.ebay.com/itm/camera/1234567890?hash=abc")
	require.NoError(t, err)
	assert.Equal(t, "https://www.ebay.com/itm/1234567890", got)

	_, err = p.NormalizeURL("https://www.temu.com/item123.html")
	assert.ErrorIs(t, err, supplier.ErrUnsupportedURL)

	_, err = p.NormalizeURL("https://www.ebay.com/sch/i.html?_nkw=camera")
	assert.ErrorIs(t, err, supplier.ErrInvalidURL)
}

// TestProvider_MapToProduct_Defaults checks every fallback when the
// scraper returned nothing usable.
func TestProvider_MapToProduct_Defaults(t *testing.T) {
	for _, source := range supplier.Sources() {
		t.Run(string(source), func(t *testing.T) {
			p, _ := NewRegistry(&stubScraper{source: source}).Get(string(source))

			for _, raw := range []*RawProduct{nil, {}} {
				m := p.MapToProduct(raw, "https://example.com/x")

				assert.Equal(t, source, m.Supplier)
				assert.Equal(t, "https://example.com/x", m.SourceURL)
				assert.Equal(t, "Untitled "+source.DisplayName()+" Product", m.Title)
				assert.Equal(t, Price{Amount: 9.99, Currency: "USD"}, m.Price)
				assert.NotNil(t, m.Images)
				assert.Empty(t, m.Images)
				assert.NotNil(t, m.Specs)
				assert.NotNil(t, m.Variants)
				assert.Empty(t, m.Variants)
				assert.True(t, m.Available)
				assert.Empty(t, m.ShippingEstimate)
			}
		})
	}
}

func TestProvider_MapToProduct_CopiesFields(t *testing.T) {
	price := 10.49
	stock := 3
	unavailable := false
	raw := &RawProduct{
		Title:            "  Wireless   Earbuds ",
		Price:            &Price{Amount: 149.99},
		Images:           []string{"a.jpg", "b.jpg", "a.jpg"},
		Specs:            []Spec{{Key: "Color", Value: "Black"}, {Key: "", Value: "orphan"}},
		ShippingEstimate: "7-12 days",
		Available:        &unavailable,
		Variants: []RawVariant{
			{Name: "White", Price: &price, Stock: &stock, Attributes: map[string]string{"color": "White"}},
			{},
		},
	}

	p, _ := NewRegistry(&stubScraper{source: supplier.Ebay}).Get("ebay")
	m := p.MapToProduct(raw, "https://www.ebay.com/itm/1")

	assert.Equal(t, "Wireless Earbuds", m.Title)
	assert.Equal(t, Price{Amount: 149.99, Currency: "USD"}, m.Price)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, m.Images)
	assert.Equal(t, []Spec{{Key: "Color", Value: "Black"}}, m.Specs)
	assert.False(t, m.Available)
	assert.Equal(t, "7-12 days", m.ShippingEstimate)

	require.Len(t, m.Variants, 2)
	assert.Equal(t, 10.49, *m.Variants[0].Price)
	assert.Equal(t, 3, *m.Variants[0].Stock)
	assert.NotNil(t, m.Variants[1].Attributes)

	// mapped data must not alias the scraped data
	price = 1
	raw.Variants[0].Attributes["color"] = "Red"
	assert.Equal(t, 10.49, *m.Variants[0].Price)
	assert.Equal(t, "White", m.Variants[0].Attributes["color"])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(
		&stubScraper{source: supplier.Ebay},
		&stubScraper{source: supplier.Temu},
		&stubScraper{source: "aliexpress"},
		&stubScraper{source: supplier.Alibaba},
	)

	var names []string
	for _, p := range r.Providers() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"Temu", "Alibaba", "eBay"}, names)

	p, ok := r.Detect("https://m.ebay.de/itm/123")
	require.True(t, ok)
	assert.Equal(t, supplier.Ebay, p.Source())
	assert.True(t, p.CanHandle("https://www.ebay.com/itm/1"))
	assert.False(t, p.CanHandle("https://www.temu.com/a.html"))

	_, ok = r.Detect("https://example.com/item")
	assert.False(t, ok)

	_, ok = r.Get("aliexpress")
	assert.False(t, ok)

	p, ok = r.Get("eBay")
	require.True(t, ok)
	assert.Equal(t, "eBay", p.Name())
}

func TestRegistry_MissingScraper(t *testing.T) {
	r := NewRegistry(&stubScraper{source: supplier.Temu})

	_, ok := r.Detect("https://www.alibaba.com/product-detail/x_1.html")
	assert.False(t, ok)
}

func TestHint(t *testing.T) {
	assert.Contains(t, Hint(supplier.Alibaba), "Retry")
	assert.Contains(t, Hint(supplier.Alibaba), "paste the product-detail URL directly")
	assert.Contains(t, Hint(supplier.Ebay), "paste the /itm/ product URL directly")
	assert.Contains(t, Hint(supplier.Temu), "retry")
	assert.Contains(t, Hint(supplier.None), "Retry")
}

func TestScrapeError_Is(t *testing.T) {
	err := error(&ScrapeError{Supplier: supplier.Temu, Reason: "x"})
	var se *ScrapeError
	assert.True(t, errors.As(err, &se))
}
