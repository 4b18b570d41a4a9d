package importer

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{input: "9.99", want: 9.99, ok: true},
		{input: "US $1,299.99", want: 1299.99, ok: true},
		{input: "12,50 €", want: 12.50, ok: true},
		{input: "1.299,99 EUR", want: 1299.99, ok: true},
		{input: "$12.50 - $15.00", want: 12.50, ok: true},
		{input: "R 1,250", want: 1250, ok: true},
		{input: "$9.99 2 sold", want: 9.99, ok: true},
		{input: "free", ok: false},
		{input: "", ok: false},
		{input: "0.00", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestDetectCurrency(t *testing.T) {
	assert.Equal(t, "USD", detectCurrency("US $149.99"))
	assert.Equal(t, "USD", detectCurrency("$12.50"))
	assert.Equal(t, "EUR", detectCurrency("12,50 €"))
	assert.Equal(t, "GBP", detectCurrency("£8.00"))
	assert.Equal(t, "AUD", detectCurrency("AU $20.00"))
	assert.Equal(t, "", detectCurrency("12.50"))
}

func TestFindJSONLDProduct_Graph(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@context":"https://schema.org","@graph":[
		{"@type":"BreadcrumbList","name":"crumbs"},
		{"@type":["Product","Thing"],"name":"Desk Lamp","image":{"url":"https://cdn.example.com/lamp.jpg"},
		 "offers":[{"@type":"AggregateOffer","lowPrice":7.5,"highPrice":9,"priceCurrency":"usd"}]}
	]}
	</script></head><body></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	ld, ok := findJSONLDProduct(doc)
	require.True(t, ok)
	assert.Equal(t, "Desk Lamp", ld.Name)
	assert.Equal(t, []string{"https://cdn.example.com/lamp.jpg"}, ld.Images)
	require.NotNil(t, ld.Price)
	assert.Equal(t, 7.5, ld.Price.Amount)
	assert.Equal(t, "USD", ld.Price.Currency)
	assert.Nil(t, ld.Available)
}

func TestFindJSONLDProduct_SkipsInvalidScripts(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">{not json</script>
	<script type="application/ld+json">{"@type":"Organization","name":"Temu"}</script>
	</head></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	_, ok := findJSONLDProduct(doc)
	assert.False(t, ok)
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://www.temu.com/goods/item.html"
	assert.Equal(t, "https://img.kwcdn.com/a.jpg", absoluteURL(base, "//img.kwcdn.com/a.jpg"))
	assert.Equal(t, "https://www.temu.com/static/b.jpg", absoluteURL(base, "/static/b.jpg"))
	assert.Equal(t, "", absoluteURL(base, "data:image/png;base64,AAAA"))
	assert.Equal(t, "", absoluteURL(base, "  "))
}

func TestAppendUnique(t *testing.T) {
	seen := map[string]bool{}
	got := appendUnique(nil, seen, "a", "", "b", "a")
	got = appendUnique(got, seen, "b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
