package importer

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookbright/electryohype/internal/supplier"
)

var (
	temuRawPricePattern    = regexp.MustCompile(`"(?:salePrice|minOnSalePrice|priceStr|price)"\s*:\s*"?([^",}]+)`)
	temuRawCurrencyPattern = regexp.MustCompile(`"(?:currency|currencyCode)"\s*:\s*"([A-Za-z]{3})"`)
	shippingPattern        = regexp.MustCompile(`(?i)(free shipping[^.<]{0,40}|(?:arrives|delivery)[: ]+[^.<]{3,50})`)
)

// TemuScraper reads temu product pages over plain HTTP. Temu ships
// structured data in the initial document, so no browser is needed.
type TemuScraper struct {
	client *HTTPClient
}

func NewTemuScraper(client *HTTPClient) *TemuScraper {
	return &TemuScraper{client: client}
}

func (s *TemuScraper) Source() supplier.Source {
	return supplier.Temu
}

func (s *TemuScraper) ScrapeProduct(ctx context.Context, url string) ScrapeResult {
	body, err := s.client.Get(ctx, url)
	if err != nil {
		return failed(describeFetchError(err))
	}
	return parseTemuPage(body, url)
}

func parseTemuPage(body []byte, pageURL string) ScrapeResult {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return failed("could not parse product page")
	}
	if isBlockedPage(doc) {
		return failed("blocked by anti-bot page")
	}

	product := &RawProduct{}
	seen := map[string]bool{}

	if ld, ok := findJSONLDProduct(doc); ok {
		applyLD(product, ld, pageURL, seen)
	}

	if product.Title == "" {
		product.Title = firstNonEmpty(metaContent(doc, "og:title", "twitter:title"), textOf(doc, "h1"))
	}
	if product.Description == "" {
		product.Description = firstNonEmpty(metaContent(doc, "og:description", "description"))
	}
	if product.Price == nil {
		product.Price = metaPrice(doc)
	}
	if product.Price == nil {
		product.Price = temuRawDataPrice(body)
	}
	product.Images = appendUnique(product.Images, seen, absoluteURL(pageURL, metaContent(doc, "og:image")))

	if m := shippingPattern.FindString(doc.Find("body").Text()); m != "" {
		product.ShippingEstimate = cleanText(m)
	}

	return finish(product)
}

// temuRawDataPrice looks for the goods price inside the inline
// window.rawData bootstrap script.
func temuRawDataPrice(body []byte) *Price {
	idx := bytes.Index(body, []byte("window.rawData"))
	if idx < 0 {
		return nil
	}
	chunk := body[idx:]
	if len(chunk) > 256<<10 {
		chunk = chunk[:256<<10]
	}

	m := temuRawPricePattern.FindSubmatch(chunk)
	if m == nil {
		return nil
	}
	amount, ok := parsePrice(string(m[1]))
	if !ok {
		return nil
	}

	currency := detectCurrency(string(m[1]))
	if c := temuRawCurrencyPattern.FindSubmatch(chunk); c != nil {
		currency = strings.ToUpper(string(c[1]))
	}
	return &Price{Amount: amount, Currency: currency}
}

func metaPrice(doc *goquery.Document) *Price {
	raw := metaContent(doc, "product:price:amount", "og:price:amount")
	if raw == "" {
		return nil
	}
	amount, ok := parsePrice(raw)
	if !ok {
		return nil
	}
	return &Price{
		Amount:   amount,
		Currency: strings.ToUpper(metaContent(doc, "product:price:currency", "og:price:currency")),
	}
}

func applyLD(p *RawProduct, ld *ldProduct, pageURL string, seen map[string]bool) {
	p.Title = ld.Name
	p.Description = ld.Description
	p.Price = ld.Price
	p.Available = ld.Available
	p.Specs = append(p.Specs, ld.Specs...)
	for _, img := range ld.Images {
		p.Images = appendUnique(p.Images, seen, absoluteURL(pageURL, img))
	}
	for _, v := range ld.Variants {
		v.Image = absoluteURL(pageURL, v.Image)
		p.Variants = append(p.Variants, v)
	}
}

// finish enforces the scrape contract: title and price are mandatory,
// everything else is best effort.
func finish(p *RawProduct) ScrapeResult {
	p.Title = cleanText(p.Title)
	if p.Title == "" {
		return failed("could not find product title")
	}
	if p.Price == nil || p.Price.Amount <= 0 {
		return failed("could not find price")
	}
	return succeeded(p)
}

func isBlockedPage(doc *goquery.Document) bool {
	title := strings.ToLower(doc.Find("title").First().Text())
	for _, marker := range []string{"captcha", "security check", "access denied", "pardon our interruption", "just a moment"} {
		if strings.Contains(title, marker) {
			return true
		}
	}

	if doc.Find("h1").Length() > 0 || doc.Find(`script[type="application/ld+json"]`).Length() > 0 {
		return false
	}
	text := strings.ToLower(doc.Find("body").Text())
	for _, marker := range []string{"slide to verify", "verify you are human", "checking your browser", "unusual traffic"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
