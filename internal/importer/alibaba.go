package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookbright/electryohype/internal/supplier"
)

const defaultRenderTimeout = 45 * time.Second

// AlibabaScraper renders alibaba product pages in a headless browser;
// prices and galleries are filled in by JavaScript.
type AlibabaScraper struct {
	browser Browser
	timeout time.Duration
}

func NewAlibabaScraper(browser Browser, timeout time.Duration) *AlibabaScraper {
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	return &AlibabaScraper{browser: browser, timeout: timeout}
}

func (s *AlibabaScraper) Source() supplier.Source {
	return supplier.Alibaba
}

func (s *AlibabaScraper) ScrapeProduct(ctx context.Context, url string) ScrapeResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	html, err := renderPage(ctx, s.browser, url, "h1")
	if err != nil {
		return failed(describeRenderError(err))
	}
	return parseAlibabaPage(html, url)
}

func parseAlibabaPage(html, pageURL string) ScrapeResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return failed("could not parse product page")
	}
	if isBlockedPage(doc) || doc.Find(`[id*="baxia"], .nc_wrapper`).Length() > 0 {
		return failed("blocked by anti-bot page")
	}

	product := &RawProduct{}
	seen := map[string]bool{}
	if ld, ok := findJSONLDProduct(doc); ok {
		applyLD(product, ld, pageURL, seen)
	}

	if title := textOf(doc, ".product-title-container h1", `[data-module-name="module_title"] h1`, "h1"); title != "" {
		product.Title = title
	}
	if product.Title == "" {
		product.Title = metaContent(doc, "og:title")
	}

	if priceText := textOf(doc, ".price-list .price", ".product-price .price", `[class*="price-item"] .price`, `[data-testid="product-price"]`); priceText != "" {
		if amount, ok := parsePrice(priceText); ok {
			currency := detectCurrency(priceText)
			if currency == "" {
				currency = "USD"
			}
			product.Price = &Price{Amount: amount, Currency: currency}
		}
	}
	if product.Price == nil {
		product.Price = metaPrice(doc)
	}

	doc.Find(`.main-image img, [class*="image-list"] img, [class*="slider"] img, .detail-gallery img`).Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("data-src", img.AttrOr("src", ""))
		product.Images = appendUnique(product.Images, seen, absoluteURL(pageURL, stripAlibabaThumb(src)))
	})
	product.Images = appendUnique(product.Images, seen, absoluteURL(pageURL, metaContent(doc, "og:image")))

	doc.Find(".attribute-list .attribute-item, .do-entry-item").Each(func(_ int, item *goquery.Selection) {
		key := cleanText(item.Find(".left, .attr-name, dt").First().Text())
		val := cleanText(item.Find(".right, .attr-value, dd").First().Text())
		if key != "" && val != "" {
			product.Specs = append(product.Specs, Spec{Key: strings.TrimSuffix(key, ":"), Value: val})
		}
	})

	if product.Description == "" {
		product.Description = firstNonEmpty(textOf(doc, ".product-description", "#product-description"), metaContent(doc, "og:description", "description"))
	}
	product.ShippingEstimate = textOf(doc, ".product-shipping .shipping-content", `[class*="logistics"] [class*="time"]`)

	return finish(product)
}

// stripAlibabaThumb removes the _NNNxNNN.jpg thumbnail suffix so the full
// size asset is imported.
func stripAlibabaThumb(src string) string {
	if i := strings.LastIndex(src, ".jpg_"); i > 0 {
		return src[:i+4]
	}
	if i := strings.LastIndex(src, ".png_"); i > 0 {
		return src[:i+4]
	}
	return src
}

func describeRenderError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out rendering product page"
	}
	if errors.Is(err, context.Canceled) {
		return "scrape cancelled"
	}
	return fmt.Sprintf("failed to render product page: %v", err)
}
