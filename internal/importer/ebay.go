package importer

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/bookbright/electryohype/internal/supplier"
)

// EbayScraper renders eBay item pages in a headless browser.
type EbayScraper struct {
	browser Browser
	timeout time.Duration
}

func NewEbayScraper(browser Browser, timeout time.Duration) *EbayScraper {
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	return &EbayScraper{browser: browser, timeout: timeout}
}

func (s *EbayScraper) Source() supplier.Source {
	return supplier.Ebay
}

func (s *EbayScraper) ScrapeProduct(ctx context.Context, url string) ScrapeResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	html, err := renderPage(ctx, s.browser, url, "h1.x-item-title__mainTitle")
	if err != nil {
		return failed(describeRenderError(err))
	}
	return parseEbayPage(html, url)
}

func parseEbayPage(html, pageURL string) ScrapeResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return failed("could not parse product page")
	}
	if isBlockedPage(doc) {
		return failed("blocked by anti-bot page")
	}

	body := strings.ToLower(doc.Find("body").Text())
	if strings.Contains(body, "this listing has ended") || strings.Contains(body, "this listing was ended") {
		return failed("listing has ended: item may have been removed")
	}

	product := &RawProduct{}
	seen := map[string]bool{}
	if ld, ok := findJSONLDProduct(doc); ok {
		applyLD(product, ld, pageURL, seen)
	}

	if title := textOf(doc, "h1.x-item-title__mainTitle span", "h1.x-item-title__mainTitle", "#itemTitle"); title != "" {
		product.Title = strings.TrimPrefix(title, "Details about ")
	}

	if priceText := textOf(doc, ".x-price-primary span.ux-textspans", ".x-price-primary", "#prcIsum", "#mm-saleDscPrc"); priceText != "" {
		if amount, ok := parsePrice(priceText); ok {
			currency := detectCurrency(priceText)
			if currency == "" && product.Price != nil {
				currency = product.Price.Currency
			}
			product.Price = &Price{Amount: amount, Currency: currency}
		}
	}
	if product.Price == nil {
		if raw, ok := doc.Find(`[itemprop="price"]`).First().Attr("content"); ok {
			if amount, ok := parsePrice(raw); ok {
				product.Price = &Price{
					Amount:   amount,
					Currency: doc.Find(`[itemprop="priceCurrency"]`).First().AttrOr("content", ""),
				}
			}
		}
	}

	doc.Find(".ux-image-carousel-item img, #icImg").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("data-zoom-src", img.AttrOr("src", img.AttrOr("data-src", "")))
		product.Images = appendUnique(product.Images, seen, absoluteURL(pageURL, src))
	})
	product.Images = appendUnique(product.Images, seen, absoluteURL(pageURL, metaContent(doc, "og:image")))

	doc.Find(".ux-layout-section-evo__col, .ux-labels-values").Each(func(_ int, col *goquery.Selection) {
		key := cleanText(col.Find(".ux-labels-values__labels").First().Text())
		val := cleanText(col.Find(".ux-labels-values__values").First().Text())
		key = strings.TrimSuffix(key, ":")
		if key == "" || val == "" {
			return
		}
		if _, dup := SpecValue(product.Specs, key); dup {
			return
		}
		product.Specs = append(product.Specs, Spec{Key: key, Value: val})
	})

	product.ShippingEstimate = textOf(doc,
		".ux-labels-values--deliverto .ux-labels-values__values",
		".ux-labels-values--shipping .ux-labels-values__values",
		"#fshippingCost",
	)

	if strings.Contains(body, "out of stock") {
		unavailable := false
		product.Available = &unavailable
	}
	if product.Description == "" {
		product.Description = metaContent(doc, "og:description", "description")
	}

	return finish(product)
}
