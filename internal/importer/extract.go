package importer

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	numberPattern     = regexp.MustCompile(`\d[\d.,]*\d|\d`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ldProduct holds the schema.org Product fields the scrapers use.
type ldProduct struct {
	Name        string
	Description string
	Images      []string
	Category    string
	Brand       string
	Price       *Price
	Available   *bool
	Specs       []Spec
	Variants    []RawVariant
}

// findJSONLDProduct returns the first schema.org Product found in the
// document's ld+json scripts, including inside @graph and arrays.
func findJSONLDProduct(doc *goquery.Document) (*ldProduct, bool) {
	var found *ldProduct
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &raw); err != nil {
			return true
		}
		if obj := findTyped(raw, "Product"); obj != nil {
			found = parseLDProduct(obj)
			return false
		}
		return true
	})
	return found, found != nil
}

func findTyped(v any, typ string) map[string]any {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if obj := findTyped(item, typ); obj != nil {
				return obj
			}
		}
	case map[string]any:
		if hasType(t["@type"], typ) {
			return t
		}
		if graph, ok := t["@graph"]; ok {
			return findTyped(graph, typ)
		}
	}
	return nil
}

func hasType(v any, typ string) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, typ)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, typ) {
				return true
			}
		}
	}
	return false
}

func parseLDProduct(obj map[string]any) *ldProduct {
	p := &ldProduct{
		Name:        cleanText(stringField(obj, "name")),
		Description: cleanText(stringField(obj, "description")),
		Images:      imageList(obj["image"]),
		Category:    cleanText(stringField(obj, "category")),
	}

	switch b := obj["brand"].(type) {
	case string:
		p.Brand = cleanText(b)
	case map[string]any:
		p.Brand = cleanText(stringField(b, "name"))
	}

	p.Price, p.Available = parseOffers(obj["offers"])

	if p.Brand != "" {
		p.Specs = append(p.Specs, Spec{Key: "Brand", Value: p.Brand})
	}
	if p.Category != "" {
		p.Specs = append(p.Specs, Spec{Key: "Category", Value: p.Category})
	}
	p.Specs = append(p.Specs, propertyList(obj["additionalProperty"])...)

	if variants, ok := obj["hasVariant"].([]any); ok {
		for _, item := range variants {
			vobj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			p.Variants = append(p.Variants, parseLDVariant(vobj))
		}
	}

	return p
}

func parseLDVariant(obj map[string]any) RawVariant {
	v := RawVariant{
		Name:       cleanText(stringField(obj, "name")),
		Attributes: map[string]string{},
	}
	if imgs := imageList(obj["image"]); len(imgs) > 0 {
		v.Image = imgs[0]
	}
	for _, key := range []string{"color", "size", "material", "pattern"} {
		if val := cleanText(stringField(obj, key)); val != "" {
			v.Attributes[key] = val
		}
	}
	for _, spec := range propertyList(obj["additionalProperty"]) {
		v.Attributes[strings.ToLower(spec.Key)] = spec.Value
	}

	price, available := parseOffers(obj["offers"])
	if price != nil {
		amount := price.Amount
		v.Price = &amount
	}
	if available != nil && !*available {
		zero := 0
		v.Stock = &zero
	}
	return v
}

// parseOffers reads an Offer or AggregateOffer, taking the low bound of a
// price range.
func parseOffers(v any) (*Price, *bool) {
	var offer map[string]any
	switch t := v.(type) {
	case map[string]any:
		offer = t
	case []any:
		for _, item := range t {
			if obj, ok := item.(map[string]any); ok {
				offer = obj
				break
			}
		}
	}
	if offer == nil {
		return nil, nil
	}

	var price *Price
	for _, key := range []string{"price", "lowPrice"} {
		if amount, ok := numberField(offer, key); ok && amount > 0 {
			price = &Price{Amount: amount, Currency: strings.ToUpper(stringField(offer, "priceCurrency"))}
			break
		}
	}
	if price == nil {
		if spec, ok := offer["priceSpecification"].(map[string]any); ok {
			if amount, ok := numberField(spec, "price"); ok && amount > 0 {
				price = &Price{Amount: amount, Currency: strings.ToUpper(stringField(spec, "priceCurrency"))}
			}
		}
	}

	var available *bool
	if a := stringField(offer, "availability"); a != "" {
		inStock := !strings.Contains(strings.ToLower(a), "outofstock") &&
			!strings.Contains(strings.ToLower(a), "discontinued") &&
			!strings.Contains(strings.ToLower(a), "soldout")
		available = &inStock
	}
	return price, available
}

func propertyList(v any) []Spec {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var specs []Spec
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key := cleanText(stringField(obj, "name"))
		val := cleanText(stringField(obj, "value"))
		if key != "" && val != "" {
			specs = append(specs, Spec{Key: key, Value: val})
		}
	}
	return specs
}

func imageList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		out = append(out, t)
	case []any:
		for _, item := range t {
			out = append(out, imageList(item)...)
		}
	case map[string]any:
		if u := stringField(t, "url"); u != "" {
			out = append(out, u)
		} else if u := stringField(t, "contentUrl"); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func numberField(obj map[string]any, key string) (float64, bool) {
	switch v := obj[key].(type) {
	case float64:
		return v, true
	case string:
		return parsePrice(v)
	}
	return 0, false
}

// parsePrice extracts the first amount from text such as "US $1,299.99",
// "12,50 €" or "8.99 - 12.99". Thousands separators are dropped.
func parsePrice(text string) (float64, bool) {
	m := numberPattern.FindString(text)
	if m == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(m, ".")
	lastComma := strings.LastIndex(m, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			m = strings.ReplaceAll(m, ".", "")
			m = strings.Replace(m, ",", ".", 1)
		} else {
			m = strings.ReplaceAll(m, ",", "")
		}
	case lastComma >= 0:
		if len(m)-lastComma-1 == 2 && strings.Count(m, ",") == 1 {
			m = strings.Replace(m, ",", ".", 1)
		} else {
			m = strings.ReplaceAll(m, ",", "")
		}
	case strings.Count(m, ".") > 1:
		m = strings.ReplaceAll(m, ".", "")
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// detectCurrency guesses an ISO code from a price label.
func detectCurrency(text string) string {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, "USD"), strings.Contains(upper, "US $"), strings.Contains(upper, "US$"):
		return "USD"
	case strings.Contains(upper, "EUR"), strings.Contains(text, "€"):
		return "EUR"
	case strings.Contains(upper, "GBP"), strings.Contains(text, "£"):
		return "GBP"
	case strings.Contains(upper, "AU $"), strings.Contains(upper, "AUD"):
		return "AUD"
	case strings.Contains(upper, "C $"), strings.Contains(upper, "CAD"):
		return "CAD"
	case strings.Contains(upper, "ZAR"), strings.HasPrefix(strings.TrimSpace(upper), "R "):
		return "ZAR"
	case strings.Contains(text, "$"):
		return "USD"
	}
	return ""
}

func metaContent(doc *goquery.Document, names ...string) string {
	for _, name := range names {
		sel := doc.Find(`meta[property="` + name + `"], meta[name="` + name + `"]`).First()
		if v := strings.TrimSpace(sel.AttrOr("content", "")); v != "" {
			return v
		}
	}
	return ""
}

func textOf(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v := cleanText(doc.Find(sel).First().Text()); v != "" {
			return v
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// absoluteURL resolves ref against base and upgrades protocol-relative
// image links to https.
func absoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

func appendUnique(list []string, seen map[string]bool, values ...string) []string {
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		list = append(list, v)
	}
	return list
}
