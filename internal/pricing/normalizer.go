// Package pricing turns mapped supplier products into priced catalog
// payloads ready to persist.
package pricing

import (
	"strconv"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/bookbright/electryohype/internal/importer"
	"github.com/bookbright/electryohype/internal/utils"
)

const (
	maxImages          = 10
	maxTags            = 5
	maxShortDesc       = 150
	standardVariant    = "Standard"
	localPriceBoundary = 100
)

// Normalizer holds the pricing constants. The USD rate is a fixed
// approximation, not a live feed.
type Normalizer struct {
	USDRate         decimal.Decimal
	Markup          decimal.Decimal
	CompareAtMarkup decimal.Decimal
	DefaultStock    int
	DefaultCategory string
}

func DefaultNormalizer() Normalizer {
	return Normalizer{
		USDRate:         decimal.RequireFromString("10.5"),
		Markup:          decimal.RequireFromString("1.5"),
		CompareAtMarkup: decimal.RequireFromString("1.15"),
		DefaultStock:    10,
		DefaultCategory: "Imported",
	}
}

// ImportPayload is the priced product returned by the import endpoint and
// written to the catalog. Prices are whole local currency units.
type ImportPayload struct {
	Name             string            `json:"name"`
	Price            int64             `json:"price"`
	SuggestedPrice   int64             `json:"suggestedPrice"`
	CompareAtPrice   int64             `json:"compareAtPrice"`
	CostPrice        float64           `json:"costPrice"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"shortDescription"`
	Category         string            `json:"category"`
	Images           []string          `json:"images"`
	Tags             []string          `json:"tags"`
	Supplier         string            `json:"supplier"`
	SourceURL        string            `json:"sourceUrl"`
	Specs            map[string]string `json:"specs"`
	ShippingEstimate string            `json:"shippingEstimate,omitempty"`
	Available        bool              `json:"available"`
	Variants         []Variant         `json:"variants"`
}

type Variant struct {
	Name           string            `json:"name"`
	SKU            string            `json:"sku"`
	Price          int64             `json:"price"`
	CompareAtPrice *int64            `json:"compareAtPrice,omitempty"`
	SupplierPrice  float64           `json:"supplierPrice"`
	Image          string            `json:"image"`
	Attributes     map[string]string `json:"attributes"`
	Stock          int               `json:"stock"`
}

// Normalize prices m and backfills variants. It is pure: the same input
// always yields the same output.
func (n Normalizer) Normalize(m importer.MappedProduct) ImportPayload {
	converted := n.toLocal(decimal.NewFromFloat(m.Price.Amount), m.Price.Currency)
	price := converted.Mul(n.Markup).Round(0)
	compareAt := price.Mul(n.CompareAtMarkup).Round(0)

	name := ImproveTitle(m.Title)
	description := m.Description
	if description == "" {
		description = name
	}

	category := n.DefaultCategory
	if v, ok := importer.SpecValue(m.Specs, "Category"); ok && v != "" {
		category = v
	}

	images := make([]string, 0, maxImages)
	for _, img := range m.Images {
		if len(images) == maxImages {
			break
		}
		images = append(images, img)
	}

	p := ImportPayload{
		Name:             name,
		Price:            price.IntPart(),
		SuggestedPrice:   price.IntPart(),
		CompareAtPrice:   compareAt.IntPart(),
		CostPrice:        converted.Round(2).InexactFloat64(),
		Description:      description,
		ShortDescription: shortDescription(cleanTitle(m.Title)),
		Category:         category,
		Images:           images,
		Tags:             tags(m.Specs),
		Supplier:         string(m.Supplier),
		SourceURL:        m.SourceURL,
		Specs:            specMap(m.Specs),
		ShippingEstimate: m.ShippingEstimate,
		Available:        m.Available,
	}
	p.Variants = n.variants(m, converted, images)
	return p
}

func (n Normalizer) variants(m importer.MappedProduct, converted decimal.Decimal, images []string) []Variant {
	firstImage := ""
	if len(images) > 0 {
		firstImage = images[0]
	}

	if len(m.Variants) == 0 {
		return []Variant{{
			Name:          standardVariant,
			SKU:           utils.VariantSKU(string(m.Supplier), m.SourceURL, standardVariant, nil),
			Price:         converted.Round(0).IntPart(),
			SupplierPrice: converted.Round(2).InexactFloat64(),
			Image:         firstImage,
			Attributes:    map[string]string{},
			Stock:         n.DefaultStock,
		}}
	}

	out := make([]Variant, 0, len(m.Variants))
	seenSKU := make(map[string]int, len(m.Variants))
	for _, mv := range m.Variants {
		vp := converted
		if mv.Price != nil {
			vp = n.heuristicLocal(*mv.Price)
		}

		v := Variant{
			Name:       mv.Name,
			Price:      vp.Round(0).IntPart(),
			Image:      mv.Image,
			Attributes: make(map[string]string, len(mv.Attributes)),
			Stock:      n.DefaultStock,
		}
		if v.Name == "" {
			v.Name = standardVariant
		}
		if v.Image == "" {
			v.Image = firstImage
		}
		for k, val := range mv.Attributes {
			v.Attributes[k] = val
		}

		// Cost is backed out of the markup.
		v.SupplierPrice = vp.Div(n.Markup).Round(2).InexactFloat64()
		if mv.CompareAtPrice != nil {
			c := n.heuristicLocal(*mv.CompareAtPrice).Round(0).IntPart()
			v.CompareAtPrice = &c
		}
		if mv.Stock != nil {
			v.Stock = max(*mv.Stock, 0)
		}

		sku := utils.VariantSKU(string(m.Supplier), m.SourceURL, v.Name, v.Attributes)
		seenSKU[sku]++
		if c := seenSKU[sku]; c > 1 {
			sku += "-" + strconv.Itoa(c)
		}
		v.SKU = sku

		out = append(out, v)
	}
	return out
}

func (n Normalizer) toLocal(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == "USD" {
		return amount.Mul(n.USDRate)
	}
	return amount
}

// heuristicLocal treats variant amounts below 100 as USD and anything else
// as already local. Suppliers do not report a per-variant currency, so a
// cheap local-currency variant will be misread as USD.
func (n Normalizer) heuristicLocal(amount float64) decimal.Decimal {
	d := decimal.NewFromFloat(amount)
	if d.LessThan(decimal.NewFromInt(localPriceBoundary)) {
		return d.Mul(n.USDRate)
	}
	return d
}

func shortDescription(name string) string {
	if utf8.RuneCountInString(name) <= maxShortDesc {
		return name
	}
	return string([]rune(name)[:maxShortDesc]) + "..."
}

func tags(specs []importer.Spec) []string {
	out := make([]string, 0, maxTags)
	seen := make(map[string]bool, maxTags)
	for _, s := range specs {
		if len(out) == maxTags {
			break
		}
		if s.Key == "" || seen[s.Key] {
			continue
		}
		seen[s.Key] = true
		out = append(out, s.Key)
	}
	return out
}

func specMap(specs []importer.Spec) map[string]string {
	out := make(map[string]string, len(specs))
	for _, s := range specs {
		if _, ok := out[s.Key]; !ok {
			out[s.Key] = s.Value
		}
	}
	return out
}
