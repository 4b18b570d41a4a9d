package utils

import (
	"hash/fnv"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	nonSKUChars    = regexp.MustCompile(`[^A-Z0-9-]+`)
	repeatedDashes = regexp.MustCompile(`-+`)
	itemIDPattern  = regexp.MustCompile(`\d{6,}`)
)

const maxSegmentLen = 12

// GenerateSKU joins uppercase segments with hyphens, skipping empty ones.
// Example: "temu", "601099512345", "black", "lg" -> "TEMU-601099512345-BLACK-LG".
func GenerateSKU(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if n := normalizeSegment(s); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "-")
}

// VariantSKU derives a stable SKU for an imported variant from the
// supplier, the product's source URL and the variant's attribute values
// in key order. The variant name is used when there are no attributes.
func VariantSKU(supplier, sourceURL, name string, attributes map[string]string) string {
	segments := []string{supplier, ItemKey(sourceURL)}

	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		segments = append(segments, attributes[k])
	}
	if len(keys) == 0 {
		segments = append(segments, name)
	}

	return GenerateSKU(segments...)
}

// ItemKey returns the supplier item id embedded in a product URL, or a
// short hash of the URL when it has none.
func ItemKey(sourceURL string) string {
	if ids := itemIDPattern.FindAllString(sourceURL, -1); len(ids) > 0 {
		return ids[len(ids)-1]
	}
	h := fnv.New32a()
	h.Write([]byte(sourceURL))
	return strings.ToUpper(strconv.FormatUint(uint64(h.Sum32()), 36))
}

func normalizeSegment(value string) string {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = nonSKUChars.ReplaceAllString(normalized, "")
	normalized = repeatedDashes.ReplaceAllString(normalized, "-")
	normalized = strings.Trim(normalized, "-")
	if len(normalized) > maxSegmentLen {
		normalized = strings.TrimRight(normalized[:maxSegmentLen], "-")
	}
	return normalized
}
