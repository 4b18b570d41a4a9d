package supplier

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	temuGoodsIDPattern   = regexp.MustCompile(`^\d+$`)
	temuPathPattern      = regexp.MustCompile(`(?i)^/[^?#]*\.html$`)
	alibabaDetailPattern = regexp.MustCompile(`(?i)^/product-detail/[^/]+\.html$`)
	alibabaNumericPath   = regexp.MustCompile(`(?i)^/product/\d+\.html$`)
	ebayItemPattern      = regexp.MustCompile(`^/itm/(?:[^/]+/)?(\d+)$`)
)

// Normalize returns the canonical identity key for a supplier URL.
// Query parameters and fragments are dropped because suppliers use them
// only for tracking and sessions; the scheme is always https.
func Normalize(rawURL string) (string, error) {
	u, err := parseLoose(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize %q: %w", rawURL, err)
	}

	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	path := canonicalPath(u.EscapedPath())
	query := ""

	switch Identify(u.String()) {
	case Temu:
		host = "www.temu.com"
		if !temuPathPattern.MatchString(path) {
			// goods_id is the only identity temu carries in the query.
			if id := u.Query().Get("goods_id"); id != "" {
				query = "?" + url.Values{"goods_id": {id}}.Encode()
			}
		}
	case Alibaba:
	case Ebay:
		host = "www." + ebayDomain(host)
		if m := ebayItemPattern.FindStringSubmatch(path); m != nil {
			path = "/itm/" + m[1]
		}
	default:
		return "", fmt.Errorf("normalize %q: %w", rawURL, ErrUnsupportedURL)
	}

	return "https://" + host + path + query, nil
}

func canonicalPath(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	p = strings.TrimRight(p, "/")
	return p
}

func ebayDomain(host string) string {
	for _, tld := range ebayTLDs {
		if matchDomain(host, "ebay."+tld) {
			return "ebay." + tld
		}
	}
	return host
}

// IsValid reports whether rawURL is a well-formed product URL for one of
// the supported suppliers.
func IsValid(rawURL string) bool {
	switch Identify(rawURL) {
	case Temu:
		return ValidTemuURL(rawURL)
	case Alibaba:
		return ValidAlibabaURL(rawURL)
	case Ebay:
		return ValidEbayURL(rawURL)
	}
	return false
}

// ValidTemuURL accepts temu product pages ending in .html or carrying a
// numeric goods_id parameter.
func ValidTemuURL(rawURL string) bool {
	u, ok := parseFor(rawURL, Temu)
	if !ok {
		return false
	}
	if temuPathPattern.MatchString(canonicalPath(u.Path)) {
		return true
	}
	return temuGoodsIDPattern.MatchString(u.Query().Get("goods_id"))
}

// ValidAlibabaURL accepts /product-detail/<slug>.html and /product/<id>.html.
func ValidAlibabaURL(rawURL string) bool {
	u, ok := parseFor(rawURL, Alibaba)
	if !ok {
		return false
	}
	p := canonicalPath(u.Path)
	return alibabaDetailPattern.MatchString(p) || alibabaNumericPath.MatchString(p)
}

// ValidEbayURL accepts /itm/<id> and /itm/<slug>/<id>.
func ValidEbayURL(rawURL string) bool {
	u, ok := parseFor(rawURL, Ebay)
	if !ok {
		return false
	}
	return ebayItemPattern.MatchString(canonicalPath(u.Path))
}

func parseFor(rawURL string, want Source) (*url.URL, bool) {
	u, err := parseLoose(rawURL)
	if err != nil {
		return nil, false
	}
	if Identify(u.String()) != want {
		return nil, false
	}
	return u, true
}
