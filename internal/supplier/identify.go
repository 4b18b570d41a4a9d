package supplier

import (
	"net/url"
	"strings"
)

var ebayTLDs = []string{
	"com", "co.uk", "de", "fr", "it", "es", "ca", "com.au", "at", "ch",
	"ie", "nl", "be", "pl", "com.hk", "com.sg", "com.my", "ph", "in",
}

// Identify returns the supplier whose domain serves rawURL, or None.
// It matches on the hostname only, so look-alike hosts such as
// notemu.com or temu.com.evil.io are rejected.
func Identify(rawURL string) Source {
	host := hostname(rawURL)
	if host == "" {
		return None
	}

	switch {
	case matchDomain(host, "temu.com"):
		return Temu
	case matchDomain(host, "alibaba.com"):
		return Alibaba
	case isEbayHost(host):
		return Ebay
	}
	return None
}

func isEbayHost(host string) bool {
	for _, tld := range ebayTLDs {
		if matchDomain(host, "ebay."+tld) {
			return true
		}
	}
	return false
}

// matchDomain reports whether host is domain or one of its subdomains.
func matchDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// hostname extracts the lowercase host from a URL that may lack a scheme.
func hostname(rawURL string) string {
	u, err := parseLoose(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

func parseLoose(rawURL string) (*url.URL, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return nil, ErrInvalidURL
	}
	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	if u.Hostname() == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}
