// Package supplier classifies, normalizes and validates supplier product URLs.
package supplier

import (
	"errors"
	"strings"
)

// Source identifies the marketplace a product is imported from.
type Source string

const (
	None    Source = ""
	Temu    Source = "temu"
	Alibaba Source = "alibaba"
	Ebay    Source = "ebay"
)

var (
	ErrInvalidURL     = errors.New("invalid url")
	ErrUnsupportedURL = errors.New("url does not belong to a supported supplier")
)

// Sources returns every supported supplier in a stable order.
func Sources() []Source {
	return []Source{Temu, Alibaba, Ebay}
}

// ParseSource maps a provider name such as "Temu" or "ebay" to its Source.
func ParseSource(name string) Source {
	s := Source(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Sources() {
		if s == known {
			return s
		}
	}
	return None
}

// DisplayName is the human label used in messages and placeholders.
func (s Source) DisplayName() string {
	switch s {
	case Temu:
		return "Temu"
	case Alibaba:
		return "Alibaba"
	case Ebay:
		return "eBay"
	}
	return ""
}

func (s Source) String() string {
	return string(s)
}
