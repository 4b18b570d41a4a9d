package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEbayPage(t *testing.T) {
	res := parseEbayPage(fixture(t, "ebay.html"), "https://www.ebay.com/itm/1234567890")
	require.True(t, res.Success, res.Error)

	p := res.Data
	assert.Equal(t, "Vintage 35mm Film Camera", p.Title)
	assert.Equal(t, &Price{Amount: 149.99, Currency: "USD"}, p.Price)
	assert.Equal(t, []string{
		"https://i.ebayimg.com/images/g/abc/s-l1600.jpg",
		"https://i.ebayimg.com/images/g/def/s-l500.jpg",
	}, p.Images)
	assert.Equal(t, []Spec{
		{Key: "Condition", Value: "Used"},
		{Key: "Brand", Value: "Canon"},
	}, p.Specs)
	assert.Equal(t, "US $12.00 Standard Shipping", p.ShippingEstimate)
}

func TestParseEbayPage_Ended(t *testing.T) {
	res := parseEbayPage(fixture(t, "ebay_ended.html"), "https://www.ebay.com/itm/1234567890")
	assert.False(t, res.Success)
	assert.Equal(t, "listing has ended: item may have been removed", res.Error)
}

func TestParseEbayPage_MissingTitle(t *testing.T) {
	html := `<html><head><title>eBay</title></head><body><div class="x-price-primary"><span class="ux-textspans">US $5.00</span></div></body></html>`
	res := parseEbayPage(html, "https://www.ebay.com/itm/1")
	assert.False(t, res.Success)
	assert.Equal(t, "could not find product title", res.Error)
}
