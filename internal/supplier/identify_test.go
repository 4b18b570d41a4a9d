package supplier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Source
	}{
		{name: "temu www", url: "https://www.temu.com/item123.html", want: Temu},
		{name: "temu without scheme", url: "temu.com/goods.html?goods_id=601", want: Temu},
		{name: "temu mobile", url: "https://m.temu.com/wireless-earbuds-g-601099512345.html", want: Temu},
		{name: "alibaba", url: "https://www.alibaba.com/product-detail/Bluetooth-Speaker_1600.html", want: Alibaba},
		{name: "alibaba regional", url: "https://french.alibaba.com/product-detail/x_1.html", want: Alibaba},
		{name: "ebay com", url: "https://www.ebay.com/itm/1234567890", want: Ebay},
		{name: "ebay uk", url: "https://www.ebay.co.uk/itm/1234567890", want: Ebay},
		{name: "ebay au", url: "http://ebay.com.au/itm/1", want: Ebay},
		{name: "ebay mobile de", url: "https://m.ebay.de/itm/1", want: Ebay},
		{name: "uppercase host", url: "HTTPS://WWW.TEMU.COM/a.html", want: Temu},
		{name: "look-alike prefix", url: "https://notemu.com/item.html", want: None},
		{name: "look-alike suffix", url: "https://temu.com.evil.io/item.html", want: None},
		{name: "ebay unknown tld", url: "https://www.ebay.xyz/itm/1", want: None},
		{name: "unrelated", url: "https://example.com/product", want: None},
		{name: "empty", url: "", want: None},
		{name: "plain text", url: "wireless earbuds", want: None},
		{name: "ftp scheme", url: "ftp://temu.com/a.html", want: None},
		{name: "garbage", url: "http://%zz", want: None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identify(tt.url))
		})
	}
}

func TestIdentify_PatternSetsAreDisjoint(t *testing.T) {
	hosts := []string{"temu.com", "alibaba.com"}
	for _, tld := range ebayTLDs {
		hosts = append(hosts, "ebay."+tld)
	}

	for _, host := range hosts {
		matches := 0
		if matchDomain(host, "temu.com") {
			matches++
		}
		if matchDomain(host, "alibaba.com") {
			matches++
		}
		if isEbayHost(host) {
			matches++
		}
		assert.Equal(t, 1, matches, host)
	}
}

func TestParseSource(t *testing.T) {
	assert.Equal(t, Temu, ParseSource("Temu"))
	assert.Equal(t, Ebay, ParseSource(" eBay "))
	assert.Equal(t, Alibaba, ParseSource("alibaba"))
	assert.Equal(t, None, ParseSource("aliexpress"))
	assert.Equal(t, None, ParseSource(""))
}

func TestSource_DisplayName(t *testing.T) {
	assert.Equal(t, "eBay", Ebay.DisplayName())
	assert.Equal(t, "Temu", Temu.DisplayName())
	assert.Equal(t, "", None.DisplayName())
}
