package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHero(t *testing.T) {
	s := NewTestStorage(t)
	h := NewProductsHandler(s)

	c, rec := NewTestContext(http.MethodGet, "/api/products/hero", nil)
	require.NoError(t, h.HandleHero(c))
	body, err := AssertJSONResponse(rec)
	require.NoError(t, err)
	assert.Nil(t, body["product"], "empty catalog has no hero")

	CreateTestProduct(t, s.Queries, "Desk Lamp", "desk-lamp", "temu", false)
	c, rec = NewTestContext(http.MethodGet, "/api/products/hero", nil)
	require.NoError(t, h.HandleHero(c))
	body, err = AssertJSONResponse(rec)
	require.NoError(t, err)
	assert.Equal(t, "desk-lamp", body["product"].(map[string]any)["slug"], "newest product without a featured one")

	CreateTestProduct(t, s.Queries, "Wireless Earbuds", "wireless-earbuds", "temu", true)
	CreateTestProduct(t, s.Queries, "Phone Case", "phone-case", "temu", false)
	c, rec = NewTestContext(http.MethodGet, "/api/products/hero", nil)
	require.NoError(t, h.HandleHero(c))
	body, err = AssertJSONResponse(rec)
	require.NoError(t, err)
	hero := body["product"].(map[string]any)
	assert.Equal(t, "wireless-earbuds", hero["slug"])
	assert.Equal(t, true, hero["featured"])
}

func TestHandleHero_DatabaseFailureFallsBack(t *testing.T) {
	s, cleanup, err := newClosedStorage()
	require.NoError(t, err)
	defer cleanup()
	h := NewProductsHandler(s)

	c, rec := NewTestContext(http.MethodGet, "/api/products/hero", nil)
	require.NoError(t, h.HandleHero(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := AssertJSONResponse(rec)
	require.NoError(t, err)
	assert.Nil(t, body["product"])

	c, rec = NewTestContext(http.MethodGet, "/api/products", nil)
	require.NoError(t, h.HandleListProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"products":[]}`, rec.Body.String())
}

func TestHandleListProducts(t *testing.T) {
	s := NewTestStorage(t)
	h := NewProductsHandler(s)
	CreateTestProduct(t, s.Queries, "Desk Lamp", "desk-lamp", "temu", false)
	CreateTestProduct(t, s.Queries, "Phone Case", "phone-case", "ebay", false)

	c, rec := NewTestContext(http.MethodGet, "/api/products?limit=1", nil)
	require.NoError(t, h.HandleListProducts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := AssertJSONResponse(rec)
	require.NoError(t, err)
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, []any{"Color"}, products[0].(map[string]any)["tags"])
}

func TestHandleGetProduct(t *testing.T) {
	s := NewTestStorage(t)
	h := NewProductsHandler(s)
	CreateTestProduct(t, s.Queries, "Wireless Earbuds", "wireless-earbuds", "temu", false)

	c, rec := NewTestContext(http.MethodGet, "/api/products/:slug", nil)
	c.SetParamNames("slug")
	c.SetParamValues("wireless-earbuds")
	require.NoError(t, h.HandleGetProduct(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := AssertJSONResponse(rec)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Earbuds", body["name"])
	assert.Equal(t, map[string]any{"Color": "Black"}, body["specs"])
	variants := body["variants"].([]any)
	require.Len(t, variants, 1)
	assert.Equal(t, "Standard", variants[0].(map[string]any)["name"])

	c, rec = NewTestContext(http.MethodGet, "/api/products/:slug", nil)
	c.SetParamNames("slug")
	c.SetParamValues("missing")
	require.NoError(t, h.HandleGetProduct(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
