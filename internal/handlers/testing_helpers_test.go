package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/bookbright/electryohype/internal/auth"
	"github.com/bookbright/electryohype/internal/importer"
	"github.com/bookbright/electryohype/internal/supplier"
	"github.com/bookbright/electryohype/storage"
	"github.com/bookbright/electryohype/storage/db"
)

// NewTestContext creates a new Echo context for testing
func NewTestContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	return c, rec
}

// SetTestUser sets a user in the Echo context for authenticated tests
func SetTestUser(c echo.Context, user *auth.User) {
	c.Set(auth.UserKey, user)
	c.Set(auth.IsAuthenticatedKey, true)
}

// NewTestStorage creates a migrated in-memory store closed at test end.
func NewTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, cleanup, err := storage.NewTestStorage()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return s
}

// CreateTestProduct inserts an active product with one variant.
func CreateTestProduct(t *testing.T, queries *db.Queries, name, slug, supplierName string, featured bool) db.Product {
	t.Helper()
	ctx := context.Background()

	p, err := queries.CreateProduct(ctx, db.CreateProductParams{
		ID:           uuid.New().String(),
		Name:         name,
		Slug:         slug,
		Description:  name + " description",
		Price:        157,
		Category:     "Audio",
		SupplierName: sql.NullString{String: supplierName, Valid: supplierName != ""},
		SourceUrl:    sql.NullString{String: "https://www.temu.com/" + slug + ".html", Valid: true},
		Tags:         sql.NullString{String: `["Color"]`, Valid: true},
		Specs:        sql.NullString{String: `{"Color":"Black"}`, Valid: true},
		IsActive:     sql.NullBool{Bool: true, Valid: true},
		IsFeatured:   sql.NullBool{Bool: featured, Valid: true},
	})
	require.NoError(t, err)

	_, err = queries.CreateProductVariant(ctx, db.CreateProductVariantParams{
		ID:            uuid.New().String(),
		ProductID:     p.ID,
		Name:          "Standard",
		Price:         157,
		SupplierPrice: 104.9,
		Attributes:    "{}",
		Stock:         10,
	})
	require.NoError(t, err)
	return p
}

// CreateTestOrder inserts an order, with one item per given product.
func CreateTestOrder(t *testing.T, queries *db.Queries, products ...db.Product) db.Order {
	t.Helper()
	ctx := context.Background()

	o, err := queries.CreateOrder(ctx, db.CreateOrderParams{
		ID:                 ulid.Make().String(),
		CustomerName:       "Test Customer",
		CustomerEmail:      "customer@example.com",
		ShippingLine1:      "1 Test Street",
		ShippingCity:       "Casablanca",
		ShippingPostalCode: "20000",
		ShippingCountry:    "MA",
		Total:              157,
	})
	require.NoError(t, err)

	for _, p := range products {
		_, err := queries.CreateOrderItem(ctx, db.CreateOrderItemParams{
			ID:        ulid.Make().String(),
			OrderID:   o.ID,
			ProductID: p.ID,
			Quantity:  1,
			UnitPrice: p.Price,
		})
		require.NoError(t, err)
	}
	return o
}

// stubScraper returns a fixed result for one supplier.
type stubScraper struct {
	source supplier.Source
	result importer.ScrapeResult
}

func (s *stubScraper) Source() supplier.Source { return s.source }

func (s *stubScraper) ScrapeProduct(context.Context, string) importer.ScrapeResult {
	return s.result
}

// AssertJSONResponse checks if the response is valid JSON and returns the parsed body
func AssertJSONResponse(rec *httptest.ResponseRecorder) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// newClosedStorage returns a store whose database is already closed so
// every query fails.
func newClosedStorage() (*storage.Storage, func(), error) {
	s, cleanup, err := storage.NewTestStorage()
	if err != nil {
		return nil, nil, err
	}
	if err := s.Close(); err != nil {
		return nil, nil, err
	}
	return s, cleanup, nil
}
