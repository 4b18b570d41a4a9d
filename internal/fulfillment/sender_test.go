package fulfillment

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbright/electryohype/internal/dropship"
	"github.com/bookbright/electryohype/storage"
	"github.com/bookbright/electryohype/storage/db"
)

type fakeClient struct {
	resp  *dropship.OrderResponse
	err   error
	calls []dropship.OrderRequest
}

func (f *fakeClient) PlaceOrder(_ context.Context, req dropship.OrderRequest) (*dropship.OrderResponse, error) {
	f.calls = append(f.calls, req)
	return f.resp, f.err
}

func (f *fakeClient) GetOrder(_ context.Context, id string) (*dropship.OrderResponse, error) {
	return &dropship.OrderResponse{ID: id, Status: "sent"}, nil
}

func setup(t *testing.T) *db.Queries {
	t.Helper()
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return queries
}

func createOrder(t *testing.T, q *db.Queries, id string) {
	t.Helper()
	_, err := q.CreateOrder(context.Background(), db.CreateOrderParams{
		ID:                 id,
		CustomerName:       "Amina Benali",
		CustomerEmail:      "amina@example.com",
		ShippingLine1:      "12 Rue Atlas",
		ShippingCity:       "Casablanca",
		ShippingPostalCode: "20000",
		ShippingCountry:    "MA",
		Total:              314,
	})
	require.NoError(t, err)
}

func addItem(t *testing.T, q *db.Queries, orderID, supplierName string) {
	t.Helper()
	ctx := context.Background()
	productID := orderID + "-p"
	_, err := q.CreateProduct(ctx, db.CreateProductParams{
		ID:           productID,
		Name:         "Wireless Earbuds",
		Slug:         "wireless-earbuds-" + orderID,
		Price:        157,
		Category:     "Audio",
		SupplierName: sql.NullString{String: supplierName, Valid: supplierName != ""},
		SourceUrl:    sql.NullString{String: "https://www.temu.com/" + orderID + ".html", Valid: true},
	})
	require.NoError(t, err)

	_, err = q.CreateProductVariant(ctx, db.CreateProductVariantParams{
		ID:            productID + "-v",
		ProductID:     productID,
		Name:          "Black",
		Sku:           sql.NullString{String: "TEMU-123-BLACK", Valid: true},
		Price:         157,
		SupplierPrice: 104.9,
		Attributes:    `{"Color":"Black"}`,
		Stock:         10,
	})
	require.NoError(t, err)

	_, err = q.CreateOrderItem(ctx, db.CreateOrderItemParams{
		ID:        orderID + "-i",
		OrderID:   orderID,
		ProductID: productID,
		VariantID: sql.NullString{String: productID + "-v", Valid: true},
		Quantity:  2,
		UnitPrice: 157,
	})
	require.NoError(t, err)
}

func TestSendOrderToSupplier_NotFound(t *testing.T) {
	q := setup(t)
	client := &fakeClient{}

	err := NewSender(q, client, "").SendOrderToSupplier(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Empty(t, client.calls)
}

func TestSendOrderToSupplier_NoItems(t *testing.T) {
	q := setup(t)
	createOrder(t, q, "ord_empty")
	client := &fakeClient{}

	err := NewSender(q, client, "").SendOrderToSupplier(context.Background(), "ord_empty")

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorContains(t, err, "no items")
	assert.Empty(t, client.calls)

	order, err := q.GetOrder(context.Background(), "ord_empty")
	require.NoError(t, err)
	assert.Equal(t, db.SupplierOrderStatusNotSent, order.SupplierOrderStatus)
	assert.False(t, order.SupplierOrderID.Valid)
	assert.False(t, order.SupplierProvider.Valid)
}

func TestSendOrderToSupplier_Success(t *testing.T) {
	q := setup(t)
	createOrder(t, q, "ord_1")
	addItem(t, q, "ord_1", "Alibaba")
	client := &fakeClient{resp: &dropship.OrderResponse{ID: "778899", Status: "processing"}}

	sentAt := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	s := NewSender(q, client, "")
	s.now = func() time.Time { return sentAt }

	require.NoError(t, s.SendOrderToSupplier(context.Background(), "ord_1"))

	require.Len(t, client.calls, 1)
	req := client.calls[0]
	assert.Equal(t, "ord_1", req.OrderID)
	assert.Equal(t, "alibaba", req.Supplier)
	assert.Equal(t, "Casablanca", req.ShipTo.City)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "Wireless Earbuds - Black", req.Items[0].Name)
	assert.Equal(t, "TEMU-123-BLACK", req.Items[0].SKU)
	assert.Equal(t, int64(2), req.Items[0].Quantity)

	order, err := q.GetOrder(context.Background(), "ord_1")
	require.NoError(t, err)
	assert.Equal(t, db.SupplierOrderStatusProcessing, order.SupplierOrderStatus)
	assert.Equal(t, "778899", order.SupplierOrderID.String)
	assert.Equal(t, "alibaba", order.SupplierProvider.String)
	require.True(t, order.SupplierSentAt.Valid)
	assert.True(t, sentAt.Equal(order.SupplierSentAt.Time))
	assert.False(t, order.SupplierError.Valid)
	assert.Equal(t, "ALIBABA-778899", SupplierOrderRef(order.SupplierProvider.String, order.SupplierOrderID.String))
}

func TestSendOrderToSupplier_DefaultSupplier(t *testing.T) {
	q := setup(t)
	createOrder(t, q, "ord_2")
	addItem(t, q, "ord_2", "")
	client := &fakeClient{resp: &dropship.OrderResponse{ID: "1", Status: ""}}

	require.NoError(t, NewSender(q, client, "").SendOrderToSupplier(context.Background(), "ord_2"))

	require.Len(t, client.calls, 1)
	assert.Equal(t, DefaultSupplier, client.calls[0].Supplier)

	order, err := q.GetOrder(context.Background(), "ord_2")
	require.NoError(t, err)
	assert.Equal(t, db.SupplierOrderStatusSent, order.SupplierOrderStatus)
	assert.Equal(t, "temu", order.SupplierProvider.String)
}

func TestSendOrderToSupplier_SupplierFailure(t *testing.T) {
	q := setup(t)
	createOrder(t, q, "ord_3")
	addItem(t, q, "ord_3", "temu")
	client := &fakeClient{err: &dropship.APIError{StatusCode: 422, Message: "item out of stock"}}

	err := NewSender(q, client, "").SendOrderToSupplier(context.Background(), "ord_3")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "item out of stock")
	var apiErr *dropship.APIError
	assert.True(t, errors.As(err, &apiErr))

	order, err := q.GetOrder(context.Background(), "ord_3")
	require.NoError(t, err)
	assert.Equal(t, db.SupplierOrderStatusFailed, order.SupplierOrderStatus)
	assert.Contains(t, order.SupplierError.String, "item out of stock")
	assert.False(t, order.SupplierOrderID.Valid)
	assert.Equal(t, "temu", order.SupplierProvider.String)
}

func TestSupplierOrderRef(t *testing.T) {
	assert.Equal(t, "TEMU-123", SupplierOrderRef("temu", "123"))
	assert.Equal(t, "EBAY-9", SupplierOrderRef("ebay", "9"))
	assert.Equal(t, "TEMU-5", SupplierOrderRef("", "5"))
	assert.Equal(t, "", SupplierOrderRef("temu", ""))
}
