// Package fulfillment pushes local orders to their supplier and records
// the supplier-side state on the order.
package fulfillment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bookbright/electryohype/internal/dropship"
	"github.com/bookbright/electryohype/internal/metrics"
	"github.com/bookbright/electryohype/storage/db"
)

// DefaultSupplier labels orders whose products carry no supplier name.
const DefaultSupplier = "temu"

var ErrOrderNotFound = errors.New("order not found")

type Sender struct {
	queries         *db.Queries
	client          dropship.Client
	defaultSupplier string
	now             func() time.Time
}

func NewSender(queries *db.Queries, client dropship.Client, defaultSupplier string) *Sender {
	if defaultSupplier == "" {
		defaultSupplier = DefaultSupplier
	}
	return &Sender{
		queries:         queries,
		client:          client,
		defaultSupplier: defaultSupplier,
		now:             time.Now,
	}
}

// SendOrderToSupplier dispatches the order and updates its supplier
// columns. It returns nothing about the new state; callers re-read the
// order.
func (s *Sender) SendOrderToSupplier(ctx context.Context, orderID string) error {
	order, err := s.queries.GetOrder(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}

	items, err := s.queries.ListSupplierOrderItems(ctx, orderID)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("order has no items: %w", ErrOrderNotFound)
	}

	provider := s.supplierFor(items)

	if err := s.queries.MarkSupplierOrderPending(ctx, db.MarkSupplierOrderPendingParams{
		SupplierProvider: sql.NullString{String: provider, Valid: true},
		ID:               orderID,
	}); err != nil {
		return fmt.Errorf("mark order pending: %w", err)
	}

	resp, err := s.client.PlaceOrder(ctx, buildRequest(order, provider, items))
	if err != nil {
		metrics.RecordSupplierOrder(string(db.SupplierOrderStatusFailed))
		// Record the failure even if the request context is gone.
		if markErr := s.queries.MarkSupplierOrderFailed(context.WithoutCancel(ctx), db.MarkSupplierOrderFailedParams{
			SupplierError: sql.NullString{String: err.Error(), Valid: true},
			ID:            orderID,
		}); markErr != nil {
			slog.Error("failed to record supplier failure", "order_id", orderID, "error", markErr)
		}
		return fmt.Errorf("send order to %s: %w", provider, err)
	}

	status := dropship.ParseStatus(resp.Status)
	if err := s.queries.UpdateSupplierOrder(ctx, db.UpdateSupplierOrderParams{
		SupplierOrderStatus: status,
		SupplierOrderID:     sql.NullString{String: resp.ID, Valid: resp.ID != ""},
		SupplierProvider:    sql.NullString{String: provider, Valid: true},
		SupplierSentAt:      sql.NullTime{Time: s.now().UTC(), Valid: true},
		ID:                  orderID,
	}); err != nil {
		return fmt.Errorf("record supplier order: %w", err)
	}

	metrics.RecordSupplierOrder(string(status))
	slog.Info("order sent to supplier", "order_id", orderID, "supplier", provider,
		"supplier_order_id", resp.ID, "status", status)
	return nil
}

func (s *Sender) supplierFor(items []db.ListSupplierOrderItemsRow) string {
	for _, it := range items {
		if name := strings.TrimSpace(it.SupplierName.String); it.SupplierName.Valid && name != "" {
			return strings.ToLower(name)
		}
	}
	return s.defaultSupplier
}

func buildRequest(o db.Order, provider string, items []db.ListSupplierOrderItemsRow) dropship.OrderRequest {
	req := dropship.OrderRequest{
		OrderID:  o.ID,
		Supplier: provider,
		ShipTo: dropship.Address{
			Name:       o.CustomerName,
			Email:      o.CustomerEmail,
			Line1:      o.ShippingLine1,
			Line2:      o.ShippingLine2.String,
			City:       o.ShippingCity,
			State:      o.ShippingState.String,
			PostalCode: o.ShippingPostalCode,
			Country:    o.ShippingCountry,
		},
		Items: make([]dropship.OrderLine, 0, len(items)),
	}
	for _, it := range items {
		name := it.ProductName
		if it.VariantName.Valid && it.VariantName.String != "" {
			name += " - " + it.VariantName.String
		}
		req.Items = append(req.Items, dropship.OrderLine{
			SKU:       it.VariantSku.String,
			Name:      name,
			SourceURL: it.SourceUrl.String,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return req
}

// SupplierOrderRef is the display reference for a supplier order, e.g.
// "TEMU-12345". It is empty until the supplier has assigned an id.
func SupplierOrderRef(provider, supplierOrderID string) string {
	if supplierOrderID == "" {
		return ""
	}
	if provider == "" {
		provider = DefaultSupplier
	}
	return strings.ToUpper(provider) + "-" + supplierOrderID
}
