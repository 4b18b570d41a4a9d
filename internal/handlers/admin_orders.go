package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookbright/electryohype/internal/fulfillment"
	"github.com/bookbright/electryohype/storage"
)

// AdminOrdersHandler handles supplier dispatch for orders.
type AdminOrdersHandler struct {
	storage *storage.Storage
	sender  *fulfillment.Sender
}

func NewAdminOrdersHandler(s *storage.Storage, sender *fulfillment.Sender) *AdminOrdersHandler {
	return &AdminOrdersHandler{storage: s, sender: sender}
}

type supplierDispatch struct {
	SupplierStatus   string     `json:"supplierStatus"`
	SupplierOrderRef string     `json:"supplierOrderRef,omitempty"`
	SupplierSentAt   *time.Time `json:"supplierSentAt"`
	SupplierOrderID  *string    `json:"supplierOrderId"`
	SupplierProvider string     `json:"supplierProvider"`
}

// HandleSendToSupplier dispatches the order and reports the supplier
// state read back from the database.
func (h *AdminOrdersHandler) HandleSendToSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	orderID := c.Param("id")

	if err := h.sender.SendOrderToSupplier(ctx, orderID); err != nil {
		if errors.Is(err, fulfillment.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"ok": false, "error": err.Error()})
		}
		slog.Error("failed to send order to supplier", "order_id", orderID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
	}

	order, err := h.storage.Queries.GetOrder(ctx, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]any{"ok": false, "error": fulfillment.ErrOrderNotFound.Error()})
	}
	if err != nil {
		slog.Error("failed to reload order", "order_id", orderID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]any{"ok": false, "error": "failed to load order"})
	}

	provider := order.SupplierProvider.String
	if provider == "" {
		provider = fulfillment.DefaultSupplier
	}

	data := supplierDispatch{
		SupplierStatus:   string(order.SupplierOrderStatus),
		SupplierOrderRef: fulfillment.SupplierOrderRef(provider, order.SupplierOrderID.String),
		SupplierSentAt:   timePtr(order.SupplierSentAt),
		SupplierProvider: provider,
	}
	if order.SupplierOrderID.Valid {
		id := order.SupplierOrderID.String
		data.SupplierOrderID = &id
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true, "data": data})
}
