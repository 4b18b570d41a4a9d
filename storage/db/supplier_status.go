package db

// SupplierOrderStatus is the lifecycle of an order on the supplier side.
// Values match the CHECK constraint on orders.supplier_order_status.
type SupplierOrderStatus string

const (
	SupplierOrderStatusNotSent       SupplierOrderStatus = "not_sent"
	SupplierOrderStatusPending       SupplierOrderStatus = "pending"
	SupplierOrderStatusSent          SupplierOrderStatus = "sent"
	SupplierOrderStatusProcessing    SupplierOrderStatus = "processing"
	SupplierOrderStatusPartiallySent SupplierOrderStatus = "partially_sent"
	SupplierOrderStatusShipped       SupplierOrderStatus = "shipped"
	SupplierOrderStatusDelivered     SupplierOrderStatus = "delivered"
	SupplierOrderStatusCancelled     SupplierOrderStatus = "cancelled"
	SupplierOrderStatusFailed        SupplierOrderStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s SupplierOrderStatus) Valid() bool {
	switch s {
	case SupplierOrderStatusNotSent, SupplierOrderStatusPending, SupplierOrderStatusSent,
		SupplierOrderStatusProcessing, SupplierOrderStatusPartiallySent, SupplierOrderStatusShipped,
		SupplierOrderStatusDelivered, SupplierOrderStatusCancelled, SupplierOrderStatusFailed:
		return true
	}
	return false
}

// Open reports whether the supplier may still change the order.
func (s SupplierOrderStatus) Open() bool {
	switch s {
	case SupplierOrderStatusSent, SupplierOrderStatusProcessing, SupplierOrderStatusPartiallySent:
		return true
	}
	return false
}
