package enum

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known order statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Closeable reports whether an order in this status is moved to delivered
// when its bill is closed
func (s OrderStatus) Closeable() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady:
		return true
	}
	return false
}

// CloseableOrderStatuses lists the statuses the bill closer transitions to delivered
func CloseableOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady}
}
