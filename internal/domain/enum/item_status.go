package enum

// ItemStatus represents the kitchen status of a single order item
type ItemStatus string

const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusProducing  ItemStatus = "producing"
	ItemStatusReady      ItemStatus = "ready"
	ItemStatusDelivering ItemStatus = "delivering"
	ItemStatusDelivered  ItemStatus = "delivered"
)

// Valid reports whether the status is one of the known item statuses
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusProducing, ItemStatusReady,
		ItemStatusDelivering, ItemStatusDelivered:
		return true
	}
	return false
}
