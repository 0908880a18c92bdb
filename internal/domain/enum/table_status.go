package enum

// TableStatus represents the occupancy status of a restaurant table
type TableStatus string

const (
	TableStatusAvailable  TableStatus = "available"
	TableStatusOccupied   TableStatus = "occupied"
	TableStatusReserved   TableStatus = "reserved"
	TableStatusCleaning   TableStatus = "cleaning"
	TableStatusOutOfOrder TableStatus = "out_of_order"
)

// Valid reports whether the status is one of the known table statuses
func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved,
		TableStatusCleaning, TableStatusOutOfOrder:
		return true
	}
	return false
}
