package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/repository"
	"github.com/itsells/billing-api/pkg/apperror"
)

// ServiceChargeRate is the optional gratuity applied on top of the subtotal
const ServiceChargeRate = 0.10

// BillableUnit groups a billing target's orders that are ready to be charged.
// A unit is either one table (every customer seated at it) or one customer
// without a table, which is counter service.
type BillableUnit struct {
	TableID      *uuid.UUID     `json:"table_id,omitempty"`
	TableNumber  *int           `json:"table_number,omitempty"`
	CustomerID   *uuid.UUID     `json:"customer_id,omitempty"`
	CustomerName string         `json:"customer_name,omitempty"`
	Orders       []entity.Order `json:"orders"`
	GuestCount   int            `json:"guest_count"`
	Subtotal     int64          `json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (u BillableUnit) MarshalJSON() ([]byte, error) {
	type Alias BillableUnit
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
	}{
		Alias:    Alias(u),
		Subtotal: float64(u.Subtotal) / 100,
	})
}

// BillTotals is the full breakdown of one bill
type BillTotals struct {
	Subtotal      int64 `json:"-"`
	ServiceCharge int64 `json:"-"`
	Couvert       int64 `json:"-"`
	Total         int64 `json:"-"`
	GuestCount    int   `json:"guest_count"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t BillTotals) MarshalJSON() ([]byte, error) {
	type Alias BillTotals
	return json.Marshal(&struct {
		Alias
		Subtotal      float64 `json:"subtotal"`
		ServiceCharge float64 `json:"service_charge"`
		Couvert       float64 `json:"couvert"`
		Total         float64 `json:"total"`
	}{
		Alias:         Alias(t),
		Subtotal:      float64(t.Subtotal) / 100,
		ServiceCharge: float64(t.ServiceCharge) / 100,
		Couvert:       float64(t.Couvert) / 100,
		Total:         float64(t.Total) / 100,
	})
}

// BillingService aggregates billable orders and prices bills
type BillingService struct {
	orderRepo    repository.OrderRepository
	tableRepo    repository.TableRepository
	settingsRepo repository.SettingsRepository
}

// NewBillingService creates a new billing service
func NewBillingService(
	orderRepo repository.OrderRepository,
	tableRepo repository.TableRepository,
	settingsRepo repository.SettingsRepository,
) *BillingService {
	return &BillingService{
		orderRepo:    orderRepo,
		tableRepo:    tableRepo,
		settingsRepo: settingsRepo,
	}
}

// FindBillableUnits returns two views of the unpaid, fully delivered orders:
// one unit per table (every guest seated at it, so the whole table closes in
// one payment) and one unit per customer (so a single guest, seated or at the
// counter, can close their own part). An undelivered item keeps the affected
// unit off the list until the kitchen catches up: the guest's own unit when
// it is theirs, and always the table unit.
func (s *BillingService) FindBillableUnits(ctx context.Context) ([]BillableUnit, error) {
	orders, err := s.orderRepo.ListUnpaid(ctx)
	if err != nil {
		return nil, err
	}

	type group struct {
		tableID *uuid.UUID
		orders  []entity.Order
		guests  map[uuid.UUID]bool
		blocked bool
	}

	tableGroups := map[uuid.UUID]*group{}
	customerGroups := map[uuid.UUID]*group{}

	for _, order := range orders {
		undelivered := !order.AllItemsDelivered()

		if order.TableID != nil {
			key := *order.TableID
			tg := tableGroups[key]
			if tg == nil {
				id := key
				tg = &group{tableID: &id, guests: map[uuid.UUID]bool{}}
				tableGroups[key] = tg
			}
			tg.orders = append(tg.orders, order)
			tg.guests[order.CustomerID] = true
			if undelivered {
				tg.blocked = true
			}
		}

		cg := customerGroups[order.CustomerID]
		if cg == nil {
			cg = &group{guests: map[uuid.UUID]bool{}}
			customerGroups[order.CustomerID] = cg
		}
		if cg.tableID == nil && order.TableID != nil {
			id := *order.TableID
			cg.tableID = &id
		}
		cg.orders = append(cg.orders, order)
		if undelivered {
			cg.blocked = true
		}
	}

	tableNumbers := map[uuid.UUID]*int{}
	lookupNumber := func(tableID uuid.UUID) (*int, error) {
		if number, seen := tableNumbers[tableID]; seen {
			return number, nil
		}
		table, err := s.tableRepo.GetByID(ctx, tableID)
		if err != nil {
			return nil, err
		}
		var number *int
		if table != nil {
			number = &table.Number
		}
		tableNumbers[tableID] = number
		return number, nil
	}

	var units []BillableUnit
	for _, g := range tableGroups {
		if g.blocked {
			continue
		}
		unit := BillableUnit{
			TableID:    g.tableID,
			Orders:     g.orders,
			GuestCount: len(g.guests),
			Subtotal:   ordersSubtotal(g.orders),
		}
		if unit.TableNumber, err = lookupNumber(*g.tableID); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	for customerID, g := range customerGroups {
		if g.blocked {
			continue
		}
		id := customerID
		unit := BillableUnit{
			TableID:    g.tableID,
			CustomerID: &id,
			Orders:     g.orders,
			GuestCount: 1,
			Subtotal:   ordersSubtotal(g.orders),
		}
		if g.tableID != nil {
			if unit.TableNumber, err = lookupNumber(*g.tableID); err != nil {
				return nil, err
			}
		}
		if len(g.orders) > 0 {
			unit.CustomerName = g.orders[0].Customer.Name
		}
		units = append(units, unit)
	}

	sort.Slice(units, func(i, j int) bool {
		ni, nj := unitSortKey(units[i]), unitSortKey(units[j])
		return ni < nj
	})
	return units, nil
}

// unitSortKey orders table units by number first, then customer units by name
func unitSortKey(u BillableUnit) string {
	if u.CustomerID == nil && u.TableNumber != nil {
		return fmt.Sprintf("0%06d", *u.TableNumber)
	}
	return "1" + u.CustomerName
}

func ordersSubtotal(orders []entity.Order) int64 {
	var subtotal int64
	for _, order := range orders {
		for _, item := range order.Items {
			subtotal += item.UnitPrice * int64(item.Quantity)
		}
	}
	return subtotal
}

// TotalsInput identifies the billing target and the pricing options
type TotalsInput struct {
	TableID              *uuid.UUID
	CustomerID           *uuid.UUID
	IncludeServiceCharge bool
	GuestCount           int
}

// CalculateTotals prices the bill for one target. The subtotal is built from
// the per-item price snapshots, never the live product catalog. The couvert
// is the day's configured rate times the guest count; a day without a rate
// charges no couvert.
func (s *BillingService) CalculateTotals(ctx context.Context, input *TotalsInput) (*BillTotals, error) {
	unit, err := s.findUnit(ctx, input.TableID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	guestCount := input.GuestCount
	if guestCount <= 0 {
		guestCount = unit.GuestCount
	}

	totals := &BillTotals{
		Subtotal:   unit.Subtotal,
		GuestCount: guestCount,
	}

	if input.IncludeServiceCharge {
		totals.ServiceCharge = int64(math.Round(float64(totals.Subtotal) * ServiceChargeRate))
	}

	// A broken couvert lookup never blocks the bill, the day just has no cover charge
	rate, err := s.settingsRepo.GetDailyCouvertRate(ctx, time.Now())
	if err != nil {
		log.Printf("couvert rate lookup failed, charging none: %v", err)
		rate = 0
	}
	totals.Couvert = rate * int64(guestCount)

	totals.Total = totals.Subtotal + totals.ServiceCharge + totals.Couvert
	return totals, nil
}

// findUnit resolves the billable unit for a single target. The target is
// exactly one of a table or a customer; a table target matches the whole-table
// view, a customer target matches that guest's own view.
func (s *BillingService) findUnit(ctx context.Context, tableID, customerID *uuid.UUID) (*BillableUnit, error) {
	if tableID == nil && customerID == nil {
		return nil, apperror.NewBadRequestError("either table_id or customer_id is required")
	}
	if tableID != nil && customerID != nil {
		return nil, apperror.NewBadRequestError("table_id and customer_id are mutually exclusive")
	}

	units, err := s.FindBillableUnits(ctx)
	if err != nil {
		return nil, err
	}
	for i := range units {
		u := &units[i]
		if tableID != nil && u.CustomerID == nil && u.TableID != nil && *u.TableID == *tableID {
			return u, nil
		}
		if customerID != nil && u.CustomerID != nil && *u.CustomerID == *customerID {
			return u, nil
		}
	}
	return nil, apperror.NewNotFoundError("billable orders for target")
}
