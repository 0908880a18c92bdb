package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/enum"
	"github.com/itsells/billing-api/internal/infrastructure/gateway"
)

type fakeOrderRepo struct {
	mu             sync.Mutex
	orders         []entity.Order
	markTableCalls []*uuid.UUID
	markCustCalls  []uuid.UUID
	markErr        error
}

func (r *fakeOrderRepo) ListUnpaid(ctx context.Context) ([]entity.Order, error) {
	return r.orders, nil
}

func (r *fakeOrderRepo) MarkDeliveredByTable(ctx context.Context, tableID *uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	r.markTableCalls = append(r.markTableCalls, tableID)
	return nil
}

func (r *fakeOrderRepo) MarkDeliveredByCustomer(ctx context.Context, customerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	r.markCustCalls = append(r.markCustCalls, customerID)
	return nil
}

type fakeTableRepo struct {
	mu       sync.Mutex
	tables   map[uuid.UUID]*entity.Table
	statuses map[uuid.UUID]enum.TableStatus
	statErr  error
}

func newFakeTableRepo(tables ...*entity.Table) *fakeTableRepo {
	r := &fakeTableRepo{
		tables:   map[uuid.UUID]*entity.Table{},
		statuses: map[uuid.UUID]enum.TableStatus{},
	}
	for _, t := range tables {
		r.tables[t.ID] = t
	}
	return r
}

func (r *fakeTableRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Table, error) {
	return r.tables[id], nil
}

func (r *fakeTableRepo) List(ctx context.Context) ([]entity.Table, error) {
	var out []entity.Table
	for _, t := range r.tables {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTableRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TableStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statErr != nil {
		return r.statErr
	}
	r.statuses[id] = status
	return nil
}

type fakeSettingsRepo struct {
	rate int64
	err  error
}

func (r *fakeSettingsRepo) GetDailyCouvertRate(ctx context.Context, date time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.rate, nil
}

func (r *fakeSettingsRepo) SetDailyCouvertRate(ctx context.Context, date time.Time, amount int64) error {
	r.rate = amount
	return nil
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	payments  map[uuid.UUID]*entity.Payment
	approves  int
	updateErr error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uuid.UUID]*entity.Payment{}}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	stored := *payment
	r.payments[payment.ID] = &stored
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) GetByReference(ctx context.Context, ref string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.ExternalReference == ref {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if p, ok := r.payments[id]; ok {
		p.Status = status
	}
	return nil
}

func (r *fakePaymentRepo) Approve(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		p.Status = enum.PaymentStatusApproved
		p.CompletedAt = &completedAt
		r.approves++
	}
	return nil
}

type fakeCustomerRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]entity.PaymentProfile
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{profiles: map[uuid.UUID]entity.PaymentProfile{}}
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return &entity.Customer{ID: id, Name: "Guest"}, nil
}

func (r *fakeCustomerRepo) UpdatePaymentProfile(ctx context.Context, id uuid.UUID, profile entity.PaymentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[id] = profile
	return nil
}

// fakeGateway scripts Initiate, Confirm and ChargeToken outcomes
type fakeGateway struct {
	mu          sync.Mutex
	artifact    gateway.Artifact
	initiateErr error
	confirmed   bool
	confirmErr  error
	tokenOut    *gateway.Outcome
	tokenErr    error
	confirms    int
}

func (g *fakeGateway) Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.Artifact, error) {
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}
	a := g.artifact
	return &a, nil
}

func (g *fakeGateway) Confirm(ctx context.Context, ref string) (*gateway.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.confirms++
	if g.confirmErr != nil {
		return nil, g.confirmErr
	}
	if g.confirmed {
		return &gateway.Outcome{Status: "approved", Paid: true, Approved: true}, nil
	}
	return &gateway.Outcome{Status: "pending"}, nil
}

func (g *fakeGateway) setConfirmed(v bool) {
	g.mu.Lock()
	g.confirmed = v
	g.mu.Unlock()
}

func (g *fakeGateway) ChargeToken(ctx context.Context, ref, token string, amount int64) (*gateway.Outcome, error) {
	if g.tokenErr != nil {
		return nil, g.tokenErr
	}
	if g.tokenOut != nil {
		return g.tokenOut, nil
	}
	return &gateway.Outcome{Status: "approved", Approved: true}, nil
}

// deliveredOrder builds a fully delivered order for one customer
func deliveredOrder(customerID uuid.UUID, tableID *uuid.UUID, prices ...int64) entity.Order {
	order := entity.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		TableID:    tableID,
		Status:     enum.OrderStatusConfirmed,
		Customer:   entity.Customer{ID: customerID, Name: "Guest"},
	}
	for _, price := range prices {
		order.Items = append(order.Items, entity.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Quantity:  1,
			UnitPrice: price,
			Status:    enum.ItemStatusDelivered,
		})
	}
	return order
}
