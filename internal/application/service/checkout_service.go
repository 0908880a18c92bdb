package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/config"
	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/enum"
	"github.com/itsells/billing-api/internal/domain/repository"
	"github.com/itsells/billing-api/internal/infrastructure/gateway"
	"github.com/itsells/billing-api/internal/infrastructure/lock"
	"github.com/itsells/billing-api/pkg/apperror"
	"github.com/itsells/billing-api/pkg/reference"
	"github.com/itsells/billing-api/pkg/retry"
)

// attempt tracks the in-flight state of one checkout: the target lock release
// and, for watched methods, the cancel of the confirmation watcher.
type attempt struct {
	release func()
	cancel  context.CancelFunc
}

// CheckoutService orchestrates a payment attempt from initiation through bill
// close. Each attempt gets a fresh external reference; references from failed
// attempts are never reused.
type CheckoutService struct {
	orderRepo    repository.OrderRepository
	tableRepo    repository.TableRepository
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	billing      *BillingService
	gateways     *gateway.Registry
	locks        lock.CheckoutLock
	cfg          config.PaymentConfig

	mu       sync.Mutex
	attempts map[string]*attempt
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	tableRepo repository.TableRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	billing *BillingService,
	gateways *gateway.Registry,
	locks lock.CheckoutLock,
	cfg config.PaymentConfig,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:    orderRepo,
		tableRepo:    tableRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		billing:      billing,
		gateways:     gateways,
		locks:        locks,
		cfg:          cfg,
		attempts:     make(map[string]*attempt),
	}
}

// StartInput describes a new checkout attempt
type StartInput struct {
	TableID              *uuid.UUID
	CustomerID           *uuid.UUID
	Method               enum.PaymentMethod
	Payer                gateway.Payer
	IncludeServiceCharge bool
	GuestCount           int
}

// StartResult is returned to the operator so the guest can pay
type StartResult struct {
	Payment  *entity.Payment   `json:"payment"`
	Totals   *BillTotals       `json:"totals"`
	Artifact *gateway.Artifact `json:"artifact"`
}

// Start opens a checkout attempt: it prices the bill, locks the target,
// records the ledger entry and initiates the charge with the provider. PIX
// attempts additionally get a background watcher that polls the provider
// until confirmation or timeout.
func (s *CheckoutService) Start(ctx context.Context, input *StartInput) (*StartResult, error) {
	gw, ok := s.gateways.ForMethod(input.Method)
	if !ok {
		return nil, apperror.NewBadRequestError("unknown payment method")
	}

	totals, err := s.billing.CalculateTotals(ctx, &TotalsInput{
		TableID:              input.TableID,
		CustomerID:           input.CustomerID,
		IncludeServiceCharge: input.IncludeServiceCharge,
		GuestCount:           input.GuestCount,
	})
	if err != nil {
		return nil, err
	}
	if totals.Total <= 0 {
		return nil, apperror.NewBadRequestError("nothing to charge for this target")
	}

	release, err := s.locks.Acquire(ctx, targetKey(input.TableID, input.CustomerID), s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return nil, apperror.NewConflictError("a checkout for this target is already in progress")
		}
		return nil, err
	}

	ref, tableNumber, err := s.buildReference(ctx, input.TableID)
	if err != nil {
		release()
		return nil, err
	}

	payment := &entity.Payment{
		Amount:                totals.Total,
		Method:                input.Method,
		Status:                enum.PaymentStatusPending,
		CustomerID:            input.CustomerID,
		TableID:               input.TableID,
		ServiceChargeIncluded: input.IncludeServiceCharge,
		ExternalReference:     ref,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		release()
		return nil, err
	}

	if input.CustomerID != nil {
		s.capturePayerProfile(ctx, *input.CustomerID, input.Payer)
	}

	var artifact *gateway.Artifact
	initErr := retry.Do(ctx, retry.DefaultAttempts, retry.DefaultInitialDelay, func(ctx context.Context) error {
		var err error
		artifact, err = gw.Initiate(ctx, gateway.InitiateRequest{
			Payer:       input.Payer,
			Amount:      totals.Total,
			Reference:   ref,
			TableNumber: tableNumber,
			Description: chargeDescription(tableNumber),
		})
		var connErr *apperror.ConnectivityError
		if err != nil && !errors.As(err, &connErr) {
			return retry.Stop(err)
		}
		return err
	})
	if initErr != nil {
		// The ledger row stays pending for manual reconciliation
		release()
		return nil, initErr
	}

	s.track(ref, &attempt{release: release})

	switch input.Method {
	case enum.PaymentMethodPix:
		if err := s.transition(ctx, payment, enum.PaymentStatusProcessing); err != nil {
			s.finish(ref)
			return nil, err
		}
		s.watchConfirmation(payment.ID, ref, gw)
	case enum.PaymentMethodCard:
		if err := s.transition(ctx, payment, enum.PaymentStatusProcessing); err != nil {
			s.finish(ref)
			return nil, err
		}
	}

	return &StartResult{Payment: payment, Totals: totals, Artifact: artifact}, nil
}

// GetByReference returns the ledger entry for one checkout attempt
func (s *CheckoutService) GetByReference(ctx context.Context, ref string) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("payment")
	}
	return payment, nil
}

// ProcessCardToken charges a card token captured by the provider's hosted
// checkout page against an open attempt.
func (s *CheckoutService) ProcessCardToken(ctx context.Context, ref, token string, amount int64) (*entity.Payment, error) {
	payment, err := s.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if payment.Status.Terminal() {
		return nil, apperror.NewConflictError("payment is already settled")
	}
	if amount != payment.Amount {
		return nil, apperror.NewBadRequestError("amount does not match the open charge")
	}

	charger, ok := s.gateways.TokenChargerFor(enum.PaymentMethodCard)
	if !ok {
		return nil, apperror.NewBadRequestError("card charges are not available")
	}

	outcome, err := charger.ChargeToken(ctx, ref, token, amount)
	if err != nil {
		return nil, err
	}
	if !outcome.Approved {
		// The row stays processing; the operator can retry with a new token
		return nil, &apperror.ProviderRejectionError{Reference: ref, Status: outcome.Status}
	}

	if err := s.settle(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ConfirmCash settles a cash attempt on the operator's word
func (s *CheckoutService) ConfirmCash(ctx context.Context, ref string) (*entity.Payment, error) {
	payment, err := s.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if payment.Method != enum.PaymentMethodCash {
		return nil, apperror.NewBadRequestError("reference is not a cash payment")
	}
	if payment.Status.Terminal() {
		return nil, apperror.NewConflictError("payment is already settled")
	}
	if err := s.settle(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// HandleWebhook applies a provider notification. Settled attempts absorb
// repeated notifications without effect.
func (s *CheckoutService) HandleWebhook(ctx context.Context, ref string, approved bool) error {
	payment, err := s.paymentRepo.GetByReference(ctx, ref)
	if err != nil {
		return err
	}
	if payment == nil {
		log.Printf("webhook for unknown reference %s ignored", ref)
		return nil
	}
	if payment.Status.Terminal() {
		return nil
	}
	if !approved {
		// Not terminal in the ledger: left for manual reconciliation
		log.Printf("webhook reported unapproved status for %s", ref)
		return nil
	}
	return s.settle(ctx, payment)
}

// Cancel abandons an open attempt and frees the target for a new checkout
func (s *CheckoutService) Cancel(ctx context.Context, ref string) (*entity.Payment, error) {
	payment, err := s.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if payment.Status.Terminal() {
		return nil, apperror.NewConflictError("payment is already settled")
	}
	if err := s.transition(ctx, payment, enum.PaymentStatusCancelled); err != nil {
		return nil, err
	}
	s.finish(ref)
	return payment, nil
}

// settle approves the ledger entry and closes the bill
func (s *CheckoutService) settle(ctx context.Context, payment *entity.Payment) error {
	if !payment.Status.CanTransition(enum.PaymentStatusApproved) {
		return apperror.NewConflictError(
			fmt.Sprintf("payment cannot move from %s to %s", payment.Status, enum.PaymentStatusApproved))
	}
	if err := s.closeBill(ctx, payment); err != nil {
		return err
	}
	payment.Status = enum.PaymentStatusApproved
	s.finish(payment.ExternalReference)
	return nil
}

// closeBill performs the three close steps in order: settle the orders, free
// the table, approve the ledger entry. A failure reports which step broke so
// the operator knows what was left inconsistent.
func (s *CheckoutService) closeBill(ctx context.Context, payment *entity.Payment) error {
	if payment.TableID != nil || payment.CustomerID == nil {
		if err := s.orderRepo.MarkDeliveredByTable(ctx, payment.TableID); err != nil {
			return &apperror.PartialCloseError{Step: apperror.CloseStepOrders, Err: err}
		}
	} else {
		if err := s.orderRepo.MarkDeliveredByCustomer(ctx, *payment.CustomerID); err != nil {
			return &apperror.PartialCloseError{Step: apperror.CloseStepOrders, Err: err}
		}
	}

	if payment.TableID != nil {
		if err := s.tableRepo.UpdateStatus(ctx, *payment.TableID, enum.TableStatusAvailable); err != nil {
			return &apperror.PartialCloseError{Step: apperror.CloseStepTable, Err: err}
		}
	}

	now := time.Now()
	if err := s.paymentRepo.Approve(ctx, payment.ID, now); err != nil {
		return &apperror.PartialCloseError{Step: apperror.CloseStepPayment, Err: err}
	}
	payment.CompletedAt = &now
	return nil
}

// watchConfirmation polls the provider until the charge is confirmed or the
// confirmation window closes. A timed out attempt keeps its ledger row in
// processing and releases the target lock.
func (s *CheckoutService) watchConfirmation(paymentID uuid.UUID, ref string, gw gateway.Gateway) {
	watchCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if a := s.attempts[ref]; a != nil {
		a.cancel = cancel
	}
	s.mu.Unlock()

	go func() {
		defer cancel()
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()
		deadline := time.NewTimer(s.cfg.ConfirmTimeout)
		defer deadline.Stop()

		for {
			select {
			case <-watchCtx.Done():
				return
			case <-deadline.C:
				log.Printf("abandoning watch: %v", &apperror.TimeoutError{Reference: ref, Elapsed: s.cfg.ConfirmTimeout})
				s.finish(ref)
				return
			case <-ticker.C:
				pollCtx, pollCancel := context.WithTimeout(watchCtx, s.cfg.RequestTimeout)
				outcome, err := gw.Confirm(pollCtx, ref)
				pollCancel()
				if err != nil {
					// Transient provider trouble, keep polling
					continue
				}
				if outcome.Paid || outcome.Approved {
					settleCtx, settleCancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout)
					payment, err := s.paymentRepo.GetByID(settleCtx, paymentID)
					if err == nil && payment != nil && !payment.Status.Terminal() {
						if err := s.settle(settleCtx, payment); err != nil {
							log.Printf("failed to settle confirmed payment %s: %v", ref, err)
						}
					}
					settleCancel()
					return
				}
			}
		}
	}()
}

// transition moves the ledger entry through the allowed status graph
func (s *CheckoutService) transition(ctx context.Context, payment *entity.Payment, next enum.PaymentStatus) error {
	if !payment.Status.CanTransition(next) {
		return apperror.NewConflictError(
			fmt.Sprintf("payment cannot move from %s to %s", payment.Status, next))
	}
	if err := s.paymentRepo.UpdateStatus(ctx, payment.ID, next); err != nil {
		return err
	}
	payment.Status = next
	return nil
}

// capturePayerProfile writes the payer identity back to the customer so it
// pre-fills on the next visit. Failures are logged, never fatal.
func (s *CheckoutService) capturePayerProfile(ctx context.Context, customerID uuid.UUID, payer gateway.Payer) {
	profile := entity.PaymentProfile{
		Name:     payer.Name,
		Email:    payer.Email,
		Document: payer.Document,
		Phone:    payer.Phone,
	}
	if err := s.customerRepo.UpdatePaymentProfile(ctx, customerID, profile); err != nil {
		log.Printf("failed to capture payer profile for customer %s: %v", customerID, err)
	}
}

// buildReference generates the external reference for a new attempt
func (s *CheckoutService) buildReference(ctx context.Context, tableID *uuid.UUID) (string, int, error) {
	if tableID == nil {
		return reference.New("BALCAO"), 0, nil
	}
	table, err := s.tableRepo.GetByID(ctx, *tableID)
	if err != nil {
		return "", 0, err
	}
	if table == nil {
		return "", 0, apperror.NewNotFoundError("table")
	}
	return reference.New(fmt.Sprintf("MESA%d", table.Number)), table.Number, nil
}

func chargeDescription(tableNumber int) string {
	if tableNumber > 0 {
		return fmt.Sprintf("Consumo mesa %d", tableNumber)
	}
	return "Consumo balcao"
}

// track registers an in-flight attempt under its reference
func (s *CheckoutService) track(ref string, a *attempt) {
	s.mu.Lock()
	s.attempts[ref] = a
	s.mu.Unlock()
}

// finish tears down an attempt: stops its watcher and releases the target
func (s *CheckoutService) finish(ref string) {
	s.mu.Lock()
	a := s.attempts[ref]
	delete(s.attempts, ref)
	s.mu.Unlock()

	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.release != nil {
		a.release()
	}
}

func targetKey(tableID, customerID *uuid.UUID) string {
	if tableID != nil {
		return "table:" + strings.ToLower(tableID.String())
	}
	if customerID != nil {
		return "customer:" + strings.ToLower(customerID.String())
	}
	return "counter"
}
