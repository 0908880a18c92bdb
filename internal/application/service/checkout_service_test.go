package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itsells/billing-api/internal/config"
	"github.com/itsells/billing-api/internal/domain/entity"
	"github.com/itsells/billing-api/internal/domain/enum"
	"github.com/itsells/billing-api/internal/infrastructure/gateway"
	"github.com/itsells/billing-api/internal/infrastructure/lock"
	"github.com/itsells/billing-api/pkg/apperror"
)

type checkoutEnv struct {
	svc         *CheckoutService
	orderRepo   *fakeOrderRepo
	tableRepo   *fakeTableRepo
	paymentRepo *fakePaymentRepo
	custRepo    *fakeCustomerRepo
	gw          *fakeGateway
}

func newCheckoutEnv(t *testing.T, orders []entity.Order, tables ...*entity.Table) *checkoutEnv {
	t.Helper()
	env := &checkoutEnv{
		orderRepo:   &fakeOrderRepo{orders: orders},
		tableRepo:   newFakeTableRepo(tables...),
		paymentRepo: newFakePaymentRepo(),
		custRepo:    newFakeCustomerRepo(),
		gw:          &fakeGateway{},
	}
	billing := NewBillingService(env.orderRepo, env.tableRepo, &fakeSettingsRepo{})
	cfg := config.PaymentConfig{
		RequestTimeout: time.Second,
		PollInterval:   5 * time.Millisecond,
		ConfirmTimeout: 150 * time.Millisecond,
		LockTTL:        time.Minute,
	}
	env.svc = NewCheckoutService(
		env.orderRepo, env.tableRepo, env.paymentRepo, env.custRepo,
		billing,
		gateway.NewRegistry(env.gw, env.gw, env.gw),
		lock.NewMemoryLock(),
		cfg,
	)
	return env
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func testPayer() gateway.Payer {
	return gateway.Payer{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Document: "52998224725",
		Phone:    "11987654321",
	}
}

func TestStartCashCreatesPendingLedger(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 5}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 4000)}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCash,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if result.Payment.Status != enum.PaymentStatusPending {
		t.Errorf("cash payment should stay pending, got %s", result.Payment.Status)
	}
	if result.Payment.Amount != 4000 {
		t.Errorf("expected amount 4000, got %d", result.Payment.Amount)
	}
	if !strings.HasPrefix(result.Payment.ExternalReference, "MESA5") {
		t.Errorf("reference should carry the table prefix, got %s", result.Payment.ExternalReference)
	}
}

func TestStartRejectsConcurrentCheckout(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 1}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 2000)}, table)

	input := &StartInput{TableID: &table.ID, Method: enum.PaymentMethodCash, Payer: testPayer()}
	if _, err := env.svc.Start(context.Background(), input); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if _, err := env.svc.Start(context.Background(), input); err == nil {
		t.Fatal("expected conflict on second checkout for the same table")
	}
}

func TestStartGeneratesFreshReferencePerAttempt(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 9}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 2000)}, table)

	input := &StartInput{TableID: &table.ID, Method: enum.PaymentMethodCash, Payer: testPayer()}
	first, err := env.svc.Start(context.Background(), input)
	if err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if _, err := env.svc.Cancel(context.Background(), first.Payment.ExternalReference); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	second, err := env.svc.Start(context.Background(), input)
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if first.Payment.ExternalReference == second.Payment.ExternalReference {
		t.Fatal("a new attempt must not reuse the previous reference")
	}
}

func TestStartPixSettlesOnConfirmation(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 3}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 6000)}, table)
	env.gw.artifact = gateway.Artifact{PixCode: "pix-copy-paste"}

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodPix,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if result.Payment.Status != enum.PaymentStatusProcessing {
		t.Errorf("pix payment should be processing, got %s", result.Payment.Status)
	}
	if result.Artifact.PixCode != "pix-copy-paste" {
		t.Errorf("expected pix artifact, got %+v", result.Artifact)
	}

	env.gw.setConfirmed(true)

	waitFor(t, "payment approval", func() bool {
		p, _ := env.paymentRepo.GetByID(context.Background(), result.Payment.ID)
		return p != nil && p.Status == enum.PaymentStatusApproved
	})

	p, _ := env.paymentRepo.GetByID(context.Background(), result.Payment.ID)
	if p.CompletedAt == nil {
		t.Error("approved payment should carry completed_at")
	}

	env.orderRepo.mu.Lock()
	marked := len(env.orderRepo.markTableCalls)
	env.orderRepo.mu.Unlock()
	if marked != 1 {
		t.Errorf("expected the table's orders to be settled once, got %d", marked)
	}

	env.tableRepo.mu.Lock()
	status := env.tableRepo.statuses[table.ID]
	env.tableRepo.mu.Unlock()
	if status != enum.TableStatusAvailable {
		t.Errorf("table should be freed after close, got %s", status)
	}
}

func TestPixConfirmationTimeoutFreesTarget(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 6}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 2500)}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodPix,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// The provider never confirms; the watcher must give up and unlock
	waitFor(t, "target lock release", func() bool {
		_, err := env.svc.Start(context.Background(), &StartInput{
			TableID: &table.ID,
			Method:  enum.PaymentMethodCash,
			Payer:   testPayer(),
		})
		return err == nil
	})

	p, _ := env.paymentRepo.GetByID(context.Background(), result.Payment.ID)
	if p.Status != enum.PaymentStatusProcessing {
		t.Errorf("timed out attempt should stay processing for reconciliation, got %s", p.Status)
	}
}

func TestProcessCardTokenApprovesAndCloses(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 8}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 9000)}, table)
	env.gw.artifact = gateway.Artifact{CheckoutURL: "https://pay.example/checkout"}

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCard,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if result.Artifact.CheckoutURL == "" {
		t.Fatal("card checkout should return a checkout URL")
	}

	payment, err := env.svc.ProcessCardToken(context.Background(), result.Payment.ExternalReference, "tok_123", 9000)
	if err != nil {
		t.Fatalf("ProcessCardToken failed: %v", err)
	}
	if payment.Status != enum.PaymentStatusApproved {
		t.Errorf("expected approved, got %s", payment.Status)
	}
}

func TestProcessCardTokenRejectsAmountMismatch(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 8}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 9000)}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCard,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if _, err := env.svc.ProcessCardToken(context.Background(), result.Payment.ExternalReference, "tok_123", 100); err == nil {
		t.Fatal("expected amount mismatch to be rejected")
	}
}

func TestProcessCardTokenProviderRejection(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 2}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 3000)}, table)
	env.gw.tokenOut = &gateway.Outcome{Status: "declined"}

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCard,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err = env.svc.ProcessCardToken(context.Background(), result.Payment.ExternalReference, "tok_bad", 3000)
	var rejection *apperror.ProviderRejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected ProviderRejectionError, got %v", err)
	}

	p, _ := env.paymentRepo.GetByReference(context.Background(), result.Payment.ExternalReference)
	if p.Status != enum.PaymentStatusProcessing {
		t.Errorf("rejected attempt should stay processing, got %s", p.Status)
	}
}

func TestConfirmCashClosesCounterBill(t *testing.T) {
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, nil, 1800)})

	result, err := env.svc.Start(context.Background(), &StartInput{
		CustomerID: &guest,
		Method:     enum.PaymentMethodCash,
		Payer:      testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !strings.HasPrefix(result.Payment.ExternalReference, "BALCAO") {
		t.Errorf("counter reference should carry the counter prefix, got %s", result.Payment.ExternalReference)
	}

	payment, err := env.svc.ConfirmCash(context.Background(), result.Payment.ExternalReference)
	if err != nil {
		t.Fatalf("ConfirmCash failed: %v", err)
	}
	if payment.Status != enum.PaymentStatusApproved {
		t.Errorf("expected approved, got %s", payment.Status)
	}

	env.orderRepo.mu.Lock()
	marked := env.orderRepo.markCustCalls
	env.orderRepo.mu.Unlock()
	if len(marked) != 1 || marked[0] != guest {
		t.Errorf("expected the customer's orders to be settled, got %v", marked)
	}
}

func TestConfirmCashRejectsOtherMethods(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 1}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 2000)}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCard,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.svc.ConfirmCash(context.Background(), result.Payment.ExternalReference); err == nil {
		t.Fatal("expected cash confirmation of a card attempt to fail")
	}
}

func TestWebhookSettlesAndIsIdempotent(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 4}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 5000)}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCard,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ref := result.Payment.ExternalReference
	if err := env.svc.HandleWebhook(context.Background(), ref, true); err != nil {
		t.Fatalf("first webhook failed: %v", err)
	}
	if err := env.svc.HandleWebhook(context.Background(), ref, true); err != nil {
		t.Fatalf("repeated webhook should be absorbed: %v", err)
	}

	env.paymentRepo.mu.Lock()
	approves := env.paymentRepo.approves
	env.paymentRepo.mu.Unlock()
	if approves != 1 {
		t.Errorf("expected exactly one approval, got %d", approves)
	}
}

func TestWebhookUnknownReferenceIgnored(t *testing.T) {
	env := newCheckoutEnv(t, nil)
	if err := env.svc.HandleWebhook(context.Background(), "MESA1_UNKNOWN", true); err != nil {
		t.Fatalf("unknown reference should be ignored, got %v", err)
	}
}

func TestCancelFreesTarget(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 7}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 2000)}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCash,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	payment, err := env.svc.Cancel(context.Background(), result.Payment.ExternalReference)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if payment.Status != enum.PaymentStatusCancelled {
		t.Errorf("expected cancelled, got %s", payment.Status)
	}

	if _, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCash,
		Payer:   testPayer(),
	}); err != nil {
		t.Fatalf("target should be free after cancel: %v", err)
	}
}

func TestCancelSettledPaymentFails(t *testing.T) {
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, nil, 1000)})

	result, err := env.svc.Start(context.Background(), &StartInput{
		CustomerID: &guest,
		Method:     enum.PaymentMethodCash,
		Payer:      testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := env.svc.ConfirmCash(context.Background(), result.Payment.ExternalReference); err != nil {
		t.Fatalf("ConfirmCash failed: %v", err)
	}
	if _, err := env.svc.Cancel(context.Background(), result.Payment.ExternalReference); err == nil {
		t.Fatal("expected cancel of a settled payment to fail")
	}
}

func TestCloseBillReportsFailedStep(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 5}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 3000)}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCash,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	env.orderRepo.mu.Lock()
	env.orderRepo.markErr = errors.New("db down")
	env.orderRepo.mu.Unlock()

	_, err = env.svc.ConfirmCash(context.Background(), result.Payment.ExternalReference)
	var partial *apperror.PartialCloseError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialCloseError, got %v", err)
	}
	if partial.Step != apperror.CloseStepOrders {
		t.Errorf("expected failure at the orders step, got %s", partial.Step)
	}

	p, _ := env.paymentRepo.GetByReference(context.Background(), result.Payment.ExternalReference)
	if p.Status == enum.PaymentStatusApproved {
		t.Error("payment must not be approved when close fails before the ledger step")
	}
}

func TestStartRejectsBothTargets(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 3}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 1500)}, table)

	_, err := env.svc.Start(context.Background(), &StartInput{
		TableID:    &table.ID,
		CustomerID: &guest,
		Method:     enum.PaymentMethodCash,
		Payer:      testPayer(),
	})
	if err == nil {
		t.Fatal("expected a table-and-customer target to be rejected")
	}

	env.paymentRepo.mu.Lock()
	stored := len(env.paymentRepo.payments)
	env.paymentRepo.mu.Unlock()
	if stored != 0 {
		t.Errorf("no ledger row should be written for a rejected target, got %d", stored)
	}
}

func TestStartSeatedGuestClosesOnlyTheirOrders(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 9}
	guestA, guestB := uuid.New(), uuid.New()
	env := newCheckoutEnv(t, []entity.Order{
		deliveredOrder(guestA, &table.ID, 1800),
		deliveredOrder(guestB, &table.ID, 2600),
	}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		CustomerID: &guestA,
		Method:     enum.PaymentMethodCash,
		Payer:      testPayer(),
	})
	if err != nil {
		t.Fatalf("Start by customer failed for a seated guest: %v", err)
	}
	if result.Payment.Amount != 1800 {
		t.Errorf("expected the guest's own subtotal 1800, got %d", result.Payment.Amount)
	}

	if _, err := env.svc.ConfirmCash(context.Background(), result.Payment.ExternalReference); err != nil {
		t.Fatalf("ConfirmCash failed: %v", err)
	}

	env.orderRepo.mu.Lock()
	custCalls := append([]uuid.UUID{}, env.orderRepo.markCustCalls...)
	tableCalls := len(env.orderRepo.markTableCalls)
	env.orderRepo.mu.Unlock()
	if len(custCalls) != 1 || custCalls[0] != guestA {
		t.Errorf("expected exactly the guest's orders to be settled, calls=%v", custCalls)
	}
	if tableCalls != 0 {
		t.Errorf("a per-guest close must not touch the whole table, got %d table calls", tableCalls)
	}

	env.tableRepo.mu.Lock()
	_, freed := env.tableRepo.statuses[table.ID]
	env.tableRepo.mu.Unlock()
	if freed {
		t.Error("the table must stay occupied while other guests still owe")
	}
}

func TestStartReleasesTargetWhenTransitionFails(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 4}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 2000)}, table)

	env.paymentRepo.mu.Lock()
	env.paymentRepo.updateErr = errors.New("ledger store unavailable")
	env.paymentRepo.mu.Unlock()

	if _, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodPix,
		Payer:   testPayer(),
	}); err == nil {
		t.Fatal("expected Start to fail when the status update fails")
	}

	env.paymentRepo.mu.Lock()
	env.paymentRepo.updateErr = nil
	env.paymentRepo.mu.Unlock()

	if _, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCash,
		Payer:   testPayer(),
	}); err != nil {
		t.Fatalf("target should be free after the failed attempt, got %v", err)
	}
}

func TestCloseBillTableStepFailureKeepsOrdersDelivered(t *testing.T) {
	table := &entity.Table{ID: uuid.New(), Number: 6}
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, &table.ID, 2000)}, table)

	result, err := env.svc.Start(context.Background(), &StartInput{
		TableID: &table.ID,
		Method:  enum.PaymentMethodCash,
		Payer:   testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	env.tableRepo.mu.Lock()
	env.tableRepo.statErr = errors.New("table store unavailable")
	env.tableRepo.mu.Unlock()

	_, err = env.svc.ConfirmCash(context.Background(), result.Payment.ExternalReference)
	var partial *apperror.PartialCloseError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialCloseError, got %v", err)
	}
	if partial.Step != apperror.CloseStepTable {
		t.Errorf("expected failure at the table step, got %s", partial.Step)
	}

	env.orderRepo.mu.Lock()
	marked := len(env.orderRepo.markTableCalls)
	env.orderRepo.mu.Unlock()
	if marked != 1 {
		t.Errorf("orders must stay settled after the first step succeeds, marks=%d", marked)
	}
}

func TestStartCapturesPayerProfile(t *testing.T) {
	guest := uuid.New()
	env := newCheckoutEnv(t, []entity.Order{deliveredOrder(guest, nil, 1500)})

	_, err := env.svc.Start(context.Background(), &StartInput{
		CustomerID: &guest,
		Method:     enum.PaymentMethodCash,
		Payer:      testPayer(),
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	env.custRepo.mu.Lock()
	profile, ok := env.custRepo.profiles[guest]
	env.custRepo.mu.Unlock()
	if !ok {
		t.Fatal("payer profile should be captured on the customer")
	}
	if profile.Document != "52998224725" {
		t.Errorf("expected captured document, got %s", profile.Document)
	}
}
