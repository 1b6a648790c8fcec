package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"onboard-backend/internal/profiles"
)

type fakeProcessor struct {
	customers     map[string]string // customer id -> user id
	subscriptions map[string]*ProcessorSubscription
	created       int
	checkoutURL   string
	portalURL     string
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		customers:     make(map[string]string),
		subscriptions: make(map[string]*ProcessorSubscription),
		checkoutURL:   "https://checkout.example/session",
		portalURL:     "https://portal.example/session",
	}
}

func (f *fakeProcessor) CreateCustomer(_ context.Context, userID, _ string) (string, error) {
	f.created++
	id := "cus_" + userID
	f.customers[id] = userID
	return id, nil
}

func (f *fakeProcessor) CreateCheckoutSession(context.Context, string) (string, error) {
	return f.checkoutURL, nil
}

func (f *fakeProcessor) CreatePortalSession(context.Context, string) (string, error) {
	return f.portalURL, nil
}

func (f *fakeProcessor) GetSubscription(_ context.Context, id string) (*ProcessorSubscription, error) {
	sub, ok := f.subscriptions[id]
	if !ok {
		return nil, errors.New("no such subscription")
	}
	out := *sub
	return &out, nil
}

func (f *fakeProcessor) CustomerUserID(_ context.Context, customerID string) (string, error) {
	return f.customers[customerID], nil
}

func newTestService(t *testing.T) (*Service, *fakeProcessor, *profiles.Service) {
	t.Helper()
	processor := newFakeProcessor()
	profileSvc := profiles.NewService(profiles.NewMemoryRepo())
	svc := NewService(NewMemoryRepo(), profileSvc, processor)
	return svc, processor, profileSvc
}

func seedUser(t *testing.T, profileSvc *profiles.Service, userID string) {
	t.Helper()
	if err := profileSvc.SaveRoleName(context.Background(), userID, "u@example.com", "Engineer"); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func TestCheckoutURLCreatesCustomerOnce(t *testing.T) {
	svc, processor, profileSvc := newTestService(t)
	ctx := context.Background()
	seedUser(t, profileSvc, "user-1")

	url, err := svc.CheckoutURL(ctx, "user-1", "u@example.com")
	if err != nil {
		t.Fatalf("CheckoutURL: %v", err)
	}
	if url != processor.checkoutURL {
		t.Fatalf("unexpected url %q", url)
	}
	if processor.created != 1 {
		t.Fatalf("expected one customer created, got %d", processor.created)
	}

	// Second checkout reuses the stamped customer id.
	if _, err := svc.CheckoutURL(ctx, "user-1", "u@example.com"); err != nil {
		t.Fatalf("CheckoutURL second: %v", err)
	}
	if processor.created != 1 {
		t.Fatalf("expected customer reuse, got %d creations", processor.created)
	}
}

func TestPortalURLWithoutCustomer(t *testing.T) {
	svc, _, profileSvc := newTestService(t)
	seedUser(t, profileSvc, "user-1")

	_, err := svc.PortalURL(context.Background(), "user-1")
	if !errors.Is(err, ErrNoCustomer) {
		t.Fatalf("expected ErrNoCustomer, got %v", err)
	}
}

func TestStatusDefaultsToInactiveFree(t *testing.T) {
	svc, _, _ := newTestService(t)

	sub, err := svc.Status(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if sub.Plan != PlanFree || sub.Active {
		t.Fatalf("expected inactive free plan, got %+v", sub)
	}
	if sub.NextBillingDate != nil {
		t.Fatalf("expected no billing date, got %v", sub.NextBillingDate)
	}
}

func TestHandleCheckoutCompletedActivatesPro(t *testing.T) {
	svc, processor, profileSvc := newTestService(t)
	ctx := context.Background()
	seedUser(t, profileSvc, "user-1")

	periodEnd := time.Now().Add(30 * 24 * time.Hour).Unix()
	processor.customers["cus_1"] = "user-1"
	processor.subscriptions["sub_1"] = &ProcessorSubscription{
		ID: "sub_1", CustomerID: "cus_1", Status: "active", CurrentPeriodEnd: periodEnd,
	}

	if err := svc.HandleCheckoutCompleted(ctx, "cus_1", "sub_1"); err != nil {
		t.Fatalf("HandleCheckoutCompleted: %v", err)
	}

	sub, err := svc.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if sub.Plan != PlanPro || !sub.Active {
		t.Fatalf("expected active pro plan, got %+v", sub)
	}
	if sub.NextBillingDate == nil || sub.NextBillingDate.Unix() != periodEnd {
		t.Fatalf("expected billing date from processor, got %v", sub.NextBillingDate)
	}

	profile, err := profileSvc.GetByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if profile.StripeCustomerID != "cus_1" {
		t.Fatalf("expected customer id stamped on profile, got %q", profile.StripeCustomerID)
	}
}

func TestHandleCheckoutCompletedDropsWithoutPeriodEnd(t *testing.T) {
	svc, processor, profileSvc := newTestService(t)
	ctx := context.Background()
	seedUser(t, profileSvc, "user-1")

	processor.customers["cus_1"] = "user-1"
	processor.subscriptions["sub_1"] = &ProcessorSubscription{
		ID: "sub_1", CustomerID: "cus_1", Status: "active", CurrentPeriodEnd: 0,
	}

	if err := svc.HandleCheckoutCompleted(ctx, "cus_1", "sub_1"); err != nil {
		t.Fatalf("expected drop without error, got %v", err)
	}
	sub, err := svc.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if sub.Plan != PlanFree || sub.Active {
		t.Fatalf("expected untouched default, got %+v", sub)
	}
}

func TestHandleCheckoutCompletedDropsUnattributedCustomer(t *testing.T) {
	svc, processor, _ := newTestService(t)
	ctx := context.Background()

	processor.subscriptions["sub_1"] = &ProcessorSubscription{
		ID: "sub_1", CustomerID: "cus_unknown", Status: "active", CurrentPeriodEnd: time.Now().Unix(),
	}

	if err := svc.HandleCheckoutCompleted(ctx, "cus_unknown", "sub_1"); err != nil {
		t.Fatalf("expected drop without error, got %v", err)
	}
}

func TestHandleSubscriptionChangedMapsStatus(t *testing.T) {
	svc, processor, profileSvc := newTestService(t)
	ctx := context.Background()
	seedUser(t, profileSvc, "user-1")
	processor.customers["cus_1"] = "user-1"

	cases := []struct {
		status     string
		wantPlan   Plan
		wantActive bool
	}{
		{"active", PlanPro, true},
		{"trialing", PlanPro, true},
		{"past_due", PlanFree, false},
		{"canceled", PlanFree, false},
	}
	for _, tc := range cases {
		processor.subscriptions["sub_1"] = &ProcessorSubscription{
			ID: "sub_1", CustomerID: "cus_1", Status: tc.status, CurrentPeriodEnd: time.Now().Unix(),
		}
		if err := svc.HandleSubscriptionChanged(ctx, "cus_1", "sub_1"); err != nil {
			t.Fatalf("HandleSubscriptionChanged(%s): %v", tc.status, err)
		}
		sub, err := svc.Status(ctx, "user-1")
		if err != nil {
			t.Fatalf("Status: %v", err)
		}
		if sub.Plan != tc.wantPlan || sub.Active != tc.wantActive {
			t.Fatalf("status %s: expected %s/%t, got %s/%t", tc.status, tc.wantPlan, tc.wantActive, sub.Plan, sub.Active)
		}
	}
}

func TestHandleSubscriptionChangedKeepsPeriodEndOnDowngrade(t *testing.T) {
	svc, processor, profileSvc := newTestService(t)
	ctx := context.Background()
	seedUser(t, profileSvc, "user-1")

	periodEnd := time.Now().Add(14 * 24 * time.Hour).Unix()
	processor.customers["cus_1"] = "user-1"
	processor.subscriptions["sub_1"] = &ProcessorSubscription{
		ID: "sub_1", CustomerID: "cus_1", Status: "canceled", CurrentPeriodEnd: periodEnd,
	}
	if err := svc.HandleSubscriptionChanged(ctx, "cus_1", "sub_1"); err != nil {
		t.Fatalf("HandleSubscriptionChanged: %v", err)
	}

	sub, err := svc.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if sub.Plan != PlanFree || sub.Active {
		t.Fatalf("expected inactive free plan, got %s/%t", sub.Plan, sub.Active)
	}
	// A subscription canceled at period end keeps serving until that date,
	// so the reported period end stays visible.
	if sub.NextBillingDate == nil || sub.NextBillingDate.Unix() != periodEnd {
		t.Fatalf("expected period end %d retained, got %v", periodEnd, sub.NextBillingDate)
	}
}

func TestHandleSubscriptionDeletedIsIdempotent(t *testing.T) {
	svc, processor, profileSvc := newTestService(t)
	ctx := context.Background()
	seedUser(t, profileSvc, "user-1")

	periodEnd := time.Now().Add(30 * 24 * time.Hour).Unix()
	processor.customers["cus_1"] = "user-1"
	processor.subscriptions["sub_1"] = &ProcessorSubscription{
		ID: "sub_1", CustomerID: "cus_1", Status: "active", CurrentPeriodEnd: periodEnd,
	}
	if err := svc.HandleCheckoutCompleted(ctx, "cus_1", "sub_1"); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.HandleSubscriptionDeleted(ctx, "sub_1"); err != nil {
			t.Fatalf("HandleSubscriptionDeleted call %d: %v", i+1, err)
		}
	}
	sub, err := svc.Status(ctx, "user-1")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if sub.Plan != PlanFree || sub.Active || sub.NextBillingDate != nil {
		t.Fatalf("expected downgraded row, got %+v", sub)
	}

	// Unknown ids are a no-op, not an error.
	if err := svc.HandleSubscriptionDeleted(ctx, "sub_missing"); err != nil {
		t.Fatalf("unknown id: %v", err)
	}
}
