package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"onboard-backend/internal/profiles"
	"onboard-backend/internal/shared/telemetry"
)

// ErrNoCustomer means the user never went through checkout, so there is no
// processor customer to open a portal for.
var ErrNoCustomer = errors.New("no billing customer for user")

type Service struct {
	Repo      Repo
	Profiles  *profiles.Service
	Processor Processor
}

func NewService(repo Repo, profilesSvc *profiles.Service, processor Processor) *Service {
	return &Service{Repo: repo, Profiles: profilesSvc, Processor: processor}
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil || s.Profiles == nil || s.Processor == nil {
		return fmt.Errorf("billing service not configured")
	}
	return nil
}

// readyStore covers operations that only touch local state, so billing
// lookups keep working when no payment processor is configured.
func (s *Service) readyStore() error {
	if s == nil || s.Repo == nil {
		return fmt.Errorf("billing store not configured")
	}
	return nil
}

// CheckoutURL ensures the user has a processor customer and starts a
// checkout session, returning the hosted page URL.
func (s *Service) CheckoutURL(ctx context.Context, userID, email string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	profile, err := s.Profiles.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	customerID := profile.StripeCustomerID
	if customerID == "" {
		customerID, err = s.Processor.CreateCustomer(ctx, userID, email)
		if err != nil {
			return "", err
		}
		if err := s.Profiles.SetStripeCustomerID(ctx, userID, customerID); err != nil {
			return "", err
		}
	}
	return s.Processor.CreateCheckoutSession(ctx, customerID)
}

// PortalURL opens a customer portal session for an existing customer.
func (s *Service) PortalURL(ctx context.Context, userID string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	profile, err := s.Profiles.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.StripeCustomerID == "" {
		return "", ErrNoCustomer
	}
	return s.Processor.CreatePortalSession(ctx, profile.StripeCustomerID)
}

// Status returns the stored subscription, defaulting to an inactive free
// plan when no row exists yet.
func (s *Service) Status(ctx context.Context, userID string) (*Subscription, error) {
	if err := s.readyStore(); err != nil {
		return nil, err
	}
	sub, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &Subscription{ID: userID, Plan: PlanFree, Active: false}, nil
		}
		return nil, err
	}
	return sub, nil
}

// Reset removes the stored subscription row. Exposed via a dev-only endpoint.
func (s *Service) Reset(ctx context.Context, userID string) error {
	if err := s.readyStore(); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, userID)
}

// HandleCheckoutCompleted activates the pro plan after a finished checkout.
// The subscription is re-fetched from the processor so the stored row
// reflects processor state, not the event payload. Events that cannot be
// attributed to a user or that carry no period end are dropped.
func (s *Service) HandleCheckoutCompleted(ctx context.Context, customerID, subscriptionID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if customerID == "" || subscriptionID == "" {
		telemetry.Warn("billing.checkout_missing_ids", map[string]any{
			"customer_id": customerID, "subscription_id": subscriptionID,
		})
		return nil
	}
	userID, err := s.Processor.CustomerUserID(ctx, customerID)
	if err != nil {
		return err
	}
	if userID == "" {
		telemetry.Warn("billing.checkout_unattributed", map[string]any{"customer_id": customerID})
		return nil
	}
	procSub, err := s.Processor.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if procSub.CurrentPeriodEnd <= 0 {
		telemetry.Warn("billing.checkout_no_period_end", map[string]any{"subscription_id": subscriptionID})
		return nil
	}
	next := time.Unix(procSub.CurrentPeriodEnd, 0).UTC()
	sub := &Subscription{
		ID:                   userID,
		StripeCustomerID:     &customerID,
		StripeSubscriptionID: &procSub.ID,
		Plan:                 PlanPro,
		Active:               true,
		NextBillingDate:      &next,
	}
	if err := s.Repo.Upsert(ctx, sub); err != nil {
		return err
	}
	return s.Profiles.SetStripeCustomerID(ctx, userID, customerID)
}

// HandleSubscriptionChanged reconciles a created or updated subscription.
// Active and trialing map to the pro plan, everything else downgrades.
func (s *Service) HandleSubscriptionChanged(ctx context.Context, customerID, subscriptionID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if customerID == "" || subscriptionID == "" {
		telemetry.Warn("billing.subscription_missing_ids", map[string]any{
			"customer_id": customerID, "subscription_id": subscriptionID,
		})
		return nil
	}
	userID, err := s.Processor.CustomerUserID(ctx, customerID)
	if err != nil {
		return err
	}
	if userID == "" {
		telemetry.Warn("billing.subscription_unattributed", map[string]any{"customer_id": customerID})
		return nil
	}
	procSub, err := s.Processor.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return err
	}
	sub := &Subscription{
		ID:                   userID,
		StripeCustomerID:     &customerID,
		StripeSubscriptionID: &procSub.ID,
		Plan:                 PlanFree,
		Active:               false,
	}
	if procSub.Status == "active" || procSub.Status == "trialing" {
		sub.Plan = PlanPro
		sub.Active = true
	}
	if procSub.CurrentPeriodEnd > 0 {
		next := time.Unix(procSub.CurrentPeriodEnd, 0).UTC()
		sub.NextBillingDate = &next
	}
	return s.Repo.Upsert(ctx, sub)
}

// HandleSubscriptionDeleted downgrades whichever row carries the processor
// subscription id. Unknown ids are a no-op.
func (s *Service) HandleSubscriptionDeleted(ctx context.Context, subscriptionID string) error {
	if err := s.readyStore(); err != nil {
		return err
	}
	if subscriptionID == "" {
		return nil
	}
	return s.Repo.DeactivateBySubscriptionID(ctx, subscriptionID)
}
