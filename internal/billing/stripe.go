package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	portal "github.com/stripe/stripe-go/v79/billingportal/session"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"
)

// ProcessorSubscription is the slice of processor state the service needs.
type ProcessorSubscription struct {
	ID               string
	CustomerID       string
	Status           string
	CurrentPeriodEnd int64
}

// Processor abstracts the payment provider so the service and its tests do
// not talk to Stripe directly.
type Processor interface {
	CreateCustomer(ctx context.Context, userID, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID string) (string, error)
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*ProcessorSubscription, error)
	// CustomerUserID resolves the identity id stamped on the customer's metadata.
	CustomerUserID(ctx context.Context, customerID string) (string, error)
}

// StripeProcessor implements Processor against the Stripe API.
type StripeProcessor struct {
	priceID string
	appURL  string
}

func NewStripeProcessor(secretKey, priceID, appURL string) (*StripeProcessor, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if strings.TrimSpace(priceID) == "" {
		return nil, fmt.Errorf("STRIPE_PRICE_ID is required")
	}
	stripe.Key = secretKey
	return &StripeProcessor{
		priceID: priceID,
		appURL:  strings.TrimRight(appURL, "/"),
	}, nil
}

func (p *StripeProcessor) CreateCustomer(ctx context.Context, userID, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)
	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.appURL + "/dashboard?billing=success"),
		CancelURL:  stripe.String(p.appURL + "/dashboard?billing=cancelled"),
	}
	params.Context = ctx
	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (p *StripeProcessor) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(p.appURL + "/dashboard"),
	}
	params.Context = ctx
	sess, err := portal.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (p *StripeProcessor) GetSubscription(ctx context.Context, subscriptionID string) (*ProcessorSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, err
	}
	out := &ProcessorSubscription{
		ID:               sub.ID,
		Status:           string(sub.Status),
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}
	return out, nil
}

func (p *StripeProcessor) CustomerUserID(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	cust, err := customer.Get(customerID, params)
	if err != nil {
		return "", err
	}
	return cust.Metadata["user_id"], nil
}
