package billing

import "time"

// Plan names the billing tier a user is on.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Subscription is one row per user in subscriptions, keyed by the identity id.
// Only the plan fields serialize; row bookkeeping stays out of responses.
type Subscription struct {
	ID                   string     `json:"-"`
	StripeCustomerID     *string    `json:"-"`
	StripeSubscriptionID *string    `json:"-"`
	Plan                 Plan       `json:"plan"`
	Active               bool       `json:"active"`
	NextBillingDate      *time.Time `json:"next_billing_date"`
	CreatedAt            time.Time  `json:"-"`
	UpdatedAt            time.Time  `json:"-"`
}
