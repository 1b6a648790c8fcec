package billing

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "subscription not found" }

// Repo persists subscription state keyed on the external identity string.
type Repo interface {
	// Upsert replaces the whole subscription row for sub.ID.
	Upsert(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	// DeactivateBySubscriptionID downgrades whichever row carries the given
	// processor subscription id. Missing rows are not an error.
	DeactivateBySubscriptionID(ctx context.Context, subscriptionID string) error
	Delete(ctx context.Context, id string) error
}
