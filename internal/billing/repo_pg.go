package billing

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, sub *Subscription) error {
	const query = `
INSERT INTO subscriptions (id, stripe_customer_id, stripe_subscription_id, plan, active, next_billing_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (id) DO UPDATE SET
  stripe_customer_id = EXCLUDED.stripe_customer_id,
  stripe_subscription_id = EXCLUDED.stripe_subscription_id,
  plan = EXCLUDED.plan,
  active = EXCLUDED.active,
  next_billing_date = EXCLUDED.next_billing_date,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		sub.ID,
		nullablePtr(sub.StripeCustomerID),
		nullablePtr(sub.StripeSubscriptionID),
		string(sub.Plan),
		sub.Active,
		nullableTime(sub.NextBillingDate),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Subscription, error) {
	const query = `
SELECT id, stripe_customer_id, stripe_subscription_id, plan, active, next_billing_date, created_at, updated_at
FROM subscriptions
WHERE id = $1
LIMIT 1`
	var sub Subscription
	var customerID, subscriptionID sql.NullString
	var plan string
	var nextBilling, updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&sub.ID,
		&customerID,
		&subscriptionID,
		&plan,
		&sub.Active,
		&nextBilling,
		&sub.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sub.Plan = Plan(plan)
	if customerID.Valid {
		sub.StripeCustomerID = &customerID.String
	}
	if subscriptionID.Valid {
		sub.StripeSubscriptionID = &subscriptionID.String
	}
	if nextBilling.Valid {
		t := nextBilling.Time
		sub.NextBillingDate = &t
	}
	if updatedAt.Valid {
		sub.UpdatedAt = updatedAt.Time
	} else {
		sub.UpdatedAt = time.Now().UTC()
	}
	return &sub, nil
}

func (r *PGRepo) DeactivateBySubscriptionID(ctx context.Context, subscriptionID string) error {
	const query = `
UPDATE subscriptions
SET plan = 'free', active = FALSE, next_billing_date = NULL, updated_at = now()
WHERE stripe_subscription_id = $1`
	_, err := r.DB.ExecContext(ctx, query, subscriptionID)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM subscriptions WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	return err
}

func nullablePtr(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
