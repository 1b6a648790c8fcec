package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) UpsertRole(ctx context.Context, id, email, roleName string) error {
	const query = `
INSERT INTO user_profiles (id, email, role_name, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  role_name = EXCLUDED.role_name,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query, id, email, roleName)
	return err
}

func (r *PGRepo) UpdateName(ctx context.Context, id, firstName, lastName, country, city string) error {
	const query = `
UPDATE user_profiles
SET first_name = $2, last_name = $3, country = $4, city = $5, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, firstName, lastName, nullableString(country), nullableString(city))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) UpdateWorkTypes(ctx context.Context, id string, workTypes []string) error {
	var arg any
	if len(workTypes) > 0 {
		raw, err := json.Marshal(workTypes)
		if err != nil {
			return fmt.Errorf("marshal work types: %w", err)
		}
		arg = raw
	}
	const query = `
UPDATE user_profiles
SET work_types = $2, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, arg)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) SetOnboardingCompleted(ctx context.Context, id string) error {
	const query = `
UPDATE user_profiles
SET onboarding_completed = TRUE, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) SetGuideSeen(ctx context.Context, id string, seen bool) error {
	const query = `
UPDATE user_profiles
SET has_seen_dashboard_guide = $2, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, seen)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	const query = `
UPDATE user_profiles
SET stripe_customer_id = $2, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, nullableString(customerID))
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (UserProfile, error) {
	const query = `
SELECT id, email, role_name, first_name, last_name, country, city, work_types,
       onboarding_completed, has_seen_dashboard_guide, stripe_customer_id,
       created_at, updated_at
FROM user_profiles
WHERE id = $1
LIMIT 1`
	var profile UserProfile
	var roleName, firstName, lastName, country, city, stripeCustomerID sql.NullString
	var workTypesRaw []byte
	var guideSeen sql.NullBool
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&roleName,
		&firstName,
		&lastName,
		&country,
		&city,
		&workTypesRaw,
		&profile.OnboardingCompleted,
		&guideSeen,
		&stripeCustomerID,
		&profile.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserProfile{}, ErrNotFound
		}
		return UserProfile{}, err
	}
	profile.RoleName = roleName.String
	profile.FirstName = firstName.String
	profile.LastName = lastName.String
	profile.Country = country.String
	profile.City = city.String
	profile.StripeCustomerID = stripeCustomerID.String
	if guideSeen.Valid {
		profile.HasSeenDashboardGuide = guideSeen.Bool
	}
	if len(workTypesRaw) > 0 {
		if err := json.Unmarshal(workTypesRaw, &profile.WorkTypes); err != nil {
			return UserProfile{}, fmt.Errorf("decode work types: %w", err)
		}
	}
	if updatedAt.Valid {
		profile.UpdatedAt = updatedAt.Time
	} else {
		profile.UpdatedAt = time.Now().UTC()
	}
	return profile, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
