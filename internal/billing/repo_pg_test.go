package billing

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsertSubscription(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	customerID := "cus_1"
	subscriptionID := "sub_1"
	next := time.Now().Add(30 * 24 * time.Hour).UTC()

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs("user-1", customerID, subscriptionID, "pro", true, next).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Upsert(context.Background(), &Subscription{
		ID:                   "user-1",
		StripeCustomerID:     &customerID,
		StripeSubscriptionID: &subscriptionID,
		Plan:                 PlanPro,
		Active:               true,
		NextBillingDate:      &next,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpsertStoresNullsForFreePlan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs("user-1", nil, nil, "free", false, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Upsert(context.Background(), &Subscription{ID: "user-1", Plan: PlanFree})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeactivateBySubscriptionID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE subscriptions").
		WithArgs("sub_1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Zero affected rows is fine; deletes may arrive after the row is gone.
	if err := repo.DeactivateBySubscriptionID(context.Background(), "sub_1"); err != nil {
		t.Fatalf("DeactivateBySubscriptionID: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
