package stripe

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newStore(t *testing.T) (PSQL, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()

	if err != nil {
		t.Fatal(err)
	}
	return PSQL{
		DB: db,
	}, mock
}

func Test_LookupCustomer(t *testing.T) {
	store, mock := newStore(t)
	defer store.DB.Close()

	tests := []struct {
		email         string
		expectedQuery string
		expectedOk    bool
		row           []driver.Value
	}{
		{
			"customer@example.com",
			"SELECT * FROM stripe_customers WHERE (email = $1)",
			true,
			[]driver.Value{"cu_123456", "customer@example.com", "Customer", time.Now()},
		},
		{
			"foo@example.com",
			"SELECT * FROM stripe_customers WHERE (email = $1)",
			false,
			[]driver.Value{},
		},
	}

	for i, test := range tests {
		rows := sqlmock.NewRows([]string{"id", "email", "name", "created_at"})

		if len(test.row) > 0 {
			rows.AddRow(test.row...)
		}
		mock.ExpectQuery(regexp.QuoteMeta(test.expectedQuery)).WithArgs(test.email).WillReturnRows(rows)

		_, ok, err := store.LookupCustomer(context.Background(), test.email)

		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		if ok != test.expectedOk {
			t.Errorf("tests[%d] - expected customer lookup to be ok=%v, it was not\n", i, test.expectedOk)
			continue
		}
	}
}

func Test_Subscription(t *testing.T) {
	store, mock := newStore(t)
	defer store.DB.Close()

	tests := []struct {
		c             *Customer
		expectedQuery string
		expectedOk    bool
		row           []driver.Value
	}{
		{
			&Customer{ID: "cu_123456"},
			"SELECT * FROM stripe_subscriptions WHERE (customer_id = $1)",
			true,
			[]driver.Value{"sub_123456", "cu_123456", "active", time.Now(), nil},
		},
		{
			&Customer{},
			"SELECT * FROM stripe_subscriptions WHERE (customer_id = $1)",
			false,
			[]driver.Value{},
		},
	}

	for i, test := range tests {
		rows := sqlmock.NewRows([]string{"id", "customer_id", "status", "started_at", "ends_at"})

		if len(test.row) > 0 {
			rows.AddRow(test.row...)
		}
		mock.ExpectQuery(regexp.QuoteMeta(test.expectedQuery)).WithArgs(test.c.ID).WillReturnRows(rows)

		sub, ok, err := store.Subscription(context.Background(), test.c)

		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		if ok != test.expectedOk {
			t.Errorf("tests[%d] - expected customer subscription to be ok=%v, it was not\n", i, test.expectedOk)
			continue
		}

		if ok && sub.Status != SubscriptionStatusActive {
			t.Errorf("tests[%d] - unexpected subscription status, expected=%q, got=%q\n", i, SubscriptionStatusActive, sub.Status)
		}
	}
}

// A subscription with ends_at set is one pending cancellation, which should
// come back with CancelAtPeriodEnd set.
func Test_SubscriptionPendingCancel(t *testing.T) {
	store, mock := newStore(t)
	defer store.DB.Close()

	endsAt := time.Now().Add(720 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "customer_id", "status", "started_at", "ends_at"}).
		AddRow("sub_123456", "cu_123456", "active", time.Now(), endsAt)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM stripe_subscriptions WHERE (customer_id = $1)")).
		WithArgs("cu_123456").
		WillReturnRows(rows)

	sub, ok, err := store.Subscription(context.Background(), &Customer{ID: "cu_123456"})

	if err != nil {
		t.Fatal(err)
	}

	if !ok {
		t.Fatal("expected subscription to be found")
	}

	if !sub.CancelAtPeriodEnd {
		t.Error("expected subscription to be pending cancellation")
	}

	if sub.CurrentPeriodEnd != endsAt.Unix() {
		t.Errorf("unexpected period end, expected=%d, got=%d\n", endsAt.Unix(), sub.CurrentPeriodEnd)
	}
}

func Test_DefaultPaymentMethod(t *testing.T) {
	store, mock := newStore(t)
	defer store.DB.Close()

	tests := []struct {
		c             *Customer
		expectedQuery string
		expectedOk    bool
		row           []driver.Value
	}{
		{
			&Customer{ID: "cu_123456"},
			"SELECT * FROM stripe_payment_methods WHERE (customer_id = $1 AND is_default = $2)",
			true,
			[]driver.Value{
				"pm_123456",
				"cu_123456",
				"card",
				`{"brand": "visa", "last4": "4242", "exp_month": 2, "exp_year": 24}`,
				true,
				time.Now(),
			},
		},
		{
			&Customer{},
			"SELECT * FROM stripe_payment_methods WHERE (customer_id = $1 AND is_default = $2)",
			false,
			[]driver.Value{},
		},
	}

	for i, test := range tests {
		rows := mock.NewRows([]string{"id", "customer_id", "type", "info", "is_default", "created_at"})

		if len(test.row) > 0 {
			rows.AddRow(test.row...)
		}
		mock.ExpectQuery(regexp.QuoteMeta(test.expectedQuery)).WithArgs(test.c.ID, true).WillReturnRows(rows)

		pm, ok, err := store.DefaultPaymentMethod(context.Background(), test.c)

		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %s\n", i, err)
		}

		if ok != test.expectedOk {
			t.Errorf("tests[%d] - expected customer default payment method to be ok=%v, it was not\n", i, test.expectedOk)
			continue
		}

		if ok {
			if pm.Card == nil {
				t.Fatalf("tests[%d] - expected payment method card details to be set\n", i)
			}

			if pm.Card.Last4 != "4242" {
				t.Errorf("tests[%d] - unexpected card last4, expected=%q, got=%q\n", i, "4242", pm.Card.Last4)
			}
		}
	}
}

func Test_LookupInvoice(t *testing.T) {
	store, mock := newStore(t)
	defer store.DB.Close()

	c := &Customer{ID: "cu_123456"}

	rows := sqlmock.NewRows([]string{"id", "customer_id", "number", "amount", "status", "created_at", "updated_at"}).
		AddRow("in_123456", "cu_123456", "INV-0001", 2000, "paid", time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM stripe_invoices WHERE (customer_id = $1 AND number = $2)")).
		WithArgs(c.ID, "INV-0001").
		WillReturnRows(rows)

	inv, ok, err := store.LookupInvoice(context.Background(), c, "INV-0001")

	if err != nil {
		t.Fatal(err)
	}

	if !ok {
		t.Fatal("expected invoice to be found")
	}

	if inv.Status != InvoiceStatusPaid {
		t.Errorf("unexpected invoice status, expected=%q, got=%q\n", InvoiceStatusPaid, inv.Status)
	}
}

func Test_LogEvent(t *testing.T) {
	store, mock := newStore(t)
	defer store.DB.Close()

	countQuery := regexp.QuoteMeta("FROM stripe_events WHERE (id = $1)")

	mock.ExpectQuery(countQuery).
		WithArgs("evt_123456").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stripe_events (id) VALUES ($1)")).
		WithArgs("evt_123456").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.LogEvent(context.Background(), "evt_123456"); err != nil {
		t.Fatal(err)
	}

	// Second delivery of the same event, the id is already in the table.
	mock.ExpectQuery(countQuery).
		WithArgs("evt_123456").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := store.LogEvent(context.Background(), "evt_123456")

	if !errors.Is(err, ErrEventExists) {
		t.Fatalf("expected ErrEventExists, got %v\n", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func Test_PutSubscription(t *testing.T) {
	store, mock := newStore(t)
	defer store.DB.Close()

	sub := &Subscription{
		ID:        "sub_123456",
		Customer:  &Customer{ID: "cu_123456"},
		Status:    SubscriptionStatusActive,
		StartDate: time.Now().Unix(),
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM stripe_subscriptions WHERE (id = $1)")).
		WithArgs(sub.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stripe_subscriptions (id, customer_id, status, started_at, ends_at)")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Put(context.Background(), sub); err != nil {
		t.Fatal(err)
	}

	// Putting it again should update rather than insert.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM stripe_subscriptions WHERE (id = $1)")).
		WithArgs(sub.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(sub.ID))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE stripe_subscriptions SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sub.Status = SubscriptionStatusPastDue

	if err := store.Put(context.Background(), sub); err != nil {
		t.Fatal(err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func Test_PutUnknownResource(t *testing.T) {
	store, _ := newStore(t)
	defer store.DB.Close()

	err := store.Put(context.Background(), &Event{ID: "evt_123456"})

	if !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v\n", err)
	}
}

func Test_Remove(t *testing.T) {
	store, mock := newStore(t)
	defer store.DB.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM stripe_customers WHERE (id = $1)")).
		WithArgs("cu_123456").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Remove(context.Background(), &Customer{ID: "cu_123456"})

	if err != nil {
		t.Fatal(err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
