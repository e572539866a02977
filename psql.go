package stripe

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/andrewpillar/query"
)

// PSQL provides a way of storing Stripe resources within PostgreSQL. This
// will store the Customer, Invoice, PaymentMethod, and Subscription
// resources, along with the IDs of handled webhook events. Using this
// implementation of the Store interface would require having the following
// schema,
//
//	CREATE TABLE stripe_customers (
//	    id         VARCHAR NOT NULL UNIQUE,
//	    email      VARCHAR NOT NULL UNIQUE,
//	    name       VARCHAR NOT NULL,
//	    created_at TIMESTAMP NOT NULL
//	);
//
//	CREATE TABLE stripe_events (
//	    id VARCHAR NOT NULL UNIQUE
//	);
//
//	CREATE TABLE stripe_invoices (
//	    id          VARCHAR NOT NULL UNIQUE,
//	    customer_id VARCHAR NOT NULL,
//	    number      VARCHAR NOT NULL,
//	    amount      NUMERIC NOT NULL,
//	    status      VARCHAR NOT NULL,
//	    created_at  TIMESTAMP NOT NULL,
//	    updated_at  TIMESTAMP NOT NULL
//	);
//
//	CREATE TABLE stripe_payment_methods (
//	    id          VARCHAR NOT NULL UNIQUE,
//	    customer_id VARCHAR NOT NULL,
//	    type        VARCHAR NOT NULL,
//	    info        JSON NOT NULL,
//	    is_default  BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at  TIMESTAMP NOT NULL
//	);
//
//	CREATE TABLE stripe_subscriptions (
//	    id          VARCHAR NOT NULL UNIQUE,
//	    customer_id VARCHAR NOT NULL,
//	    status      VARCHAR NOT NULL,
//	    started_at  TIMESTAMP NOT NULL,
//	    ends_at     TIMESTAMP NULL
//	);
//
// A subscription's ends_at is set when it is pending cancellation at the end
// of the current period, and NULL otherwise. A payment method's is_default
// follows the default payment method in the customer's invoice settings.
type PSQL struct {
	*sql.DB
}

var (
	_ Store = (*PSQL)(nil)

	customerTable      = "stripe_customers"
	eventTable         = "stripe_events"
	invoiceTable       = "stripe_invoices"
	paymentMethodTable = "stripe_payment_methods"
	subscriptionTable  = "stripe_subscriptions"
)

func paymentMethodInfo(pm *PaymentMethod) map[string]interface{} {
	switch pm.Type {
	case PaymentMethodTypeAUBECSDebit:
		return map[string]interface{}{
			"bsb_number": pm.AUBECSDebit.BSBNumber,
			"last4":      pm.AUBECSDebit.Last4,
		}
	case PaymentMethodTypeBACSDebit:
		return map[string]interface{}{
			"last4":     pm.BACSDebit.Last4,
			"sort_code": pm.BACSDebit.SortCode,
		}
	case PaymentMethodTypeCard:
		return map[string]interface{}{
			"brand":     string(pm.Card.Brand),
			"exp_month": pm.Card.ExpMonth,
			"exp_year":  pm.Card.ExpYear,
			"last4":     pm.Card.Last4,
		}
	case PaymentMethodTypeFPX:
		return map[string]interface{}{
			"bank": pm.FPX.Bank,
		}
	case PaymentMethodTypeIdeal:
		return map[string]interface{}{
			"bank": pm.Ideal.Bank,
			"bic":  pm.Ideal.Bic,
		}
	case PaymentMethodTypeP24:
		return map[string]interface{}{
			"bank": pm.P24.Bank,
		}
	case PaymentMethodTypeSepaDebit:
		return map[string]interface{}{
			"bank_code":   pm.SepaDebit.BankCode,
			"branch_code": pm.SepaDebit.BranchCode,
			"country":     pm.SepaDebit.Country,
			"last4":       pm.SepaDebit.Last4,
		}
	default:
		return nil
	}
}

func unmarshalPaymentMethodInfo(info []byte, pm *PaymentMethod) error {
	var err error

	switch pm.Type {
	case PaymentMethodTypeAUBECSDebit:
		err = json.Unmarshal(info, &pm.AUBECSDebit)
	case PaymentMethodTypeBACSDebit:
		err = json.Unmarshal(info, &pm.BACSDebit)
	case PaymentMethodTypeCard:
		err = json.Unmarshal(info, &pm.Card)
	case PaymentMethodTypeFPX:
		err = json.Unmarshal(info, &pm.FPX)
	case PaymentMethodTypeIdeal:
		err = json.Unmarshal(info, &pm.Ideal)
	case PaymentMethodTypeP24:
		err = json.Unmarshal(info, &pm.P24)
	case PaymentMethodTypeSepaDebit:
		err = json.Unmarshal(info, &pm.SepaDebit)
	}
	return err
}

func (p PSQL) getPaymentMethods(ctx context.Context, opts ...query.Option) ([]*PaymentMethod, error) {
	opts = append([]query.Option{
		query.From(paymentMethodTable),
	}, opts...)

	q := query.Select(query.Columns("*"), opts...)

	rows, err := p.QueryContext(ctx, q.Build(), q.Args()...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	pms := make([]*PaymentMethod, 0)

	for rows.Next() {
		pm := &PaymentMethod{
			Customer: &Customer{},
		}

		var (
			info      []byte
			isDefault bool
			created   time.Time
		)

		if err := rows.Scan(&pm.ID, &pm.Customer.ID, &pm.Type, &info, &isDefault, &created); err != nil {
			return nil, err
		}

		pm.Created = created.Unix()

		if err := unmarshalPaymentMethodInfo(info, pm); err != nil {
			return nil, err
		}
		pms = append(pms, pm)
	}
	return pms, rows.Err()
}

// LookupCustomer will lookup the Customer by the given email in the
// stripe_customers table and return them along with whether or not the
// Customer could be found.
func (p PSQL) LookupCustomer(ctx context.Context, email string) (*Customer, bool, error) {
	q := query.Select(
		query.Columns("*"),
		query.From(customerTable),
		query.Where("email", "=", query.Arg(email)),
	)

	c := &Customer{}

	var created time.Time

	if err := p.QueryRowContext(ctx, q.Build(), q.Args()...).Scan(&c.ID, &c.Email, &c.Name, &created); err != nil {
		if err != sql.ErrNoRows {
			return nil, false, err
		}
		return nil, false, nil
	}

	c.Created = created.Unix()
	return c, true, nil
}

// LookupInvoice will lookup the Invoice for the given Customer by the given
// invoice number in the stripe_invoices table and return it along with
// whether or not the Invoice could be found.
func (p PSQL) LookupInvoice(ctx context.Context, c *Customer, number string) (*Invoice, bool, error) {
	q := query.Select(
		query.Columns("*"),
		query.From(invoiceTable),
		query.Where("customer_id", "=", query.Arg(c.ID)),
		query.Where("number", "=", query.Arg(number)),
	)

	i := &Invoice{
		Customer: &Customer{},
	}

	var created, updated time.Time

	row := p.QueryRowContext(ctx, q.Build(), q.Args()...)

	err := row.Scan(&i.ID, &i.Customer.ID, &i.Number, &i.AmountDue, &i.Status, &created, &updated)

	if err != nil {
		if err != sql.ErrNoRows {
			return nil, false, err
		}
		return nil, false, nil
	}

	i.Created = created.Unix()
	return i, true, nil
}

// LogEvent will store the given event ID in the stripe_events table. If the
// given event ID was stored once before, then ErrEventExists is returned.
func (p PSQL) LogEvent(ctx context.Context, id string) error {
	q := query.Select(
		query.Count("id"),
		query.From(eventTable),
		query.Where("id", "=", query.Arg(id)),
	)

	var count int64

	if err := p.QueryRowContext(ctx, q.Build(), q.Args()...).Scan(&count); err != nil {
		return err
	}

	if count > 0 {
		return ErrEventExists
	}

	q = query.Insert(eventTable, query.Columns("id"), query.Values(id))

	_, err := p.ExecContext(ctx, q.Build(), q.Args()...)
	return err
}

// Subscription will get the newest Subscription for the given Customer from
// the stripe_subscriptions table and return it along with whether or not the
// Subscription could be found.
func (p PSQL) Subscription(ctx context.Context, c *Customer) (*Subscription, bool, error) {
	q := query.Select(
		query.Columns("*"),
		query.From(subscriptionTable),
		query.Where("customer_id", "=", query.Arg(c.ID)),
		query.OrderDesc("started_at"),
	)

	sub := &Subscription{
		Customer: &Customer{},
	}

	var (
		startedAt time.Time
		endsAt    sql.NullTime
	)

	row := p.QueryRowContext(ctx, q.Build(), q.Args()...)

	if err := row.Scan(&sub.ID, &sub.Customer.ID, &sub.Status, &startedAt, &endsAt); err != nil {
		if err != sql.ErrNoRows {
			return nil, false, err
		}
		return nil, false, nil
	}

	sub.StartDate = startedAt.Unix()

	if endsAt.Valid {
		sub.CancelAtPeriodEnd = true
		sub.CurrentPeriodEnd = endsAt.Time.Unix()
	}
	return sub, true, nil
}

// DefaultPaymentMethod will get the default PaymentMethod for the given
// Customer from the stripe_payment_methods table along with whether or not
// the PaymentMethod could be found.
func (p PSQL) DefaultPaymentMethod(ctx context.Context, c *Customer) (*PaymentMethod, bool, error) {
	q := query.Select(
		query.Columns("*"),
		query.From(paymentMethodTable),
		query.Where("customer_id", "=", query.Arg(c.ID)),
		query.Where("is_default", "=", query.Arg(true)),
	)

	pm := &PaymentMethod{
		Customer: &Customer{},
	}

	var (
		info      []byte
		isDefault bool
		created   time.Time
	)

	row := p.QueryRowContext(ctx, q.Build(), q.Args()...)

	if err := row.Scan(&pm.ID, &pm.Customer.ID, &pm.Type, &info, &isDefault, &created); err != nil {
		if err != sql.ErrNoRows {
			return nil, false, err
		}
		return nil, false, nil
	}

	pm.Created = created.Unix()

	if err := unmarshalPaymentMethodInfo(info, pm); err != nil {
		return nil, false, err
	}
	return pm, true, nil
}

// Invoices returns all of the Invoices for the given Customer from the
// stripe_invoices table, sorted from newest to oldest.
func (p PSQL) Invoices(ctx context.Context, c *Customer) ([]*Invoice, error) {
	q := query.Select(
		query.Columns("*"),
		query.From(invoiceTable),
		query.Where("customer_id", "=", query.Arg(c.ID)),
		query.OrderDesc("created_at"),
	)

	rows, err := p.QueryContext(ctx, q.Build(), q.Args()...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	invs := make([]*Invoice, 0)

	for rows.Next() {
		var created, updated time.Time

		inv := &Invoice{
			Customer: &Customer{},
		}

		err := rows.Scan(
			&inv.ID,
			&inv.Customer.ID,
			&inv.Number,
			&inv.AmountDue,
			&inv.Status,
			&created,
			&updated,
		)

		if err != nil {
			return nil, err
		}

		inv.Created = created.Unix()
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// PaymentMethods returns all of the PaymentMethods for the given Customer
// from the stripe_payment_methods table, sorted from newest to oldest.
func (p PSQL) PaymentMethods(ctx context.Context, c *Customer) ([]*PaymentMethod, error) {
	return p.getPaymentMethods(ctx,
		query.Where("customer_id", "=", query.Arg(c.ID)),
		query.OrderDesc("created_at"),
	)
}

// setDefaultPaymentMethod makes the payment method with the given id the
// only default one of the given customer.
func (p PSQL) setDefaultPaymentMethod(ctx context.Context, customerID, pmID string) error {
	q := query.Update(
		paymentMethodTable,
		query.Set("is_default", query.Arg(false)),
		query.Where("customer_id", "=", query.Arg(customerID)),
	)

	if _, err := p.ExecContext(ctx, q.Build(), q.Args()...); err != nil {
		return err
	}

	q = query.Update(
		paymentMethodTable,
		query.Set("is_default", query.Arg(true)),
		query.Where("id", "=", query.Arg(pmID)),
	)

	_, err := p.ExecContext(ctx, q.Build(), q.Args()...)
	return err
}

func (p PSQL) putCustomer(ctx context.Context, c *Customer) error {
	_, ok, err := p.LookupCustomer(ctx, c.Email)

	if err != nil {
		return err
	}

	if ok {
		q := query.Update(
			customerTable,
			query.Set("email", query.Arg(c.Email)),
			query.Set("name", query.Arg(c.Name)),
			query.Where("id", "=", query.Arg(c.ID)),
		)

		if _, err := p.ExecContext(ctx, q.Build(), q.Args()...); err != nil {
			return err
		}
	} else {
		q := query.Insert(
			customerTable,
			query.Columns("id", "email", "name", "created_at"),
			query.Values(c.ID, c.Email, c.Name, time.Unix(c.Created, 0)),
		)

		if _, err := p.ExecContext(ctx, q.Build(), q.Args()...); err != nil {
			return err
		}
	}

	if c.InvoiceSettings != nil && c.InvoiceSettings.DefaultPaymentMethod != nil {
		return p.setDefaultPaymentMethod(ctx, c.ID, c.InvoiceSettings.DefaultPaymentMethod.ID)
	}
	return nil
}

func (p PSQL) putInvoice(ctx context.Context, i *Invoice) error {
	q := query.Select(
		query.Columns("id"),
		query.From(invoiceTable),
		query.Where("id", "=", query.Arg(i.ID)),
	)

	var id string

	if err := p.QueryRowContext(ctx, q.Build(), q.Args()...).Scan(&id); err != nil {
		if err != sql.ErrNoRows {
			return err
		}
	}

	if id == "" {
		created := time.Unix(i.Created, 0)

		q = query.Insert(
			invoiceTable,
			query.Columns("id", "customer_id", "number", "amount", "status", "created_at", "updated_at"),
			query.Values(i.ID, i.Customer.ID, i.Number, i.AmountDue, i.Status, created, created),
		)

		_, err := p.ExecContext(ctx, q.Build(), q.Args()...)
		return err
	}

	q = query.Update(
		invoiceTable,
		query.Set("status", query.Arg(i.Status)),
		query.Set("updated_at", query.Arg(time.Now())),
		query.Where("id", "=", query.Arg(i.ID)),
	)

	_, err := p.ExecContext(ctx, q.Build(), q.Args()...)
	return err
}

func (p PSQL) putPaymentMethod(ctx context.Context, pm *PaymentMethod) error {
	isDefault := false

	if pm.Customer != nil && pm.Customer.InvoiceSettings != nil {
		if d := pm.Customer.InvoiceSettings.DefaultPaymentMethod; d != nil {
			isDefault = d.ID == pm.ID
		}
	}

	if isDefault {
		q := query.Update(
			paymentMethodTable,
			query.Set("is_default", query.Arg(false)),
			query.Where("customer_id", "=", query.Arg(pm.Customer.ID)),
		)

		if _, err := p.ExecContext(ctx, q.Build(), q.Args()...); err != nil {
			return err
		}
	}

	q := query.Select(
		query.Columns("id"),
		query.From(paymentMethodTable),
		query.Where("id", "=", query.Arg(pm.ID)),
	)

	var id string

	if err := p.QueryRowContext(ctx, q.Build(), q.Args()...).Scan(&id); err != nil {
		if err != sql.ErrNoRows {
			return err
		}
	}

	if id == "" {
		info, err := json.Marshal(paymentMethodInfo(pm))

		if err != nil {
			return err
		}

		q = query.Insert(
			paymentMethodTable,
			query.Columns("id", "customer_id", "type", "info", "is_default", "created_at"),
			query.Values(pm.ID, pm.Customer.ID, pm.Type, info, isDefault, time.Unix(pm.Created, 0)),
		)

		_, err = p.ExecContext(ctx, q.Build(), q.Args()...)
		return err
	}
	return nil
}

func (p PSQL) putSubscription(ctx context.Context, s *Subscription) error {
	var endsAt sql.NullTime

	if s.CancelAtPeriodEnd {
		endsAt = sql.NullTime{
			Time:  time.Unix(s.CurrentPeriodEnd, 0),
			Valid: true,
		}
	}

	q := query.Select(
		query.Columns("id"),
		query.From(subscriptionTable),
		query.Where("id", "=", query.Arg(s.ID)),
	)

	var id string

	if err := p.QueryRowContext(ctx, q.Build(), q.Args()...).Scan(&id); err != nil {
		if err != sql.ErrNoRows {
			return err
		}
	}

	if id == "" {
		q = query.Insert(
			subscriptionTable,
			query.Columns("id", "customer_id", "status", "started_at", "ends_at"),
			query.Values(s.ID, s.Customer.ID, s.Status, time.Unix(s.StartDate, 0), endsAt),
		)

		_, err := p.ExecContext(ctx, q.Build(), q.Args()...)
		return err
	}

	q = query.Update(
		subscriptionTable,
		query.Set("status", query.Arg(s.Status)),
		query.Set("ends_at", query.Arg(endsAt)),
		query.Where("id", "=", query.Arg(s.ID)),
	)

	_, err := p.ExecContext(ctx, q.Build(), q.Args()...)
	return err
}

// Put will put the given Resource into the PostgreSQL database. If the given
// Resource already exists then it will be updated in the respective table.
func (p PSQL) Put(ctx context.Context, r Resource) error {
	switch v := r.(type) {
	case *Customer:
		return p.putCustomer(ctx, v)
	case *Invoice:
		return p.putInvoice(ctx, v)
	case *PaymentMethod:
		return p.putPaymentMethod(ctx, v)
	case *Subscription:
		return p.putSubscription(ctx, v)
	default:
		return ErrUnknownResource
	}
}

// Remove will remove the given Resource from the PostgreSQL database. If the
// given Resource cannot be found then this returns nil.
func (p PSQL) Remove(ctx context.Context, r Resource) error {
	var id, table string

	switch v := r.(type) {
	case *Customer:
		id = v.ID
		table = customerTable
	case *Invoice:
		id = v.ID
		table = invoiceTable
	case *PaymentMethod:
		id = v.ID
		table = paymentMethodTable
	case *Subscription:
		id = v.ID
		table = subscriptionTable
	default:
		return nil
	}

	q := query.Delete(table, query.Where("id", "=", query.Arg(id)))

	_, err := p.ExecContext(ctx, q.Build(), q.Args()...)
	return err
}
