package stripe

import (
	"context"
)

// TestStore is an in-memory Store for tests.
type TestStore struct {
	customers      map[string]*Customer
	invoices       map[string][]*Invoice
	paymentMethods map[string][]*PaymentMethod
	subscriptions  map[string]*Subscription
	defaults       map[string]string
	events         map[string]struct{}
}

var _ Store = (*TestStore)(nil)

func newTestStore() TestStore {
	return TestStore{
		customers:      make(map[string]*Customer),
		invoices:       make(map[string][]*Invoice),
		paymentMethods: make(map[string][]*PaymentMethod),
		subscriptions:  make(map[string]*Subscription),
		defaults:       make(map[string]string),
		events:         make(map[string]struct{}),
	}
}

func (s TestStore) LookupCustomer(_ context.Context, email string) (*Customer, bool, error) {
	c, ok := s.customers[email]
	return c, ok, nil
}

func (s TestStore) LookupInvoice(_ context.Context, c *Customer, number string) (*Invoice, bool, error) {
	invs := s.invoices[c.ID]

	for _, inv := range invs {
		if inv.Number == number {
			return inv, true, nil
		}
	}
	return nil, false, nil
}

func (s TestStore) LogEvent(_ context.Context, id string) error {
	if _, ok := s.events[id]; ok {
		return ErrEventExists
	}

	s.events[id] = struct{}{}
	return nil
}

func (s TestStore) Subscription(_ context.Context, c *Customer) (*Subscription, bool, error) {
	sub, ok := s.subscriptions[c.ID]
	return sub, ok, nil
}

func (s TestStore) DefaultPaymentMethod(_ context.Context, c *Customer) (*PaymentMethod, bool, error) {
	for _, pm := range s.paymentMethods[c.ID] {
		if pm.ID == s.defaults[c.ID] {
			return pm, true, nil
		}
	}
	return nil, false, nil
}

func (s TestStore) PaymentMethods(_ context.Context, c *Customer) ([]*PaymentMethod, error) {
	return s.paymentMethods[c.ID], nil
}

func (s TestStore) Invoices(_ context.Context, c *Customer) ([]*Invoice, error) {
	return s.invoices[c.ID], nil
}

func (s TestStore) Put(_ context.Context, r Resource) error {
	switch v := r.(type) {
	case *Customer:
		s.customers[v.Email] = v

		if v.InvoiceSettings != nil && v.InvoiceSettings.DefaultPaymentMethod != nil {
			s.defaults[v.ID] = v.InvoiceSettings.DefaultPaymentMethod.ID
		}
	case *Invoice:
		s.invoices[v.Customer.ID] = append(s.invoices[v.Customer.ID], v)
	case *Subscription:
		s.subscriptions[v.Customer.ID] = v
	case *PaymentMethod:
		s.paymentMethods[v.Customer.ID] = append(s.paymentMethods[v.Customer.ID], v)
	}
	return nil
}

func (s TestStore) Remove(_ context.Context, r Resource) error {
	switch v := r.(type) {
	case *Customer:
		delete(s.customers, v.Email)
	case *Subscription:
		delete(s.subscriptions, v.Customer.ID)
	case *Invoice:
		invs := s.invoices[v.Customer.ID]

		for i, inv := range invs {
			if inv.ID == v.ID {
				s.invoices[v.Customer.ID] = append(invs[:i], invs[i+1:]...)
				break
			}
		}
	case *PaymentMethod:
		pms := s.paymentMethods[v.Customer.ID]

		for i, pm := range pms {
			if pm.ID == v.ID {
				s.paymentMethods[v.Customer.ID] = append(pms[:i], pms[i+1:]...)
				break
			}
		}
	}
	return nil
}
