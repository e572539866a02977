package stripe

import (
	"context"
	"errors"
)

// Store provides an interface for storing and retrieving resources that have
// been received from the Stripe API in an underlying data store such as a
// database. A Store is what lets an application answer questions like "does
// this customer have a live subscription" without a round-trip to Stripe,
// and what lets a WebhookHandler spot a redelivered event.
type Store interface {
	// LookupCustomer will lookup the customer by the given email from within
	// the underlying data store. Whether or not the customer could be found
	// is denoted by the returned bool value.
	LookupCustomer(ctx context.Context, email string) (*Customer, bool, error)

	// LookupInvoice will lookup the invoice for the given customer by the
	// given invoice number. Whether or not the invoice could be found is
	// denoted by the returned bool value.
	LookupInvoice(ctx context.Context, c *Customer, number string) (*Invoice, bool, error)

	// LogEvent will store the given event ID in the underlying store. If the
	// given event ID already exists, then this should return ErrEventExists.
	LogEvent(ctx context.Context, id string) error

	// Subscription returns the subscription for the given Customer. Whether
	// or not the Customer has a subscription will be denoted by the returned
	// bool value.
	Subscription(ctx context.Context, c *Customer) (*Subscription, bool, error)

	// DefaultPaymentMethod returns the default payment method for the given
	// Customer. Whether or not the Customer has a default payment method is
	// denoted by the returned bool value.
	DefaultPaymentMethod(ctx context.Context, c *Customer) (*PaymentMethod, bool, error)

	// Invoices returns all of the invoices for the given customer. The
	// returned invoices should be sorted from newest to oldest.
	Invoices(ctx context.Context, c *Customer) ([]*Invoice, error)

	// PaymentMethods returns all of the payment methods that have been
	// attached to the given Customer.
	PaymentMethods(ctx context.Context, c *Customer) ([]*PaymentMethod, error)

	// Put will put the given Resource into the underlying data store. If the
	// given Resource already exists in the data store, then that should
	// simply be updated. If the given Resource is the PaymentMethod resource,
	// then a check should be done to ensure that only one PaymentMethod for a
	// Customer is the default PaymentMethod.
	Put(ctx context.Context, r Resource) error

	// Remove will remove the given Resource from the underlying data store.
	// If the given Resource cannot be found then this returns nil.
	Remove(ctx context.Context, r Resource) error
}

var (
	// ErrEventExists denotes when an event ID given to Store.LogEvent was
	// logged once before, that is, the delivery is a duplicate.
	ErrEventExists = errors.New("event exists")

	// ErrUnknownResource denotes when a Resource given to a Store is not one
	// of the types the Store knows how to hold.
	ErrUnknownResource = errors.New("unknown resource")
)
