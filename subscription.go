package stripe

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Subscription charges a customer on a recurring schedule, built from the
// prices of its items.
type Subscription struct {
	ID                   string                   `json:"id"`
	Object               string                   `json:"object"`
	CancelAt             int64                    `json:"cancel_at"`
	CancelAtPeriodEnd    bool                     `json:"cancel_at_period_end"`
	CanceledAt           int64                    `json:"canceled_at"`
	CollectionMethod     string                   `json:"collection_method"`
	Created              int64                    `json:"created"`
	CurrentPeriodEnd     int64                    `json:"current_period_end"`
	CurrentPeriodStart   int64                    `json:"current_period_start"`
	Customer             *Customer                `json:"customer"`
	DaysUntilDue         int64                    `json:"days_until_due"`
	DefaultPaymentMethod *PaymentMethod           `json:"default_payment_method"`
	EndedAt              int64                    `json:"ended_at"`
	Items                *List[*SubscriptionItem] `json:"items"`
	LatestInvoice        *Invoice                 `json:"latest_invoice"`
	Livemode             bool                     `json:"livemode"`
	Metadata             Metadata                 `json:"metadata"`
	StartDate            int64                    `json:"start_date"`
	Status               SubscriptionStatus       `json:"status"`
	TrialEnd             int64                    `json:"trial_end"`
	TrialStart           int64                    `json:"trial_start"`
}

// SubscriptionStatus is where a Subscription is in its lifecycle. The set is
// open.
type SubscriptionStatus string

const (
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
)

// SubscriptionItem ties one Price, and a quantity of it, to a Subscription.
type SubscriptionItem struct {
	ID           string   `json:"id"`
	Object       string   `json:"object"`
	Created      int64    `json:"created"`
	Metadata     Metadata `json:"metadata"`
	Price        *Price   `json:"price"`
	Quantity     int64    `json:"quantity"`
	Subscription string   `json:"subscription"`
}

// ObjectID implements the Object interface.
func (si *SubscriptionItem) ObjectID() string { return si.ID }

var (
	_ Resource = (*Subscription)(nil)

	subscriptionEndpoint = "/v1/subscriptions"

	validSubscriptionStatuses = map[SubscriptionStatus]struct{}{
		SubscriptionStatusActive:   {},
		SubscriptionStatusTrialing: {},
	}
)

// SubscriptionItemsParams describes one item of a Subscription being created
// or updated.
type SubscriptionItemsParams struct {
	ID       *string  `form:"id"`
	Deleted  *bool    `form:"deleted"`
	Metadata Metadata `form:"metadata"`
	Price    *string  `form:"price"`
	Quantity *int64   `form:"quantity"`
	TaxRates []string `form:"tax_rates"`
}

// CreateSubscriptionParams are the parameters for creating a Subscription.
// Customer and at least one item are required.
type CreateSubscriptionParams struct {
	Params

	Customer             string                     `form:"customer" validate:"required"`
	Items                []*SubscriptionItemsParams `form:"items" validate:"required,min=1,dive,required"`
	CancelAtPeriodEnd    *bool                      `form:"cancel_at_period_end"`
	CollectionMethod     *string                    `form:"collection_method"`
	DaysUntilDue         *int64                     `form:"days_until_due"`
	DefaultPaymentMethod *string                    `form:"default_payment_method"`
	DefaultTaxRates      []string                   `form:"default_tax_rates"`
	Metadata             Metadata                   `form:"metadata"`
	ProrationBehavior    *string                    `form:"proration_behavior"`
	TrialEnd             *int64                     `form:"trial_end"`
	TrialPeriodDays      *int64                     `form:"trial_period_days"`
}

// NewCreateSubscriptionParams returns CreateSubscriptionParams with the
// parameters the API requires set.
func NewCreateSubscriptionParams(customer string, items ...*SubscriptionItemsParams) *CreateSubscriptionParams {
	return &CreateSubscriptionParams{
		Customer: customer,
		Items:    items,
	}
}

// UpdateSubscriptionParams are the parameters for updating a Subscription.
// Only the fields that are set are sent. Setting CancelAtPeriodEnd to true
// schedules the cancellation for the end of the current period, setting it
// back to false reactivates a pending cancellation.
type UpdateSubscriptionParams struct {
	Params

	CancelAtPeriodEnd    *bool                      `form:"cancel_at_period_end"`
	CollectionMethod     *string                    `form:"collection_method"`
	DaysUntilDue         *int64                     `form:"days_until_due"`
	DefaultPaymentMethod *string                    `form:"default_payment_method"`
	DefaultTaxRates      []string                   `form:"default_tax_rates"`
	Items                []*SubscriptionItemsParams `form:"items"`
	Metadata             Metadata                   `form:"metadata"`
	ProrationBehavior    *string                    `form:"proration_behavior"`
	TrialEnd             *int64                     `form:"trial_end"`
}

// CancelSubscriptionParams are the parameters for canceling a Subscription
// immediately. All of them are optional.
type CancelSubscriptionParams struct {
	Params

	InvoiceNow *bool `form:"invoice_now"`
	Prorate    *bool `form:"prorate"`
}

// ListSubscriptionsParams are the parameters for listing Subscriptions. The
// API only returns subscriptions with a status of canceled when asked for
// them explicitly, or with Status set to "all".
type ListSubscriptionsParams struct {
	ListParams

	Created      *int64            `form:"created"`
	CreatedRange *RangeQueryParams `form:"created"`
	Customer     *string           `form:"customer"`
	Price        *string           `form:"price"`
	Status       *string           `form:"status"`
}

// CreateSubscription will create a new Subscription in Stripe with the given
// parameters and return it.
func (c *Client) CreateSubscription(ctx context.Context, params *CreateSubscriptionParams) (*Subscription, error) {
	sub := &Subscription{}

	if err := c.call(ctx, "POST", subscriptionEndpoint, params, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubscription will get the Subscription with the given id from Stripe.
func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	sub := &Subscription{ID: id}

	if err := sub.Load(ctx, c); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubscription will update the Subscription with the given id in
// Stripe and return it.
func (c *Client) UpdateSubscription(ctx context.Context, id string, params *UpdateSubscriptionParams) (*Subscription, error) {
	sub := &Subscription{ID: id}

	if err := c.call(ctx, "POST", sub.Endpoint(), params, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelSubscription will cancel the Subscription with the given id
// immediately. To cancel at the end of the current period instead, use
// UpdateSubscription with CancelAtPeriodEnd set to true.
func (c *Client) CancelSubscription(ctx context.Context, id string, params *CancelSubscriptionParams) (*Subscription, error) {
	sub := &Subscription{ID: id}

	if err := c.call(ctx, "DELETE", sub.Endpoint(), params, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubscriptions will list the Subscriptions matching the given
// parameters. The params can be nil to list everything but canceled
// subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context, params *ListSubscriptionsParams) (*List[*Subscription], error) {
	l := &List[*Subscription]{}

	if err := c.call(ctx, "GET", subscriptionEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Valid will return whether or not the current Subscription still entitles
// the customer to whatever it is they subscribed to. A Subscription is
// considered valid if its status is active or trialing, or if it is pending
// cancellation at a period end that has not passed yet.
func (s *Subscription) Valid() bool {
	if s == nil {
		return false
	}

	if s.CancelAtPeriodEnd {
		return time.Now().Before(time.Unix(s.CurrentPeriodEnd, 0))
	}

	_, ok := validSubscriptionStatuses[s.Status]
	return ok
}

// WithinGrace will return true if the current Subscription has been canceled
// but still lies within the grace period, that is, the period the customer
// already paid for.
func (s *Subscription) WithinGrace() bool {
	if s == nil {
		return false
	}

	if !s.CancelAtPeriodEnd {
		return false
	}
	return time.Now().Before(time.Unix(s.CurrentPeriodEnd, 0))
}

// ObjectID implements the Object interface.
func (s *Subscription) ObjectID() string { return s.ID }

// Endpoint implements the Resource interface.
func (s *Subscription) Endpoint(uris ...string) string {
	endpoint := subscriptionEndpoint

	if s.ID != "" {
		endpoint += "/" + s.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (s *Subscription) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", s.Endpoint(), nil, s)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (s *Subscription) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*s = Subscription{ID: id}
		return nil
	}

	type subscription Subscription

	var s1 subscription

	if err := json.Unmarshal(data, &s1); err != nil {
		return err
	}

	*s = Subscription(s1)
	return nil
}
