package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Event records something happening in the Stripe account, such as a charge
// succeeding or a subscription being canceled. Events arrive over webhooks,
// and stay retrievable from the API for thirty days.
type Event struct {
	ID              string        `json:"id"`
	Object          string        `json:"object"`
	Account         string        `json:"account"`
	APIVersion      string        `json:"api_version"`
	Created         int64         `json:"created"`
	Data            *EventData    `json:"data"`
	Livemode        bool          `json:"livemode"`
	PendingWebhooks int64         `json:"pending_webhooks"`
	Request         *EventRequest `json:"request"`
	Type            EventType     `json:"type"`
}

// EventData carries the resource an Event happened to. The resource is kept
// raw, UnmarshalData decodes it into the matching type. For *.updated events
// PreviousAttributes holds the old values of whatever changed.
type EventData struct {
	Raw                json.RawMessage        `json:"object"`
	PreviousAttributes map[string]interface{} `json:"previous_attributes"`
}

// EventRequest identifies the API request that caused an Event, if one did.
type EventRequest struct {
	ID             string `json:"id"`
	IdempotencyKey string `json:"idempotency_key"`
}

// EventType names what happened to the resource of an Event, such as
// "charge.succeeded". Stripe adds event types over time, so the set is open,
// and unknown values decode fine.
type EventType string

const (
	EventTypeChargeFailed                EventType = "charge.failed"
	EventTypeChargeRefunded              EventType = "charge.refunded"
	EventTypeChargeSucceeded             EventType = "charge.succeeded"
	EventTypeCheckoutSessionCompleted    EventType = "checkout.session.completed"
	EventTypeCustomerCreated             EventType = "customer.created"
	EventTypeCustomerDeleted             EventType = "customer.deleted"
	EventTypeCustomerSubscriptionCreated EventType = "customer.subscription.created"
	EventTypeCustomerSubscriptionDeleted EventType = "customer.subscription.deleted"
	EventTypeCustomerSubscriptionUpdated EventType = "customer.subscription.updated"
	EventTypeCustomerUpdated             EventType = "customer.updated"
	EventTypeInvoiceCreated              EventType = "invoice.created"
	EventTypeInvoicePaid                 EventType = "invoice.paid"
	EventTypeInvoicePaymentFailed        EventType = "invoice.payment_failed"
	EventTypePaymentIntentPaymentFailed  EventType = "payment_intent.payment_failed"
	EventTypePaymentIntentSucceeded      EventType = "payment_intent.succeeded"
	EventTypePaymentMethodAttached       EventType = "payment_method.attached"
)

var (
	_ Resource = (*Event)(nil)

	eventEndpoint = "/v1/events"
)

// ListEventsParams are the parameters for listing Events. Set Type to match
// one event type exactly, or Types to match any of several.
type ListEventsParams struct {
	ListParams

	Created         *int64            `form:"created"`
	CreatedRange    *RangeQueryParams `form:"created"`
	DeliverySuccess *bool             `form:"delivery_success"`
	Type            *string           `form:"type"`
	Types           []string          `form:"types"`
}

// GetEvent will get the Event with the given id from Stripe.
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	e := &Event{ID: id}

	if err := e.Load(ctx, c); err != nil {
		return nil, err
	}
	return e, nil
}

// ListEvents will list the Events matching the given parameters, newest
// first. The params can be nil to list everything from the last thirty days.
func (c *Client) ListEvents(ctx context.Context, params *ListEventsParams) (*List[*Event], error) {
	l := &List[*Event]{}

	if err := c.call(ctx, "GET", eventEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// UnmarshalData decodes the resource the Event happened to into v, which
// should be a pointer to the resource type named by the Event's Type, such
// as *Charge for "charge.succeeded".
func (e *Event) UnmarshalData(v interface{}) error {
	if e.Data == nil || e.Data.Raw == nil {
		return errors.New("event has no data")
	}
	return json.Unmarshal(e.Data.Raw, v)
}

// ObjectID implements the Object interface.
func (e *Event) ObjectID() string { return e.ID }

// Endpoint implements the Resource interface.
func (e *Event) Endpoint(uris ...string) string {
	endpoint := eventEndpoint

	if e.ID != "" {
		endpoint += "/" + e.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (e *Event) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", e.Endpoint(), nil, e)
}
