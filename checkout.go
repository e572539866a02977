package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// CheckoutSession is a Stripe-hosted payment page a customer is sent to,
// for one-off payments or for starting a Subscription.
type CheckoutSession struct {
	ID                       string              `json:"id"`
	Object                   string              `json:"object"`
	AmountSubtotal           int64               `json:"amount_subtotal"`
	AmountTotal              int64               `json:"amount_total"`
	BillingAddressCollection string              `json:"billing_address_collection"`
	CancelURL                string              `json:"cancel_url"`
	ClientReferenceID        string              `json:"client_reference_id"`
	Currency                 Currency            `json:"currency"`
	Customer                 *Customer           `json:"customer"`
	CustomerEmail            string              `json:"customer_email"`
	Livemode                 bool                `json:"livemode"`
	Locale                   string              `json:"locale"`
	Metadata                 Metadata            `json:"metadata"`
	Mode                     CheckoutSessionMode `json:"mode"`
	PaymentIntent            *PaymentIntent      `json:"payment_intent"`
	PaymentMethodTypes       []string            `json:"payment_method_types"`
	PaymentStatus            string              `json:"payment_status"`
	SubmitType               string              `json:"submit_type"`
	Subscription             *Subscription       `json:"subscription"`
	SuccessURL               string              `json:"success_url"`
}

// CheckoutSessionMode is what a CheckoutSession sets up. The set is open.
type CheckoutSessionMode string

const (
	CheckoutSessionModePayment      CheckoutSessionMode = "payment"
	CheckoutSessionModeSetup        CheckoutSessionMode = "setup"
	CheckoutSessionModeSubscription CheckoutSessionMode = "subscription"
)

var (
	_ Resource = (*CheckoutSession)(nil)

	checkoutSessionEndpoint = "/v1/checkout/sessions"
)

// CheckoutSessionLineItemParams describes one line of what a CheckoutSession
// collects payment for. Amount, Currency, Name, and Quantity are required.
type CheckoutSessionLineItemParams struct {
	Amount      int64    `form:"amount" validate:"required,gt=0"`
	Currency    Currency `form:"currency" validate:"required"`
	Name        string   `form:"name" validate:"required"`
	Quantity    int64    `form:"quantity" validate:"required,gt=0"`
	Description *string  `form:"description"`
	Images      []string `form:"images"`
}

// CreateCheckoutSessionParams are the parameters for creating a
// CheckoutSession. CancelURL, SuccessURL, and at least one payment method
// type are required. Set either Customer or CustomerEmail to prefill who is
// paying, never both.
type CreateCheckoutSessionParams struct {
	Params

	CancelURL                string                           `form:"cancel_url" validate:"required"`
	PaymentMethodTypes       []string                         `form:"payment_method_types" validate:"required,min=1"`
	SuccessURL               string                           `form:"success_url" validate:"required"`
	BillingAddressCollection *string                          `form:"billing_address_collection"`
	ClientReferenceID        *string                          `form:"client_reference_id"`
	Customer                 *string                          `form:"customer" validate:"excluded_with=CustomerEmail"`
	CustomerEmail            *string                          `form:"customer_email" validate:"omitempty,email"`
	LineItems                []*CheckoutSessionLineItemParams `form:"line_items" validate:"omitempty,min=1,dive,required"`
	Locale                   *string                          `form:"locale"`
	Mode                     *string                          `form:"mode"`
	SubmitType               *string                          `form:"submit_type"`
}

// NewCreateCheckoutSessionParams returns CreateCheckoutSessionParams with
// the parameters the API requires set.
func NewCreateCheckoutSessionParams(cancelURL, successURL string, paymentMethodTypes ...string) *CreateCheckoutSessionParams {
	return &CreateCheckoutSessionParams{
		CancelURL:          cancelURL,
		PaymentMethodTypes: paymentMethodTypes,
		SuccessURL:         successURL,
	}
}

// CreateCheckoutSession will create a new CheckoutSession in Stripe with the
// given parameters and return it.
func (c *Client) CreateCheckoutSession(ctx context.Context, params *CreateCheckoutSessionParams) (*CheckoutSession, error) {
	cs := &CheckoutSession{}

	if err := c.call(ctx, "POST", checkoutSessionEndpoint, params, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// GetCheckoutSession will get the CheckoutSession with the given id from
// Stripe.
func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	cs := &CheckoutSession{ID: id}

	if err := cs.Load(ctx, c); err != nil {
		return nil, err
	}
	return cs, nil
}

// ObjectID implements the Object interface.
func (cs *CheckoutSession) ObjectID() string { return cs.ID }

// Endpoint implements the Resource interface.
func (cs *CheckoutSession) Endpoint(uris ...string) string {
	endpoint := checkoutSessionEndpoint

	if cs.ID != "" {
		endpoint += "/" + cs.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (cs *CheckoutSession) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", cs.Endpoint(), nil, cs)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (cs *CheckoutSession) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*cs = CheckoutSession{ID: id}
		return nil
	}

	type checkoutSession CheckoutSession

	var cs1 checkoutSession

	if err := json.Unmarshal(data, &cs1); err != nil {
		return err
	}

	*cs = CheckoutSession(cs1)
	return nil
}
