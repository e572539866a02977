package stripe

import "context"

// BillingPortalSession is a short-lived session of the Stripe-hosted billing
// portal, where a customer manages their own subscriptions and payment
// details. Sessions are made on demand when the customer wants in, and
// expire if the URL goes unvisited.
type BillingPortalSession struct {
	ID            string    `json:"id"`
	Object        string    `json:"object"`
	Configuration string    `json:"configuration"`
	Created       int64     `json:"created"`
	Customer      *Customer `json:"customer"`
	Livemode      bool      `json:"livemode"`
	ReturnURL     string    `json:"return_url"`
	URL           string    `json:"url"`
}

var billingPortalSessionEndpoint = "/v1/billing_portal/sessions"

// CreateBillingPortalSessionParams are the parameters for creating a
// BillingPortalSession. Customer is required. ReturnURL is required too if
// the portal configuration has no default of its own.
type CreateBillingPortalSessionParams struct {
	Params

	Customer      string  `form:"customer" validate:"required"`
	Configuration *string `form:"configuration"`
	ReturnURL     *string `form:"return_url"`
}

// NewCreateBillingPortalSessionParams returns
// CreateBillingPortalSessionParams with the parameters the API requires set.
func NewCreateBillingPortalSessionParams(customer string) *CreateBillingPortalSessionParams {
	return &CreateBillingPortalSessionParams{
		Customer: customer,
	}
}

// CreateBillingPortalSession will create a new BillingPortalSession in
// Stripe for the customer set in the given parameters. Sessions cannot be
// retrieved again afterwards, the returned URL is all there is.
func (c *Client) CreateBillingPortalSession(ctx context.Context, params *CreateBillingPortalSessionParams) (*BillingPortalSession, error) {
	s := &BillingPortalSession{}

	if err := c.call(ctx, "POST", billingPortalSessionEndpoint, params, s); err != nil {
		return nil, err
	}
	return s, nil
}
