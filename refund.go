package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// Refund returns some or all of a Charge to the customer it was taken from.
type Refund struct {
	ID                 string              `json:"id"`
	Object             string              `json:"object"`
	Amount             int64               `json:"amount"`
	BalanceTransaction *BalanceTransaction `json:"balance_transaction"`
	Charge             *Charge             `json:"charge"`
	Created            int64               `json:"created"`
	Currency           Currency            `json:"currency"`
	FailureReason      string              `json:"failure_reason"`
	Metadata           Metadata            `json:"metadata"`
	PaymentIntent      *PaymentIntent      `json:"payment_intent"`
	Reason             RefundReason        `json:"reason"`
	ReceiptNumber      string              `json:"receipt_number"`
	Status             RefundStatus        `json:"status"`
}

// RefundReason is why a Refund was made. The set is open.
type RefundReason string

const (
	RefundReasonDuplicate           RefundReason = "duplicate"
	RefundReasonFraudulent          RefundReason = "fraudulent"
	RefundReasonRequestedByCustomer RefundReason = "requested_by_customer"
)

// RefundStatus is where a Refund is in its lifecycle. The set is open.
type RefundStatus string

const (
	RefundStatusCanceled  RefundStatus = "canceled"
	RefundStatusFailed    RefundStatus = "failed"
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusSucceeded RefundStatus = "succeeded"
)

var (
	_ Resource = (*Refund)(nil)

	refundEndpoint = "/v1/refunds"
)

// CreateRefundParams are the parameters for creating a Refund. Exactly one
// of Charge or PaymentIntent is required. Amount can be left unset to refund
// everything.
type CreateRefundParams struct {
	Params

	Charge               *string  `form:"charge" validate:"required_without=PaymentIntent,excluded_with=PaymentIntent"`
	PaymentIntent        *string  `form:"payment_intent"`
	Amount               *int64   `form:"amount"`
	Metadata             Metadata `form:"metadata"`
	Reason               *string  `form:"reason"`
	RefundApplicationFee *bool    `form:"refund_application_fee"`
	ReverseTransfer      *bool    `form:"reverse_transfer"`
}

// NewCreateRefundParams returns CreateRefundParams for refunding the Charge
// with the given id. To refund via its PaymentIntent instead, build the
// params directly with PaymentIntent set in place of Charge.
func NewCreateRefundParams(charge string) *CreateRefundParams {
	return &CreateRefundParams{
		Charge: String(charge),
	}
}

// UpdateRefundParams are the parameters for updating a Refund. Metadata is
// the only thing the API lets you change.
type UpdateRefundParams struct {
	Params

	Metadata Metadata `form:"metadata"`
}

// ListRefundsParams are the parameters for listing Refunds. Set Charge or
// PaymentIntent to only list the refunds belonging to either.
type ListRefundsParams struct {
	ListParams

	Charge        *string           `form:"charge"`
	Created       *int64            `form:"created"`
	CreatedRange  *RangeQueryParams `form:"created"`
	PaymentIntent *string           `form:"payment_intent"`
}

// CreateRefund will create a new Refund in Stripe with the given parameters
// and return it.
func (c *Client) CreateRefund(ctx context.Context, params *CreateRefundParams) (*Refund, error) {
	r := &Refund{}

	if err := c.call(ctx, "POST", refundEndpoint, params, r); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRefund will get the Refund with the given id from Stripe.
func (c *Client) GetRefund(ctx context.Context, id string) (*Refund, error) {
	r := &Refund{ID: id}

	if err := r.Load(ctx, c); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateRefund will update the Refund with the given id in Stripe and return
// it.
func (c *Client) UpdateRefund(ctx context.Context, id string, params *UpdateRefundParams) (*Refund, error) {
	r := &Refund{ID: id}

	if err := c.call(ctx, "POST", r.Endpoint(), params, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRefunds will list the Refunds matching the given parameters, newest
// first. The params can be nil to list everything.
func (c *Client) ListRefunds(ctx context.Context, params *ListRefundsParams) (*List[*Refund], error) {
	l := &List[*Refund]{}

	if err := c.call(ctx, "GET", refundEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (r *Refund) ObjectID() string { return r.ID }

// Endpoint implements the Resource interface.
func (r *Refund) Endpoint(uris ...string) string {
	endpoint := refundEndpoint

	if r.ID != "" {
		endpoint += "/" + r.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (r *Refund) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", r.Endpoint(), nil, r)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (r *Refund) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*r = Refund{ID: id}
		return nil
	}

	type refund Refund

	var r1 refund

	if err := json.Unmarshal(data, &r1); err != nil {
		return err
	}

	*r = Refund(r1)
	return nil
}
