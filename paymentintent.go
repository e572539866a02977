package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// PaymentIntent tracks a single intent to collect payment from a customer,
// through every attempt and authentication hop, until it succeeds or is
// canceled.
type PaymentIntent struct {
	ID                 string                   `json:"id"`
	Object             string                   `json:"object"`
	Amount             int64                    `json:"amount"`
	AmountCapturable   int64                    `json:"amount_capturable"`
	AmountReceived     int64                    `json:"amount_received"`
	CanceledAt         int64                    `json:"canceled_at"`
	CancellationReason string                   `json:"cancellation_reason"`
	CaptureMethod      string                   `json:"capture_method"`
	Charges            *List[*Charge]           `json:"charges"`
	ClientSecret       string                   `json:"client_secret"`
	ConfirmationMethod string                   `json:"confirmation_method"`
	Created            int64                    `json:"created"`
	Currency           Currency                 `json:"currency"`
	Customer           *Customer                `json:"customer"`
	Description        string                   `json:"description"`
	Invoice            *Invoice                 `json:"invoice"`
	LastPaymentError   *Error                   `json:"last_payment_error"`
	Livemode           bool                     `json:"livemode"`
	Metadata           Metadata                 `json:"metadata"`
	NextAction         *PaymentIntentNextAction `json:"next_action"`
	PaymentMethod      *PaymentMethod           `json:"payment_method"`
	PaymentMethodTypes []string                 `json:"payment_method_types"`
	ReceiptEmail       string                   `json:"receipt_email"`
	Status             PaymentIntentStatus      `json:"status"`
	TransferGroup      string                   `json:"transfer_group"`
}

// PaymentIntentStatus is where a PaymentIntent is in its lifecycle. The set
// is open.
type PaymentIntentStatus string

const (
	PaymentIntentStatusCanceled              PaymentIntentStatus = "canceled"
	PaymentIntentStatusProcessing            PaymentIntentStatus = "processing"
	PaymentIntentStatusRequiresAction        PaymentIntentStatus = "requires_action"
	PaymentIntentStatusRequiresCapture       PaymentIntentStatus = "requires_capture"
	PaymentIntentStatusRequiresConfirmation  PaymentIntentStatus = "requires_confirmation"
	PaymentIntentStatusRequiresPaymentMethod PaymentIntentStatus = "requires_payment_method"
	PaymentIntentStatusSucceeded             PaymentIntentStatus = "succeeded"
)

// PaymentIntentNextAction is what the customer has to do next for the
// payment to proceed, if anything.
type PaymentIntentNextAction struct {
	RedirectToURL *PaymentIntentNextActionRedirect `json:"redirect_to_url"`
	Type          string                           `json:"type"`
}

// PaymentIntentNextActionRedirect is where to send the customer when the
// next action is a redirect.
type PaymentIntentNextActionRedirect struct {
	ReturnURL string `json:"return_url"`
	URL       string `json:"url"`
}

var (
	_ Resource = (*PaymentIntent)(nil)

	paymentIntentEndpoint = "/v1/payment_intents"
)

// CreatePaymentIntentParams are the parameters for creating a PaymentIntent.
// Amount and Currency are required.
type CreatePaymentIntentParams struct {
	Params

	Amount              int64                  `form:"amount" validate:"required,gt=0"`
	Currency            Currency               `form:"currency" validate:"required"`
	CaptureMethod       *string                `form:"capture_method"`
	Confirm             *bool                  `form:"confirm"`
	Customer            *string                `form:"customer"`
	Description         *string                `form:"description"`
	Metadata            Metadata               `form:"metadata"`
	OffSession          *bool                  `form:"off_session"`
	OnBehalfOf          *string                `form:"on_behalf_of"`
	PaymentMethod       *string                `form:"payment_method"`
	PaymentMethodTypes  []string               `form:"payment_method_types"`
	ReceiptEmail        *string                `form:"receipt_email" validate:"omitempty,email"`
	SetupFutureUsage    *string                `form:"setup_future_usage"`
	Shipping            *ShippingDetailsParams `form:"shipping"`
	StatementDescriptor *string                `form:"statement_descriptor"`
	TransferGroup       *string                `form:"transfer_group"`
}

// NewCreatePaymentIntentParams returns CreatePaymentIntentParams with the
// parameters the API requires set.
func NewCreatePaymentIntentParams(amount int64, currency Currency) *CreatePaymentIntentParams {
	return &CreatePaymentIntentParams{
		Amount:   amount,
		Currency: currency,
	}
}

// UpdatePaymentIntentParams are the parameters for updating a PaymentIntent.
// Only the fields that are set are sent.
type UpdatePaymentIntentParams struct {
	Params

	Amount              *int64                 `form:"amount"`
	Currency            *Currency              `form:"currency"`
	Customer            *string                `form:"customer"`
	Description         *string                `form:"description"`
	Metadata            Metadata               `form:"metadata"`
	PaymentMethod       *string                `form:"payment_method"`
	ReceiptEmail        *string                `form:"receipt_email" validate:"omitempty,email"`
	SetupFutureUsage    *string                `form:"setup_future_usage"`
	Shipping            *ShippingDetailsParams `form:"shipping"`
	StatementDescriptor *string                `form:"statement_descriptor"`
	TransferGroup       *string                `form:"transfer_group"`
}

// ConfirmPaymentIntentParams are the parameters for confirming a
// PaymentIntent. All of them are optional.
type ConfirmPaymentIntentParams struct {
	Params

	OffSession       *bool   `form:"off_session"`
	PaymentMethod    *string `form:"payment_method"`
	ReceiptEmail     *string `form:"receipt_email" validate:"omitempty,email"`
	ReturnURL        *string `form:"return_url"`
	SetupFutureUsage *string `form:"setup_future_usage"`
}

// CapturePaymentIntentParams are the parameters for capturing a
// PaymentIntent. All of them are optional, capturing with nil params
// captures the full amount capturable.
type CapturePaymentIntentParams struct {
	Params

	AmountToCapture      *int64  `form:"amount_to_capture"`
	ApplicationFeeAmount *int64  `form:"application_fee_amount"`
	StatementDescriptor  *string `form:"statement_descriptor"`
}

// CancelPaymentIntentParams are the parameters for canceling a
// PaymentIntent.
type CancelPaymentIntentParams struct {
	Params

	CancellationReason *string `form:"cancellation_reason"`
}

// ListPaymentIntentsParams are the parameters for listing PaymentIntents.
type ListPaymentIntentsParams struct {
	ListParams

	Created      *int64            `form:"created"`
	CreatedRange *RangeQueryParams `form:"created"`
	Customer     *string           `form:"customer"`
}

// CreatePaymentIntent will create a new PaymentIntent in Stripe with the
// given parameters and return it.
func (c *Client) CreatePaymentIntent(ctx context.Context, params *CreatePaymentIntentParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{}

	if err := c.call(ctx, "POST", paymentIntentEndpoint, params, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

// GetPaymentIntent will get the PaymentIntent with the given id from Stripe.
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	pi := &PaymentIntent{ID: id}

	if err := pi.Load(ctx, c); err != nil {
		return nil, err
	}
	return pi, nil
}

// UpdatePaymentIntent will update the PaymentIntent with the given id in
// Stripe and return it.
func (c *Client) UpdatePaymentIntent(ctx context.Context, id string, params *UpdatePaymentIntentParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{ID: id}

	if err := c.call(ctx, "POST", pi.Endpoint(), params, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

// ConfirmPaymentIntent will confirm the PaymentIntent with the given id,
// moving it towards collection. The params can be nil.
func (c *Client) ConfirmPaymentIntent(ctx context.Context, id string, params *ConfirmPaymentIntentParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{ID: id}

	if err := c.call(ctx, "POST", pi.Endpoint("confirm"), params, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

// CapturePaymentIntent will capture the funds of the PaymentIntent with the
// given id once it requires capture. The params can be nil to capture the
// full amount capturable.
func (c *Client) CapturePaymentIntent(ctx context.Context, id string, params *CapturePaymentIntentParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{ID: id}

	if err := c.call(ctx, "POST", pi.Endpoint("capture"), params, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

// CancelPaymentIntent will cancel the PaymentIntent with the given id. The
// params can be nil.
func (c *Client) CancelPaymentIntent(ctx context.Context, id string, params *CancelPaymentIntentParams) (*PaymentIntent, error) {
	pi := &PaymentIntent{ID: id}

	if err := c.call(ctx, "POST", pi.Endpoint("cancel"), params, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

// ListPaymentIntents will list the PaymentIntents matching the given
// parameters, newest first. The params can be nil to list everything.
func (c *Client) ListPaymentIntents(ctx context.Context, params *ListPaymentIntentsParams) (*List[*PaymentIntent], error) {
	l := &List[*PaymentIntent]{}

	if err := c.call(ctx, "GET", paymentIntentEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (pi *PaymentIntent) ObjectID() string { return pi.ID }

// Endpoint implements the Resource interface.
func (pi *PaymentIntent) Endpoint(uris ...string) string {
	endpoint := paymentIntentEndpoint

	if pi.ID != "" {
		endpoint += "/" + pi.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (pi *PaymentIntent) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", pi.Endpoint(), nil, pi)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (pi *PaymentIntent) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*pi = PaymentIntent{ID: id}
		return nil
	}

	type paymentIntent PaymentIntent

	var pi1 paymentIntent

	if err := json.Unmarshal(data, &pi1); err != nil {
		return err
	}

	*pi = PaymentIntent(pi1)
	return nil
}
