package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// Charge is a charge of a payment source, such as a card. Charges are
// created directly, or by a PaymentIntent moving through its lifecycle.
type Charge struct {
	ID                   string                      `json:"id"`
	Object               string                      `json:"object"`
	Amount               int64                       `json:"amount"`
	AmountCaptured       int64                       `json:"amount_captured"`
	AmountRefunded       int64                       `json:"amount_refunded"`
	BalanceTransaction   *BalanceTransaction         `json:"balance_transaction"`
	BillingDetails       *BillingDetails             `json:"billing_details"`
	Captured             bool                        `json:"captured"`
	Created              int64                       `json:"created"`
	Currency             Currency                    `json:"currency"`
	Customer             *Customer                   `json:"customer"`
	Description          string                      `json:"description"`
	Disputed             bool                        `json:"disputed"`
	FailureCode          string                      `json:"failure_code"`
	FailureMessage       string                      `json:"failure_message"`
	Invoice              *Invoice                    `json:"invoice"`
	Livemode             bool                        `json:"livemode"`
	Metadata             Metadata                    `json:"metadata"`
	Outcome              *ChargeOutcome              `json:"outcome"`
	Paid                 bool                        `json:"paid"`
	PaymentIntent        *PaymentIntent              `json:"payment_intent"`
	PaymentMethod        string                      `json:"payment_method"`
	PaymentMethodDetails *ChargePaymentMethodDetails `json:"payment_method_details"`
	ReceiptEmail         string                      `json:"receipt_email"`
	ReceiptURL           string                      `json:"receipt_url"`
	Refunded             bool                        `json:"refunded"`
	Refunds              *List[*Refund]              `json:"refunds"`
	Shipping             *ShippingDetails            `json:"shipping"`
	StatementDescriptor  string                      `json:"statement_descriptor"`
	Status               ChargeStatus                `json:"status"`
	TransferGroup        string                      `json:"transfer_group"`
}

// ChargeStatus is the status of a Charge. Statuses Stripe adds later decode
// fine, they just won't compare equal to any of the constants below.
type ChargeStatus string

const (
	ChargeStatusFailed    ChargeStatus = "failed"
	ChargeStatusPending   ChargeStatus = "pending"
	ChargeStatusSucceeded ChargeStatus = "succeeded"
)

// ChargeOutcome is how Stripe's risk assessment saw the charge.
type ChargeOutcome struct {
	NetworkStatus string `json:"network_status"`
	Reason        string `json:"reason"`
	RiskLevel     string `json:"risk_level"`
	RiskScore     int64  `json:"risk_score"`
	SellerMessage string `json:"seller_message"`
	Type          string `json:"type"`
}

// ChargePaymentMethodDetails holds the details of the payment method that
// was charged, keyed by its type.
type ChargePaymentMethodDetails struct {
	Card *ChargeCardDetails `json:"card"`
	Type string             `json:"type"`
}

// ChargeCardDetails is the card shape of ChargePaymentMethodDetails.
type ChargeCardDetails struct {
	Brand       CardBrand `json:"brand"`
	Country     string    `json:"country"`
	ExpMonth    int64     `json:"exp_month"`
	ExpYear     int64     `json:"exp_year"`
	Fingerprint string    `json:"fingerprint"`
	Funding     string    `json:"funding"`
	Last4       string    `json:"last4"`
	Network     string    `json:"network"`
}

var (
	_ Resource = (*Charge)(nil)

	chargeEndpoint = "/v1/charges"
)

// CreateChargeParams are the parameters for creating a Charge. Amount and
// Currency are required, everything else is optional.
type CreateChargeParams struct {
	Params

	Amount               int64                  `form:"amount" validate:"required,gt=0"`
	Currency             Currency               `form:"currency" validate:"required"`
	ApplicationFeeAmount *int64                 `form:"application_fee_amount"`
	Capture              *bool                  `form:"capture"`
	Customer             *string                `form:"customer"`
	Description          *string                `form:"description"`
	Metadata             Metadata               `form:"metadata"`
	OnBehalfOf           *string                `form:"on_behalf_of"`
	ReceiptEmail         *string                `form:"receipt_email" validate:"omitempty,email"`
	Shipping             *ShippingDetailsParams `form:"shipping"`
	Source               *string                `form:"source"`
	StatementDescriptor  *string                `form:"statement_descriptor"`
	TransferGroup        *string                `form:"transfer_group"`
}

// NewCreateChargeParams returns CreateChargeParams with the parameters the
// API requires set.
func NewCreateChargeParams(amount int64, currency Currency) *CreateChargeParams {
	return &CreateChargeParams{
		Amount:   amount,
		Currency: currency,
	}
}

// UpdateChargeParams are the parameters for updating a Charge. Only the
// fields that are set are sent.
type UpdateChargeParams struct {
	Params

	Description   *string                `form:"description"`
	Metadata      Metadata               `form:"metadata"`
	ReceiptEmail  *string                `form:"receipt_email" validate:"omitempty,email"`
	Shipping      *ShippingDetailsParams `form:"shipping"`
	TransferGroup *string                `form:"transfer_group"`
}

// CaptureChargeParams are the parameters for capturing a Charge that was
// created with Capture set to false. All of them are optional, capturing
// with nil params captures the full amount.
type CaptureChargeParams struct {
	Params

	Amount              *int64  `form:"amount"`
	ReceiptEmail        *string `form:"receipt_email" validate:"omitempty,email"`
	StatementDescriptor *string `form:"statement_descriptor"`
	TransferGroup       *string `form:"transfer_group"`
}

// ListChargesParams are the parameters for listing Charges. Set Created to
// filter on an exact creation time, or CreatedRange to filter on a window.
type ListChargesParams struct {
	ListParams

	Created       *int64            `form:"created"`
	CreatedRange  *RangeQueryParams `form:"created"`
	Customer      *string           `form:"customer"`
	PaymentIntent *string           `form:"payment_intent"`
}

// CreateCharge will create a new Charge in Stripe with the given parameters
// and return it.
func (c *Client) CreateCharge(ctx context.Context, params *CreateChargeParams) (*Charge, error) {
	ch := &Charge{}

	if err := c.call(ctx, "POST", chargeEndpoint, params, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// GetCharge will get the Charge with the given id from Stripe.
func (c *Client) GetCharge(ctx context.Context, id string) (*Charge, error) {
	ch := &Charge{ID: id}

	if err := ch.Load(ctx, c); err != nil {
		return nil, err
	}
	return ch, nil
}

// UpdateCharge will update the Charge with the given id in Stripe and return
// it.
func (c *Client) UpdateCharge(ctx context.Context, id string, params *UpdateChargeParams) (*Charge, error) {
	ch := &Charge{ID: id}

	if err := c.call(ctx, "POST", ch.Endpoint(), params, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// CaptureCharge will capture the uncaptured Charge with the given id. The
// params can be nil to capture the full amount.
func (c *Client) CaptureCharge(ctx context.Context, id string, params *CaptureChargeParams) (*Charge, error) {
	ch := &Charge{ID: id}

	if err := c.call(ctx, "POST", ch.Endpoint("capture"), params, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// ListCharges will list the Charges matching the given parameters, newest
// first. The params can be nil to list everything.
func (c *Client) ListCharges(ctx context.Context, params *ListChargesParams) (*List[*Charge], error) {
	l := &List[*Charge]{}

	if err := c.call(ctx, "GET", chargeEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (ch *Charge) ObjectID() string { return ch.ID }

// Endpoint implements the Resource interface.
func (ch *Charge) Endpoint(uris ...string) string {
	endpoint := chargeEndpoint

	if ch.ID != "" {
		endpoint += "/" + ch.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (ch *Charge) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", ch.Endpoint(), nil, ch)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (ch *Charge) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*ch = Charge{ID: id}
		return nil
	}

	type charge Charge

	var ch1 charge

	if err := json.Unmarshal(data, &ch1); err != nil {
		return err
	}

	*ch = Charge(ch1)
	return nil
}
