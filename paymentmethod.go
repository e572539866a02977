package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// PaymentMethod is a way a customer can pay, such as a card or a bank
// debit. Payment methods are attached to customers and charged through
// payment intents.
type PaymentMethod struct {
	ID             string             `json:"id"`
	Object         string             `json:"object"`
	AUBECSDebit    *AUBECSDebit       `json:"au_becs_debit"`
	BACSDebit      *BACSDebit         `json:"bacs_debit"`
	BillingDetails *BillingDetails    `json:"billing_details"`
	Card           *PaymentMethodCard `json:"card"`
	Created        int64              `json:"created"`
	Customer       *Customer          `json:"customer"`
	FPX            *FPX               `json:"fpx"`
	Ideal          *Ideal             `json:"ideal"`
	Livemode       bool               `json:"livemode"`
	Metadata       Metadata           `json:"metadata"`
	P24            *P24               `json:"p24"`
	SepaDebit      *SepaDebit         `json:"sepa_debit"`
	Type           PaymentMethodType  `json:"type"`
}

// PaymentMethodType says which of the detail structs of a PaymentMethod is
// set. The set is open.
type PaymentMethodType string

const (
	PaymentMethodTypeAUBECSDebit PaymentMethodType = "au_becs_debit"
	PaymentMethodTypeBACSDebit   PaymentMethodType = "bacs_debit"
	PaymentMethodTypeCard        PaymentMethodType = "card"
	PaymentMethodTypeFPX         PaymentMethodType = "fpx"
	PaymentMethodTypeIdeal       PaymentMethodType = "ideal"
	PaymentMethodTypeP24         PaymentMethodType = "p24"
	PaymentMethodTypeSepaDebit   PaymentMethodType = "sepa_debit"
)

// CardBrand is the brand of a card, such as "visa". The set is open.
type CardBrand string

const (
	CardBrandAmex       CardBrand = "amex"
	CardBrandDiners     CardBrand = "diners"
	CardBrandDiscover   CardBrand = "discover"
	CardBrandJCB        CardBrand = "jcb"
	CardBrandMastercard CardBrand = "mastercard"
	CardBrandUnionpay   CardBrand = "unionpay"
	CardBrandUnknown    CardBrand = "unknown"
	CardBrandVisa       CardBrand = "visa"
)

// PaymentMethodCard is the card shape of a PaymentMethod.
type PaymentMethodCard struct {
	Brand       CardBrand `json:"brand"`
	Country     string    `json:"country"`
	ExpMonth    int64     `json:"exp_month"`
	ExpYear     int64     `json:"exp_year"`
	Fingerprint string    `json:"fingerprint"`
	Funding     string    `json:"funding"`
	Last4       string    `json:"last4"`
}

// AUBECSDebit is the Australian bank debit shape of a PaymentMethod.
type AUBECSDebit struct {
	BSBNumber   string `json:"bsb_number"`
	Fingerprint string `json:"fingerprint"`
	Last4       string `json:"last4"`
}

// BACSDebit is the UK bank debit shape of a PaymentMethod.
type BACSDebit struct {
	Fingerprint string `json:"fingerprint"`
	Last4       string `json:"last4"`
	SortCode    string `json:"sort_code"`
}

// FPX is the Malaysian online banking shape of a PaymentMethod.
type FPX struct {
	Bank string `json:"bank"`
}

// Ideal is the Dutch online banking shape of a PaymentMethod.
type Ideal struct {
	Bank string `json:"bank"`
	Bic  string `json:"bic"`
}

// P24 is the Polish online banking shape of a PaymentMethod.
type P24 struct {
	Bank string `json:"bank"`
}

// SepaDebit is the SEPA bank debit shape of a PaymentMethod.
type SepaDebit struct {
	BankCode    string `json:"bank_code"`
	BranchCode  string `json:"branch_code"`
	Country     string `json:"country"`
	Fingerprint string `json:"fingerprint"`
	Last4       string `json:"last4"`
}

var (
	_ Resource = (*PaymentMethod)(nil)

	paymentMethodEndpoint = "/v1/payment_methods"
)

// CardParams collects a card directly. Set either the raw card numbers, or
// Token for a card that was already tokenized client side, never both.
type CardParams struct {
	CVC      *string `form:"cvc"`
	ExpMonth *int64  `form:"exp_month"`
	ExpYear  *int64  `form:"exp_year"`
	Number   *string `form:"number" validate:"excluded_with=Token"`
	Token    *string `form:"token"`
}

// CreatePaymentMethodParams are the parameters for creating a PaymentMethod.
// Type is required.
type CreatePaymentMethodParams struct {
	Params

	Type           PaymentMethodType     `form:"type" validate:"required"`
	BillingDetails *BillingDetailsParams `form:"billing_details"`
	Card           *CardParams           `form:"card"`
	Metadata       Metadata              `form:"metadata"`
}

// NewCreatePaymentMethodParams returns CreatePaymentMethodParams with the
// parameters the API requires set.
func NewCreatePaymentMethodParams(typ PaymentMethodType) *CreatePaymentMethodParams {
	return &CreatePaymentMethodParams{
		Type: typ,
	}
}

// UpdatePaymentMethodParams are the parameters for updating a PaymentMethod.
// Only the fields that are set are sent.
type UpdatePaymentMethodParams struct {
	Params

	BillingDetails *BillingDetailsParams `form:"billing_details"`
	Card           *UpdateCardParams     `form:"card"`
	Metadata       Metadata              `form:"metadata"`
}

// UpdateCardParams are the card fields that can change after creation.
type UpdateCardParams struct {
	ExpMonth *int64 `form:"exp_month"`
	ExpYear  *int64 `form:"exp_year"`
}

// ListPaymentMethodsParams are the parameters for listing the PaymentMethods
// of a customer. The API requires both Customer and Type.
type ListPaymentMethodsParams struct {
	ListParams

	Customer string            `form:"customer" validate:"required"`
	Type     PaymentMethodType `form:"type" validate:"required"`
}

// NewListPaymentMethodsParams returns ListPaymentMethodsParams with the
// parameters the API requires set.
func NewListPaymentMethodsParams(customer string, typ PaymentMethodType) *ListPaymentMethodsParams {
	return &ListPaymentMethodsParams{
		Customer: customer,
		Type:     typ,
	}
}

// CreatePaymentMethod will create a new PaymentMethod in Stripe with the
// given parameters and return it.
func (c *Client) CreatePaymentMethod(ctx context.Context, params *CreatePaymentMethodParams) (*PaymentMethod, error) {
	pm := &PaymentMethod{}

	if err := c.call(ctx, "POST", paymentMethodEndpoint, params, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

// GetPaymentMethod will get the PaymentMethod with the given id from Stripe.
func (c *Client) GetPaymentMethod(ctx context.Context, id string) (*PaymentMethod, error) {
	pm := &PaymentMethod{ID: id}

	if err := pm.Load(ctx, c); err != nil {
		return nil, err
	}
	return pm, nil
}

// UpdatePaymentMethod will update the PaymentMethod with the given id in
// Stripe and return it.
func (c *Client) UpdatePaymentMethod(ctx context.Context, id string, params *UpdatePaymentMethodParams) (*PaymentMethod, error) {
	pm := &PaymentMethod{ID: id}

	if err := c.call(ctx, "POST", pm.Endpoint(), params, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

// AttachPaymentMethod will attach the PaymentMethod with the given id to the
// given customer, and return it.
func (c *Client) AttachPaymentMethod(ctx context.Context, id, customer string) (*PaymentMethod, error) {
	pm := &PaymentMethod{ID: id}

	if err := c.call(ctx, "POST", pm.Endpoint("attach"), Form{"customer": customer}, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

// DetachPaymentMethod will detach the PaymentMethod with the given id from
// the customer it is attached to, and return it.
func (c *Client) DetachPaymentMethod(ctx context.Context, id string) (*PaymentMethod, error) {
	pm := &PaymentMethod{ID: id}

	if err := c.call(ctx, "POST", pm.Endpoint("detach"), nil, pm); err != nil {
		return nil, err
	}
	return pm, nil
}

// ListPaymentMethods will list the PaymentMethods of the customer given in
// the params, which are required.
func (c *Client) ListPaymentMethods(ctx context.Context, params *ListPaymentMethodsParams) (*List[*PaymentMethod], error) {
	l := &List[*PaymentMethod]{}

	if err := c.call(ctx, "GET", paymentMethodEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (pm *PaymentMethod) ObjectID() string { return pm.ID }

// Endpoint implements the Resource interface.
func (pm *PaymentMethod) Endpoint(uris ...string) string {
	endpoint := paymentMethodEndpoint

	if pm.ID != "" {
		endpoint += "/" + pm.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (pm *PaymentMethod) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", pm.Endpoint(), nil, pm)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (pm *PaymentMethod) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*pm = PaymentMethod{ID: id}
		return nil
	}

	type paymentMethod PaymentMethod

	var pm1 paymentMethod

	if err := json.Unmarshal(data, &pm1); err != nil {
		return err
	}

	*pm = PaymentMethod(pm1)
	return nil
}
