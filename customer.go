package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// Customer is a customer of your business. Customers tie together the
// charges, payment methods, subscriptions, and invoices that belong to a
// single buyer.
type Customer struct {
	ID                  string                   `json:"id"`
	Object              string                   `json:"object"`
	Balance             int64                    `json:"balance"`
	Created             int64                    `json:"created"`
	Currency            Currency                 `json:"currency"`
	Delinquent          bool                     `json:"delinquent"`
	Description         string                   `json:"description"`
	Email               string                   `json:"email"`
	InvoicePrefix       string                   `json:"invoice_prefix"`
	InvoiceSettings     *CustomerInvoiceSettings `json:"invoice_settings"`
	Livemode            bool                     `json:"livemode"`
	Metadata            Metadata                 `json:"metadata"`
	Name                string                   `json:"name"`
	NextInvoiceSequence int64                    `json:"next_invoice_sequence"`
	Phone               string                   `json:"phone"`
	PreferredLocales    []string                 `json:"preferred_locales"`
	Shipping            *ShippingDetails         `json:"shipping"`
	TaxExempt           CustomerTaxExempt        `json:"tax_exempt"`

	// Deleted is only set when the customer arrived from a deletion, such
	// as the payload of a customer.deleted event.
	Deleted bool `json:"deleted"`
}

// CustomerTaxExempt is the tax exemption of a Customer. The set is open.
type CustomerTaxExempt string

const (
	CustomerTaxExemptExempt  CustomerTaxExempt = "exempt"
	CustomerTaxExemptNone    CustomerTaxExempt = "none"
	CustomerTaxExemptReverse CustomerTaxExempt = "reverse"
)

// CustomerInvoiceSettings is how invoices for the Customer are put together
// and paid.
type CustomerInvoiceSettings struct {
	DefaultPaymentMethod *PaymentMethod `json:"default_payment_method"`
	Footer               string         `json:"footer"`
}

var (
	_ Resource = (*Customer)(nil)

	customerEndpoint = "/v1/customers"
)

// CustomerInvoiceSettingsParams sets how invoices for the Customer are put
// together and paid.
type CustomerInvoiceSettingsParams struct {
	DefaultPaymentMethod *string `form:"default_payment_method"`
	Footer               *string `form:"footer"`
}

// CreateCustomerParams are the parameters for creating a Customer. The API
// requires none of them.
type CreateCustomerParams struct {
	Params

	Balance          *int64                         `form:"balance"`
	Description      *string                        `form:"description"`
	Email            *string                        `form:"email" validate:"omitempty,email"`
	InvoicePrefix    *string                        `form:"invoice_prefix"`
	InvoiceSettings  *CustomerInvoiceSettingsParams `form:"invoice_settings"`
	Metadata         Metadata                       `form:"metadata"`
	Name             *string                        `form:"name"`
	PaymentMethod    *string                        `form:"payment_method"`
	Phone            *string                        `form:"phone"`
	PreferredLocales []string                       `form:"preferred_locales"`
	Shipping         *ShippingDetailsParams         `form:"shipping"`
	Source           *string                        `form:"source"`
	TaxExempt        *string                        `form:"tax_exempt"`
}

// NewCreateCustomerParams returns empty CreateCustomerParams, every
// parameter of a Customer is optional.
func NewCreateCustomerParams() *CreateCustomerParams { return &CreateCustomerParams{} }

// UpdateCustomerParams are the parameters for updating a Customer. Only the
// fields that are set are sent.
type UpdateCustomerParams struct {
	Params

	Balance          *int64                         `form:"balance"`
	DefaultSource    *string                        `form:"default_source"`
	Description      *string                        `form:"description"`
	Email            *string                        `form:"email" validate:"omitempty,email"`
	InvoicePrefix    *string                        `form:"invoice_prefix"`
	InvoiceSettings  *CustomerInvoiceSettingsParams `form:"invoice_settings"`
	Metadata         Metadata                       `form:"metadata"`
	Name             *string                        `form:"name"`
	Phone            *string                        `form:"phone"`
	PreferredLocales []string                       `form:"preferred_locales"`
	Shipping         *ShippingDetailsParams         `form:"shipping"`
	Source           *string                        `form:"source"`
	TaxExempt        *string                        `form:"tax_exempt"`
}

// ListCustomersParams are the parameters for listing Customers.
type ListCustomersParams struct {
	ListParams

	Created      *int64            `form:"created"`
	CreatedRange *RangeQueryParams `form:"created"`
	Email        *string           `form:"email"`
}

// CreateCustomer will create a new Customer in Stripe with the given
// parameters and return it.
func (c *Client) CreateCustomer(ctx context.Context, params *CreateCustomerParams) (*Customer, error) {
	cu := &Customer{}

	if err := c.call(ctx, "POST", customerEndpoint, params, cu); err != nil {
		return nil, err
	}
	return cu, nil
}

// GetCustomer will get the Customer with the given id from Stripe.
func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	cu := &Customer{ID: id}

	if err := cu.Load(ctx, c); err != nil {
		return nil, err
	}
	return cu, nil
}

// UpdateCustomer will update the Customer with the given id in Stripe and
// return it.
func (c *Client) UpdateCustomer(ctx context.Context, id string, params *UpdateCustomerParams) (*Customer, error) {
	cu := &Customer{ID: id}

	if err := c.call(ctx, "POST", cu.Endpoint(), params, cu); err != nil {
		return nil, err
	}
	return cu, nil
}

// DeleteCustomer will permanently delete the Customer with the given id. It
// cannot be undone.
func (c *Client) DeleteCustomer(ctx context.Context, id string) (*Deleted, error) {
	cu := &Customer{ID: id}
	d := &Deleted{}

	if err := c.call(ctx, "DELETE", cu.Endpoint(), nil, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListCustomers will list the Customers matching the given parameters,
// newest first. The params can be nil to list everything.
func (c *Client) ListCustomers(ctx context.Context, params *ListCustomersParams) (*List[*Customer], error) {
	l := &List[*Customer]{}

	if err := c.call(ctx, "GET", customerEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (cu *Customer) ObjectID() string { return cu.ID }

// Endpoint implements the Resource interface.
func (cu *Customer) Endpoint(uris ...string) string {
	endpoint := customerEndpoint

	if cu.ID != "" {
		endpoint += "/" + cu.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (cu *Customer) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", cu.Endpoint(), nil, cu)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (cu *Customer) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*cu = Customer{ID: id}
		return nil
	}

	type customer Customer

	var cu1 customer

	if err := json.Unmarshal(data, &cu1); err != nil {
		return err
	}

	*cu = Customer(cu1)
	return nil
}
