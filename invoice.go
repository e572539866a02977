package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// Invoice is a statement of amounts a customer owes, either generated from a
// Subscription at the end of a billing period, or created one-off.
type Invoice struct {
	ID                   string              `json:"id"`
	Object               string              `json:"object"`
	AccountCountry       string              `json:"account_country"`
	AccountName          string              `json:"account_name"`
	AmountDue            int64               `json:"amount_due"`
	AmountPaid           int64               `json:"amount_paid"`
	AmountRemaining      int64               `json:"amount_remaining"`
	AttemptCount         int64               `json:"attempt_count"`
	Attempted            bool                `json:"attempted"`
	AutoAdvance          bool                `json:"auto_advance"`
	BillingReason        string              `json:"billing_reason"`
	Charge               *Charge             `json:"charge"`
	CollectionMethod     string              `json:"collection_method"`
	Created              int64               `json:"created"`
	Currency             Currency            `json:"currency"`
	Customer             *Customer           `json:"customer"`
	CustomerEmail        string              `json:"customer_email"`
	CustomerName         string              `json:"customer_name"`
	DefaultPaymentMethod *PaymentMethod      `json:"default_payment_method"`
	Description          string              `json:"description"`
	DueDate              int64               `json:"due_date"`
	EndingBalance        int64               `json:"ending_balance"`
	HostedInvoiceURL     string              `json:"hosted_invoice_url"`
	InvoicePDF           string              `json:"invoice_pdf"`
	Lines                *List[*InvoiceLine] `json:"lines"`
	Livemode             bool                `json:"livemode"`
	Metadata             Metadata            `json:"metadata"`
	NextPaymentAttempt   int64               `json:"next_payment_attempt"`
	Number               string              `json:"number"`
	Paid                 bool                `json:"paid"`
	PaymentIntent        *PaymentIntent      `json:"payment_intent"`
	PeriodEnd            int64               `json:"period_end"`
	PeriodStart          int64               `json:"period_start"`
	ReceiptNumber        string              `json:"receipt_number"`
	StartingBalance      int64               `json:"starting_balance"`
	StatementDescriptor  string              `json:"statement_descriptor"`
	Status               InvoiceStatus       `json:"status"`
	Subscription         *Subscription       `json:"subscription"`
	Subtotal             int64               `json:"subtotal"`
	Tax                  int64               `json:"tax"`
	Total                int64               `json:"total"`
	WebhooksDeliveredAt  int64               `json:"webhooks_delivered_at"`
}

// InvoiceStatus is where an Invoice is in its lifecycle. The set is open.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusOpen          InvoiceStatus = "open"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusUncollectible InvoiceStatus = "uncollectible"
	InvoiceStatusVoid          InvoiceStatus = "void"
)

// InvoiceLine is a single line of an Invoice, covering one Price over one
// period.
type InvoiceLine struct {
	ID               string             `json:"id"`
	Object           string             `json:"object"`
	Amount           int64              `json:"amount"`
	Currency         Currency           `json:"currency"`
	Description      string             `json:"description"`
	Discountable     bool               `json:"discountable"`
	Livemode         bool               `json:"livemode"`
	Metadata         Metadata           `json:"metadata"`
	Period           *InvoiceLinePeriod `json:"period"`
	Price            *Price             `json:"price"`
	Proration        bool               `json:"proration"`
	Quantity         int64              `json:"quantity"`
	Subscription     string             `json:"subscription"`
	SubscriptionItem string             `json:"subscription_item"`
	Type             string             `json:"type"`
}

// InvoiceLinePeriod is the period an InvoiceLine covers.
type InvoiceLinePeriod struct {
	End   int64 `json:"end"`
	Start int64 `json:"start"`
}

// ObjectID implements the Object interface.
func (li *InvoiceLine) ObjectID() string { return li.ID }

var (
	_ Resource = (*Invoice)(nil)

	invoiceEndpoint = "/v1/invoices"
)

// UpcomingInvoiceParams are the parameters for previewing the upcoming
// Invoice of a customer. Customer is required.
type UpcomingInvoiceParams struct {
	Params

	Customer     string  `form:"customer" validate:"required"`
	Subscription *string `form:"subscription"`
}

// NewUpcomingInvoiceParams returns UpcomingInvoiceParams with the parameters
// the API requires set.
func NewUpcomingInvoiceParams(customer string) *UpcomingInvoiceParams {
	return &UpcomingInvoiceParams{
		Customer: customer,
	}
}

// PayInvoiceParams are the parameters for paying an Invoice. All of them are
// optional, paying with nil params uses the customer's default payment
// method.
type PayInvoiceParams struct {
	Params

	Forgive       *bool   `form:"forgive"`
	OffSession    *bool   `form:"off_session"`
	PaidOutOfBand *bool   `form:"paid_out_of_band"`
	PaymentMethod *string `form:"payment_method"`
	Source        *string `form:"source"`
}

// ListInvoicesParams are the parameters for listing Invoices. Set Created to
// filter on an exact creation time, or CreatedRange to filter on a window.
type ListInvoicesParams struct {
	ListParams

	Created      *int64            `form:"created"`
	CreatedRange *RangeQueryParams `form:"created"`
	Customer     *string           `form:"customer"`
	Status       *string           `form:"status"`
	Subscription *string           `form:"subscription"`
}

// GetInvoice will get the Invoice with the given id from Stripe.
func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	inv := &Invoice{ID: id}

	if err := inv.Load(ctx, c); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetUpcomingInvoice will preview the Invoice the given customer will be
// billed with at the end of the current period. Upcoming invoices only exist
// as previews, so the returned Invoice has no ID.
func (c *Client) GetUpcomingInvoice(ctx context.Context, params *UpcomingInvoiceParams) (*Invoice, error) {
	inv := &Invoice{}

	if err := c.call(ctx, "GET", invoiceEndpoint+"/upcoming", params, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// PayInvoice will attempt payment of the Invoice with the given id, outside
// of the usual collection schedule.
func (c *Client) PayInvoice(ctx context.Context, id string, params *PayInvoiceParams) (*Invoice, error) {
	inv := &Invoice{ID: id}

	if err := c.call(ctx, "POST", inv.Endpoint("pay"), params, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvoices will list the Invoices matching the given parameters, newest
// first. The params can be nil to list everything.
func (c *Client) ListInvoices(ctx context.Context, params *ListInvoicesParams) (*List[*Invoice], error) {
	l := &List[*Invoice]{}

	if err := c.call(ctx, "GET", invoiceEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ListInvoiceLines will list the lines of the Invoice with the given id. Use
// this over the Lines field when an Invoice has more lines than one page
// holds.
func (c *Client) ListInvoiceLines(ctx context.Context, id string, params *ListParams) (*List[*InvoiceLine], error) {
	inv := Invoice{ID: id}
	l := &List[*InvoiceLine]{}

	if err := c.call(ctx, "GET", inv.Endpoint("lines"), params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (i *Invoice) ObjectID() string { return i.ID }

// Endpoint implements the Resource interface.
func (i *Invoice) Endpoint(uris ...string) string {
	endpoint := invoiceEndpoint

	if i.ID != "" {
		endpoint += "/" + i.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (i *Invoice) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", i.Endpoint(), nil, i)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (i *Invoice) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*i = Invoice{ID: id}
		return nil
	}

	type invoice Invoice

	var i1 invoice

	if err := json.Unmarshal(data, &i1); err != nil {
		return err
	}

	*i = Invoice(i1)
	return nil
}
