package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Price ties an amount in a currency to a Product, either one-off or on a
// recurring billing interval.
type Price struct {
	ID                string          `json:"id"`
	Object            string          `json:"object"`
	Active            bool            `json:"active"`
	BillingScheme     string          `json:"billing_scheme"`
	Created           int64           `json:"created"`
	Currency          Currency        `json:"currency"`
	Livemode          bool            `json:"livemode"`
	LookupKey         string          `json:"lookup_key"`
	Metadata          Metadata        `json:"metadata"`
	Nickname          string          `json:"nickname"`
	Product           *Product        `json:"product"`
	Recurring         *PriceRecurring `json:"recurring"`
	TiersMode         string          `json:"tiers_mode"`
	Type              PriceType       `json:"type"`
	UnitAmount        int64           `json:"unit_amount"`
	UnitAmountDecimal string          `json:"unit_amount_decimal"`
}

// PriceType says whether a Price is charged once or repeatedly. The set is
// open.
type PriceType string

const (
	PriceTypeOneTime   PriceType = "one_time"
	PriceTypeRecurring PriceType = "recurring"
)

// PriceRecurring is how a recurring Price bills.
type PriceRecurring struct {
	AggregateUsage string `json:"aggregate_usage"`
	Interval       string `json:"interval"`
	IntervalCount  int64  `json:"interval_count"`
	UsageType      string `json:"usage_type"`
}

// Prices provides a way of storing the prices and their respective product
// configured in Stripe. You would typically use this if you are storing your
// prices in a file on disk, and want them loaded up at start time of your
// application.
type Prices struct {
	mu     sync.RWMutex
	ids    map[string]struct{}
	prices []*Price
}

var (
	_ Resource = (*Price)(nil)

	priceEndpoint = "/v1/prices"
)

// PriceRecurringParams configures how a recurring Price being created bills.
type PriceRecurringParams struct {
	AggregateUsage *string `form:"aggregate_usage"`
	Interval       string  `form:"interval" validate:"required"`
	IntervalCount  *int64  `form:"interval_count"`
	UsageType      *string `form:"usage_type"`
}

// PriceProductDataParams creates the Product a Price belongs to along with
// the Price itself, instead of referring to an existing one.
type PriceProductDataParams struct {
	Active   *bool    `form:"active"`
	Metadata Metadata `form:"metadata"`
	Name     string   `form:"name" validate:"required"`
}

// CreatePriceParams are the parameters for creating a Price. Currency is
// required, along with exactly one of Product or ProductData.
type CreatePriceParams struct {
	Params

	Currency          Currency                `form:"currency" validate:"required"`
	Product           *string                 `form:"product" validate:"required_without=ProductData,excluded_with=ProductData"`
	ProductData       *PriceProductDataParams `form:"product_data"`
	Active            *bool                   `form:"active"`
	BillingScheme     *string                 `form:"billing_scheme"`
	LookupKey         *string                 `form:"lookup_key"`
	Metadata          Metadata                `form:"metadata"`
	Nickname          *string                 `form:"nickname"`
	Recurring         *PriceRecurringParams   `form:"recurring"`
	UnitAmount        *int64                  `form:"unit_amount"`
	UnitAmountDecimal *float64                `form:"unit_amount_decimal"`
}

// NewCreatePriceParams returns CreatePriceParams with the parameters the API
// requires set, for a Price belonging to an existing Product.
func NewCreatePriceParams(currency Currency, product string) *CreatePriceParams {
	return &CreatePriceParams{
		Currency: currency,
		Product:  String(product),
	}
}

// UpdatePriceParams are the parameters for updating a Price. Only the fields
// that are set are sent. Amounts cannot be changed once a Price exists, only
// a new Price can be made.
type UpdatePriceParams struct {
	Params

	Active    *bool    `form:"active"`
	LookupKey *string  `form:"lookup_key"`
	Metadata  Metadata `form:"metadata"`
	Nickname  *string  `form:"nickname"`
}

// ListPricesParams are the parameters for listing Prices. Set Created to
// filter on an exact creation time, or CreatedRange to filter on a window.
type ListPricesParams struct {
	ListParams

	Active       *bool             `form:"active"`
	Created      *int64            `form:"created"`
	CreatedRange *RangeQueryParams `form:"created"`
	Currency     *string           `form:"currency"`
	LookupKey    *string           `form:"lookup_key"`
	Product      *string           `form:"product"`
	Type         *string           `form:"type"`
}

// CreatePrice will create a new Price in Stripe with the given parameters
// and return it.
func (c *Client) CreatePrice(ctx context.Context, params *CreatePriceParams) (*Price, error) {
	pr := &Price{}

	if err := c.call(ctx, "POST", priceEndpoint, params, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// GetPrice will get the Price with the given id from Stripe.
func (c *Client) GetPrice(ctx context.Context, id string) (*Price, error) {
	pr := &Price{ID: id}

	if err := pr.Load(ctx, c); err != nil {
		return nil, err
	}
	return pr, nil
}

// UpdatePrice will update the Price with the given id in Stripe and return
// it.
func (c *Client) UpdatePrice(ctx context.Context, id string, params *UpdatePriceParams) (*Price, error) {
	pr := &Price{ID: id}

	if err := c.call(ctx, "POST", pr.Endpoint(), params, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// ListPrices will list the Prices matching the given parameters. The params
// can be nil to list everything.
func (c *Client) ListPrices(ctx context.Context, params *ListPricesParams) (*List[*Price], error) {
	l := &List[*Price]{}

	if err := c.call(ctx, "GET", priceEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadPrices will load in all of the price IDs from the given io.Reader. It
// is expected for each price ID to be on its own separate line. Comments
// (lines prefixed with #) are ignored. The given errh function is used for
// handling any errors that arise when calling out to Stripe.
func LoadPrices(ctx context.Context, c *Client, r io.Reader, errh func(error)) (*Prices, error) {
	p := &Prices{
		mu:     sync.RWMutex{},
		ids:    make(map[string]struct{}),
		prices: make([]*Price, 0),
	}

	if err := scanlines(r, p.loadPrice(ctx, c, errh)); err != nil {
		return p, err
	}
	return p, nil
}

func (p *Prices) loadPrice(ctx context.Context, c *Client, errh func(error)) func(string) {
	return func(id string) {
		pr, err := c.GetPrice(ctx, id)

		if err != nil {
			var e *Error

			if errors.As(err, &e) && e.StatusCode >= 400 && e.StatusCode <= 451 {
				errh(fmt.Errorf("failed to load price %s: %s", id, e.Msg))
				return
			}
			errh(fmt.Errorf("unexpected error when loading price %s: %s", id, err))
			return
		}

		// Prices come back with the product as a bare id, load in the rest
		// of it.
		if pr.Product != nil {
			if err := pr.Product.Load(ctx, c); err != nil {
				errh(fmt.Errorf("failed to load product %s: %s", pr.Product.ID, err))
				return
			}
		}

		p.mu.Lock()
		defer p.mu.Unlock()

		if _, ok := p.ids[pr.ID]; !ok {
			p.ids[pr.ID] = struct{}{}
			p.prices = append(p.prices, pr)
		}
	}
}

// Reload loads in new price IDs from the given io.Reader. This will return
// an error if there is any issue with reading from the given io.Reader. Any
// errors that occur when loading in the prices via Stripe will be handled via
// the given errh callback. This will only load in the new prices that are
// found.
func (p *Prices) Reload(ctx context.Context, c *Client, r io.Reader, errh func(error)) error {
	return scanlines(r, p.loadPrice(ctx, c, errh))
}

// Slice returns the slice of prices.
func (p *Prices) Slice() []*Price {
	p.mu.RLock()
	defer p.mu.RUnlock()

	prices := make([]*Price, len(p.prices))
	copy(prices, p.prices)
	return prices
}

// ObjectID implements the Object interface.
func (pr *Price) ObjectID() string { return pr.ID }

// Endpoint implements the Resource interface.
func (pr *Price) Endpoint(uris ...string) string {
	endpoint := priceEndpoint

	if pr.ID != "" {
		endpoint += "/" + pr.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (pr *Price) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", pr.Endpoint(), nil, pr)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (pr *Price) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*pr = Price{ID: id}
		return nil
	}

	type price Price

	var pr1 price

	if err := json.Unmarshal(data, &pr1); err != nil {
		return err
	}

	*pr = Price(pr1)
	return nil
}
