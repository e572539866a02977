package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"runtime"
	"strings"
	"sync"
)

// TaxRate is a percentage applied on top of, or included in, the amounts of
// invoices, subscriptions, and checkout line items.
type TaxRate struct {
	ID           string   `json:"id"`
	Object       string   `json:"object"`
	Active       bool     `json:"active"`
	Country      string   `json:"country"`
	Created      int64    `json:"created"`
	Description  string   `json:"description"`
	DisplayName  string   `json:"display_name"`
	Inclusive    bool     `json:"inclusive"`
	Jurisdiction string   `json:"jurisdiction"`
	Livemode     bool     `json:"livemode"`
	Metadata     Metadata `json:"metadata"`
	Percentage   float64  `json:"percentage"`
	State        string   `json:"state"`
}

// Taxes provides a way of storing the tax rates configured in Stripe against
// their respective jurisdiction. You would typically use this if you are
// storing your tax rates in a file on disk, and want them loaded up at start
// time of your application.
type Taxes struct {
	mu    sync.RWMutex
	ids   map[string]struct{}
	rates map[string]*TaxRate
}

var (
	_ Resource = (*TaxRate)(nil)

	taxRateEndpoint = "/v1/tax_rates"

	// ErrUnknownJurisdiction denotes when a jurisdiction cannot be found in
	// the set of tax rates.
	ErrUnknownJurisdiction = errors.New("unknown jurisdiction")
)

// CreateTaxRateParams are the parameters for creating a TaxRate. DisplayName,
// Inclusive, and Percentage are required. A Percentage of 0 is a valid rate.
type CreateTaxRateParams struct {
	Params

	DisplayName  string   `form:"display_name" validate:"required"`
	Inclusive    bool     `form:"inclusive"`
	Percentage   float64  `form:"percentage"`
	Active       *bool    `form:"active"`
	Country      *string  `form:"country"`
	Description  *string  `form:"description"`
	Jurisdiction *string  `form:"jurisdiction"`
	Metadata     Metadata `form:"metadata"`
	State        *string  `form:"state"`
}

// NewCreateTaxRateParams returns CreateTaxRateParams with the parameters the
// API requires set.
func NewCreateTaxRateParams(displayName string, percentage float64, inclusive bool) *CreateTaxRateParams {
	return &CreateTaxRateParams{
		DisplayName: displayName,
		Inclusive:   inclusive,
		Percentage:  percentage,
	}
}

// UpdateTaxRateParams are the parameters for updating a TaxRate. Only the
// fields that are set are sent. Percentage and Inclusive cannot change once
// a TaxRate exists.
type UpdateTaxRateParams struct {
	Params

	Active       *bool    `form:"active"`
	Country      *string  `form:"country"`
	Description  *string  `form:"description"`
	DisplayName  *string  `form:"display_name"`
	Jurisdiction *string  `form:"jurisdiction"`
	Metadata     Metadata `form:"metadata"`
	State        *string  `form:"state"`
}

// ListTaxRatesParams are the parameters for listing TaxRates.
type ListTaxRatesParams struct {
	ListParams

	Active       *bool             `form:"active"`
	Created      *int64            `form:"created"`
	CreatedRange *RangeQueryParams `form:"created"`
	Inclusive    *bool             `form:"inclusive"`
}

// CreateTaxRate will create a new TaxRate in Stripe with the given
// parameters and return it.
func (c *Client) CreateTaxRate(ctx context.Context, params *CreateTaxRateParams) (*TaxRate, error) {
	tr := &TaxRate{}

	if err := c.call(ctx, "POST", taxRateEndpoint, params, tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// GetTaxRate will get the TaxRate with the given id from Stripe.
func (c *Client) GetTaxRate(ctx context.Context, id string) (*TaxRate, error) {
	tr := &TaxRate{ID: id}

	if err := tr.Load(ctx, c); err != nil {
		return nil, err
	}
	return tr, nil
}

// UpdateTaxRate will update the TaxRate with the given id in Stripe and
// return it.
func (c *Client) UpdateTaxRate(ctx context.Context, id string, params *UpdateTaxRateParams) (*TaxRate, error) {
	tr := &TaxRate{ID: id}

	if err := c.call(ctx, "POST", tr.Endpoint(), params, tr); err != nil {
		return nil, err
	}
	return tr, nil
}

// ListTaxRates will list the TaxRates matching the given parameters. The
// params can be nil to list everything.
func (c *Client) ListTaxRates(ctx context.Context, params *ListTaxRatesParams) (*List[*TaxRate], error) {
	l := &List[*TaxRate]{}

	if err := c.call(ctx, "GET", taxRateEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadTaxRates will load in all of the tax rate IDs from the given
// io.Reader. It is expected for each tax rate ID to be on its own separate
// line. Comments (lines prefixed with #) are ignored. The given errh
// function is used for handling any errors that arise when calling out to
// Stripe.
func LoadTaxRates(ctx context.Context, c *Client, r io.Reader, errh func(error)) (*Taxes, error) {
	t := &Taxes{
		mu:    sync.RWMutex{},
		ids:   make(map[string]struct{}),
		rates: make(map[string]*TaxRate),
	}

	if err := t.Reload(ctx, c, r, errh); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload loads in new tax rate IDs from the given io.Reader. This will
// return an error if there is any issue with reading from the given
// io.Reader. Any errors that occur when loading in the tax rates via Stripe
// will be handled via the given errh callback. This will only load in the
// new tax rates that are found.
func (t *Taxes) Reload(ctx context.Context, c *Client, r io.Reader, errh func(error)) error {
	ids := make([]string, 0)

	if err := scanlines(r, func(id string) { ids = append(ids, id) }); err != nil {
		return err
	}

	sems := make(chan struct{}, runtime.GOMAXPROCS(0)+10)
	errs := make(chan error)

	var wg sync.WaitGroup
	wg.Add(len(ids))

	for _, id := range ids {
		tr := &TaxRate{
			ID: id,
		}

		go func(tr *TaxRate) {
			sems <- struct{}{}
			defer func() {
				<-sems
				wg.Done()
			}()

			if err := tr.Load(ctx, c); err != nil {
				errs <- err
				return
			}

			t.mu.Lock()
			defer t.mu.Unlock()

			if _, ok := t.ids[tr.ID]; !ok {
				t.ids[tr.ID] = struct{}{}
				t.rates[tr.Jurisdiction] = tr
			}
		}(tr)
	}

	go func() {
		wg.Wait()
		close(errs)
	}()

	for e := range errs {
		errh(e)
	}
	return nil
}

// Get returns the tax rate for the given jurisdiction, if it exists in the
// underlying store.
func (t *Taxes) Get(jurisdiction string) (*TaxRate, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tr, ok := t.rates[jurisdiction]

	if !ok {
		return nil, ErrUnknownJurisdiction
	}
	return tr, nil
}

// ObjectID implements the Object interface.
func (tr *TaxRate) ObjectID() string { return tr.ID }

// Endpoint implements the Resource interface.
func (tr *TaxRate) Endpoint(uris ...string) string {
	endpoint := taxRateEndpoint

	if tr.ID != "" {
		endpoint += "/" + tr.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (tr *TaxRate) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", tr.Endpoint(), nil, tr)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (tr *TaxRate) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*tr = TaxRate{ID: id}
		return nil
	}

	type taxRate TaxRate

	var tr1 taxRate

	if err := json.Unmarshal(data, &tr1); err != nil {
		return err
	}

	*tr = TaxRate(tr1)
	return nil
}
