package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// Product is a good or service being sold. The amounts it is sold for live
// on its Prices.
type Product struct {
	ID                  string   `json:"id"`
	Object              string   `json:"object"`
	Active              bool     `json:"active"`
	Created             int64    `json:"created"`
	Description         string   `json:"description"`
	Images              []string `json:"images"`
	Livemode            bool     `json:"livemode"`
	Metadata            Metadata `json:"metadata"`
	Name                string   `json:"name"`
	Shippable           bool     `json:"shippable"`
	StatementDescriptor string   `json:"statement_descriptor"`
	UnitLabel           string   `json:"unit_label"`
	Updated             int64    `json:"updated"`
	URL                 string   `json:"url"`
}

var (
	_ Resource = (*Product)(nil)

	productEndpoint = "/v1/products"
)

// CreateProductParams are the parameters for creating a Product. Name is
// required, everything else is optional.
type CreateProductParams struct {
	Params

	Name                string   `form:"name" validate:"required"`
	Active              *bool    `form:"active"`
	Description         *string  `form:"description"`
	ID                  *string  `form:"id"`
	Images              []string `form:"images"`
	Metadata            Metadata `form:"metadata"`
	Shippable           *bool    `form:"shippable"`
	StatementDescriptor *string  `form:"statement_descriptor"`
	UnitLabel           *string  `form:"unit_label"`
	URL                 *string  `form:"url"`
}

// NewCreateProductParams returns CreateProductParams with the parameters the
// API requires set.
func NewCreateProductParams(name string) *CreateProductParams {
	return &CreateProductParams{
		Name: name,
	}
}

// UpdateProductParams are the parameters for updating a Product. Only the
// fields that are set are sent.
type UpdateProductParams struct {
	Params

	Active              *bool    `form:"active"`
	Description         *string  `form:"description"`
	Images              []string `form:"images"`
	Metadata            Metadata `form:"metadata"`
	Name                *string  `form:"name"`
	Shippable           *bool    `form:"shippable"`
	StatementDescriptor *string  `form:"statement_descriptor"`
	UnitLabel           *string  `form:"unit_label"`
	URL                 *string  `form:"url"`
}

// ListProductsParams are the parameters for listing Products. Set IDs to
// fetch a known set in one call.
type ListProductsParams struct {
	ListParams

	Active       *bool             `form:"active"`
	Created      *int64            `form:"created"`
	CreatedRange *RangeQueryParams `form:"created"`
	IDs          []string          `form:"ids"`
	Shippable    *bool             `form:"shippable"`
	URL          *string           `form:"url"`
}

// CreateProduct will create a new Product in Stripe with the given
// parameters and return it.
func (c *Client) CreateProduct(ctx context.Context, params *CreateProductParams) (*Product, error) {
	p := &Product{}

	if err := c.call(ctx, "POST", productEndpoint, params, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct will get the Product with the given id from Stripe.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	p := &Product{ID: id}

	if err := p.Load(ctx, c); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct will update the Product with the given id in Stripe and
// return it.
func (c *Client) UpdateProduct(ctx context.Context, id string, params *UpdateProductParams) (*Product, error) {
	p := &Product{ID: id}

	if err := c.call(ctx, "POST", p.Endpoint(), params, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct will delete the Product with the given id from Stripe.
// Products with Prices on them cannot be deleted, only deactivated.
func (c *Client) DeleteProduct(ctx context.Context, id string) (*Deleted, error) {
	p := Product{ID: id}
	d := &Deleted{}

	if err := c.call(ctx, "DELETE", p.Endpoint(), nil, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListProducts will list the Products matching the given parameters. The
// params can be nil to list everything.
func (c *Client) ListProducts(ctx context.Context, params *ListProductsParams) (*List[*Product], error) {
	l := &List[*Product]{}

	if err := c.call(ctx, "GET", productEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (p *Product) ObjectID() string { return p.ID }

// Endpoint implements the Resource interface.
func (p *Product) Endpoint(uris ...string) string {
	endpoint := productEndpoint

	if p.ID != "" {
		endpoint += "/" + p.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (p *Product) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", p.Endpoint(), nil, p)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (p *Product) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*p = Product{ID: id}
		return nil
	}

	type product Product

	var p1 product

	if err := json.Unmarshal(data, &p1); err != nil {
		return err
	}

	*p = Product(p1)
	return nil
}
