package stripe

import (
	"context"
	"encoding/json"
	"errors"
)

// Params holds the parameters that can be sent with any request made to the
// Stripe API. Each resource's parameter structs embed Params, so these can be
// set on any of them.
type Params struct {
	// IdempotencyKey is sent in the Idempotency-Key header of the request.
	// Requests that share a key are only ever executed once by Stripe, no
	// matter how many times they are sent.
	IdempotencyKey *string `form:"-"`

	// StripeAccount is sent in the Stripe-Account header of the request, to
	// make the request on behalf of a connected account.
	StripeAccount *string `form:"-"`

	// Expand lists the fields of the response that should be expanded from
	// an id into the full object.
	Expand []string `form:"expand"`

	// Extra holds any parameters the typed fields do not cover. These are
	// encoded into the payload as given.
	Extra Form `form:"-"`
}

// ParamsContainer is implemented by every parameter struct via the embedded
// Params.
type ParamsContainer interface {
	GetParams() *Params
}

// GetParams returns the embedded Params of a parameter struct.
func (p *Params) GetParams() *Params { return p }

// SetIdempotencyKey sets the value sent in the Idempotency-Key header of the
// request.
func (p *Params) SetIdempotencyKey(key string) { p.IdempotencyKey = String(key) }

// SetStripeAccount sets the value sent in the Stripe-Account header of the
// request.
func (p *Params) SetStripeAccount(account string) { p.StripeAccount = String(account) }

// AddExpand adds a field to expand in the response.
func (p *Params) AddExpand(f string) { p.Expand = append(p.Expand, f) }

// AddExtra adds a parameter that the typed fields do not cover. The key is
// used as given, so nested parameters are written in bracket notation, for
// example "invoice_settings[footer]".
func (p *Params) AddExtra(key string, value interface{}) {
	if p.Extra == nil {
		p.Extra = Form{}
	}
	p.Extra[key] = value
}

// ListParams holds the parameters shared by every list endpoint of the
// Stripe API. Lists are cursor based, a subsequent page is requested by
// passing the id of the last resource of the current page as StartingAfter.
type ListParams struct {
	Params

	EndingBefore  *string `form:"ending_before"`
	Limit         *int64  `form:"limit"`
	StartingAfter *string `form:"starting_after"`
}

// RangeQueryParams filters a list on one of its timestamp fields, typically
// created. Each bound is optional, and bounds can be combined.
type RangeQueryParams struct {
	GreaterThan        *int64 `form:"gt"`
	GreaterThanOrEqual *int64 `form:"gte"`
	LesserThan         *int64 `form:"lt"`
	LesserThanOrEqual  *int64 `form:"lte"`
}

// Metadata is the set of free-form key-value pairs that can be attached to
// most Stripe resources.
type Metadata map[string]string

// Deleted is returned by the delete endpoints in place of the resource that
// was deleted.
type Deleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// Object is implemented by every top-level resource returned by the Stripe
// API. ObjectID returns the resource's unique id, which is what list
// pagination uses as its cursor.
type Object interface {
	ObjectID() string
}

// ErrListEnd is returned by List.Next when the current page is the last page
// of results.
var ErrListEnd = errors.New("end of list")

// List is a single page of results returned by the list endpoints of the
// Stripe API.
type List[T Object] struct {
	Object     string `json:"object"`
	Data       []T    `json:"data"`
	HasMore    bool   `json:"has_more"`
	TotalCount int64  `json:"total_count"`
	URL        string `json:"url"`
}

// Next fetches the page of results after the current one. The given params
// should be the ones the list was originally requested with so the same
// filters apply, any cursor set on them is replaced with the id of the last
// resource of the current page. If the current page is the last then
// ErrListEnd is returned.
func (l *List[T]) Next(ctx context.Context, c *Client, params interface{}) (*List[T], error) {
	if !l.HasMore || len(l.Data) == 0 {
		return nil, ErrListEnd
	}

	if l.URL == "" {
		return nil, errors.New("cannot paginate a list with no url")
	}

	pairs := make([]pair, 0)

	for _, p := range formPairs(params) {
		if p.key == "starting_after" {
			continue
		}
		pairs = append(pairs, p)
	}

	last := l.Data[len(l.Data)-1].ObjectID()
	pairs = append(pairs, pair{key: "starting_after", value: last})

	l1 := &List[T]{}

	if err := c.call(ctx, "GET", l.URL+"?"+encodePairs(pairs), nil, l1); err != nil {
		return nil, err
	}
	return l1, nil
}

// All walks every page of results starting with the current one, calling fn
// for each resource. Walking stops at the end of the list, or at the first
// error returned by either fn or the API.
func (l *List[T]) All(ctx context.Context, c *Client, params interface{}, fn func(T) error) error {
	page := l

	for {
		for _, v := range page.Data {
			if err := fn(v); err != nil {
				return err
			}
		}

		if !page.HasMore || len(page.Data) == 0 {
			return nil
		}

		l1, err := page.Next(ctx, c, params)

		if err != nil {
			return err
		}
		page = l1
	}
}

// parseID reports whether the given raw JSON is a plain string id, which is
// how the API represents a related resource that was not expanded.
func parseID(data []byte) (string, bool) {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return "", false
	}

	var id string

	if err := json.Unmarshal(data, &id); err != nil {
		return "", false
	}
	return id, true
}

// String returns a pointer to the given string. Optional parameters are
// pointers, so the helpers here are a convenience for setting them from
// literals.
func String(v string) *string { return &v }

// Int64 returns a pointer to the given int64.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to the given float64.
func Float64(v float64) *float64 { return &v }

// Bool returns a pointer to the given bool.
func Bool(v bool) *bool { return &v }
