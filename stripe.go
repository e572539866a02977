package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Client is a client for the Stripe API. Each request made via this client
// is authorized with the secret key the client was built with, and carried
// out by its Transport with the necessary headers set. A Client is immutable
// once built, and safe for use from multiple goroutines at once.
type Client struct {
	key       string
	transport Transport
}

// Resource represents a resource that has been retrieved from the Stripe
// API.
type Resource interface {
	// Endpoint will return the URI for the current Resource in the API. The
	// given uris will be appended to the final endpoint. If the Resource
	// does not have an ID set on it, then the base endpoint for the Resource
	// is returned.
	Endpoint(uris ...string) string

	// Load will use the given Client to load in the resource from the API
	// using the Resource's endpoint. This overwrites the fields in the
	// Resource with the decoded response.
	Load(ctx context.Context, c *Client) error
}

// validate checks typed parameter structs before a request is ever made, so
// required parameters that are missing, and parameters that cannot be
// combined, are caught locally instead of by the API.
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their wire name, so a validation error reads like
	// the request that would have been made.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]

		if name == "-" {
			return ""
		}
		return name
	})
}

func respCode2xx(code int) bool { return code >= 200 && code < 300 }

// NewClient returns a Client authorized with the given secret key. Requests
// are made with a blocking HTTPTransport in its default configuration, use
// NewClientWithTransport to change that.
func NewClient(key string) *Client {
	return &Client{
		key:       key,
		transport: newHTTPTransport(TransportConfig{}),
	}
}

// NewClientWithTransport returns a Client authorized with the given secret
// key, that carries out its requests with the given Transport.
func NewClientWithTransport(key string, t Transport) *Client {
	return &Client{
		key:       key,
		transport: t,
	}
}

// NewIdempotencyKey returns a random key for the Idempotency-Key header, for
// when the caller has no natural key of its own to reuse across retries.
func NewIdempotencyKey() string { return uuid.NewString() }

// call makes a single request against the API. The given params are either a
// typed parameter struct, a Form, or nil. Parameters travel in the body of a
// POST and in the query string of anything else. A 2xx response is decoded
// into v when v is non-nil, anything else becomes an error from the error
// taxonomy.
func (c *Client) call(ctx context.Context, method, path string, params, v interface{}) error {
	req := Request{
		Method: method,
		Path:   path,
		Key:    c.key,
	}

	// Optional parameter structs arrive as typed nil pointers. A zero value
	// stands in so validation of any required fields still happens. A zero
	// struct encodes to nothing, so for operations without required fields
	// this is the same as no parameters at all.
	if params != nil {
		if rv := reflect.ValueOf(params); rv.Kind() == reflect.Ptr && rv.IsNil() {
			params = reflect.New(rv.Type().Elem()).Interface()
		}
	}

	var pairs []pair

	switch p := params.(type) {
	case nil:
	case Form:
		pairs = p.encodeToPairs("")
	default:
		if err := validate.Struct(params); err != nil {
			return fmt.Errorf("invalid parameters for %s %s: %w", method, path, err)
		}

		pairs = formPairs(params)

		if pc, ok := params.(ParamsContainer); ok {
			p1 := pc.GetParams()

			if p1.IdempotencyKey != nil {
				req.IdempotencyKey = *p1.IdempotencyKey
			}

			if p1.StripeAccount != nil {
				req.StripeAccount = *p1.StripeAccount
			}
			pairs = append(pairs, p1.Extra.encodeToPairs("")...)
		}
	}

	if encoded := encodePairs(pairs); encoded != "" {
		if method == "POST" {
			req.Body = encoded
		} else {
			sep := "?"

			if strings.Contains(req.Path, "?") {
				sep = "&"
			}
			req.Path += sep + encoded
		}
	}

	resp, err := c.transport.Do(ctx, req)

	if err != nil {
		return err
	}

	if !respCode2xx(resp.StatusCode) {
		return apiError(resp)
	}

	if v == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return &DecodeError{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        err,
		}
	}
	return nil
}

// Get will send a GET request to the given path of the API, with the given
// Form encoded into the query string. The response is decoded into v when v
// is non-nil. This is the escape hatch for endpoints the typed operations do
// not cover.
func (c *Client) Get(ctx context.Context, path string, params Form, v interface{}) error {
	return c.call(ctx, "GET", path, params, v)
}

// Post will send a POST request to the given path of the API, with the given
// Form encoded into the request body. The response is decoded into v when v
// is non-nil.
func (c *Client) Post(ctx context.Context, path string, params Form, v interface{}) error {
	return c.call(ctx, "POST", path, params, v)
}

// Delete will send a DELETE request to the given path of the API. The
// response is decoded into v when v is non-nil.
func (c *Client) Delete(ctx context.Context, path string, v interface{}) error {
	return c.call(ctx, "DELETE", path, nil, v)
}
