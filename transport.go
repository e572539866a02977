package stripe

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"
)

const (
	// APIURL is the base url that requests are made against.
	APIURL = "https://api.stripe.com"

	// APIVersion is the version of the Stripe API this library was written
	// against. It is sent in the Stripe-Version header of every request so
	// the shapes of the resources coming back stay stable no matter what the
	// account itself is pinned to.
	APIVersion = "2020-08-27"

	// DefaultTimeout is how long a single request is given before it is
	// abandoned, when the transport has no timeout configured and the
	// request context has no deadline of its own.
	DefaultTimeout = 80 * time.Second

	clientVersion = "0.13.0"
)

// AppInfo identifies the application built on top of this library. When set
// on a transport it is appended to the User-Agent of each request.
type AppInfo struct {
	Name    string
	URL     string
	Version string
}

func (a *AppInfo) userAgent() string {
	s := a.Name

	if a.Version != "" {
		s += "/" + a.Version
	}

	if a.URL != "" {
		s += " (" + a.URL + ")"
	}
	return s
}

// Request is a single call against the API, ready for a Transport to carry
// out.
type Request struct {
	// Method is the HTTP method, one of GET, POST, or DELETE.
	Method string

	// Path is the path of the endpoint including any query string, for
	// example "/v1/charges".
	Path string

	// Body is the x-www-form-urlencoded payload. This is empty for GET and
	// DELETE requests, whose parameters travel in the query string instead.
	Body string

	// Key is the secret API key the request is authorized with.
	Key string

	// IdempotencyKey, if non-empty, is sent in the Idempotency-Key header
	// of the request.
	IdempotencyKey string

	// StripeAccount, if non-empty, is sent in the Stripe-Account header of
	// the request.
	StripeAccount string
}

// RawResponse is the response to a Request before any decoding has been
// done.
type RawResponse struct {
	Status     string
	StatusCode int
	Header     http.Header
	Body       []byte

	// RequestID is Stripe's own identifier for the request, taken from the
	// Request-Id header.
	RequestID string
}

// Transport carries requests to the Stripe API. HTTPTransport performs each
// request on the goroutine that asked for it, AsyncTransport hands them off
// to be performed in the background. Both apply the same base url, timeout,
// and header conventions.
type Transport interface {
	Do(ctx context.Context, req Request) (*RawResponse, error)
}

// TransportConfig configures how requests reach the API. The zero value is
// usable, and talks to the live API with the defaults documented on each
// field.
type TransportConfig struct {
	// BaseURL of the API, APIURL unless set. Point this at a test server to
	// stub the API out.
	BaseURL string

	// Version sent in the Stripe-Version header, APIVersion unless set.
	Version string

	// Timeout for a single request, DefaultTimeout unless set. A deadline
	// already set on a request's context takes precedence.
	Timeout time.Duration

	// HTTPClient, when set, is used as given for every request, TLS
	// configuration included. Mutually exclusive with TLSConfig.
	HTTPClient *http.Client

	// TLSConfig, when set, is the TLS configuration handshakes are made
	// with, for callers that need to pin certificates or otherwise stray
	// from the platform defaults. Mutually exclusive with HTTPClient.
	TLSConfig *tls.Config

	// AppInfo identifies the application using this library in the
	// User-Agent of each request.
	AppInfo *AppInfo

	// MaxInFlight caps how many requests an AsyncTransport will have running
	// at once, DefaultMaxInFlight unless set. HTTPTransport ignores it.
	MaxInFlight int
}

// HTTPTransport is the blocking Transport. Do performs the request on the
// calling goroutine, and does not return until the response has arrived in
// full or the request has failed. An HTTPTransport is safe for use from
// multiple goroutines at once, requests share its pooled connections.
type HTTPTransport struct {
	client  *http.Client
	base    string
	version string
	timeout time.Duration
	ua      string
	cua     string
}

var _ Transport = (*HTTPTransport)(nil)

// NewTransport configures a blocking HTTPTransport from the given config.
// This errors if the config sets both HTTPClient and TLSConfig, the two are
// different answers to the same question.
func NewTransport(cfg TransportConfig) (*HTTPTransport, error) {
	if cfg.HTTPClient != nil && cfg.TLSConfig != nil {
		return nil, errors.New("HTTPClient and TLSConfig are mutually exclusive")
	}
	return newHTTPTransport(cfg), nil
}

func newHTTPTransport(cfg TransportConfig) *HTTPTransport {
	t := &HTTPTransport{
		client:  cfg.HTTPClient,
		base:    APIURL,
		version: APIVersion,
		timeout: DefaultTimeout,
		ua:      "Stripe/v1 GoBindings/" + clientVersion,
		cua:     clientUserAgent(),
	}

	if cfg.BaseURL != "" {
		t.base = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	if cfg.Version != "" {
		t.version = cfg.Version
	}

	if cfg.Timeout > 0 {
		t.timeout = cfg.Timeout
	}

	if cfg.AppInfo != nil {
		t.ua += " " + cfg.AppInfo.userAgent()
	}

	if t.client == nil {
		t.client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        32,
				MaxIdleConnsPerHost: 8,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
				TLSClientConfig:     cfg.TLSConfig,
			},
		}
	}
	return t
}

func (t *HTTPTransport) Do(ctx context.Context, req Request) (*RawResponse, error) {
	if _, ok := ctx.Deadline(); !ok && t.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var body io.Reader

	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	req1, err := http.NewRequestWithContext(ctx, req.Method, t.base+req.Path, body)

	if err != nil {
		return nil, err
	}

	contentType := map[string]string{
		"POST":   "application/x-www-form-urlencoded",
		"GET":    "application/json; charset=utf-8",
		"DELETE": "application/json; charset=utf-8",
	}

	req1.Header.Set("Authorization", "Bearer "+req.Key)
	req1.Header.Set("Content-Type", contentType[req.Method])
	req1.Header.Set("Stripe-Version", t.version)
	req1.Header.Set("User-Agent", t.ua)
	req1.Header.Set("X-Stripe-Client-User-Agent", t.cua)

	if req.IdempotencyKey != "" {
		req1.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	if req.StripeAccount != "" {
		req1.Header.Set("Stripe-Account", req.StripeAccount)
	}

	resp, err := t.client.Do(req1)

	if err != nil {
		return nil, classify(req, err)
	}

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, classify(req, err)
	}

	return &RawResponse{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       b,
		RequestID:  resp.Header.Get("Request-Id"),
	}, nil
}

// classify sorts a failed request into the error taxonomy. Expired deadlines
// become TimeoutError and anything else TransportError, except cancellation,
// which is the caller's own doing and passes through untouched.
func classify(req Request, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var nerr net.Error

	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return &TimeoutError{
			Method: req.Method,
			Path:   req.Path,
			Err:    err,
		}
	}
	return &TransportError{
		Method: req.Method,
		Path:   req.Path,
		Err:    err,
	}
}

func clientUserAgent() string {
	b, _ := json.Marshal(map[string]string{
		"lang":             "go",
		"lang_version":     runtime.Version(),
		"os":               runtime.GOOS,
		"bindings_version": clientVersion,
	})
	return string(b)
}
