package stripe

import (
	"context"
	"sync"
)

// DefaultMaxInFlight is how many requests an AsyncTransport will have
// running at once, unless configured otherwise.
const DefaultMaxInFlight = 16

// AsyncTransport is the non-blocking Transport. Submit hands each request
// off to its own goroutine and returns a Call that settles exactly once,
// either with the response or with the error. The number of requests running
// at once is bounded, submissions beyond the bound wait for a slot. An
// AsyncTransport is safe for use from multiple goroutines at once.
type AsyncTransport struct {
	inner Transport
	sems  chan struct{}
}

var _ Transport = (*AsyncTransport)(nil)

// NewAsyncTransport configures an AsyncTransport from the given config. The
// requests themselves are carried out by an HTTPTransport built from the
// same config, so the two strategies share their url, timeout, and header
// conventions.
func NewAsyncTransport(cfg TransportConfig) (*AsyncTransport, error) {
	t, err := NewTransport(cfg)

	if err != nil {
		return nil, err
	}

	n := cfg.MaxInFlight

	if n <= 0 {
		n = DefaultMaxInFlight
	}

	return &AsyncTransport{
		inner: t,
		sems:  make(chan struct{}, n),
	}, nil
}

// Call is a request that has been handed off to an AsyncTransport. A Call
// settles exactly once, after which Done is closed and the result never
// changes.
type Call struct {
	once   sync.Once
	done   chan struct{}
	cancel context.CancelFunc

	resp *RawResponse
	err  error
}

// Done returns a channel that closes once the call has settled.
func (c *Call) Done() <-chan struct{} { return c.done }

// Cancel abandons the call. A request still in flight is dropped, and the
// call settles with an error satisfying errors.Is(err, context.Canceled).
// Cancelling a settled call does nothing, and Cancel is safe to call any
// number of times.
func (c *Call) Cancel() { c.cancel() }

// Wait blocks until the call settles, or until the given context expires.
// Waiting is idempotent, every waiter sees the same result. Giving up on the
// wait does not cancel the request itself, that is what Cancel is for.
func (c *Call) Wait(ctx context.Context) (*RawResponse, error) {
	select {
	case <-c.done:
		return c.resp, c.err
	default:
	}

	select {
	case <-c.done:
		return c.resp, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Call) complete(resp *RawResponse, err error) {
	c.once.Do(func() {
		c.resp = resp
		c.err = err
		close(c.done)
	})
}

// Submit hands the request off and returns immediately. The request's
// lifetime is tied to the given context, cancelling it has the same effect
// as cancelling the returned Call.
func (t *AsyncTransport) Submit(ctx context.Context, req Request) *Call {
	ctx, cancel := context.WithCancel(ctx)

	c := &Call{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer cancel()

		select {
		case t.sems <- struct{}{}:
		case <-ctx.Done():
			c.complete(nil, ctx.Err())
			return
		}

		defer func() {
			<-t.sems
		}()

		resp, err := t.inner.Do(ctx, req)
		c.complete(resp, err)
	}()
	return c
}

// Do implements Transport by submitting the request and waiting on it, so an
// AsyncTransport can be used anywhere a blocking one can.
func (t *AsyncTransport) Do(ctx context.Context, req Request) (*RawResponse, error) {
	return t.Submit(ctx, req).Wait(ctx)
}
