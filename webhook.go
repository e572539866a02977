package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTolerance is how far in the past the timestamp of a webhook may lie
// before it is rejected as a possible replay.
const DefaultTolerance = 300 * time.Second

var (
	// ErrWebhookNotSigned denotes when a webhook carries no Stripe-Signature
	// header at all.
	ErrWebhookNotSigned = errors.New("webhook has no signature header")

	// ErrWebhookInvalidHeader denotes when a Stripe-Signature header does not
	// follow the t=<timestamp>,v1=<signature> format.
	ErrWebhookInvalidHeader = errors.New("webhook has an invalid signature header")

	// ErrWebhookNoValidSignature denotes when none of the signatures in a
	// Stripe-Signature header match the payload.
	ErrWebhookNoValidSignature = errors.New("webhook has no valid signature")

	// ErrWebhookTooOld denotes when the timestamp of a webhook lies outside
	// the tolerance window, which points at a replayed request.
	ErrWebhookTooOld = errors.New("webhook timestamp is outside of the tolerance window")
)

// ComputeSignature computes a webhook signature using the given secret, over
// the given timestamp and payload the way Stripe signs deliveries, that is,
// an HMAC-SHA256 over "<unix timestamp>.<payload>".
func ComputeSignature(t time.Time, payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(t.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignPayload returns a full Stripe-Signature header value for the given
// timestamp and payload. Use this to sign simulated deliveries in tests.
func SignPayload(t time.Time, payload []byte, secret string) string {
	sig := ComputeSignature(t, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), hex.EncodeToString(sig))
}

type signedHeader struct {
	timestamp  time.Time
	signatures [][]byte
}

func parseSignatureHeader(header string) (*signedHeader, error) {
	sh := &signedHeader{}

	if header == "" {
		return sh, ErrWebhookNotSigned
	}

	for _, item := range strings.Split(header, ",") {
		parts := strings.Split(item, "=")

		if len(parts) != 2 {
			return sh, ErrWebhookInvalidHeader
		}

		switch parts[0] {
		case "t":
			ts, err := strconv.ParseInt(parts[1], 10, 64)

			if err != nil {
				return sh, ErrWebhookInvalidHeader
			}
			sh.timestamp = time.Unix(ts, 0)
		case "v1":
			sig, err := hex.DecodeString(parts[1])

			if err != nil {
				// Punt on entries that are not valid hex, another entry may
				// still match.
				continue
			}
			sh.signatures = append(sh.signatures, sig)
		case "v0":
			// Test-mode scheme, never valid for live payloads.
		default:
			// Unknown schemes are ignored, Stripe may add them over time.
		}
	}

	if sh.timestamp.IsZero() {
		return sh, ErrWebhookNotSigned
	}

	if len(sh.signatures) == 0 {
		return sh, ErrWebhookNoValidSignature
	}
	return sh, nil
}

// validatePayload verifies the given payload against the signatures in the
// given header. The payload is untrusted input, nothing of it is decoded
// before the signature and the tolerance window have both checked out.
func validatePayload(payload []byte, header, secret string, tolerance time.Duration, enforceTolerance bool) error {
	sh, err := parseSignatureHeader(header)

	if err != nil {
		return err
	}

	expected := ComputeSignature(sh.timestamp, payload, secret)

	matched := false

	for _, sig := range sh.signatures {
		if hmac.Equal(expected, sig) {
			matched = true
			break
		}
	}

	if !matched {
		return ErrWebhookNoValidSignature
	}

	if enforceTolerance && time.Since(sh.timestamp) > tolerance {
		return ErrWebhookTooOld
	}
	return nil
}

// ConstructEvent verifies the given payload against the given Stripe-Signature
// header value using the given webhook signing secret, and decodes the payload
// into an Event once, and only once, verification has passed. Payloads older
// than DefaultTolerance are rejected, use ConstructEventWithTolerance to widen
// or narrow that window.
func ConstructEvent(payload []byte, header, secret string) (Event, error) {
	return constructEvent(payload, header, secret, DefaultTolerance, true)
}

// ConstructEventWithTolerance is ConstructEvent with its replay tolerance
// window set to the given duration instead of DefaultTolerance.
func ConstructEventWithTolerance(payload []byte, header, secret string, tolerance time.Duration) (Event, error) {
	return constructEvent(payload, header, secret, tolerance, true)
}

// ConstructEventIgnoringTolerance is ConstructEvent without the replay check,
// any timestamp is accepted as long as the signature matches. Useful when
// replaying stored deliveries on purpose.
func ConstructEventIgnoringTolerance(payload []byte, header, secret string) (Event, error) {
	return constructEvent(payload, header, secret, 0, false)
}

func constructEvent(payload []byte, header, secret string, tolerance time.Duration, enforceTolerance bool) (Event, error) {
	e := Event{}

	if err := validatePayload(payload, header, secret, tolerance, enforceTolerance); err != nil {
		return e, err
	}

	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	return e, nil
}

// WebhookHandlerFunc is the handler function that is registered against an
// event type. This is like an http.HandlerFunc, only the first argument it
// is passed is the verified event sent from Stripe.
type WebhookHandlerFunc func(Event, http.ResponseWriter, *http.Request)

// WebhookHandler provides a way of registering handlers against the
// different events emitted by Stripe. Each request is verified against the
// signing secret before any handler sees it, and optionally deduplicated
// through a Store so a redelivered event is not handled twice.
type WebhookHandler struct {
	mu        sync.RWMutex
	errh      func(error)
	secret    string
	store     Store
	tolerance time.Duration
	events    map[EventType]WebhookHandlerFunc
}

// NewWebhookHandler returns a WebhookHandler using the given secret for
// request verification, and the given callback for handling any errors that
// occur during request verification. The given Store is used for logging the
// events that have been handled, it can be nil to skip deduplication.
func NewWebhookHandler(secret string, s Store, errh func(error)) *WebhookHandler {
	return &WebhookHandler{
		mu:        sync.RWMutex{},
		errh:      errh,
		secret:    secret,
		store:     s,
		tolerance: DefaultTolerance,
		events:    make(map[EventType]WebhookHandlerFunc),
	}
}

// SetTolerance changes the replay tolerance window used during verification.
// Call this before the handler starts serving requests.
func (h *WebhookHandler) SetTolerance(tolerance time.Duration) {
	h.tolerance = tolerance
}

// Handle registers a new handler for the given event type. If a handler was
// already registered against the given event type, then that handler will be
// overwritten with the new handler.
func (h *WebhookHandler) Handle(event EventType, fn WebhookHandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events[event] = fn
}

// HandlerFunc should be registered in the route multiplexer being used to
// register routes in the web server. For example,
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/stripe-hook", hook.HandlerFunc)
//
// this would cause the WebhookHandler to handle all of the requests sent to
// the "/stripe-hook" endpoint.
func (h *WebhookHandler) HandlerFunc(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)

	if err != nil {
		h.errh(err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := ConstructEventWithTolerance(payload, r.Header.Get("Stripe-Signature"), h.secret, h.tolerance)

	if err != nil {
		h.errh(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if h.store != nil {
		if err := h.store.LogEvent(r.Context(), event.ID); err != nil {
			if !errors.Is(err, ErrEventExists) {
				h.errh(err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			return
		}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if fn, ok := h.events[event.Type]; ok {
		fn(event, w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
}
