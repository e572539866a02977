package stripe

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test_123456"

var webhookPayload = []byte(`{
	"id": "evt_123456",
	"object": "event",
	"api_version": "2020-08-27",
	"created": 1614556800,
	"type": "charge.succeeded",
	"data": {
		"object": {
			"id": "ch_123456",
			"amount": 2000,
			"currency": "usd",
			"status": "succeeded"
		}
	}
}`)

func TestConstructEvent(t *testing.T) {
	header := SignPayload(time.Now(), webhookPayload, webhookSecret)

	event, err := ConstructEvent(webhookPayload, header, webhookSecret)

	require.NoError(t, err)
	assert.Equal(t, "evt_123456", event.ID)
	assert.Equal(t, EventTypeChargeSucceeded, event.Type)

	var ch Charge

	require.NoError(t, event.UnmarshalData(&ch))
	assert.Equal(t, "ch_123456", ch.ID)
	assert.Equal(t, int64(2000), ch.Amount)
}

// A payload tampered with after signing must not verify, and neither must a
// signature made with some other secret.
func TestConstructEventBadSignature(t *testing.T) {
	header := SignPayload(time.Now(), webhookPayload, webhookSecret)

	tampered := bytes.Replace(webhookPayload, []byte("2000"), []byte("9000"), 1)

	event, err := ConstructEvent(tampered, header, webhookSecret)
	assert.True(t, errors.Is(err, ErrWebhookNoValidSignature))
	assert.Equal(t, Event{}, event, "nothing of the payload should come back on failure")

	header = SignPayload(time.Now(), webhookPayload, "whsec_someoneElse")

	_, err = ConstructEvent(webhookPayload, header, webhookSecret)
	assert.True(t, errors.Is(err, ErrWebhookNoValidSignature))
}

func TestConstructEventTolerance(t *testing.T) {
	stale := time.Now().Add(-10 * time.Minute)
	header := SignPayload(stale, webhookPayload, webhookSecret)

	_, err := ConstructEvent(webhookPayload, header, webhookSecret)
	assert.True(t, errors.Is(err, ErrWebhookTooOld))

	event, err := ConstructEventWithTolerance(webhookPayload, header, webhookSecret, 20*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, "evt_123456", event.ID)

	ancient := time.Now().Add(-24 * 365 * time.Hour)
	header = SignPayload(ancient, webhookPayload, webhookSecret)

	event, err = ConstructEventIgnoringTolerance(webhookPayload, header, webhookSecret)

	require.NoError(t, err)
	assert.Equal(t, "evt_123456", event.ID)
}

func TestConstructEventHeaderFormats(t *testing.T) {
	now := time.Now()
	sig := hex.EncodeToString(ComputeSignature(now, webhookPayload, webhookSecret))

	tests := []struct {
		header string
		err    error
	}{
		{"", ErrWebhookNotSigned},
		{"rubbish", ErrWebhookInvalidHeader},
		{"t=abc,v1=" + sig, ErrWebhookInvalidHeader},
		{fmt.Sprintf("v1=%s", sig), ErrWebhookNotSigned},
		{fmt.Sprintf("t=%d", now.Unix()), ErrWebhookNoValidSignature},
		{fmt.Sprintf("t=%d,v1=zznothex", now.Unix()), ErrWebhookNoValidSignature},
		{fmt.Sprintf("t=%d,v1=deadbeef", now.Unix()), ErrWebhookNoValidSignature},
		{fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), sig), nil},
		{fmt.Sprintf("t=%d,v0=%s", now.Unix(), sig), ErrWebhookNoValidSignature},
		{fmt.Sprintf("t=%d,v1=%s,v5=%s", now.Unix(), sig, sig), nil},
		{fmt.Sprintf("t=%d,v1=%s", now.Unix(), sig), nil},
	}

	for i, test := range tests {
		_, err := ConstructEvent(webhookPayload, test.header, webhookSecret)

		if test.err == nil {
			assert.NoError(t, err, "tests[%d] - header %q", i, test.header)
			continue
		}
		assert.True(t, errors.Is(err, test.err), "tests[%d] - header %q, expected %v, got %v", i, test.header, test.err, err)
	}
}

// Verification passing does not make the payload well formed, decoding it can
// still fail, and that failure is not one of the signature errors.
func TestConstructEventMalformedPayload(t *testing.T) {
	payload := []byte(`{"id":`)
	header := SignPayload(time.Now(), payload, webhookSecret)

	_, err := ConstructEvent(payload, header, webhookSecret)

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrWebhookNoValidSignature))
	assert.False(t, errors.Is(err, ErrWebhookInvalidHeader))
}

func postWebhook(t *testing.T, url, header string, payload []byte) *http.Response {
	t.Helper()

	req, err := http.NewRequest("POST", url, bytes.NewReader(payload))
	require.NoError(t, err)

	if header != "" {
		req.Header.Set("Stripe-Signature", header)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	t.Cleanup(func() {
		resp.Body.Close()
	})
	return resp
}

func TestWebhookHandler(t *testing.T) {
	var (
		handled int
		errs    []error
	)

	hook := NewWebhookHandler(webhookSecret, newTestStore(), func(err error) {
		errs = append(errs, err)
	})

	hook.Handle(EventTypeChargeSucceeded, func(event Event, w http.ResponseWriter, r *http.Request) {
		handled++

		assert.Equal(t, "evt_123456", event.ID)

		var ch Charge

		require.NoError(t, event.UnmarshalData(&ch))
		assert.Equal(t, ChargeStatusSucceeded, ch.Status)
	})

	srv := httptest.NewServer(http.HandlerFunc(hook.HandlerFunc))
	defer srv.Close()

	header := SignPayload(time.Now(), webhookPayload, webhookSecret)

	resp := postWebhook(t, srv.URL, header, webhookPayload)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, handled)

	// Stripe redelivers events it thinks went unhandled. The store has seen
	// this ID, so the handler must not run again.
	resp = postWebhook(t, srv.URL, header, webhookPayload)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 1, handled)

	resp = postWebhook(t, srv.URL, "", webhookPayload)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrWebhookNotSigned))

	tampered := bytes.Replace(webhookPayload, []byte("2000"), []byte("9000"), 1)
	resp = postWebhook(t, srv.URL, header, tampered)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, errs, 2)
	assert.True(t, errors.Is(errs[1], ErrWebhookNoValidSignature))

	assert.Equal(t, 1, handled)
}

func TestWebhookHandlerUnregisteredEvent(t *testing.T) {
	hook := NewWebhookHandler(webhookSecret, newTestStore(), func(err error) {
		t.Fatalf("unexpected webhook error: %v", err)
	})

	srv := httptest.NewServer(http.HandlerFunc(hook.HandlerFunc))
	defer srv.Close()

	payload := []byte(`{"id":"evt_789","type":"invoice.finalized","data":{"object":{"id":"in_123456"}}}`)
	header := SignPayload(time.Now(), payload, webhookSecret)

	resp := postWebhook(t, srv.URL, header, payload)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Without a Store there is nothing to deduplicate with, the handler runs on
// every delivery.
func TestWebhookHandlerNoStore(t *testing.T) {
	var handled int

	hook := NewWebhookHandler(webhookSecret, nil, func(err error) {
		t.Fatalf("unexpected webhook error: %v", err)
	})

	hook.Handle(EventTypeChargeSucceeded, func(event Event, w http.ResponseWriter, r *http.Request) {
		handled++
	})

	srv := httptest.NewServer(http.HandlerFunc(hook.HandlerFunc))
	defer srv.Close()

	header := SignPayload(time.Now(), webhookPayload, webhookSecret)

	for i := 0; i < 2; i++ {
		resp := postWebhook(t, srv.URL, header, webhookPayload)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 2, handled)
}

func TestWebhookHandlerTolerance(t *testing.T) {
	var errs []error

	hook := NewWebhookHandler(webhookSecret, newTestStore(), func(err error) {
		errs = append(errs, err)
	})

	srv := httptest.NewServer(http.HandlerFunc(hook.HandlerFunc))
	defer srv.Close()

	stale := time.Now().Add(-10 * time.Minute)
	header := SignPayload(stale, webhookPayload, webhookSecret)

	resp := postWebhook(t, srv.URL, header, webhookPayload)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrWebhookTooOld))

	hook.SetTolerance(20 * time.Minute)

	resp = postWebhook(t, srv.URL, header, webhookPayload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStoreLogEvent(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.LogEvent(ctx, "evt_123456"))

	err := store.LogEvent(ctx, "evt_123456")
	assert.True(t, errors.Is(err, ErrEventExists))

	require.NoError(t, store.LogEvent(ctx, "evt_789"))
}
