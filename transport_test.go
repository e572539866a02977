package stripe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportHeaders(t *testing.T) {
	var captured http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr, err := NewTransport(TransportConfig{
		BaseURL: srv.URL,
		Version: "2020-08-27",
		AppInfo: &AppInfo{
			Name:    "invoicer",
			URL:     "https://invoicer.example.com",
			Version: "1.2.3",
		},
	})
	require.NoError(t, err)

	_, err = tr.Do(context.Background(), Request{
		Method:         "POST",
		Path:           "/v1/charges",
		Body:           "amount=2000&currency=usd",
		Key:            "sk_test_123456",
		IdempotencyKey: "idem_123456",
		StripeAccount:  "acct_123456",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_123456", captured.Get("Authorization"))
	assert.Equal(t, "2020-08-27", captured.Get("Stripe-Version"))
	assert.Equal(t, "application/x-www-form-urlencoded", captured.Get("Content-Type"))
	assert.Equal(t, "idem_123456", captured.Get("Idempotency-Key"))
	assert.Equal(t, "acct_123456", captured.Get("Stripe-Account"))

	ua := captured.Get("User-Agent")
	assert.Contains(t, ua, "Stripe/v1 GoBindings/")
	assert.Contains(t, ua, "invoicer/1.2.3 (https://invoicer.example.com)")

	var cua map[string]string

	require.NoError(t, json.Unmarshal([]byte(captured.Get("X-Stripe-Client-User-Agent")), &cua))
	assert.Equal(t, "go", cua["lang"])
	assert.NotEmpty(t, cua["lang_version"])
}

func TestTransportGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v1/charges/ch_123456", r.URL.Path)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Idempotency-Key"))

		w.Header().Set("Request-Id", "req_123456")
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte(`{"id":"ch_123456"}`)); err != nil {
			t.Fatal(err)
		}
	}))
	defer srv.Close()

	tr, err := NewTransport(TransportConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := tr.Do(context.Background(), Request{
		Method: "GET",
		Path:   "/v1/charges/ch_123456",
		Key:    "sk_test_123456",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req_123456", resp.RequestID)
	assert.JSONEq(t, `{"id":"ch_123456"}`, string(resp.Body))
}

func TestTransportTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	tr, err := NewTransport(TransportConfig{
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = tr.Do(context.Background(), Request{
		Method: "GET",
		Path:   "/v1/charges",
		Key:    "sk_test_123456",
	})

	var terr *TimeoutError

	require.ErrorAs(t, err, &terr)
	assert.True(t, terr.Timeout())
	assert.True(t, IsTimeout(err))
	assert.Contains(t, terr.Error(), "/v1/charges")
}

func TestTransportConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	url := srv.URL
	srv.Close()

	tr, err := NewTransport(TransportConfig{BaseURL: url})
	require.NoError(t, err)

	_, err = tr.Do(context.Background(), Request{
		Method: "GET",
		Path:   "/v1/charges",
		Key:    "sk_test_123456",
	})

	var terr *TransportError

	require.ErrorAs(t, err, &terr)
	assert.False(t, IsTimeout(err))
}

// Cancellation is the caller's own doing, it must come back as
// context.Canceled and not be dressed up as a timeout or transport failure.
func TestTransportCancellation(t *testing.T) {
	started := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	tr, err := NewTransport(TransportConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-started
		cancel()
	}()

	_, err = tr.Do(ctx, Request{
		Method: "GET",
		Path:   "/v1/charges",
		Key:    "sk_test_123456",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, IsTimeout(err))
}

func TestTransportMutuallyExclusiveTLS(t *testing.T) {
	_, err := NewTransport(TransportConfig{
		HTTPClient: &http.Client{},
		TLSConfig:  &tls.Config{},
	})

	require.Error(t, err)

	_, err = NewAsyncTransport(TransportConfig{
		HTTPClient: &http.Client{},
		TLSConfig:  &tls.Config{},
	})

	require.Error(t, err)
}

func TestTransportTLSConfig(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte(`{"id":"ch_123456"}`)); err != nil {
			t.Fatal(err)
		}
	}))
	defer srv.Close()

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())

	tr, err := NewTransport(TransportConfig{
		BaseURL:   srv.URL,
		TLSConfig: &tls.Config{RootCAs: pool},
	})
	require.NoError(t, err)

	resp, err := tr.Do(context.Background(), Request{
		Method: "GET",
		Path:   "/v1/charges/ch_123456",
		Key:    "sk_test_123456",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
