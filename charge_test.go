package stripe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Related resources arrive as a bare id until they are expanded, so every
// resource decodes from either shape.
func TestChargeUnmarshalIDOrObject(t *testing.T) {
	var ch Charge

	require.NoError(t, json.Unmarshal([]byte(`{"id":"ch_123456","customer":"cu_123456","payment_intent":"pi_123456"}`), &ch))

	require.NotNil(t, ch.Customer)
	assert.Equal(t, "cu_123456", ch.Customer.ID)
	assert.Empty(t, ch.Customer.Email)

	require.NotNil(t, ch.PaymentIntent)
	assert.Equal(t, "pi_123456", ch.PaymentIntent.ID)

	expanded := `{
		"id": "ch_123456",
		"customer": {"id": "cu_123456", "email": "customer@example.com", "name": "Customer"},
		"payment_intent": {"id": "pi_123456", "status": "succeeded"}
	}`

	require.NoError(t, json.Unmarshal([]byte(expanded), &ch))

	assert.Equal(t, "customer@example.com", ch.Customer.Email)
	assert.Equal(t, PaymentIntentStatusSucceeded, ch.PaymentIntent.Status)
}

func TestChargeEndpoint(t *testing.T) {
	tests := []struct {
		charge   Charge
		uris     []string
		expected string
	}{
		{Charge{}, nil, "/v1/charges"},
		{Charge{ID: "ch_123456"}, nil, "/v1/charges/ch_123456"},
		{Charge{ID: "ch_123456"}, []string{"capture"}, "/v1/charges/ch_123456/capture"},
	}

	for i, test := range tests {
		if endpoint := test.charge.Endpoint(test.uris...); endpoint != test.expected {
			t.Errorf("tests[%d] - unexpected endpoint, expected=%q, got=%q\n", i, test.expected, endpoint)
		}
	}
}

func TestCaptureCharge(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/charges/ch_123456/capture", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "1500", r.PostForm.Get("amount"))

		writeJSON(t, w, http.StatusOK, `{"id":"ch_123456","amount":2000,"amount_captured":1500,"captured":true,"status":"succeeded"}`)
	}))

	ch, err := client.CaptureCharge(context.Background(), "ch_123456", &CaptureChargeParams{
		Amount: Int64(1500),
	})

	require.NoError(t, err)
	assert.True(t, ch.Captured)
	assert.Equal(t, int64(1500), ch.AmountCaptured)
}

// Capturing with nil params still works, the API then captures the full
// amount.
func TestCaptureChargeNilParams(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Empty(t, b)

		writeJSON(t, w, http.StatusOK, `{"id":"ch_123456","captured":true,"status":"succeeded"}`)
	}))

	ch, err := client.CaptureCharge(context.Background(), "ch_123456", nil)

	require.NoError(t, err)
	assert.True(t, ch.Captured)
}

func TestChargeOutcomeDecode(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{
			"id": "ch_123456",
			"status": "succeeded",
			"outcome": {
				"network_status": "approved_by_network",
				"risk_level": "normal",
				"risk_score": 32,
				"seller_message": "Payment complete.",
				"type": "authorized"
			},
			"payment_method_details": {
				"type": "card",
				"card": {"brand": "visa", "last4": "4242", "exp_month": 12, "exp_year": 2030}
			}
		}`)
	}))

	ch, err := client.GetCharge(context.Background(), "ch_123456")

	require.NoError(t, err)
	require.NotNil(t, ch.Outcome)
	assert.Equal(t, "authorized", ch.Outcome.Type)
	assert.Equal(t, int64(32), ch.Outcome.RiskScore)

	require.NotNil(t, ch.PaymentMethodDetails)
	require.NotNil(t, ch.PaymentMethodDetails.Card)
	assert.Equal(t, CardBrandVisa, ch.PaymentMethodDetails.Card.Brand)
	assert.Equal(t, "4242", ch.PaymentMethodDetails.Card.Last4)
}
