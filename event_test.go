package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventUnmarshalData(t *testing.T) {
	payload := `{
		"id": "evt_123456",
		"object": "event",
		"api_version": "2020-08-27",
		"created": 1614556800,
		"type": "customer.subscription.updated",
		"data": {
			"object": {
				"id": "sub_123456",
				"status": "active",
				"cancel_at_period_end": true,
				"customer": "cu_123456"
			},
			"previous_attributes": {
				"cancel_at_period_end": false
			}
		},
		"request": {"id": "req_123456", "idempotency_key": "idem_123456"}
	}`

	var event Event

	require.NoError(t, json.Unmarshal([]byte(payload), &event))

	assert.Equal(t, EventTypeCustomerSubscriptionUpdated, event.Type)
	require.NotNil(t, event.Request)
	assert.Equal(t, "idem_123456", event.Request.IdempotencyKey)

	var sub Subscription

	require.NoError(t, event.UnmarshalData(&sub))
	assert.Equal(t, "sub_123456", sub.ID)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, "cu_123456", sub.Customer.ID)

	require.NotNil(t, event.Data.PreviousAttributes)
	assert.Equal(t, false, event.Data.PreviousAttributes["cancel_at_period_end"])
}

func TestEventUnmarshalDataMissing(t *testing.T) {
	event := Event{ID: "evt_123456"}

	var ch Charge

	assert.Error(t, event.UnmarshalData(&ch))
}

func TestGetEvent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v1/events/evt_123456", r.URL.Path)

		writeJSON(t, w, http.StatusOK, `{"id":"evt_123456","type":"charge.succeeded","data":{"object":{"id":"ch_123456"}}}`)
	}))

	event, err := client.GetEvent(context.Background(), "evt_123456")

	require.NoError(t, err)
	assert.Equal(t, EventTypeChargeSucceeded, event.Type)
}

func TestListEvents(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		assert.Equal(t, "charge.succeeded", q.Get("type"))
		assert.Equal(t, "1614556800", q.Get("created[gte]"))

		writeJSON(t, w, http.StatusOK, `{"object":"list","url":"/v1/events","has_more":false,"data":[{"id":"evt_1"},{"id":"evt_2"}]}`)
	}))

	params := &ListEventsParams{
		Type: String("charge.succeeded"),
		CreatedRange: &RangeQueryParams{
			GreaterThanOrEqual: Int64(1614556800),
		},
	}

	l, err := client.ListEvents(context.Background(), params)

	require.NoError(t, err)
	require.Len(t, l.Data, 2)
	assert.Equal(t, "evt_1", l.Data[0].ID)
}
