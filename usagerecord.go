package stripe

import "context"

// UsageRecord reports usage of a metered price to a subscription item for a
// point in time. Usage records cannot be retrieved once created, list the
// summaries instead.
type UsageRecord struct {
	ID               string `json:"id"`
	Object           string `json:"object"`
	Livemode         bool   `json:"livemode"`
	Quantity         int64  `json:"quantity"`
	SubscriptionItem string `json:"subscription_item"`
	Timestamp        int64  `json:"timestamp"`
}

// UsageRecordSummary sums the usage of a subscription item over one billing
// period. Invoice is empty for the period still in progress, whose total
// keeps changing as new usage comes in.
type UsageRecordSummary struct {
	ID               string                    `json:"id"`
	Object           string                    `json:"object"`
	Invoice          string                    `json:"invoice"`
	Livemode         bool                      `json:"livemode"`
	Period           *UsageRecordSummaryPeriod `json:"period"`
	SubscriptionItem string                    `json:"subscription_item"`
	TotalUsage       int64                     `json:"total_usage"`
}

// UsageRecordSummaryPeriod is the billing period a UsageRecordSummary
// covers. An End of 0 means the period has not ended yet.
type UsageRecordSummaryPeriod struct {
	End   int64 `json:"end"`
	Start int64 `json:"start"`
}

// ObjectID implements the Object interface.
func (urs *UsageRecordSummary) ObjectID() string { return urs.ID }

// Valid values for the Action of CreateUsageRecordParams. Increment is what
// the API defaults to when no action is sent.
const (
	UsageRecordActionIncrement = "increment"
	UsageRecordActionSet       = "set"
)

var subscriptionItemEndpoint = "/v1/subscription_items"

// CreateUsageRecordParams are the parameters for reporting usage to a
// subscription item. Timestamp must lie within the current billing period of
// the subscription. A Quantity of 0 with UsageRecordActionSet clears the
// usage at the timestamp.
type CreateUsageRecordParams struct {
	Params

	Quantity  int64   `form:"quantity"`
	Timestamp int64   `form:"timestamp"`
	Action    *string `form:"action"`
}

// NewCreateUsageRecordParams returns CreateUsageRecordParams with the
// parameters the API requires set.
func NewCreateUsageRecordParams(quantity, timestamp int64) *CreateUsageRecordParams {
	return &CreateUsageRecordParams{
		Quantity:  quantity,
		Timestamp: timestamp,
	}
}

// CreateUsageRecord will report usage for the subscription item with the
// given id to Stripe.
func (c *Client) CreateUsageRecord(ctx context.Context, subscriptionItem string, params *CreateUsageRecordParams) (*UsageRecord, error) {
	ur := &UsageRecord{}

	endpoint := subscriptionItemEndpoint + "/" + subscriptionItem + "/usage_records"

	if err := c.call(ctx, "POST", endpoint, params, ur); err != nil {
		return nil, err
	}
	return ur, nil
}

// ListUsageRecordSummaries will list the UsageRecordSummaries of the
// subscription item with the given id, newest period first. The params can
// be nil to list everything.
func (c *Client) ListUsageRecordSummaries(ctx context.Context, subscriptionItem string, params *ListParams) (*List[*UsageRecordSummary], error) {
	l := &List[*UsageRecordSummary]{}

	endpoint := subscriptionItemEndpoint + "/" + subscriptionItem + "/usage_record_summaries"

	if err := c.call(ctx, "GET", endpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}
