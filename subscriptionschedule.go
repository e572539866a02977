package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// SubscriptionSchedule changes a subscription over time through an ordered
// list of phases. When the last phase ends the schedule either releases the
// subscription or cancels it, depending on EndBehavior.
type SubscriptionSchedule struct {
	ID                   string                          `json:"id"`
	Object               string                          `json:"object"`
	CanceledAt           int64                           `json:"canceled_at"`
	CompletedAt          int64                           `json:"completed_at"`
	Created              int64                           `json:"created"`
	CurrentPhase         *SubscriptionSchedulePhaseSpan  `json:"current_phase"`
	Customer             *Customer                       `json:"customer"`
	EndBehavior          SubscriptionScheduleEndBehavior `json:"end_behavior"`
	Livemode             bool                            `json:"livemode"`
	Metadata             Metadata                        `json:"metadata"`
	Phases               []*SubscriptionSchedulePhase    `json:"phases"`
	ReleasedAt           int64                           `json:"released_at"`
	ReleasedSubscription string                          `json:"released_subscription"`
	Status               SubscriptionScheduleStatus      `json:"status"`
	Subscription         *Subscription                   `json:"subscription"`
}

// SubscriptionScheduleStatus is where a SubscriptionSchedule is in its
// lifecycle. The set is open.
type SubscriptionScheduleStatus string

const (
	SubscriptionScheduleStatusActive     SubscriptionScheduleStatus = "active"
	SubscriptionScheduleStatusCanceled   SubscriptionScheduleStatus = "canceled"
	SubscriptionScheduleStatusCompleted  SubscriptionScheduleStatus = "completed"
	SubscriptionScheduleStatusNotStarted SubscriptionScheduleStatus = "not_started"
	SubscriptionScheduleStatusReleased   SubscriptionScheduleStatus = "released"
)

// SubscriptionScheduleEndBehavior is what happens to the subscription when
// its schedule runs out of phases. The set is open.
type SubscriptionScheduleEndBehavior string

const (
	SubscriptionScheduleEndBehaviorCancel  SubscriptionScheduleEndBehavior = "cancel"
	SubscriptionScheduleEndBehaviorRelease SubscriptionScheduleEndBehavior = "release"
)

// SubscriptionSchedulePhaseSpan is the window of the phase a schedule is
// currently in.
type SubscriptionSchedulePhaseSpan struct {
	EndDate   int64 `json:"end_date"`
	StartDate int64 `json:"start_date"`
}

// SubscriptionSchedulePhase is one phase of a SubscriptionSchedule.
type SubscriptionSchedulePhase struct {
	DefaultPaymentMethod *PaymentMethod                   `json:"default_payment_method"`
	EndDate              int64                            `json:"end_date"`
	Items                []*SubscriptionSchedulePhaseItem `json:"items"`
	ProrationBehavior    string                           `json:"proration_behavior"`
	StartDate            int64                            `json:"start_date"`
	TrialEnd             int64                            `json:"trial_end"`
}

// SubscriptionSchedulePhaseItem ties one Price, and a quantity of it, to a
// phase.
type SubscriptionSchedulePhaseItem struct {
	Price    *Price     `json:"price"`
	Quantity int64      `json:"quantity"`
	TaxRates []*TaxRate `json:"tax_rates"`
}

var (
	_ Resource = (*SubscriptionSchedule)(nil)

	subscriptionScheduleEndpoint = "/v1/subscription_schedules"
)

// SubscriptionSchedulePhaseItemsParams describes one item of a phase.
type SubscriptionSchedulePhaseItemsParams struct {
	Price    *string  `form:"price" validate:"required"`
	Quantity *int64   `form:"quantity"`
	TaxRates []string `form:"tax_rates"`
}

// SubscriptionSchedulePhasesParams describes one phase of a schedule being
// created. A phase runs from the end of the one before it until EndDate, or
// for Iterations of its items' recurring interval.
type SubscriptionSchedulePhasesParams struct {
	Items             []*SubscriptionSchedulePhaseItemsParams `form:"items" validate:"required,min=1,dive,required"`
	EndDate           *int64                                  `form:"end_date"`
	Iterations        *int64                                  `form:"iterations"`
	ProrationBehavior *string                                 `form:"proration_behavior"`
	TrialEnd          *int64                                  `form:"trial_end"`
}

// CreateSubscriptionScheduleParams are the parameters for creating a
// SubscriptionSchedule. Set FromSubscription to wrap an existing
// subscription in a schedule, or Customer and Phases to start from scratch.
type CreateSubscriptionScheduleParams struct {
	Params

	Customer         *string                             `form:"customer" validate:"required_without=FromSubscription,excluded_with=FromSubscription"`
	EndBehavior      *string                             `form:"end_behavior"`
	FromSubscription *string                             `form:"from_subscription" validate:"omitempty,excluded_with=Phases"`
	Metadata         Metadata                            `form:"metadata"`
	Phases           []*SubscriptionSchedulePhasesParams `form:"phases" validate:"omitempty,min=1,dive,required"`
	StartDate        *int64                              `form:"start_date"`
}

// CancelSubscriptionScheduleParams are the parameters for canceling a
// SubscriptionSchedule. All of them are optional.
type CancelSubscriptionScheduleParams struct {
	Params

	InvoiceNow *bool `form:"invoice_now"`
	Prorate    *bool `form:"prorate"`
}

// ReleaseSubscriptionScheduleParams are the parameters for releasing a
// SubscriptionSchedule. Set PreserveCancelDate to keep a cancellation date
// the schedule had applied to its subscription.
type ReleaseSubscriptionScheduleParams struct {
	Params

	PreserveCancelDate *bool `form:"preserve_cancel_date"`
}

// ListSubscriptionSchedulesParams are the parameters for listing
// SubscriptionSchedules.
type ListSubscriptionSchedulesParams struct {
	ListParams

	Created      *int64            `form:"created"`
	CreatedRange *RangeQueryParams `form:"created"`
	Customer     *string           `form:"customer"`
	Scheduled    *bool             `form:"scheduled"`
}

// CreateSubscriptionSchedule will create a new SubscriptionSchedule in
// Stripe with the given parameters and return it.
func (c *Client) CreateSubscriptionSchedule(ctx context.Context, params *CreateSubscriptionScheduleParams) (*SubscriptionSchedule, error) {
	sched := &SubscriptionSchedule{}

	if err := c.call(ctx, "POST", subscriptionScheduleEndpoint, params, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// GetSubscriptionSchedule will get the SubscriptionSchedule with the given
// id from Stripe.
func (c *Client) GetSubscriptionSchedule(ctx context.Context, id string) (*SubscriptionSchedule, error) {
	sched := &SubscriptionSchedule{ID: id}

	if err := sched.Load(ctx, c); err != nil {
		return nil, err
	}
	return sched, nil
}

// CancelSubscriptionSchedule will cancel the SubscriptionSchedule with the
// given id, along with its subscription if one is attached. The schedule
// must be not started or active. The params can be nil.
func (c *Client) CancelSubscriptionSchedule(ctx context.Context, id string, params *CancelSubscriptionScheduleParams) (*SubscriptionSchedule, error) {
	sched := &SubscriptionSchedule{ID: id}

	if err := c.call(ctx, "POST", sched.Endpoint("cancel"), params, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// ReleaseSubscriptionSchedule will release the SubscriptionSchedule with the
// given id, detaching it from its subscription and leaving the subscription
// as it stands. The schedule must be not started or active. The params can
// be nil.
func (c *Client) ReleaseSubscriptionSchedule(ctx context.Context, id string, params *ReleaseSubscriptionScheduleParams) (*SubscriptionSchedule, error) {
	sched := &SubscriptionSchedule{ID: id}

	if err := c.call(ctx, "POST", sched.Endpoint("release"), params, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// ListSubscriptionSchedules will list the SubscriptionSchedules matching the
// given parameters. The params can be nil to list everything.
func (c *Client) ListSubscriptionSchedules(ctx context.Context, params *ListSubscriptionSchedulesParams) (*List[*SubscriptionSchedule], error) {
	l := &List[*SubscriptionSchedule]{}

	if err := c.call(ctx, "GET", subscriptionScheduleEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (ss *SubscriptionSchedule) ObjectID() string { return ss.ID }

// Endpoint implements the Resource interface.
func (ss *SubscriptionSchedule) Endpoint(uris ...string) string {
	endpoint := subscriptionScheduleEndpoint

	if ss.ID != "" {
		endpoint += "/" + ss.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (ss *SubscriptionSchedule) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", ss.Endpoint(), nil, ss)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (ss *SubscriptionSchedule) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*ss = SubscriptionSchedule{ID: id}
		return nil
	}

	type subscriptionSchedule SubscriptionSchedule

	var ss1 subscriptionSchedule

	if err := json.Unmarshal(data, &ss1); err != nil {
		return err
	}

	*ss = SubscriptionSchedule(ss1)
	return nil
}
