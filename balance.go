package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// Balance is the funds of the Stripe account, split by currency into what is
// available for payout and what is still pending. The balance is a singleton,
// it has no id of its own and cannot be listed.
type Balance struct {
	Object    string           `json:"object"`
	Available []*BalanceAmount `json:"available"`
	Livemode  bool             `json:"livemode"`
	Pending   []*BalanceAmount `json:"pending"`
}

// BalanceAmount is the amount of a Balance in a single currency, broken down
// by the type of the source the funds came from.
type BalanceAmount struct {
	Amount      int64            `json:"amount"`
	Currency    Currency         `json:"currency"`
	SourceTypes map[string]int64 `json:"source_types"`
}

// BalanceTransaction is a single movement of funds in or out of the balance,
// such as a charge, a refund, or a payout. Source is the id of the object
// the transaction came from.
type BalanceTransaction struct {
	ID                string                          `json:"id"`
	Object            string                          `json:"object"`
	Amount            int64                           `json:"amount"`
	AvailableOn       int64                           `json:"available_on"`
	Created           int64                           `json:"created"`
	Currency          Currency                        `json:"currency"`
	Description       string                          `json:"description"`
	ExchangeRate      float64                         `json:"exchange_rate"`
	Fee               int64                           `json:"fee"`
	FeeDetails        []*BalanceTransactionFeeDetails `json:"fee_details"`
	Net               int64                           `json:"net"`
	ReportingCategory string                          `json:"reporting_category"`
	Source            string                          `json:"source"`
	Status            BalanceTransactionStatus        `json:"status"`
	Type              BalanceTransactionType          `json:"type"`
}

// BalanceTransactionFeeDetails is a single fee taken out of a
// BalanceTransaction.
type BalanceTransactionFeeDetails struct {
	Amount      int64    `json:"amount"`
	Application string   `json:"application"`
	Currency    Currency `json:"currency"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
}

// BalanceTransactionStatus is the status of a BalanceTransaction. The set is
// open.
type BalanceTransactionStatus string

const (
	BalanceTransactionStatusAvailable BalanceTransactionStatus = "available"
	BalanceTransactionStatusPending   BalanceTransactionStatus = "pending"
)

// BalanceTransactionType says what kind of movement a BalanceTransaction
// was. The set is open.
type BalanceTransactionType string

const (
	BalanceTransactionTypeAdjustment    BalanceTransactionType = "adjustment"
	BalanceTransactionTypeCharge        BalanceTransactionType = "charge"
	BalanceTransactionTypePayment       BalanceTransactionType = "payment"
	BalanceTransactionTypePaymentRefund BalanceTransactionType = "payment_refund"
	BalanceTransactionTypePayout        BalanceTransactionType = "payout"
	BalanceTransactionTypeRefund        BalanceTransactionType = "refund"
	BalanceTransactionTypeStripeFee     BalanceTransactionType = "stripe_fee"
	BalanceTransactionTypeTransfer      BalanceTransactionType = "transfer"
)

var (
	_ Resource = (*BalanceTransaction)(nil)

	balanceEndpoint            = "/v1/balance"
	balanceTransactionEndpoint = "/v1/balance_transactions"
)

// ListBalanceTransactionsParams are the parameters for listing
// BalanceTransactions. Set Payout or Source to only list the transactions
// tied to that object.
type ListBalanceTransactionsParams struct {
	ListParams

	AvailableOn      *int64            `form:"available_on"`
	AvailableOnRange *RangeQueryParams `form:"available_on"`
	Created          *int64            `form:"created"`
	CreatedRange     *RangeQueryParams `form:"created"`
	Currency         *string           `form:"currency"`
	Payout           *string           `form:"payout"`
	Source           *string           `form:"source"`
	Type             *string           `form:"type"`
}

// GetBalance will get the current Balance of the Stripe account the client's
// secret key belongs to.
func (c *Client) GetBalance(ctx context.Context) (*Balance, error) {
	b := &Balance{}

	if err := c.call(ctx, "GET", balanceEndpoint, nil, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBalanceTransaction will get the BalanceTransaction with the given id
// from Stripe.
func (c *Client) GetBalanceTransaction(ctx context.Context, id string) (*BalanceTransaction, error) {
	bt := &BalanceTransaction{ID: id}

	if err := bt.Load(ctx, c); err != nil {
		return nil, err
	}
	return bt, nil
}

// ListBalanceTransactions will list the BalanceTransactions matching the
// given parameters, newest first. The params can be nil to list everything.
func (c *Client) ListBalanceTransactions(ctx context.Context, params *ListBalanceTransactionsParams) (*List[*BalanceTransaction], error) {
	l := &List[*BalanceTransaction]{}

	if err := c.call(ctx, "GET", balanceTransactionEndpoint, params, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ObjectID implements the Object interface.
func (bt *BalanceTransaction) ObjectID() string { return bt.ID }

// Endpoint implements the Resource interface.
func (bt *BalanceTransaction) Endpoint(uris ...string) string {
	endpoint := balanceTransactionEndpoint

	if bt.ID != "" {
		endpoint += "/" + bt.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (bt *BalanceTransaction) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", bt.Endpoint(), nil, bt)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (bt *BalanceTransaction) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*bt = BalanceTransaction{ID: id}
		return nil
	}

	type balanceTransaction BalanceTransaction

	var bt1 balanceTransaction

	if err := json.Unmarshal(data, &bt1); err != nil {
		return err
	}

	*bt = BalanceTransaction(bt1)
	return nil
}
