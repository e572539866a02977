package stripe

import (
	"context"
	"encoding/json"
	"strings"
)

// Token is a single-use stand-in for card details, made client side so the
// raw numbers never touch your servers. Tokens like "tok_visa" work as the
// Source of a Charge, or the Card of a PaymentMethod.
type Token struct {
	ID       string    `json:"id"`
	Object   string    `json:"object"`
	Card     *Card     `json:"card"`
	ClientIP string    `json:"client_ip"`
	Created  int64     `json:"created"`
	Livemode bool      `json:"livemode"`
	Type     TokenType `json:"type"`
	Used     bool      `json:"used"`
}

// TokenType is what a Token stands in for. The set is open.
type TokenType string

const (
	TokenTypeAccount     TokenType = "account"
	TokenTypeBankAccount TokenType = "bank_account"
	TokenTypeCard        TokenType = "card"
	TokenTypePII         TokenType = "pii"
)

// Card is the card a Token was made from.
type Card struct {
	ID             string    `json:"id"`
	Object         string    `json:"object"`
	AddressCity    string    `json:"address_city"`
	AddressCountry string    `json:"address_country"`
	AddressLine1   string    `json:"address_line1"`
	AddressLine2   string    `json:"address_line2"`
	AddressState   string    `json:"address_state"`
	AddressZip     string    `json:"address_zip"`
	Brand          CardBrand `json:"brand"`
	Country        string    `json:"country"`
	CVCCheck       string    `json:"cvc_check"`
	ExpMonth       int64     `json:"exp_month"`
	ExpYear        int64     `json:"exp_year"`
	Fingerprint    string    `json:"fingerprint"`
	Funding        string    `json:"funding"`
	Last4          string    `json:"last4"`
	Metadata       Metadata  `json:"metadata"`
	Name           string    `json:"name"`
}

var (
	_ Resource = (*Token)(nil)

	tokenEndpoint = "/v1/tokens"
)

// CreateTokenParams are the parameters for creating a Token from a card.
type CreateTokenParams struct {
	Params

	Card *CardParams `form:"card" validate:"required"`
}

// NewCreateTokenParams returns CreateTokenParams with the parameters the API
// requires set.
func NewCreateTokenParams(card *CardParams) *CreateTokenParams {
	return &CreateTokenParams{
		Card: card,
	}
}

// CreateToken will create a new Token in Stripe with the given parameters
// and return it.
func (c *Client) CreateToken(ctx context.Context, params *CreateTokenParams) (*Token, error) {
	t := &Token{}

	if err := c.call(ctx, "POST", tokenEndpoint, params, t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetToken will get the Token with the given id from Stripe.
func (c *Client) GetToken(ctx context.Context, id string) (*Token, error) {
	t := &Token{ID: id}

	if err := t.Load(ctx, c); err != nil {
		return nil, err
	}
	return t, nil
}

// ObjectID implements the Object interface.
func (t *Token) ObjectID() string { return t.ID }

// Endpoint implements the Resource interface.
func (t *Token) Endpoint(uris ...string) string {
	endpoint := tokenEndpoint

	if t.ID != "" {
		endpoint += "/" + t.ID
	}
	if len(uris) > 0 {
		endpoint += "/" + strings.Join(uris, "/")
	}
	return endpoint
}

// Load implements the Resource interface.
func (t *Token) Load(ctx context.Context, c *Client) error {
	return c.call(ctx, "GET", t.Endpoint(), nil, t)
}

// UnmarshalJSON handles both the full shape of the resource, and the bare id
// it collapses to when it appears unexpanded on another resource.
func (t *Token) UnmarshalJSON(data []byte) error {
	if id, ok := parseID(data); ok {
		*t = Token{ID: id}
		return nil
	}

	type token Token

	var t1 token

	if err := json.Unmarshal(data, &t1); err != nil {
		return err
	}

	*t = Token(t1)
	return nil
}
