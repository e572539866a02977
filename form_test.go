package stripe

import (
	"strings"
	"testing"
)

func Test_FormEncode(t *testing.T) {
	tests := []struct {
		form     Form
		expected string
	}{
		{
			Form{"email": "me@example.com"},
			"email=me%40example.com",
		},
		{
			Form{
				"invoice_settings": Form{
					"default_payment_method": "pm_123456",
				},
			},
			"invoice_settings[default_payment_method]=pm_123456",
		},
		{
			Form{
				"customer": "cu_123456",
				"items": []Form{
					{"price": "pr_123456"},
				},
				"expand": []string{"latest_invoice.payment_intent"},
			},
			"customer=cu_123456&expand[0]=latest_invoice.payment_intent&items[0][price]=pr_123456",
		},
		{
			Form{
				"amount":               2000,
				"currency":             "gbp",
				"payment_method_types": []string{"card"},
			},
			"amount=2000&currency=gbp&payment_method_types[0]=card",
		},
	}

	for i, test := range tests {
		encoded := test.form.Encode()

		if encoded != test.expected {
			t.Errorf("tests[%d] - unexpected encoding, expected=%q, got=%q\n", i, test.expected, encoded)
		}
	}
}

func Test_FormEncodeParams(t *testing.T) {
	charge := NewCreateChargeParams(2000, CurrencyUSD)
	charge.Source = String("tok_visa")
	charge.Metadata = Metadata{"order_id": "6735"}

	subscription := NewCreateSubscriptionParams("cu_123456", &SubscriptionItemsParams{
		Price: String("pr_123456"),
	})
	subscription.AddExpand("latest_invoice.payment_intent")

	list := &ListChargesParams{}
	list.Limit = Int64(3)
	list.CreatedRange = &RangeQueryParams{
		GreaterThanOrEqual: Int64(1614556800),
	}

	shipping := &UpdateChargeParams{
		Shipping: &ShippingDetailsParams{
			Name: String("Customer"),
			Address: &AddressParams{
				Line1:      String("20 Ingram St"),
				PostalCode: String("12345"),
			},
		},
	}

	tests := []struct {
		params   interface{}
		expected string
	}{
		{
			charge,
			"amount=2000&currency=usd&metadata[order_id]=6735&source=tok_visa",
		},
		{
			subscription,
			"customer=cu_123456&expand[0]=latest_invoice.payment_intent&items[0][price]=pr_123456",
		},
		{
			list,
			"created[gte]=1614556800&limit=3",
		},
		{
			shipping,
			"shipping[address][line1]=20+Ingram+St&shipping[address][postal_code]=12345&shipping[name]=Customer",
		},
	}

	for i, test := range tests {
		encoded := encodePairs(formPairs(test.params))

		if encoded != test.expected {
			t.Errorf("tests[%d] - unexpected encoding, expected=%q, got=%q\n", i, test.expected, encoded)
		}
	}
}

// Optional parameters that were never set must be left out of the payload
// entirely, not sent as empty strings, so the API applies its own defaults.
func Test_FormEncodeAbsentOptionals(t *testing.T) {
	params := NewCreateChargeParams(2000, CurrencyUSD)

	encoded := encodePairs(formPairs(params))

	if encoded != "amount=2000&currency=usd" {
		t.Fatalf("unexpected encoding, expected=%q, got=%q\n", "amount=2000&currency=usd", encoded)
	}

	for _, key := range []string{"description", "customer", "capture", "receipt_email", "metadata", "shipping"} {
		if strings.Contains(encoded, key) {
			t.Errorf("expected %q to be absent from encoding %q\n", key, encoded)
		}
	}
}

// The same parameter set must produce the same payload no matter the order
// its fields were set in.
func Test_FormEncodeDeterministic(t *testing.T) {
	a := NewCreateChargeParams(2000, CurrencyUSD)
	a.Description = String("A charge")
	a.Source = String("tok_visa")
	a.Metadata = Metadata{"b": "2", "a": "1"}

	b := &CreateChargeParams{}
	b.Metadata = Metadata{"a": "1", "b": "2"}
	b.Source = String("tok_visa")
	b.Description = String("A charge")
	b.Currency = CurrencyUSD
	b.Amount = 2000

	if ea, eb := encodePairs(formPairs(a)), encodePairs(formPairs(b)); ea != eb {
		t.Errorf("expected identical encodings, got %q and %q\n", ea, eb)
	}
}
