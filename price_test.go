package stripe

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
)

func priceServer(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/prices/pr_basic", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{"id":"pr_basic","currency":"gbp","unit_amount":500,"type":"recurring","product":"prod_123456","recurring":{"interval":"month","interval_count":1}}`)
	})

	mux.HandleFunc("/v1/prices/pr_pro", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{"id":"pr_pro","currency":"gbp","unit_amount":2000,"type":"recurring","product":"prod_123456"}`)
	})

	mux.HandleFunc("/v1/prices/pr_gone", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, `{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such price: pr_gone"}}`)
	})

	mux.HandleFunc("/v1/products/prod_123456", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{"id":"prod_123456","name":"Example Plan","active":true}`)
	})

	return mux
}

func Test_LoadPrices(t *testing.T) {
	client, _ := newTestClient(t, priceServer(t))
	ctx := context.Background()

	buf := bytes.NewBufferString(`
# The prices configured for the application.
pr_basic

pr_pro`)

	prices, err := LoadPrices(ctx, client, buf, func(err error) {
		t.Errorf("failed to load price: %s\n", err)
	})

	if err != nil {
		t.Fatal(err)
	}

	loaded := prices.Slice()

	if len(loaded) != 2 {
		t.Fatalf("unexpected number of prices, expected=%d, got=%d\n", 2, len(loaded))
	}

	for i, pr := range loaded {
		if pr.Product == nil {
			t.Fatalf("prices[%d] - expected product to be set\n", i)
		}

		// The product arrives as a bare id on the price, loading should
		// have filled the rest of it in.
		if pr.Product.Name != "Example Plan" {
			t.Errorf("prices[%d] - unexpected product name, expected=%q, got=%q\n", i, "Example Plan", pr.Product.Name)
		}
	}
}

func Test_PricesReload(t *testing.T) {
	client, _ := newTestClient(t, priceServer(t))
	ctx := context.Background()

	prices, err := LoadPrices(ctx, client, strings.NewReader("pr_basic"), func(err error) {
		t.Errorf("failed to load price: %s\n", err)
	})

	if err != nil {
		t.Fatal(err)
	}

	err = prices.Reload(ctx, client, strings.NewReader("pr_basic\npr_pro"), func(err error) {
		t.Errorf("failed to reload price: %s\n", err)
	})

	if err != nil {
		t.Fatal(err)
	}

	loaded := prices.Slice()

	if len(loaded) != 2 {
		t.Fatalf("unexpected number of prices, expected=%d, got=%d\n", 2, len(loaded))
	}

	if loaded[0].ID != "pr_basic" || loaded[1].ID != "pr_pro" {
		t.Errorf("unexpected prices, expected=%v, got=[%s %s]\n", []string{"pr_basic", "pr_pro"}, loaded[0].ID, loaded[1].ID)
	}
}

func Test_LoadPricesErrh(t *testing.T) {
	client, _ := newTestClient(t, priceServer(t))
	ctx := context.Background()

	errs := make([]error, 0, 1)

	prices, err := LoadPrices(ctx, client, strings.NewReader("pr_gone\npr_basic"), func(err error) {
		errs = append(errs, err)
	})

	if err != nil {
		t.Fatal(err)
	}

	if len(errs) != 1 {
		t.Fatalf("unexpected number of load errors, expected=%d, got=%d\n", 1, len(errs))
	}

	if !strings.Contains(errs[0].Error(), "pr_gone") {
		t.Errorf("expected load error to name the price, got %q\n", errs[0].Error())
	}

	if len(prices.Slice()) != 1 {
		t.Fatalf("expected the remaining price to still load")
	}
}
