package gecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMarkets_QueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/coins/markets" {
			t.Errorf("path = %q, want /coins/markets", got)
		}
		q := r.URL.Query()
		if got := q.Get("vs_currency"); got != "usd" {
			t.Errorf("vs_currency = %q, want usd", got)
		}
		if got := q.Get("order"); got != "market_cap_desc" {
			t.Errorf("order = %q, want market_cap_desc", got)
		}
		if got := q.Get("per_page"); got != "250" {
			t.Errorf("per_page = %q, want 250", got)
		}
		if got := q.Get("page"); got != "1" {
			t.Errorf("page = %q, want 1", got)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	if _, err := c.Markets(context.Background()); err != nil {
		t.Fatalf("Markets() error: %v", err)
	}
}

func TestMarkets_NormalizesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"Bitcoin","symbol":"btc","name":"Bitcoin","current_price":65000.5,"market_cap":1.2e12,"total_volume":3.4e10,"price_change_percentage_24h":-1.5},
			{"id":"thincoin","symbol":"thn","name":"Thin Coin","current_price":null,"market_cap":null,"total_volume":null,"price_change_percentage_24h":null},
			{"id":"","symbol":"bad","name":"No ID"},
			{"id":42,"symbol":"worse"},
			{"id":"okcoin","symbol":"ok","name":"OK Coin","current_price":1.0}
		]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	rows, err := c.Markets(context.Background())
	if err != nil {
		t.Fatalf("Markets() error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3 (malformed rows skipped)", len(rows))
	}

	if rows[0].ID != "bitcoin" {
		t.Errorf("rows[0].ID = %q, want lower-cased %q", rows[0].ID, "bitcoin")
	}
	if rows[0].CurrentPrice == nil || *rows[0].CurrentPrice != 65000.5 {
		t.Errorf("rows[0].CurrentPrice = %v, want 65000.5", rows[0].CurrentPrice)
	}

	if rows[1].ID != "thincoin" {
		t.Errorf("rows[1].ID = %q, want thincoin", rows[1].ID)
	}
	if rows[1].CurrentPrice != nil || rows[1].MarketCap != nil {
		t.Error("null upstream numerics should stay nil")
	}

	if rows[2].ID != "okcoin" {
		t.Errorf("rows[2].ID = %q, want okcoin", rows[2].ID)
	}
	if rows[2].MarketCap != nil {
		t.Error("missing market_cap should stay nil")
	}
}

func TestMarkets_UpstreamOrderPreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"first"},{"id":"second"},{"id":"third"}]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	rows, err := c.Markets(context.Background())
	if err != nil {
		t.Fatalf("Markets() error: %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if rows[i].ID != id {
			t.Errorf("rows[%d].ID = %q, want %q", i, rows[i].ID, id)
		}
	}
}
