package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mlachev/coinsync/internal/cache"
	"github.com/mlachev/coinsync/internal/model"
	"github.com/mlachev/coinsync/internal/reconcile"
)

// stubSource is a minimal MarketSource for handler tests.
type stubSource struct {
	rows         []model.SnapshotRow
	marketsErr   error
	marketsCalls int

	series    map[string]model.Series
	seriesErr map[string]error
}

func (s *stubSource) Markets(ctx context.Context) ([]model.SnapshotRow, error) {
	s.marketsCalls++
	if s.marketsErr != nil {
		return nil, s.marketsErr
	}
	return s.rows, nil
}

func (s *stubSource) MarketChart(ctx context.Context, id string) (model.Series, error) {
	if err := s.seriesErr[id]; err != nil {
		return nil, err
	}
	return s.series[id], nil
}

func newTestServer(t *testing.T, src cache.MarketSource) (*Server, *reconcile.TaskQueue) {
	t.Helper()

	q := reconcile.NewTaskQueue(8)
	mgr := cache.NewManager(cache.DefaultConfig(), src, nil,
		cache.WithQueue(q),
		cache.WithSleep(func(ctx context.Context, d time.Duration) {}),
	)
	return New(Config{ListenAddr: ":0"}, mgr, q, nil), q
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func marketRows() []model.SnapshotRow {
	p1, p2 := 50000.0, 3000.0
	return []model.SnapshotRow{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: &p1},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: &p2},
		{ID: "solana", Symbol: "sol", Name: "Solana"},
	}
}

func TestHealthEndpoint(t *testing.T) {
	src := &stubSource{rows: marketRows()}
	s, _ := newTestServer(t, src)

	w := get(t, s, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var h model.Health
	decode(t, w, &h)
	if h.CacheReady {
		t.Error("CacheReady = true on a cold cache, want false")
	}

	// Warm the snapshot, then health flips.
	get(t, s, "/api/coins")
	w = get(t, s, "/health")
	decode(t, w, &h)
	if !h.CacheReady {
		t.Error("CacheReady = false after snapshot load, want true")
	}
}

func TestCoinsEndpoint(t *testing.T) {
	src := &stubSource{rows: marketRows()}
	s, _ := newTestServer(t, src)

	w := get(t, s, "/api/coins")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var rows []model.SnapshotRow
	decode(t, w, &rows)
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
	if rows[0].ID != "bitcoin" {
		t.Errorf("rows[0].ID = %q, want upstream order preserved", rows[0].ID)
	}
}

func TestCoinsEndpoint_Limit(t *testing.T) {
	src := &stubSource{rows: marketRows()}
	s, _ := newTestServer(t, src)

	var rows []model.SnapshotRow
	decode(t, get(t, s, "/api/coins?limit=2"), &rows)
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}

	// Oversized and malformed limits are ignored.
	decode(t, get(t, s, "/api/coins?limit=99"), &rows)
	if len(rows) != 3 {
		t.Errorf("rows with oversized limit = %d, want 3", len(rows))
	}
	decode(t, get(t, s, "/api/coins?limit=abc"), &rows)
	if len(rows) != 3 {
		t.Errorf("rows with malformed limit = %d, want 3", len(rows))
	}
}

func TestCoinsEndpoint_ForceRefresh(t *testing.T) {
	src := &stubSource{rows: marketRows()}
	s, _ := newTestServer(t, src)

	get(t, s, "/api/coins")
	get(t, s, "/api/coins")
	if src.marketsCalls != 1 {
		t.Errorf("upstream calls = %d, want 1 (second request cached)", src.marketsCalls)
	}

	get(t, s, "/api/coins?refresh=true")
	if src.marketsCalls != 2 {
		t.Errorf("upstream calls = %d, want 2 after refresh=true", src.marketsCalls)
	}
}

func TestCoinsEndpoint_BadGatewayOnColdFailure(t *testing.T) {
	src := &stubSource{marketsErr: errors.New("upstream down")}
	s, _ := newTestServer(t, src)

	w := get(t, s, "/api/coins")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}

	var body map[string]string
	decode(t, w, &body)
	if body["error"] == "" {
		t.Error("error body empty, want a message")
	}
}

func TestCompareEndpoint(t *testing.T) {
	src := &stubSource{
		series: map[string]model.Series{
			"bitcoin":  {{UnixMs: 1000, Price: 10}, {UnixMs: 2000, Price: 11}},
			"ethereum": {{UnixMs: 2000, Price: 20}, {UnixMs: 3000, Price: 21}},
		},
	}
	s, _ := newTestServer(t, src)

	w := get(t, s, "/api/compare?coin1=Bitcoin&coin2=ETHEREUM")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var res model.PairResult
	decode(t, w, &res)
	if res.Coin1 != "bitcoin" || res.Coin2 != "ethereum" {
		t.Errorf("pair = (%s, %s), want lower-cased ids", res.Coin1, res.Coin2)
	}
	if len(res.Data) != 2 {
		t.Fatalf("series count = %d, want 2", len(res.Data))
	}
	if len(res.Data[0].Prices) != 1 || res.Data[0].Prices[0].UnixMs != 2000 {
		t.Errorf("aligned series = %v, want the single shared timestamp", res.Data[0].Prices)
	}
	if res.Warning != "" {
		t.Errorf("Warning = %q, want empty", res.Warning)
	}
}

func TestCompareEndpoint_BadRequests(t *testing.T) {
	src := &stubSource{}
	s, _ := newTestServer(t, src)

	tests := []struct {
		name string
		path string
	}{
		{"missing both", "/api/compare"},
		{"missing coin2", "/api/compare?coin1=bitcoin"},
		{"identical coins", "/api/compare?coin1=bitcoin&coin2=Bitcoin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := get(t, s, tt.path); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCompareEndpoint_DegradedStillOK(t *testing.T) {
	src := &stubSource{
		seriesErr: map[string]error{
			"bitcoin":  errors.New("upstream down"),
			"ethereum": errors.New("upstream down"),
		},
	}
	s, q := newTestServer(t, src)

	w := get(t, s, "/api/compare?coin1=bitcoin&coin2=ethereum")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d even when upstream is down", w.Code, http.StatusOK)
	}

	var res model.PairResult
	decode(t, w, &res)
	if res.Warning == "" {
		t.Error("Warning empty on the placeholder, want set")
	}
	if q.Len() != 1 {
		t.Errorf("queued tasks = %d, want 1", q.Len())
	}
}

func TestHistoryEndpoint(t *testing.T) {
	src := &stubSource{
		series: map[string]model.Series{
			"bitcoin": {{UnixMs: 1000, Price: 10}},
		},
		seriesErr: map[string]error{
			"vanishcoin": errors.New("upstream down"),
		},
	}
	s, _ := newTestServer(t, src)

	w := get(t, s, "/api/coins/BITCOIN/history")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var h model.CoinHistory
	decode(t, w, &h)
	if h.ID != "bitcoin" || len(h.Prices) != 1 {
		t.Errorf("history = {%s, %d points}, want {bitcoin, 1}", h.ID, len(h.Prices))
	}

	if w := get(t, s, "/api/coins/vanishcoin/history"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d when preload yields nothing", w.Code, http.StatusNotFound)
	}
}

func TestReportEndpoint(t *testing.T) {
	src := &stubSource{
		series: map[string]model.Series{
			"bitcoin":  {{UnixMs: 1705276800000, Price: 42000}, {UnixMs: 1705363200000, Price: 43000}},
			"ethereum": {{UnixMs: 1705276800000, Price: 2500}, {UnixMs: 1705363200000, Price: 2600}},
		},
	}
	s, _ := newTestServer(t, src)

	w := get(t, s, "/api/report?coin1=bitcoin&coin2=ethereum")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var res ReportResponse
	decode(t, w, &res)
	if len(res.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(res.Rows))
	}
	want := ReportRow{Coin: "bitcoin", Date: "2024-01-15", Price: 42000}
	if res.Rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", res.Rows[0], want)
	}
	if res.Rows[2].Coin != "ethereum" {
		t.Errorf("rows[2].Coin = %q, want series order preserved", res.Rows[2].Coin)
	}

	if w := get(t, s, "/api/report?coin1=bitcoin"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d on missing param", w.Code, http.StatusBadRequest)
	}
}

func TestDebugCacheEndpoint(t *testing.T) {
	src := &stubSource{rows: marketRows()}
	s, _ := newTestServer(t, src)
	get(t, s, "/api/coins")

	w := get(t, s, "/debug/cache")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]json.RawMessage
	decode(t, w, &body)
	if _, ok := body["cache"]; !ok {
		t.Error("response missing cache section")
	}
	if _, ok := body["queue"]; !ok {
		t.Error("response missing queue section")
	}

	var st cache.Stats
	if err := json.Unmarshal(body["cache"], &st); err != nil {
		t.Fatalf("decode cache stats: %v", err)
	}
	if !st.SnapshotReady || st.SnapshotRows != 3 {
		t.Errorf("stats = {ready %v, rows %d}, want {true, 3}", st.SnapshotReady, st.SnapshotRows)
	}
}

func TestFlattenPair(t *testing.T) {
	res := &model.PairResult{
		Coin1: "bitcoin",
		Coin2: "ethereum",
		Data: []model.NamedSeries{
			{Name: "bitcoin", Prices: model.Series{{UnixMs: 1705276800000, Price: 42000}}},
			{Name: "ethereum", Prices: model.Series{}},
		},
	}

	rows := flattenPair(res)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (empty series contribute none)", len(rows))
	}
	want := ReportRow{Coin: "bitcoin", Date: "2024-01-15", Price: 42000}
	if rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
	}

	if rows := flattenPair(&model.PairResult{}); rows == nil || len(rows) != 0 {
		t.Errorf("flattenPair(empty) = %v, want empty non-nil slice", rows)
	}
}
