package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chainscore/internal/explorer"
	"chainscore/internal/observability"
	"chainscore/internal/service"
)

const testWallet = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

type stubSource struct{}

func (stubSource) FetchWindow(ctx context.Context, action explorer.Action, address string, w explorer.Window) (explorer.WindowResult, error) {
	row := explorer.Transaction{TimeStamp: strconv.FormatInt(w.End-3600, 10)}
	if action == explorer.ActionTokenTx {
		row.TokenSymbol = "USDC"
		row.ContractAddress = "0xc1"
		row.From = "0xcp1"
		row.To = strings.ToLower(address)
	}
	return explorer.WindowResult{Rows: []explorer.Transaction{row}}, nil
}

func (stubSource) FirstSeen(ctx context.Context, address string) (int64, error) {
	return 1438269973, nil
}

func newTestServer() (*Server, *service.Service) {
	svc := service.New(service.Options{Source: stubSource{}, CacheTTL: time.Minute}, zerolog.Nop())
	srv := New(Options{}, svc, observability.NewMetrics(), zerolog.Nop())
	return srv, svc
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, svc := newTestServer()
	defer svc.Close()

	rec := get(t, srv, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestScoreOK(t *testing.T) {
	srv, svc := newTestServer()
	defer svc.Close()

	rec := get(t, srv, "/score?wallet="+testWallet)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var out service.ScoreOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Wallet != testWallet {
		t.Fatalf("want checksummed wallet echoed back, got %s", out.Wallet)
	}
	if out.Score.Decision == "" || out.Score.Tier == "" {
		t.Fatalf("incomplete outcome: %+v", out.Score)
	}
}

func TestMissingWallet(t *testing.T) {
	srv, svc := newTestServer()
	defer svc.Close()

	for _, path := range []string{"/features", "/score", "/trajectory"} {
		if rec := get(t, srv, path); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", path, rec.Code)
		}
	}
	if rec := get(t, srv, "/compare?wallet_a="+testWallet); rec.Code != http.StatusBadRequest {
		t.Fatalf("compare with one wallet: want 400, got %d", rec.Code)
	}
}

func TestInvalidAddress(t *testing.T) {
	srv, svc := newTestServer()
	defer svc.Close()

	rec := get(t, srv, "/score?wallet=zzz")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid wallet address") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUnknownProfile(t *testing.T) {
	srv, svc := newTestServer()
	defer svc.Close()

	rec := get(t, srv, "/score?wallet="+testWallet+"&profile=maker")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestBadWindowParam(t *testing.T) {
	srv, svc := newTestServer()
	defer svc.Close()

	for _, q := range []string{"window_days=abc", "window_days=-3", "offset_days=1.5"} {
		rec := get(t, srv, fmt.Sprintf("/features?wallet=%s&%s", testWallet, q))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", q, rec.Code)
		}
	}
}

func TestFeaturesCachedFlag(t *testing.T) {
	srv, svc := newTestServer()
	defer svc.Close()

	var first, second service.FeatureSet
	if err := json.Unmarshal(get(t, srv, "/features?wallet="+testWallet).Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(get(t, srv, "/features?wallet="+testWallet).Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if first.Cached || !second.Cached {
		t.Fatalf("want miss then hit, got %v then %v", first.Cached, second.Cached)
	}
}

func TestMetricsExposition(t *testing.T) {
	srv, svc := newTestServer()
	defer svc.Close()

	get(t, srv, "/healthz")

	rec := get(t, srv, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "chainscore_http_requests_total") {
		t.Fatalf("metrics exposition missing request counter:\n%s", rec.Body.String())
	}
}
