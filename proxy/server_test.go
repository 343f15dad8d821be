package proxy

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgerouter/edgerouter/metrics"
	"github.com/edgerouter/edgerouter/ratelimit"
	"github.com/edgerouter/edgerouter/routing"
)

func TestServeHTTPDispatchesAdmittedRequest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.txt")
	if err := os.WriteFile(path, []byte("served"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tbl := buildTable(t, []routing.Entry{
		{Pattern: "/file", Spec: &routing.Spec{Pattern: "/file", Target: routing.Target{Kind: routing.TargetFile, File: path}}},
	})
	p := New(Options{Table: tbl, RateLimiter: ratelimit.New(ratelimit.Settings{}), Metrics: metrics.NewPrometheus()})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/file", nil)
	r.RemoteAddr = "203.0.113.1:1234"
	p.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if got := w.Body.String(); got != "served" {
		t.Fatalf("got body %q", got)
	}
	if got := w.Header().Get("X-Flow-Id"); got == "" {
		t.Fatal("expected a generated X-Flow-Id header")
	}
}

func TestServeHTTPDeniesUnmatchedPath(t *testing.T) {
	tbl := buildTable(t, []routing.Entry{
		{Pattern: "/known", Spec: &routing.Spec{Pattern: "/known"}},
	})
	p := New(Options{Table: tbl, RateLimiter: ratelimit.New(ratelimit.Settings{}), Metrics: metrics.NewPrometheus()})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	r.RemoteAddr = "203.0.113.1:1234"
	p.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestServeHTTPRejectsUpgradeForNonWebSocketRoute(t *testing.T) {
	tbl := buildTable(t, []routing.Entry{
		{Pattern: "/plain", Spec: &routing.Spec{Pattern: "/plain", Target: routing.Target{Kind: routing.TargetRemote, Remote: "http://upstream"}}},
	})
	p := New(Options{Table: tbl, RateLimiter: ratelimit.New(ratelimit.Settings{}), Metrics: metrics.NewPrometheus()})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/plain", nil)
	r.RemoteAddr = "203.0.113.1:1234"
	r.Header.Set("Connection", "Upgrade")
	r.Header.Set("Upgrade", "websocket")
	p.ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403 for a non-websocket route", w.Code)
	}
}

func TestAccessLogFieldsReflectsUpstreamLatency(t *testing.T) {
	m := metrics.NewPrometheus()
	m.MeasureUpstream(time.Now().Add(-15 * time.Millisecond))
	p := New(Options{Metrics: m})

	fields := p.AccessLogFields()
	if fields["upstream-latency-mean-ms"].(float64) <= 0 {
		t.Fatalf("got %v, want a positive mean latency after a recorded round trip", fields["upstream-latency-mean-ms"])
	}
}

func TestSetTableSwapsAtomically(t *testing.T) {
	tblA := buildTable(t, []routing.Entry{{Pattern: "/a", Spec: &routing.Spec{Pattern: "/a"}}})
	tblB := buildTable(t, []routing.Entry{{Pattern: "/b", Spec: &routing.Spec{Pattern: "/b"}}})

	p := New(Options{Table: tblA})
	if p.table() != tblA {
		t.Fatal("expected initial table to be tblA")
	}

	p.SetTable(tblB)
	if p.table() != tblB {
		t.Fatal("expected table() to observe the swapped table")
	}
}
