package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestApplyCORSReflectsOrigin(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "https://client.example")

	applyCORS(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://client.example" {
		t.Fatalf("got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyCORSReflectsPreflightHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/", nil)
	r.Header.Set("Access-Control-Request-Method", "PUT")
	r.Header.Set("Access-Control-Request-Headers", "X-Custom")

	applyCORS(w, r)

	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "PUT" {
		t.Fatalf("got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "X-Custom" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyCORSOmitsHeadersWhenAbsentFromRequest(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	applyCORS(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("got %q, want no header without an Origin request header", got)
	}
}
