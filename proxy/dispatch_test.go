package proxy

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/edgerouter/edgerouter/routing"
)

func TestDispatchFileServesContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	p := New(Options{})
	spec := &routing.Spec{Target: routing.Target{Kind: routing.TargetFile, File: path}, ContentType: "text/plain"}

	w := httptest.NewRecorder()
	p.dispatchFile(w, spec)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if got := w.Body.String(); got != "hello world" {
		t.Fatalf("got body %q", got)
	}
}

func TestDispatchFileMissingFileIs404(t *testing.T) {
	p := New(Options{})
	spec := &routing.Spec{Target: routing.Target{Kind: routing.TargetFile, File: "/does/not/exist"}}

	w := httptest.NewRecorder()
	p.dispatchFile(w, spec)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestDispatchHandlerSynchronousResult(t *testing.T) {
	p := New(Options{})
	spec := &routing.Spec{
		ContentType: "application/json",
		Target: routing.Target{
			Kind: routing.TargetHandler,
			Handler: func(w http.ResponseWriter, r *http.Request) routing.Future {
				return routing.Resolved([]byte(`{"ok":true}`), nil)
			},
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	p.dispatchHandler(w, r, spec)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("got content-type %q", got)
	}
	if got := w.Body.String(); got != `{"ok":true}` {
		t.Fatalf("got body %q", got)
	}
}

func TestDispatchHandlerErrorResultIsBadGateway(t *testing.T) {
	p := New(Options{})
	spec := &routing.Spec{
		Target: routing.Target{
			Kind: routing.TargetHandler,
			Handler: func(w http.ResponseWriter, r *http.Request) routing.Future {
				return routing.Resolved(nil, os.ErrInvalid)
			},
		},
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	p.dispatchHandler(w, r, spec)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("got status %d, want 502", w.Code)
	}
}

func TestDispatchUnconfiguredTargetIsForbidden(t *testing.T) {
	p := New(Options{})
	spec := &routing.Spec{Target: routing.Target{Kind: routing.TargetNone}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	p.dispatch(w, r, spec, "flow-1")

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", w.Code)
	}
}

func TestDispatchEmptyPoolIsForbidden(t *testing.T) {
	p := New(Options{})
	spec := &routing.Spec{Target: routing.Target{Kind: routing.TargetPool, Pool: nil}}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	p.dispatch(w, r, spec, "flow-1")

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", w.Code)
	}
}
