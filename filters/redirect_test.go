package filters

import (
	"net/http"
	"net/url"
	"testing"
)

func TestRedirectAbsoluteLocation(t *testing.T) {
	hook, err := Redirect(http.StatusFound, "https://other.example/new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := &http.Response{Header: http.Header{}, StatusCode: http.StatusOK}
	ctx := &MockContext{
		FRequest: &http.Request{URL: &url.URL{Scheme: "https", Host: "original.example"}, Host: "original.example"},
		FResponse: resp,
	}

	if err := hook.RewriteResponse(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("got status %d, want %d", resp.StatusCode, http.StatusFound)
	}
	if got := resp.Header.Get("Location"); got != "https://other.example/new" {
		t.Fatalf("got Location %q", got)
	}
}

func TestRedirectRelativeLocationResolvesAgainstRequest(t *testing.T) {
	hook, err := Redirect(http.StatusMovedPermanently, "/new-path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := &http.Response{Header: http.Header{}}
	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "original.example"}, Host: "original.example"}
	ctx := &MockContext{FRequest: req, FResponse: resp}

	if err := hook.RewriteResponse(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resp.Header.Get("Location"); got != "https://original.example/new-path" {
		t.Fatalf("got Location %q", got)
	}
}

func TestRedirectRejectsInvalidLocation(t *testing.T) {
	if _, err := Redirect(http.StatusFound, "http://[::1"); err == nil {
		t.Fatal("expected error for invalid location")
	}
}
