package proxy

import (
	"net"
	"net/http"
	"testing"
)

func TestIsUpgradeRequestFalseWithoutConnectionHeader(t *testing.T) {
	r := &http.Request{Header: http.Header{}}
	if isUpgradeRequest(r) {
		t.Fatal("expected false for a request with no Connection header")
	}
	if getUpgradeRequest(r) != "" {
		t.Fatal("expected empty protocol for a non-upgrade request")
	}
}

func TestIsUpgradeRequestTrueButProtocolEmptyWithoutUpgradeHeader(t *testing.T) {
	h := http.Header{}
	h.Set("Connection", "Upgrade")
	r := &http.Request{Header: h}

	if !isUpgradeRequest(r) {
		t.Fatal("expected true when Connection names Upgrade")
	}
	if getUpgradeRequest(r) != "" {
		t.Fatal("expected empty protocol when Upgrade header is absent")
	}
}

func TestGetUpgradeRequestReturnsProtocol(t *testing.T) {
	h := http.Header{}
	h.Set("Connection", "Upgrade")
	h.Set("Upgrade", "websocket")
	r := &http.Request{Header: h}

	if !isUpgradeRequest(r) {
		t.Fatal("expected true for a valid upgrade request")
	}
	if got := getUpgradeRequest(r); got != "websocket" {
		t.Fatalf("got %q, want websocket", got)
	}
}

func TestIsUpgradeRequestHandlesMultiValueConnectionHeader(t *testing.T) {
	h := http.Header{}
	h.Set("Connection", "keep-alive, Upgrade")
	r := &http.Request{Header: h}

	if !isUpgradeRequest(r) {
		t.Fatal("expected true when Upgrade is one of several Connection tokens")
	}
}

// TestDialUpstreamPlainConnectsOverTCP confirms the non-secure path
// dials plain TCP and can complete a bytewise round trip.
func TestDialUpstreamPlainConnectsOverTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write([]byte("hi"))
	}()

	conn, err := dialUpstream("http://"+ln.Addr().String(), false)
	if err != nil {
		t.Fatalf("dialUpstream: %v", err)
	}
	defer conn.Close()

	buf := make([]byte, 2)
	if _, err := conn.Read(buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf) != "hi" {
		t.Fatalf("got %q, want hi", buf)
	}
}

// TestDialUpstreamSecureAttemptsTLSHandshake confirms spec.Secure (via
// the secure argument) makes dialUpstream negotiate TLS rather than
// handing back a raw TCP connection: dialing a plain TCP listener with
// secure=true must fail, since no TLS handshake can succeed against it.
func TestDialUpstreamSecureAttemptsTLSHandshake(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 512)
		conn.Read(buf)
	}()

	if _, err := dialUpstream("http://"+ln.Addr().String(), true); err == nil {
		t.Fatal("expected a TLS handshake against a plain listener to fail")
	}
}
