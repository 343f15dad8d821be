// Package net provides the IP-address helpers the admission pipeline
// needs: extracting the direct peer and the forwarded-for address from a
// request, and testing either against a set of CIDR ranges.
package net

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const forwardedForHeader = "X-Forwarded-For"

// PeerAddr returns the address of the immediate TCP peer, ignoring any
// proxy headers. It is derived from http.Request.RemoteAddr, which may or
// may not carry a port.
func PeerAddr(r *http.Request) (netip.Addr, error) {
	return parseHostPort(r.RemoteAddr)
}

// ForwardedFor returns the first address in the X-Forwarded-For header, if
// present. The second return value is false when the header is absent,
// distinguishing "no header" from "header present but unparsable".
func ForwardedFor(r *http.Request) (addr netip.Addr, present bool, err error) {
	v := r.Header.Get(forwardedForHeader)
	if v == "" {
		return netip.Addr{}, false, nil
	}

	first := v
	if i := strings.IndexByte(v, ','); i >= 0 {
		first = v[:i]
	}

	a, err := netip.ParseAddr(strings.TrimSpace(first))
	if err != nil {
		return netip.Addr{}, true, err
	}
	return a, true, nil
}

func parseHostPort(hostport string) (netip.Addr, error) {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	return netip.ParseAddr(strings.TrimSpace(host))
}

// HostOnly strips an optional port from a Host header value for case- and
// port-insensitive hostname comparison.
func HostOnly(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return strings.ToLower(h)
	}
	return strings.ToLower(host)
}
