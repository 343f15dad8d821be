package proxy

import (
	"net/http"

	"github.com/edgerouter/edgerouter/metrics"
	edgenet "github.com/edgerouter/edgerouter/net"
	"github.com/edgerouter/edgerouter/routing"
)

// admissionResult carries the outcome of the admission pipeline: either
// a resolved Spec to dispatch, or a denial to hand to the error
// responder.
type admissionResult struct {
	spec   *routing.Spec
	denied bool
	status int
	reason string
}

func allow(spec *routing.Spec) admissionResult {
	return admissionResult{spec: spec}
}

func deny(status int, reason string) admissionResult {
	return admissionResult{denied: true, status: status, reason: reason}
}

// admit runs the admission pipeline for a regular (non-upgrade) request:
// rate check -> path allow-list -> route resolution -> CIDR check, in
// that order, per spec §4.4.
func (p *Proxy) admit(r *http.Request) admissionResult {
	if !p.rateLimiter.Allow() {
		return deny(http.StatusForbidden, metrics.ReasonRateLimit)
	}

	if !p.table().Allowed(r.URL.Path) {
		return deny(http.StatusNotFound, metrics.ReasonNoPattern)
	}

	spec, ok := p.table().Lookup(r.URL, r.Host)
	if !ok {
		return deny(http.StatusNotFound, metrics.ReasonNoRoute)
	}

	if !checkCIDR(spec, r) {
		return deny(http.StatusForbidden, metrics.ReasonCIDR)
	}

	return allow(spec)
}

// admitUpgrade runs the reduced admission pipeline applied to WebSocket
// upgrade requests: route resolution and CIDR check only. This
// asymmetry (no rate check, no allow-list) is inherited from the
// source and deliberately preserved (spec §9).
func (p *Proxy) admitUpgrade(r *http.Request) admissionResult {
	spec, ok := p.table().Lookup(r.URL, r.Host)
	if !ok {
		return deny(http.StatusNotFound, metrics.ReasonNoRoute)
	}
	if !checkCIDR(spec, r) {
		return deny(http.StatusForbidden, metrics.ReasonCIDR)
	}
	return allow(spec)
}

// checkCIDR applies spec §4.5: absent allowedCidrs allows unconditionally;
// present-but-empty denies unconditionally; otherwise both the peer
// address and (unless ignored or absent) the forwarded-for address must
// fall within some configured range.
func checkCIDR(spec *routing.Spec, r *http.Request) bool {
	if spec.AllowedCIDRs == nil {
		return true
	}

	set, err := edgenet.ParseCIDRSet(spec.AllowedCIDRs)
	if err != nil {
		return false
	}
	if set.Empty() {
		return false
	}

	peer, err := edgenet.PeerAddr(r)
	if err != nil {
		return false
	}
	if !set.Contains(peer) {
		return false
	}

	fwd, present, err := edgenet.ForwardedFor(r)
	if !present {
		return true
	}
	if err != nil {
		return false
	}
	if spec.IgnoreProxiedIP {
		return true
	}
	return set.Contains(fwd)
}
