// Package routing compiles a route table from an ordered set of
// (pattern, route-spec) entries and resolves the best-matching route for
// a request's path and host header.
package routing

import (
	"net/http"

	"github.com/edgerouter/edgerouter/filters"
)

// TargetKind tags the variant a RouteSpec's Target holds.
type TargetKind int

const (
	// TargetNone marks a route spec with no usable target: the
	// dispatcher rejects it with a 403 "Path incorrectly configured".
	TargetNone TargetKind = iota
	// TargetRemote forwards to a single upstream origin.
	TargetRemote
	// TargetPool forwards to one member of a pool, chosen uniformly at
	// random per request.
	TargetPool
	// TargetFile serves the contents of a local file.
	TargetFile
	// TargetHandler invokes a route-supplied callable.
	TargetHandler
)

// Result is the outcome of a Handler invocation or of an already-resolved
// deferred computation: either a response body or an error.
type Result struct {
	Body []byte
	Err  error
}

// Future is a Handler's return value: a channel that will receive exactly
// one Result. A handler that computes its result synchronously can build
// one with Resolved.
type Future <-chan Result

// Resolved returns a Future that is already filled, for handlers with a
// synchronous result.
func Resolved(body []byte, err error) Future {
	ch := make(chan Result, 1)
	ch <- Result{Body: body, Err: err}
	close(ch)
	return ch
}

// Handler computes a response body for a route whose target is a callable.
// It may return its result asynchronously by sending on the returned
// Future after the call returns.
type Handler func(w http.ResponseWriter, r *http.Request) Future

// Target is a tagged union over the four shapes a route's backend can
// take: a single remote URL, a pool of remote URLs, a local file, or a
// handler callable.
type Target struct {
	Kind    TargetKind
	Remote  string
	Pool    []string
	File    string
	Handler Handler
}

// Spec is a single route's configuration, keyed in the table by its
// Pattern. See spec §3 for field semantics.
type Spec struct {
	Pattern string
	Target  Target

	// Priority is nil when absent, treated as +infinity (lowest
	// priority) during candidate resolution.
	Priority *int

	// Hostnames, when non-empty, narrows this route to requests whose
	// Host header (case-insensitively, ignoring any port) equals one of
	// these values.
	Hostnames []string

	RewriteRequest  filters.RequestRewriter
	RewriteResponse filters.ResponseRewriter

	Secure          bool
	WebSocket       bool
	IgnoreProxiedIP bool
	ContentType     string
	EnableCORS      bool

	// AllowedCIDRs is nil when the field was absent or not a list (no
	// restriction); it is a non-nil, possibly empty, slice when present
	// (an empty list denies every request to this route).
	AllowedCIDRs []string
}

func (s *Spec) priority() int {
	if s.Priority == nil {
		return int(^uint(0) >> 1) // max int: absent priority loses every tie-break
	}
	return *s.Priority
}
