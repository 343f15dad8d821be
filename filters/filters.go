// Package filters defines the two hook points a route can plug into: a
// request rewriter, run just before the proxied request leaves for the
// upstream, and a response rewriter, run just after the upstream response
// arrives but before it is written back to the client. Both hooks mutate
// headers only; neither can buffer or replace a body (spec §3, §4.7).
//
// Route specs loaded from the serialized route document can never carry
// hooks, since functions don't survive JSON/YAML decoding. Hooks are
// attached to a routing.Spec in code, for example after loading them from
// a compiled Go plugin with loader.LoadHook; nothing maps a route to a
// plugin by name.
package filters

import (
	"net/http"
	"net/url"
)

// Context is handed to both hook points. During RewriteRequest, Response
// is nil. During RewriteResponse, Response is the upstream's response and
// UpstreamRequest is the request as it was actually sent.
type Context interface {
	// Request is the original inbound request.
	Request() *http.Request
	// UpstreamRequest is the outbound request about to be sent, or that
	// was sent, to the upstream.
	UpstreamRequest() *http.Request
	// Upstream is the resolved upstream origin for this request.
	Upstream() *url.URL
	// Response is nil during RewriteRequest and set during
	// RewriteResponse.
	Response() *http.Response
	// ResponseWriter is the downstream connection; hooks may inspect or
	// add to its header map but must not call WriteHeader or Write.
	ResponseWriter() http.ResponseWriter
	// FlowID is this request's generated flow identifier.
	FlowID() string
}

// RequestRewriter is the extension point invoked before the outbound
// proxy request leaves, per spec §4.7. A non-nil return value is logged;
// the request is still sent to the upstream.
type RequestRewriter interface {
	RewriteRequest(ctx Context) error
}

// RequestRewriterFunc adapts a plain function to RequestRewriter.
type RequestRewriterFunc func(ctx Context) error

func (f RequestRewriterFunc) RewriteRequest(ctx Context) error { return f(ctx) }

// ResponseRewriter is the extension point invoked after the upstream
// response is received but before it is returned downstream, per spec
// §4.7. It may set additional headers; it must not read or replace the
// response body. A non-nil return value surfaces as a 502 through the
// dispatcher's error responder.
type ResponseRewriter interface {
	RewriteResponse(ctx Context) error
}

// ResponseRewriterFunc adapts a plain function to ResponseRewriter.
type ResponseRewriterFunc func(ctx Context) error

func (f ResponseRewriterFunc) RewriteResponse(ctx Context) error { return f(ctx) }
