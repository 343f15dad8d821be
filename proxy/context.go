package proxy

import (
	"net/http"
	"net/url"

	"github.com/edgerouter/edgerouter/filters"
)

// hookContext implements filters.Context for a single request, carrying
// the resolved route's upstream and the request/response pair the
// rewrite hooks see. Building exactly one of these per request, and
// reusing it across both hook points, is what collapses the source's
// two-lookups-per-request pattern into the single lookup performed once
// by the admission pipeline (spec §9).
type hookContext struct {
	request         *http.Request
	upstreamRequest *http.Request
	upstream        *url.URL
	response        *http.Response
	responseWriter  http.ResponseWriter
	flowID          string
}

func (c *hookContext) Request() *http.Request         { return c.request }
func (c *hookContext) UpstreamRequest() *http.Request { return c.upstreamRequest }
func (c *hookContext) Upstream() *url.URL             { return c.upstream }
func (c *hookContext) Response() *http.Response       { return c.response }
func (c *hookContext) ResponseWriter() http.ResponseWriter {
	return c.responseWriter
}
func (c *hookContext) FlowID() string { return c.flowID }

var _ filters.Context = (*hookContext)(nil)
