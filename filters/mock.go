package filters

import (
	"net/http"
	"net/url"
)

// MockContext is a Context implementation for unit-testing hooks, in the
// same spirit as the teacher's MockContext for its FilterContext.
type MockContext struct {
	FRequest         *http.Request
	FUpstreamRequest *http.Request
	FUpstream        *url.URL
	FResponse        *http.Response
	FResponseWriter  http.ResponseWriter
	FFlowID          string
}

func (c *MockContext) Request() *http.Request         { return c.FRequest }
func (c *MockContext) UpstreamRequest() *http.Request { return c.FUpstreamRequest }
func (c *MockContext) Upstream() *url.URL             { return c.FUpstream }
func (c *MockContext) Response() *http.Response       { return c.FResponse }
func (c *MockContext) ResponseWriter() http.ResponseWriter {
	return c.FResponseWriter
}
func (c *MockContext) FlowID() string { return c.FFlowID }
