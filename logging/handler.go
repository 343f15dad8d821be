package logging

import (
	"net/http"
	"time"
)

// AccessLogFieldSource is implemented by an inner handler that wants to
// contribute extra fields to every access log line it serves, e.g. a
// moving-average upstream latency sample.
type AccessLogFieldSource interface {
	AccessLogFields() map[string]interface{}
}

// Handler wraps an inner http.Handler, timing each request and writing
// an access log entry for it once the inner handler returns.
type Handler struct {
	inner  http.Handler
	fields AccessLogFieldSource
}

// NewHandler wraps h so every request it serves is access-logged. If h
// implements AccessLogFieldSource, its fields are merged into every
// entry.
func NewHandler(h http.Handler) *Handler {
	fields, _ := h.(AccessLogFieldSource)
	return &Handler{inner: h, fields: fields}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lw := NewLoggingWriter(w)
	h.inner.ServeHTTP(lw, r)

	var additional map[string]interface{}
	if h.fields != nil {
		additional = h.fields.AccessLogFields()
	}

	LogAccess(&AccessEntry{
		Request:      r,
		ResponseSize: lw.Bytes(),
		StatusCode:   lw.GetCode(),
		RequestTime:  start,
		Duration:     time.Since(start),
	}, additional)
}
