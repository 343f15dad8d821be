package proxy

import (
	"net/http"
	"strconv"

	"github.com/edgerouter/edgerouter/metrics"
)

const (
	bodyFlood           = "Flood protection"
	bodyNotFound        = "not found"
	bodyMisconfigured   = "Path incorrectly configured"
	bodyBanned          = "ip banned"
	bodyServerError     = "server error"
	bodyPathNotConfigured = "Path not configured"
)

// respondError is the error responder of spec §4.8: it prefers a
// configured static body for the status code, falling back to a short
// plain-text message keyed by the specific failure reason. It does not
// check whether the response has already started; called after that, it
// cannot change the status already sent.
func (p *Proxy) respondError(w http.ResponseWriter, status int, reason string) {
	if body, ok := p.responses[strconv.Itoa(status)]; ok {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		w.Write(body)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(fallbackBody(status, reason)))
}

func fallbackBody(status int, reason string) string {
	switch reason {
	case metrics.ReasonRateLimit:
		return bodyFlood
	case metrics.ReasonNoPattern, metrics.ReasonNoRoute:
		return bodyNotFound
	case metrics.ReasonCIDR:
		return bodyBanned
	case metrics.ReasonTarget:
		return bodyMisconfigured
	case metrics.ReasonUpstream:
		return bodyServerError
	}

	switch status {
	case http.StatusNotFound:
		return bodyNotFound
	case http.StatusForbidden:
		return bodyPathNotConfigured
	case http.StatusBadGateway:
		return bodyServerError
	default:
		return http.StatusText(status)
	}
}
