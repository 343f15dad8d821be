package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/edgerouter/edgerouter/metrics"
	"github.com/edgerouter/edgerouter/routing"
)

// dispatchRemote forwards r to origin, running the route's hooks around
// the round trip (spec §4.7) and translating any transport failure into
// the proxy's standard 502 error body (spec §4.8).
func (p *Proxy) dispatchRemote(w http.ResponseWriter, r *http.Request, spec *routing.Spec, origin string, flowID string) {
	target, err := url.Parse(origin)
	if err != nil || target.Host == "" {
		log.Errorf("proxy: invalid upstream origin %q: %v", origin, err)
		p.respondError(w, http.StatusBadGateway, metrics.ReasonUpstream)
		return
	}
	if spec.Secure {
		target.Scheme = "https"
	}

	ctx := &hookContext{
		request:        r,
		upstream:       target,
		responseWriter: w,
		flowID:         flowID,
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			outReq := pr.Out
			outReq.URL.Scheme = target.Scheme
			outReq.URL.Host = target.Host
			outReq.Host = target.Host
			injectForwardingHeaders(outReq, r)

			ctx.upstreamRequest = outReq
			if spec.RewriteRequest != nil {
				if err := spec.RewriteRequest.RewriteRequest(ctx); err != nil {
					log.Warnf("proxy: rewriteRequest hook for %s failed: %v", spec.Pattern, err)
				}
			}
		},
		ModifyResponse: func(resp *http.Response) error {
			ctx.response = resp
			if spec.EnableCORS {
				applyCORS(w, r)
			}
			if spec.RewriteResponse != nil {
				if err := spec.RewriteResponse.RewriteResponse(ctx); err != nil {
					log.Warnf("proxy: rewriteResponse hook for %s failed: %v", spec.Pattern, err)
					return err
				}
			}
			return nil
		},
		ErrorHandler: func(rw http.ResponseWriter, req *http.Request, err error) {
			log.Errorf("proxy: upstream %s failed: %v", origin, err)
			p.metrics.IncUpstreamError(spec.Pattern)
			p.respondError(rw, http.StatusBadGateway, metrics.ReasonUpstream)
		},
		Transport: p.upstreamTransport(),
	}

	start := time.Now()
	rp.ServeHTTP(w, r)
	p.metrics.MeasureUpstream(start)
}

// upstreamTransport returns the RoundTripper used for every upstream
// call, bounding each round trip by the configured upstream timeout.
func (p *Proxy) upstreamTransport() http.RoundTripper {
	return &timeoutTransport{inner: http.DefaultTransport, timeout: p.upstreamTimeout}
}

type timeoutTransport struct {
	inner   http.RoundTripper
	timeout time.Duration
}

func (t *timeoutTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if t.timeout <= 0 {
		return t.inner.RoundTrip(r)
	}

	ctx, cancel := context.WithTimeout(r.Context(), t.timeout)
	resp, err := t.inner.RoundTrip(r.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnCloseBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnCloseBody releases the round trip's timeout context once the
// caller is done reading the response body.
type cancelOnCloseBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnCloseBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}
