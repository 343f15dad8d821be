// Package proxy implements the admission pipeline and dispatcher that
// sit behind the TLS frontend: rate limiting, route resolution, CIDR
// enforcement, and forwarding to one of a local file, a route-supplied
// handler, or an upstream origin (spec §3, §4).
package proxy

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pires/go-proxyproto"

	"github.com/edgerouter/edgerouter/certregistry"
	"github.com/edgerouter/edgerouter/logging"
	"github.com/edgerouter/edgerouter/metrics"
	"github.com/edgerouter/edgerouter/ratelimit"
	"github.com/edgerouter/edgerouter/routing"
)

// Proxy is the admission-and-dispatch engine. Its route table is
// replaced wholesale (never mutated in place) by SetTable, matching the
// "constructed once at startup, rebuilt from a snapshot" lifecycle of
// spec §3.
type Proxy struct {
	tbl atomic.Pointer[routing.Table]

	rateLimiter     *ratelimit.Ratelimit
	responses       map[string][]byte
	metrics         *metrics.Prometheus
	upstreamTimeout time.Duration
	certRegistry    *certregistry.CertRegistry
	proxyProtocol   bool
}

// Options configures a new Proxy.
type Options struct {
	Table           *routing.Table
	RateLimiter     *ratelimit.Ratelimit
	Responses       map[string][]byte
	Metrics         *metrics.Prometheus
	UpstreamTimeout time.Duration
	CertRegistry    *certregistry.CertRegistry

	// ProxyProtocol accepts the PROXY protocol v1/v2 header on each new
	// connection, so PeerAddr reflects the address reported by an
	// upstream load balancer rather than the balancer's own socket.
	ProxyProtocol bool
}

// New builds a Proxy from opts. A nil Metrics or Responses is replaced
// with a usable zero value so callers assembling a Proxy for tests don't
// need to wire every field.
func New(opts Options) *Proxy {
	p := &Proxy{
		rateLimiter:     opts.RateLimiter,
		responses:       opts.Responses,
		metrics:         opts.Metrics,
		upstreamTimeout: opts.UpstreamTimeout,
		certRegistry:    opts.CertRegistry,
		proxyProtocol:   opts.ProxyProtocol,
	}
	if p.responses == nil {
		p.responses = make(map[string][]byte)
	}
	if p.metrics == nil {
		p.metrics = metrics.NewPrometheus()
	}
	if opts.Table != nil {
		p.tbl.Store(opts.Table)
	}
	return p
}

func (p *Proxy) table() *routing.Table {
	return p.tbl.Load()
}

// SetTable atomically replaces the route table served by every
// subsequent request.
func (p *Proxy) SetTable(t *routing.Table) {
	p.tbl.Store(t)
}

// AccessLogFields implements logging.AccessLogFieldSource, annotating
// every access log entry with the moving-average upstream latency
// sample alongside the Prometheus histogram.
func (p *Proxy) AccessLogFields() map[string]interface{} {
	return map[string]interface{}{
		"upstream-latency-rate1":   p.metrics.UpstreamLatencyRate1(),
		"upstream-latency-mean-ms": p.metrics.UpstreamLatencyMeanMillis(),
	}
}

// ServeHTTP is the proxy's single entry point: it demultiplexes upgrade
// requests from regular ones, runs the appropriate admission pipeline,
// and dispatches admitted requests (spec §4.4).
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flowID := logging.NewFlowID()

	if isUpgradeRequest(r) {
		p.serveUpgrade(w, r, flowID)
		return
	}

	result := p.admit(r)
	if result.denied {
		p.metrics.IncDenied(result.reason)
		p.respondError(w, result.status, result.reason)
		return
	}

	lw := logging.NewLoggingWriter(w)
	p.dispatch(lw, r, result.spec, flowID)
	p.metrics.IncAdmitted(lw.GetCode())
}

func (p *Proxy) serveUpgrade(w http.ResponseWriter, r *http.Request, flowID string) {
	result := p.admitUpgrade(r)
	if result.denied {
		p.metrics.IncDenied(result.reason)
		p.respondError(w, result.status, result.reason)
		return
	}

	spec := result.spec
	if !spec.WebSocket || spec.Target.Kind != routing.TargetRemote {
		p.respondError(w, http.StatusForbidden, metrics.ReasonTarget)
		return
	}

	w.Header().Set("X-Flow-Id", flowID)
	p.dispatchWebSocket(w, r, spec, spec.Target.Remote)
}

// ListenAndServeTLS starts the TLS-terminating HTTPS listener on addr,
// resolving certificates per-handshake through the proxy's cert
// registry and logging each request through the access logger. It
// blocks until ctx is cancelled or the listener fails.
func (p *Proxy) ListenAndServeTLS(ctx context.Context, addr string) error {
	tlsCfg := &tls.Config{
		GetCertificate: p.certRegistry.GetCertFromHello,
		MinVersion:     tls.VersionTLS12,
	}

	srv := &http.Server{
		Addr:      addr,
		Handler:   logging.NewHandler(p),
		TLSConfig: tlsCfg,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("proxy: shutdown: %v", err)
		}
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if p.proxyProtocol {
		ln = &proxyproto.Listener{Listener: ln}
	}

	return srv.ServeTLS(ln, "", "")
}
