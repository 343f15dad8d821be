package edgerouter

import (
	"context"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/edgerouter/edgerouter/certregistry"
	"github.com/edgerouter/edgerouter/config"
	"github.com/edgerouter/edgerouter/loader"
	"github.com/edgerouter/edgerouter/logging"
	"github.com/edgerouter/edgerouter/metrics"
	"github.com/edgerouter/edgerouter/proxy"
	"github.com/edgerouter/edgerouter/ratelimit"
	"github.com/edgerouter/edgerouter/routing"
)

// Options assembles everything Run needs to start serving: a resolved
// Config and, separately, the logging setup a caller wants applied
// before anything is loaded from disk.
type Options struct {
	Config      *config.Config
	LoggingOpts logging.Options
}

// Run loads the route table, TLS material, and static error bodies
// named by opts.Config, then blocks serving HTTPS until ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	logging.Init(opts.LoggingOpts)
	opts.Config.Log()

	reg := certregistry.NewCertRegistry()
	if err := loader.LoadCertificates(opts.Config.SSLDir, reg); err != nil {
		return err
	}

	entries, err := loader.LoadRoutes(opts.Config.PathFile, opts.Config.PathsDir)
	if err != nil {
		return err
	}
	table, err := routing.Build(entries)
	if err != nil {
		return err
	}

	responses, err := loader.LoadResponses(opts.Config.ResponsesDir)
	if err != nil {
		return err
	}

	rl := ratelimit.New(ratelimit.Settings{MaxHits: int64(opts.Config.MaxCallsPerSecond)})
	defer rl.Close()

	promMetrics := metrics.NewPrometheus()

	p := proxy.New(proxy.Options{
		Table:           table,
		RateLimiter:     rl,
		Responses:       responses,
		Metrics:         promMetrics,
		UpstreamTimeout: opts.Config.UpstreamTimeout,
		CertRegistry:    reg,
		ProxyProtocol:   opts.Config.ProxyProtocol,
	})

	if opts.Config.MetricsAddr != "" {
		go serveMetrics(opts.Config.MetricsAddr, promMetrics)
	}

	addr := ":" + strconv.Itoa(opts.Config.Port)
	log.Infof("edgerouter: listening on %s", addr)
	return p.ListenAndServeTLS(ctx, addr)
}

func serveMetrics(addr string, m *metrics.Prometheus) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("edgerouter: metrics listener: %v", err)
	}
}

