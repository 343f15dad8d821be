package proxy

import (
	"math/rand"
	"net/http"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/edgerouter/edgerouter/metrics"
	edgenet "github.com/edgerouter/edgerouter/net"
	"github.com/edgerouter/edgerouter/routing"
)

// dispatch selects and runs the dispatch mode named by spec.Target,
// per spec §4.6, having already passed admission. flowID is attached
// to the access log entry and surfaced as the X-Flow-Id response
// header. A panic raised while dispatching is recovered and answered
// with a 502.
func (p *Proxy) dispatch(w http.ResponseWriter, r *http.Request, spec *routing.Spec, flowID string) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Errorf("proxy: recovered panic dispatching %s: %v", spec.Pattern, rec)
			p.respondError(w, http.StatusBadGateway, metrics.ReasonUpstream)
		}
	}()

	r.Header.Set("X-Flow-Id", flowID)
	w.Header().Set("X-Flow-Id", flowID)

	switch spec.Target.Kind {
	case routing.TargetHandler:
		p.dispatchHandler(w, r, spec)
	case routing.TargetFile:
		p.dispatchFile(w, spec)
	case routing.TargetRemote:
		p.dispatchRemote(w, r, spec, spec.Target.Remote, flowID)
	case routing.TargetPool:
		if len(spec.Target.Pool) == 0 {
			p.respondError(w, http.StatusForbidden, metrics.ReasonTarget)
			return
		}
		origin := spec.Target.Pool[rand.Intn(len(spec.Target.Pool))]
		p.dispatchRemote(w, r, spec, origin, flowID)
	default:
		p.respondError(w, http.StatusForbidden, metrics.ReasonTarget)
	}
}

func (p *Proxy) dispatchHandler(w http.ResponseWriter, r *http.Request, spec *routing.Spec) {
	if spec.Target.Handler == nil {
		p.respondError(w, http.StatusForbidden, metrics.ReasonTarget)
		return
	}

	future := spec.Target.Handler(w, r)
	result := <-future
	if result.Err != nil {
		p.respondError(w, http.StatusBadGateway, metrics.ReasonUpstream)
		return
	}

	contentType := spec.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Body)
}

func (p *Proxy) dispatchFile(w http.ResponseWriter, spec *routing.Spec) {
	body, err := os.ReadFile(spec.Target.File)
	if err != nil {
		p.respondError(w, http.StatusNotFound, metrics.ReasonNoRoute)
		return
	}

	contentType := spec.ContentType
	if contentType == "" {
		contentType = "text/plain"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// injectForwardingHeaders overwrites any client-supplied x-forwarded-for
// / x-forwarded-host with the proxy's own view of the request, per spec
// §4.6.
func injectForwardingHeaders(upstreamReq *http.Request, inboundReq *http.Request) {
	peer, err := edgenet.PeerAddr(inboundReq)
	if err == nil {
		upstreamReq.Header.Set("X-Forwarded-For", peer.String())
	} else {
		upstreamReq.Header.Del("X-Forwarded-For")
	}
	upstreamReq.Header.Set("X-Forwarded-Host", inboundReq.Host)
}
