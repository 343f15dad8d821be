package proxy

import (
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/edgerouter/edgerouter/metrics"
	"github.com/edgerouter/edgerouter/routing"
)

// isUpgradeRequest reports whether r asks to switch protocols, i.e.
// whether its Connection header contains the "Upgrade" token.
func isUpgradeRequest(r *http.Request) bool {
	for _, h := range r.Header.Values("Connection") {
		for _, token := range strings.Split(h, ",") {
			if strings.EqualFold(strings.TrimSpace(token), "Upgrade") {
				return true
			}
		}
	}
	return false
}

// getUpgradeRequest returns the requested protocol named by the Upgrade
// header, or "" if the request is not an upgrade request.
func getUpgradeRequest(r *http.Request) string {
	if !isUpgradeRequest(r) {
		return ""
	}
	return r.Header.Get("Upgrade")
}

// dispatchWebSocket proxies an upgrade request to origin by hijacking
// the client connection and splicing it to a new TCP connection to the
// upstream, after replaying the original request line and headers, with
// X-Forwarded-For and X-Forwarded-Host overwritten. A dial or handshake
// write failure closes the client connection with no body, per spec
// §4.4; a ResponseWriter that cannot be hijacked gets a 502 instead.
func (p *Proxy) dispatchWebSocket(w http.ResponseWriter, r *http.Request, spec *routing.Spec, origin string) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		p.respondError(w, http.StatusBadGateway, metrics.ReasonUpstream)
		return
	}
	closeClient := func() {
		if conn, _, err := hj.Hijack(); err == nil {
			conn.Close()
		}
	}

	upstreamConn, err := dialUpstream(origin, spec.Secure)
	if err != nil {
		log.Errorf("proxy: websocket dial to %s failed: %v", origin, err)
		closeClient()
		return
	}
	defer upstreamConn.Close()

	injectForwardingHeaders(r, r)
	if err := r.Write(upstreamConn); err != nil {
		log.Errorf("proxy: websocket handshake write to %s failed: %v", origin, err)
		closeClient()
		return
	}

	clientConn, clientBuf, err := hj.Hijack()
	if err != nil {
		log.Errorf("proxy: websocket hijack failed: %v", err)
		return
	}
	defer clientConn.Close()

	if clientBuf.Reader.Buffered() > 0 {
		if _, err := io.CopyN(upstreamConn, clientBuf.Reader, int64(clientBuf.Reader.Buffered())); err != nil {
			return
		}
	}

	splice(clientConn, upstreamConn)
}

// dialUpstream connects to origin, performing a TLS handshake when
// secure is set (spec.Secure, mirroring dispatchRemote's HTTP-engine
// contract) instead of always dialing plain TCP.
func dialUpstream(origin string, secure bool) (net.Conn, error) {
	target, err := url.Parse(origin)
	if err != nil || target.Host == "" {
		return nil, err
	}
	if secure {
		target.Scheme = "https"
	}

	host := target.Host
	if !strings.Contains(host, ":") {
		if target.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}

	if target.Scheme == "https" {
		serverName, _, err := net.SplitHostPort(host)
		if err != nil {
			serverName = host
		}
		return tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", host, &tls.Config{ServerName: serverName})
	}
	return net.DialTimeout("tcp", host, 10*time.Second)
}

// splice copies bytes in both directions until either side closes,
// blocking until both copies finish.
func splice(a, b net.Conn) {
	done := make(chan struct{}, 2)
	go func() {
		io.Copy(a, b)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(b, a)
		done <- struct{}{}
	}()
	<-done
	<-done
}
