// Package certregistry implements the SNI-to-certificate lookup used by
// the TLS frontend: a host-name-keyed store of certificate/key pairs,
// with a default fallback used whenever no entry matches the name
// presented during the handshake.
package certregistry

import (
	"crypto/tls"
	"errors"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

const defaultKey = ""

var errCertNotFound = errors.New("certregistry: no certificate available")

// CertRegistry is a concurrency-safe SNI host name to certificate
// mapping. It tolerates being mutated while the listener is already
// serving traffic (entries may be added as the on-disk cert directory is
// scanned at startup); the steady-state access pattern is read-mostly.
type CertRegistry struct {
	mx     sync.RWMutex
	lookup map[string]*tls.Certificate
}

// NewCertRegistry returns a registry with no host entries. Until
// SetDefault is called, unmatched names resolve to a generated,
// self-signed fallback certificate, so a bare registry is still usable in
// a development setup.
func NewCertRegistry() *CertRegistry {
	r := &CertRegistry{lookup: make(map[string]*tls.Certificate)}
	r.lookup[defaultKey] = getFakeHostTLSCert("edgerouter.local")
	return r
}

// SetDefault installs the certificate served when no SNI host matches.
func (r *CertRegistry) SetDefault(cert *tls.Certificate) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.lookup[defaultKey] = cert
}

// AddHost installs or replaces the certificate for the given host name.
// The name is matched case-insensitively against the TLS ClientHello.
func (r *CertRegistry) AddHost(host string, cert *tls.Certificate) {
	key := strings.ToLower(host)
	r.mx.Lock()
	defer r.mx.Unlock()
	if _, exists := r.lookup[key]; exists {
		log.Debugf("replacing certificate for host %s", key)
	} else {
		log.Debugf("adding certificate for host %s", key)
	}
	r.lookup[key] = cert
}

func (r *CertRegistry) getCertByKey(key string) (*tls.Certificate, bool) {
	r.mx.RLock()
	defer r.mx.RUnlock()
	cert, ok := r.lookup[key]
	return cert, ok
}

// GetCertFromHello implements tls.Config.GetCertificate. It never returns
// a certificate belonging to an unrelated host: a miss falls through to
// the default entry only, never to some other host's material.
func (r *CertRegistry) GetCertFromHello(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	if cert, ok := r.getCertByKey(strings.ToLower(hello.ServerName)); ok {
		return cert, nil
	}
	if cert, ok := r.getCertByKey(defaultKey); ok {
		return cert, nil
	}
	return nil, errCertNotFound
}
