package loader

import (
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edgerouter/edgerouter/certregistry"
)

// LoadCertificates walks sslDir as a single synchronous pass — the spec
// flags the source's async directory scan racing stat calls as a bug to
// not replicate — installing:
//
//	<sslDir>/key.pem, <sslDir>/certificate.pem       -> default certificate
//	<sslDir>/<hostname>/key.pem, .../certificate.pem -> per-SNI-host certificate
//
// A missing sslDir is tolerated: the registry keeps its built-in
// development fallback.
func LoadCertificates(sslDir string, reg *certregistry.CertRegistry) error {
	if cert, ok, err := readKeyPair(sslDir); err != nil {
		return err
	} else if ok {
		reg.SetDefault(cert)
	}

	entries, err := os.ReadDir(sslDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loader: %s: %w", sslDir, err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		hostDir := filepath.Join(sslDir, e.Name())
		cert, ok, err := readKeyPair(hostDir)
		if err != nil {
			return err
		}
		if ok {
			reg.AddHost(e.Name(), cert)
		}
	}

	return nil
}

func readKeyPair(dir string) (*tls.Certificate, bool, error) {
	keyPath := filepath.Join(dir, "key.pem")
	certPath := filepath.Join(dir, "certificate.pem")

	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		return nil, false, nil
	}
	if _, err := os.Stat(certPath); os.IsNotExist(err) {
		return nil, false, nil
	}

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, false, fmt.Errorf("loader: loading key pair from %s: %w", dir, err)
	}
	return &cert, true, nil
}
