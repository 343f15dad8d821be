// Package config resolves the proxy's startup configuration from its
// environment, in the teacher's spirit of a single resolved Config
// struct logged once at startup — but sourced from environment
// variables rather than CLI flags, per this proxy's external interface.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Config holds every environment-derived startup parameter.
type Config struct {
	Port                 int
	MaxCallsPerSecond    int
	PathFile             string
	SSLDir               string
	ResponsesDir         string
	PathsDir             string
	PluginDir            string
	ProxyProtocol        bool
	MetricsAddr          string
	UpstreamTimeout      time.Duration
}

const (
	defaultPort              = 443
	defaultMaxCallsPerSecond = 1000
	defaultPathFile          = "paths.json"
	defaultSSLDir            = "./ssl"
	defaultResponsesDir      = "./responses"
	defaultPathsDir          = "./paths"
	defaultPluginDir         = "./plugins"
	defaultUpstreamTimeout   = 30 * time.Second
)

// New resolves a Config from the process environment, applying the
// spec's documented defaults for any variable left unset.
func New() (*Config, error) {
	cfg := &Config{
		Port:              defaultPort,
		MaxCallsPerSecond: defaultMaxCallsPerSecond,
		PathFile:          defaultPathFile,
		SSLDir:            defaultSSLDir,
		ResponsesDir:      defaultResponsesDir,
		PathsDir:          defaultPathsDir,
		PluginDir:         defaultPluginDir,
		UpstreamTimeout:   defaultUpstreamTimeout,
	}

	var err error
	if cfg.Port, err = envInt("PROXY_PORT", cfg.Port); err != nil {
		return nil, err
	}
	if cfg.MaxCallsPerSecond, err = envInt("PROXY_MAX_CALLS_PER_SECOND", cfg.MaxCallsPerSecond); err != nil {
		return nil, err
	}
	if v := os.Getenv("PATH_FILE"); v != "" {
		cfg.PathFile = v
	}
	if v := os.Getenv("PROXY_SSL_DIR"); v != "" {
		cfg.SSLDir = v
	}
	if v := os.Getenv("PROXY_RESPONSES_DIR"); v != "" {
		cfg.ResponsesDir = v
	}
	if v := os.Getenv("PROXY_PATHS_DIR"); v != "" {
		cfg.PathsDir = v
	}
	if v := os.Getenv("PROXY_PLUGIN_DIR"); v != "" {
		cfg.PluginDir = v
	}
	if cfg.ProxyProtocol, err = envBool("PROXY_PROXY_PROTOCOL", cfg.ProxyProtocol); err != nil {
		return nil, err
	}
	cfg.MetricsAddr = os.Getenv("PROXY_METRICS_ADDR")
	if v := os.Getenv("PROXY_UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PROXY_UPSTREAM_TIMEOUT %q: %w", v, err)
		}
		cfg.UpstreamTimeout = d
	}

	return cfg, nil
}

// Log writes the resolved configuration to the application log at Info
// level, once, the way the teacher logs its own flag-derived Config.
func (c *Config) Log() {
	log.Infof("config: port=%d max_calls_per_second=%d path_file=%s ssl_dir=%s responses_dir=%s paths_dir=%s plugin_dir=%s proxy_protocol=%t metrics_addr=%q upstream_timeout=%s",
		c.Port, c.MaxCallsPerSecond, c.PathFile, c.SSLDir, c.ResponsesDir, c.PathsDir, c.PluginDir, c.ProxyProtocol, c.MetricsAddr, c.UpstreamTimeout)
}

func envInt(name string, defaultValue int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", name, v, err)
	}
	return n, nil
}

func envBool(name string, defaultValue bool) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q: %w", name, v, err)
	}
	return b, nil
}
