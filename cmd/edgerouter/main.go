/*
This command provides an executable version of edgerouter, the
TLS-terminating reverse proxy implemented by the root package.

Every setting is read from the environment (package config); there are
no command-line flags. For the full list of recognized variables, see
the config package documentation.

To see which route document formats are accepted, see the loader
package documentation.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	log "github.com/sirupsen/logrus"

	edgerouter "github.com/edgerouter/edgerouter"
	"github.com/edgerouter/edgerouter/config"
)

var (
	version string
	commit  string
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		if version == "" {
			version = info.Main.Version
		}
		if commit == "" {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value[:min(8, len(setting.Value))]
					break
				}
			}
		}
	}
}

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("edgerouter: error processing config: %s", err)
	}

	log.Infof("edgerouter %s (commit %s, runtime %s)", version, commit, runtime.Version())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := edgerouter.Run(ctx, edgerouter.Options{Config: cfg}); err != nil {
		log.Fatal(err)
	}
}
