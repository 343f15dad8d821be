/*
Package edgerouter implements a TLS-terminating reverse proxy that
dispatches inbound HTTPS and WebSocket traffic to one or more upstream
targets, based on a table of routes built from pattern matches on the
request path and optional host-header narrowing.

# Routing Mechanism

Each inbound connection is first matched to a TLS certificate by SNI
(package certregistry), then demultiplexed into a regular request or a
WebSocket upgrade. Every regular request passes through the admission
pipeline (package proxy): a global rate check, a path allow-list check,
route resolution by pattern and host, and a per-route CIDR check; a
WebSocket upgrade gets route resolution and the CIDR check only. A resolved
route is handed to the dispatcher, which either serves a local file,
invokes a route-supplied handler, or forwards the request to one member
of an upstream pool.

For further details, see the 'proxy' and 'routing' package documentation.

# Route Table

The route table (package routing) is an ordered set of (pattern,
route spec) entries built once from a snapshot and looked up linearly on
every request. It is read-only after construction; updating it means
rebuilding and swapping it, there is no incremental mutation.

# Hooks

A route may supply a request-rewrite hook, invoked before the proxied
request leaves, and a response-rewrite hook, invoked after the upstream
response arrives but before it is written back to the client. Both are
header-mutation-only: neither can buffer or replace the body. See
package filters.

# Running

edgerouter can be started with the default executable, cmd/edgerouter,
which reads its configuration from environment variables (package
config) and calls Run; Run loads the route table, TLS material and
static error bodies from disk (package loader) before serving.

	log.Fatal(edgerouter.Run(ctx, opts))

# Logging and Metrics

edgerouter logs access lines in Apache common log format (or JSON) and
application diagnostics through logrus; see package logging. Counters for
admitted/denied/rate-limited requests are exposed through package
metrics, both as Prometheus samples and as an internal EWMA used to
annotate access log entries with request latency.
*/
package edgerouter
