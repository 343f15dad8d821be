// Package logging provides the proxy's access log, in Apache Common Log
// Format or as JSON, and flow-ID generation for correlating a request
// across its proxied lifetime.
package logging

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	commonLogTimeFormat = "02/Jan/2006:15:04:05 -0700"
	unknown             = "-"
)

// AccessEntry carries everything needed to format one access log line.
type AccessEntry struct {
	Request      *http.Request
	ResponseSize int64
	StatusCode   int
	RequestTime  time.Time
	Duration     time.Duration
	AuthUser     string
}

// Options configures the package-level access logger. Init must be
// called once before LogAccess is used; a zero Options value logs
// Apache Common Log Format lines to os.Stderr.
type Options struct {
	AccessLogOutput        io.Writer
	AccessLogJSONEnabled   bool
	AccessLogJsonFormatter logrus.Formatter
	AccessLogFormatter     logrus.Formatter
	AccessLogStripQuery    bool

	ApplicationLogOutput        io.Writer
	ApplicationLogPrefix        string
	ApplicationLogJSONEnabled   bool
	ApplicationLogJsonFormatter logrus.Formatter
}

var accessLog = logrus.New()
var options Options

// Init installs the access logger's output and formatter. Safe to call
// more than once; the latest call wins.
func Init(o Options) {
	options = o

	out := o.AccessLogOutput
	if out == nil {
		out = os.Stderr
	}
	accessLog.Out = out

	switch {
	case o.AccessLogFormatter != nil:
		accessLog.Formatter = o.AccessLogFormatter
	case o.AccessLogJSONEnabled:
		if o.AccessLogJsonFormatter != nil {
			accessLog.Formatter = o.AccessLogJsonFormatter
		} else {
			accessLog.Formatter = &logrus.JSONFormatter{TimestampFormat: commonLogTimeFormat}
		}
	default:
		accessLog.Formatter = &plainFormatter{}
	}

	initApplicationLog(o)
}

// initApplicationLog wires the package-wide application logger, used by
// every other package via the top-level logrus.Info/.Error/etc. calls,
// per the teacher's convention of a single global logrus instance.
func initApplicationLog(o Options) {
	out := o.ApplicationLogOutput
	if out == nil {
		out = os.Stderr
	}
	logrus.SetOutput(out)

	switch {
	case o.ApplicationLogJSONEnabled:
		if o.ApplicationLogJsonFormatter != nil {
			logrus.SetFormatter(o.ApplicationLogJsonFormatter)
		} else {
			logrus.SetFormatter(&logrus.JSONFormatter{})
		}
	case o.ApplicationLogPrefix != "":
		logrus.SetFormatter(&prefixFormatter{prefix: o.ApplicationLogPrefix, inner: &logrus.TextFormatter{DisableTimestamp: true}})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{})
	}
}

// prefixFormatter prepends a fixed prefix to every formatted line,
// matching the teacher's ApplicationLogPrefix option.
type prefixFormatter struct {
	prefix string
	inner  logrus.Formatter
}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	b, err := f.inner.Format(e)
	if err != nil {
		return nil, err
	}
	return append([]byte(f.prefix), b...), nil
}

// LogAccess writes one access log entry. A nil entry is silently
// ignored, matching the proxy's behavior when a request never reached
// dispatch. additional fields are merged into the JSON-formatted
// output only.
func LogAccess(entry *AccessEntry, additional map[string]interface{}) {
	if entry == nil {
		return
	}

	host, method, uri, proto, userAgent, referer := unknown, unknown, unknown, unknown, unknown, unknown
	requestedHost := unknown
	flowID := unknown

	if entry.Request != nil {
		host = remoteHost(entry.Request)
		method = entry.Request.Method
		proto = entry.Request.Proto
		requestedHost = entry.Request.Host

		uri = entry.Request.RequestURI
		if options.AccessLogStripQuery {
			if idx := strings.Index(uri, "?"); idx >= 0 {
				uri = uri[:idx]
			}
		}

		if ua := entry.Request.Header.Get("User-Agent"); ua != "" {
			userAgent = ua
		}
		if ref := entry.Request.Header.Get("Referer"); ref != "" {
			referer = ref
		}
		if id := entry.Request.Header.Get("X-Flow-Id"); id != "" {
			flowID = id
		}
	}

	authUser := entry.AuthUser
	if authUser == "" {
		authUser = unknown
	}

	fields := logrus.Fields{
		"host":            host,
		"auth-user":       entry.AuthUser,
		"timestamp":       entry.RequestTime.Format(commonLogTimeFormat),
		"method":          method,
		"uri":             uri,
		"proto":           proto,
		"status":          entry.StatusCode,
		"response-size":   entry.ResponseSize,
		"referer":         referer,
		"user-agent":      userAgent,
		"duration":        entry.Duration.Milliseconds(),
		"requested-host":  requestedHost,
		"flow-id":         flowIDOrEmpty(flowID),
		"audit":           "",
	}
	for k, v := range additional {
		fields[k] = v
	}

	if options.AccessLogJSONEnabled {
		accessLog.WithFields(fields).Info("")
		return
	}

	accessLog.WithFields(logrus.Fields{
		"line": fmt.Sprintf(
			`%s - %s [%s] "%s %s %s" %d %d "%s" "%s" %d %s %s %s`,
			host, authUser, entry.RequestTime.Format(commonLogTimeFormat),
			method, uri, proto, entry.StatusCode, entry.ResponseSize,
			referer, userAgent, entry.Duration.Milliseconds(),
			requestedHost, flowID, unknown,
		),
	}).Info("")
}

func flowIDOrEmpty(id string) string {
	if id == unknown {
		return ""
	}
	return id
}

func remoteHost(r *http.Request) string {
	if h := r.Header.Get("X-Forwarded-For"); h != "" {
		return h
	}
	if r.RemoteAddr == "" {
		return unknown
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// plainFormatter renders the "line" field verbatim, one per record, in
// Apache Common Log Format.
type plainFormatter struct{}

func (f *plainFormatter) Format(e *logrus.Entry) ([]byte, error) {
	line, _ := e.Data["line"].(string)
	return []byte(line + "\n"), nil
}
