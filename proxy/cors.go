package proxy

import "net/http"

// applyCORS emits the reflective CORS headers spec §4.7 requires when a
// route's enableCors flag is set, before any rewriteResponse hook runs.
func applyCORS(w http.ResponseWriter, r *http.Request) {
	h := w.Header()

	if method := r.Header.Get("Access-Control-Request-Method"); method != "" {
		h.Set("Access-Control-Allow-Methods", method)
	}
	if headers := r.Header.Get("Access-Control-Request-Headers"); headers != "" {
		h.Set("Access-Control-Allow-Headers", headers)
	}
	if origin := r.Header.Get("Origin"); origin != "" {
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}
