// SPDX-License-Identifier: MIT
package server

import (
	"net/http"
	"time"

	"harp/internal/log"
)

// statusRecorder captures the status a handler writes so the request log
// can include it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogging emits one debug line per API request. Websocket upgrades
// pass through unwrapped: the recorder would hide the Hijacker the
// upgrade needs, and sessions log their own lifecycle anyway.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Debugf("server: %s %s %d %s",
			r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
