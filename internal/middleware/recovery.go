// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var panicsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "category_http_panics_total",
	Help: "Handler panics recovered by the server",
})

// Recoverer turns a handler panic into a logged stack trace and a JSON 500.
// When the handler already started its response the status cannot change,
// so only the log line is emitted. http.ErrAbortHandler is re-raised.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			panicsTotal.Inc()
			slog.Error("panic recovered",
				"error", fmt.Sprint(v),
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", RequestIDFrom(r.Context()),
				"response_started", rec.started(),
				"stack", string(debug.Stack()),
			)
			if rec.started() {
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"Internal Server Error"}`))
		}()

		next.ServeHTTP(rec, r)
	})
}
