package http

import (
	"context"
	nethttp "net/http"
	"time"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// GET /healthz
func HealthHandler() nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) { w.WriteHeader(nethttp.StatusOK) }
}

// GET /readyz pings the database.
func ReadyHandler(db Pinger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			writeError(w, nethttp.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(nethttp.StatusOK)
	}
}
