package http

import (
	"encoding/json"
	"errors"
	nethttp "net/http"

	"github.com/phuslu/log"

	"github.com/mind-engage/greenscore/internal/assess"
)

func writeJSON(w nethttp.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w nethttp.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// fail maps service errors onto status codes.
func fail(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	if errors.Is(err, assess.ErrInvalidRegion) {
		writeError(w, nethttp.StatusNotFound, "Invalid region name")
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, nethttp.StatusInternalServerError, "internal error")
}
