package http

import (
	"context"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/greenscore/internal/region"
	"github.com/mind-engage/greenscore/internal/store"
)

type Historian interface {
	History(ctx context.Context, region string, limit int) ([]store.HistoryRow, error)
}

// GET /scores/{region}?limit=  and  /scores/{district}/{subdistrict}
func HistoryHandler(h Historian) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		key := region.Normalize(strings.Trim(chi.URLParam(r, "*"), "/"))
		if key == "" {
			writeError(w, nethttp.StatusBadRequest, "region required")
			return
		}
		limit := store.DefaultHistoryLimit
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
			limit = v
		}
		rows, err := h.History(r.Context(), key, limit)
		if err != nil {
			fail(w, r, err)
			return
		}
		if rows == nil {
			rows = []store.HistoryRow{}
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{"region": key, "scores": rows})
	}
}
