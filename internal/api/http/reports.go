package http

import (
	nethttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/report"
)

// MountReports serves region reports:
//
//	GET /{region}           score now, archive, return the HTML page
//	GET /{region}/archive   list archived report keys
//	GET /archive/*          fetch one archived report by key
func MountReports(r chi.Router, svc *assess.Service, ar *report.Archiver) {
	r.Get("/{region}", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		a, err := svc.InvestmentScore(r.Context(), chi.URLParam(r, "region"), paramsFromQuery(r))
		if err != nil {
			fail(w, r, err)
			return
		}
		page, err := report.HTML(a)
		if err != nil {
			fail(w, r, err)
			return
		}
		key, err := ar.Archive(a)
		if err != nil {
			fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Report-Key", key)
		_, _ = w.Write(page)
	})

	r.Get("/{region}/archive", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		name := chi.URLParam(r, "region")
		if _, ok := svc.Regions().Provinces.Lookup(name); !ok {
			fail(w, r, assess.ErrInvalidRegion)
			return
		}
		keys, err := ar.List(name)
		if err != nil {
			fail(w, r, err)
			return
		}
		if keys == nil {
			keys = []string{}
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{"reports": keys})
	})

	r.Get("/archive/*", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if !strings.HasPrefix(key, "reports/") {
			key = "reports/" + key
		}
		page, err := ar.Open(key)
		if err != nil {
			writeError(w, nethttp.StatusNotFound, "report not found")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}
