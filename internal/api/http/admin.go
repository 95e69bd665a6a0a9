package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/phuslu/log"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/jobs"
)

// POST /admin/categories/refresh
func RefreshCategoriesHandler(svc *assess.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		t, err := svc.RefreshCategories(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("category refresh")
			writeError(w, nethttp.StatusServiceUnavailable, err.Error())
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"regions":  t.Len(),
			"built_at": t.BuiltAt().UTC().Format(time.RFC3339),
		})
	}
}

// POST /admin/batch/run starts a batch run in the background.
func BatchRunHandler(b *jobs.Batch) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if b.Running() {
			writeError(w, nethttp.StatusConflict, jobs.ErrRunning.Error())
			return
		}
		go func() {
			if _, err := b.RunOnce(context.WithoutCancel(r.Context())); err != nil {
				if errors.Is(err, jobs.ErrRunning) {
					return
				}
				log.Warn().Err(err).Msg("manual batch run")
			}
		}()
		writeJSON(w, nethttp.StatusAccepted, map[string]string{"status": "started"})
	}
}

// GET /admin/batch/last
func BatchLastHandler(b *jobs.Batch) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s, ok := b.Last()
		if !ok {
			writeError(w, nethttp.StatusNotFound, "no batch run yet")
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"run_id":      s.RunID,
			"scored":      s.Scored,
			"started_at":  s.Started.UTC().Format(time.RFC3339),
			"duration_ms": s.Duration.Milliseconds(),
		})
	}
}
