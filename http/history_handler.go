package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-intel/internal/store"
)

type HistoryDeps struct {
	Store *store.Store // nil when persistence is disabled
}

// RegisterHistory serves recent lookups and batch runs from Postgres.
func RegisterHistory(r chi.Router, d HistoryDeps) {
	r.Get("/history", func(w http.ResponseWriter, req *http.Request) {
		if d.Store == nil {
			render.Status(req, http.StatusNotImplemented)
			render.JSON(w, req, map[string]any{"error": "history_disabled", "detail": "no database configured"})
			return
		}
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		snapshots, err := d.Store.RecentSnapshots(req.Context(), limit)
		if err != nil {
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "history_error", "detail": err.Error()})
			return
		}
		jobs, err := d.Store.RecentBatchJobs(req.Context(), limit)
		if err != nil {
			render.Status(req, http.StatusInternalServerError)
			render.JSON(w, req, map[string]any{"error": "history_error", "detail": err.Error()})
			return
		}
		render.JSON(w, req, map[string]any{
			"ok":         true,
			"snapshots":  snapshots,
			"batch_jobs": jobs,
		})
	})
}
