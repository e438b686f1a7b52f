package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/yourorg/property-intel/acumidata"
	"github.com/yourorg/property-intel/internal/batch"
	"github.com/yourorg/property-intel/internal/store"
)

type BatchDeps struct {
	Processor  *batch.Processor
	Store      *store.Store // optional job records
	DefaultEnv acumidata.Environment
}

const maxUploadBytes = 16 << 20

// RegisterBatch handles CSV uploads: one vendor call per row, failures
// isolated per row, results in input order. format=csv returns the enriched
// file; format=json returns per-row documents.
func RegisterBatch(r chi.Router, d BatchDeps) {
	r.Post("/batch", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_upload", "detail": err.Error()})
			return
		}

		desc, ok := acumidata.LookupEndpoint(req.FormValue("endpoint"))
		if !ok {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "unknown_endpoint", "endpoint": req.FormValue("endpoint")})
			return
		}

		env := d.DefaultEnv
		if v := req.FormValue("environment"); v != "" {
			parsed, err := acumidata.ParseEnvironment(v)
			if err != nil {
				writeError(w, req, err)
				return
			}
			env = parsed
		}

		file, header, err := req.FormFile("file")
		if err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "file_required", "detail": "multipart field 'file' with a CSV is required"})
			return
		}
		defer file.Close()

		rows, err := d.Processor.ReadCSV(file)
		if err != nil {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "invalid_csv", "detail": err.Error()})
			return
		}

		started := time.Now()
		results := d.Processor.Run(req.Context(), desc, env, rows)

		okRows := 0
		for _, res := range results {
			if res.Err == "" {
				okRows++
			}
		}

		if d.Store != nil {
			rec := store.BatchJobRecord{
				ID:          uuid.New().String(),
				Filename:    header.Filename,
				Endpoint:    desc.Name,
				Environment: string(env),
				TotalRows:   len(results),
				OKRows:      okRows,
				FailedRows:  len(results) - okRows,
				StartedAt:   started,
				FinishedAt:  time.Now(),
			}
			if err := d.Store.InsertBatchJob(req.Context(), rec); err != nil {
				d.Processor.Log.Warn("batch job record failed", "err", err)
			}
		}

		if req.FormValue("format") == "json" {
			render.JSON(w, req, map[string]any{
				"ok":       true,
				"endpoint": desc.Name,
				"total":    len(results),
				"failed":   len(results) - okRows,
				"results":  jsonResults(results),
			})
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "enriched_"+desc.Name+".csv"))
		if err := batch.WriteCSV(w, desc, results); err != nil {
			d.Processor.Log.Warn("batch csv write failed", "err", err)
		}
	})
}

type rowDoc struct {
	Address string            `json:"address"`
	City    string            `json:"city"`
	State   string            `json:"state"`
	Zip     string            `json:"zip"`
	Report  *acumidata.Report `json:"report,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func jsonResults(results []batch.RowResult) []rowDoc {
	out := make([]rowDoc, 0, len(results))
	for _, res := range results {
		out = append(out, rowDoc{
			Address: res.Row.Address,
			City:    res.Row.City,
			State:   res.Row.State,
			Zip:     res.Row.Zip,
			Report:  res.Report,
			Error:   res.Err,
		})
	}
	return out
}
